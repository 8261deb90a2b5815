package notify

import (
	"context"
	"fmt"

	"github.com/msgrelay/msgrelay/internal/config"
	"github.com/msgrelay/msgrelay/internal/logging"
	"github.com/msgrelay/msgrelay/internal/phone"
)

// SMSResult is the per-recipient outcome reported by the SMS provider.
type SMSResult struct {
	Recipient   string
	Successful  bool
	ErrorDetail string
}

// SMSClient is the transport capability for sending one SMS batch. The
// returned slice carries one entry per recipient, in recipient order.
type SMSClient interface {
	Send(ctx context.Context, from string, to []string, body string) ([]SMSResult, error)
}

// SMS dispatches text messages through an SMS provider. Credentials
// fall back to AZURE_SMS_CONNECTION_STRING / AZURE_SMS_NUMBER, and
// recipients to SMS_NUMBER, via the Store.
type SMS struct {
	// Store provides configuration fallback. Defaults to the process
	// environment.
	Store config.Store

	// Explicit credentials, taking precedence over the Store.
	ConnectionString string
	FromNumber       string

	// NewClient builds the transport from a resolved connection string.
	// Defaults to the Azure Communication Services REST client.
	NewClient func(connectionString string) (SMSClient, error)
}

// Send delivers body to every recipient in one provider call and
// returns the per-recipient results in recipient order. Any invalid
// recipient number aborts the whole call before the transport is
// contacted. Individual delivery failures are logged and returned in
// the results, never converted to an error.
func (s *SMS) Send(ctx context.Context, body string, recipients ...string) ([]SMSResult, error) {
	store := s.Store
	if store == nil {
		store = config.Env()
	}

	to := recipients
	if len(to) == 0 {
		if v, ok := store.Get(config.KeySMSNumber); ok {
			to = ParseRecipients(v)
		}
	}
	if len(to) == 0 {
		return nil, ErrMissingRecipients
	}

	normalized, err := phone.NormalizeAll(to)
	if err != nil {
		return nil, err
	}

	creds, err := resolveCredentials(store, "sms", []credField{
		{name: "connectionString", explicit: s.ConnectionString, key: config.KeyAzureSMSConnectionString},
		{name: "fromNumber", explicit: s.FromNumber, key: config.KeyAzureSMSNumber},
	})
	if err != nil {
		return nil, err
	}

	from, err := phone.Normalize(creds["fromNumber"])
	if err != nil {
		return nil, fmt.Errorf("sms: from number: %w", err)
	}

	newClient := s.NewClient
	if newClient == nil {
		newClient = func(cs string) (SMSClient, error) { return NewAzureClient(cs) }
	}
	client, err := newClient(creds["connectionString"])
	if err != nil {
		return nil, fmt.Errorf("sms: client: %w", err)
	}

	results, err := client.Send(ctx, from, normalized, body)
	if err != nil {
		return nil, fmt.Errorf("sms: send: %w", err)
	}

	for _, r := range results {
		if r.Successful {
			logging.Get().Debug().Str("recipient", r.Recipient).Msg("sms sent")
		} else {
			logging.Get().Error().Str("recipient", r.Recipient).Str("detail", r.ErrorDetail).Msg("sms delivery failed")
		}
	}
	return results, nil
}
