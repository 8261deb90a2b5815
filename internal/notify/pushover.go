package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/msgrelay/msgrelay/internal/config"
	"github.com/msgrelay/msgrelay/internal/logging"
)

// pushoverAPIURL is overridable in tests.
var pushoverAPIURL = "https://api.pushover.net/1/messages.json"

// pushoverSound accompanies every message.
const pushoverSound = "bugle"

// PushoverResponse is the decoded provider reply. Success is classified
// purely on StatusCode == 200; the provider-side Status and Errors
// fields are carried for inspection.
type PushoverResponse struct {
	StatusCode int      `json:"-"`
	Status     int      `json:"status"`
	Request    string   `json:"request"`
	Errors     []string `json:"errors"`
}

// Successful reports whether the API accepted the message.
func (r *PushoverResponse) Successful() bool {
	return r.StatusCode == http.StatusOK
}

// Pushover dispatches push notifications through the Pushover API.
// Credentials fall back to PUSHOVER_API_KEY / PUSHOVER_USER_KEY via the
// Store.
type Pushover struct {
	// Store provides configuration fallback. Defaults to the process
	// environment.
	Store config.Store

	// Explicit credentials, taking precedence over the Store.
	APIToken string
	UserKey  string

	// HTTPClient overrides the default client, for tests.
	HTTPClient *http.Client
}

// Send issues one form-encoded POST and returns the decoded response
// regardless of classification. A non-200 status is logged with the
// provider error detail but is not an error; the caller inspects the
// response. Unresolved credentials fail hard with
// MissingCredentialsError.
func (p *Pushover) Send(ctx context.Context, message string) (*PushoverResponse, error) {
	store := p.Store
	if store == nil {
		store = config.Env()
	}
	creds, err := resolveCredentials(store, "pushover", []credField{
		{name: "apiToken", explicit: p.APIToken, key: config.KeyPushoverAPIKey},
		{name: "userKey", explicit: p.UserKey, key: config.KeyPushoverUserKey},
	})
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("token", creds["apiToken"])
	form.Set("user", creds["userKey"])
	form.Set("message", message)
	form.Set("sound", pushoverSound)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pushoverAPIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result := &PushoverResponse{StatusCode: resp.StatusCode}
	// A non-JSON body (gateway errors and the like) still yields a
	// classified result; the decode failure is not worth surfacing.
	_ = json.NewDecoder(resp.Body).Decode(result)

	if result.Successful() {
		logging.Get().Debug().Msg("pushover message sent")
	} else {
		logging.Get().Error().
			Int("status_code", resp.StatusCode).
			Str("errors", strings.Join(result.Errors, "; ")).
			Msg("pushover api error")
	}
	return result, nil
}
