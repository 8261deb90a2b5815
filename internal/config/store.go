package config

import "os"

// Canonical configuration keys consulted by credential resolution.
// They match the environment variable names the resolver falls back to.
const (
	KeyGmailUsername            = "GMAIL_USERNAME"
	KeyGmailPassword            = "GMAIL_PASSWORD"
	KeyAzureSMSConnectionString = "AZURE_SMS_CONNECTION_STRING"
	KeyAzureSMSNumber           = "AZURE_SMS_NUMBER"
	KeySMSNumber                = "SMS_NUMBER"
	KeyPushoverAPIKey           = "PUSHOVER_API_KEY"
	KeyPushoverUserKey          = "PUSHOVER_USER_KEY"
)

// Store is a read-only source of named configuration values. Empty values
// are treated as absent so a blank environment variable never satisfies a
// required credential.
type Store interface {
	Get(key string) (string, bool)
}

type envStore struct{}

// Env returns a Store backed by the process environment.
func Env() Store { return envStore{} }

func (envStore) Get(key string) (string, bool) {
	v := os.Getenv(key)
	if v == "" {
		return "", false
	}
	return v, true
}

// Map is an in-memory Store for tests and file-seeded values.
type Map map[string]string

// Get implements Store.
func (m Map) Get(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

type layered []Store

// Layered returns a Store that consults the given stores in order and
// returns the first present value.
func Layered(stores ...Store) Store { return layered(stores) }

func (l layered) Get(key string) (string, bool) {
	for _, s := range l {
		if v, ok := s.Get(key); ok {
			return v, true
		}
	}
	return "", false
}
