package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/msgrelay/msgrelay/internal/config"
)

func TestResolveExplicitWinsOverStore(t *testing.T) {
	store := config.Map{"KEY_SENDER": "from-store"}
	creds, err := resolveCredentials(store, "test", []credField{
		{name: "sender", explicit: "from-arg", key: "KEY_SENDER"},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if creds["sender"] != "from-arg" {
		t.Fatalf("expected explicit value to win, got %q", creds["sender"])
	}
}

func TestResolveFallsBackToStore(t *testing.T) {
	store := config.Map{"KEY_SENDER": "from-store"}
	creds, err := resolveCredentials(store, "test", []credField{
		{name: "sender", key: "KEY_SENDER"},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if creds["sender"] != "from-store" {
		t.Fatalf("expected store value, got %q", creds["sender"])
	}
}

func TestResolveMissingNamesField(t *testing.T) {
	_, err := resolveCredentials(config.Map{}, "test", []credField{
		{name: "password", key: "KEY_PASSWORD"},
	})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if !strings.Contains(err.Error(), "password") {
		t.Fatalf("expected error to name the field, got %v", err)
	}
}

// The resolver checks every field before failing so a single error can
// report all missing fields, not just the first.
func TestResolveReportsAllMissingFields(t *testing.T) {
	_, err := resolveCredentials(config.Map{}, "test", []credField{
		{name: "apiToken", key: "KEY_TOKEN"},
		{name: "userKey", key: "KEY_USER"},
	})
	var mce *MissingCredentialsError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingCredentialsError, got %v", err)
	}
	if len(mce.Missing) != 2 || mce.Missing[0] != "apiToken" || mce.Missing[1] != "userKey" {
		t.Fatalf("expected both fields reported, got %v", mce.Missing)
	}
	if mce.Channel != "test" {
		t.Fatalf("expected channel name, got %q", mce.Channel)
	}
}

func TestResolveOptionalFieldMayBeAbsent(t *testing.T) {
	creds, err := resolveCredentials(config.Map{}, "test", []credField{
		{name: "recipients", key: "KEY_RECIPIENTS", optional: true},
	})
	if err != nil {
		t.Fatalf("optional field must not fail resolution: %v", err)
	}
	if _, ok := creds["recipients"]; ok {
		t.Fatalf("expected no value for absent optional field")
	}
}

func TestResolveEmptyStoreValueIsAbsent(t *testing.T) {
	store := config.Map{"KEY_SENDER": ""}
	_, err := resolveCredentials(store, "test", []credField{
		{name: "sender", key: "KEY_SENDER"},
	})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected empty store value to count as absent, got %v", err)
	}
}

func TestParseRecipients(t *testing.T) {
	got := ParseRecipients(" a@example.com, b@example.com ,,c@example.com")
	if len(got) != 3 || got[0] != "a@example.com" || got[2] != "c@example.com" {
		t.Fatalf("unexpected recipients: %v", got)
	}
	if ParseRecipients("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
