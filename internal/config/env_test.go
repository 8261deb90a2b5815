package config

import (
	"os"
	"testing"
)

func TestApplyEnvOverrides(t *testing.T) {
	cleanup := applyEnvSetup(t)
	defer cleanup()

	cfg := DefaultConfig()
	if err := ApplyEnvOverrides(cfg); err != nil {
		t.Fatalf("ApplyEnvOverrides failed: %v", err)
	}
	validateAppliedEnvOverrides(t, cfg)
}

func applyEnvSetup(t *testing.T) func() {
	t.Helper()
	os.Setenv("MSGRELAY_LOG_LEVEL", "debug")
	os.Setenv("MSGRELAY_LISTEN_ADDR", ":9090")
	os.Setenv("MSGRELAY_METRICS_ENABLED", "true")
	os.Setenv("MSGRELAY_DEFAULT_CHANNEL", "pushover")
	os.Setenv("MSGRELAY_SMTP_HOST", "smtp.example.com")
	os.Setenv("MSGRELAY_SMTP_PORT", "587")
	os.Setenv("MSGRELAY_EMAIL_TO", "a@example.com, b@example.com")
	return func() {
		os.Unsetenv("MSGRELAY_LOG_LEVEL")
		os.Unsetenv("MSGRELAY_LISTEN_ADDR")
		os.Unsetenv("MSGRELAY_METRICS_ENABLED")
		os.Unsetenv("MSGRELAY_DEFAULT_CHANNEL")
		os.Unsetenv("MSGRELAY_SMTP_HOST")
		os.Unsetenv("MSGRELAY_SMTP_PORT")
		os.Unsetenv("MSGRELAY_EMAIL_TO")
	}
}

func validateAppliedEnvOverrides(t *testing.T, cfg *Config) {
	t.Helper()
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("unexpected listen addr: %s", cfg.ListenAddr)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics enabled")
	}
	if cfg.DefaultChannel != "pushover" {
		t.Fatalf("unexpected default channel: %s", cfg.DefaultChannel)
	}
	if cfg.SMTPHost != "smtp.example.com" {
		t.Fatalf("unexpected smtp host: %s", cfg.SMTPHost)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("expected smtp port 587, got %d", cfg.SMTPPort)
	}
	if len(cfg.EmailTo) != 2 || cfg.EmailTo[1] != "b@example.com" {
		t.Fatalf("unexpected email_to: %v", cfg.EmailTo)
	}
}

func TestApplyEnvOverridesInvalidPort(t *testing.T) {
	os.Setenv("MSGRELAY_SMTP_PORT", "not-a-port")
	defer os.Unsetenv("MSGRELAY_SMTP_PORT")
	if err := ApplyEnvOverrides(DefaultConfig()); err == nil {
		t.Fatalf("expected error for invalid port")
	}
}

func TestStoreLayeringAndAbsence(t *testing.T) {
	file := Map{KeyPushoverAPIKey: "file-token", KeyPushoverUserKey: "file-user"}
	env := Map{KeyPushoverAPIKey: "env-token"}
	store := Layered(env, file)

	if v, _ := store.Get(KeyPushoverAPIKey); v != "env-token" {
		t.Fatalf("expected env precedence, got %q", v)
	}
	if v, _ := store.Get(KeyPushoverUserKey); v != "file-user" {
		t.Fatalf("expected file fallback, got %q", v)
	}
	if _, ok := store.Get(KeyGmailUsername); ok {
		t.Fatalf("expected absent key")
	}
}

func TestEnvStoreTreatsEmptyAsAbsent(t *testing.T) {
	os.Setenv("MSGRELAY_TEST_EMPTY", "")
	defer os.Unsetenv("MSGRELAY_TEST_EMPTY")
	if _, ok := Env().Get("MSGRELAY_TEST_EMPTY"); ok {
		t.Fatalf("empty env var must read as absent")
	}
}
