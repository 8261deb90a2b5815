package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ApplyEnvOverrides reads configuration values from environment variables
// and overrides fields in the provided Config. Returns an error if parsing
// fails.
//
// Environment variables supported:
// - MSGRELAY_LOG_LEVEL (string, e.g. "debug")
// - MSGRELAY_LOG_FILE (string)
// - MSGRELAY_LISTEN_ADDR (string, e.g. ":8080")
// - MSGRELAY_METRICS_ENABLED (bool, "true"/"false")
// - MSGRELAY_DEFAULT_CHANNEL (string, e.g. "pushover")
// - MSGRELAY_SMTP_HOST (string)
// - MSGRELAY_SMTP_PORT (int, e.g. 465)
// - MSGRELAY_SMTP_SENDER (string)
// - MSGRELAY_SMTP_PASSWORD (string)
// - MSGRELAY_EMAIL_TO (comma-separated list)
//
// Channel credential keys (GMAIL_USERNAME, AZURE_SMS_CONNECTION_STRING,
// PUSHOVER_API_KEY, ...) are deliberately not handled here: those are
// read through the Store at credential-resolution time.
func ApplyEnvOverrides(cfg *Config) error {
	if err := applyBasicEnv(cfg); err != nil {
		return err
	}
	if err := applySMTPEnv(cfg); err != nil {
		return err
	}
	return nil
}

// applyBasicEnv consolidates logging and serve-mode env parsing
func applyBasicEnv(cfg *Config) error {
	if v := os.Getenv("MSGRELAY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MSGRELAY_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("MSGRELAY_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("MSGRELAY_DEFAULT_CHANNEL"); v != "" {
		cfg.DefaultChannel = v
	}
	if err := setBoolEnv("MSGRELAY_METRICS_ENABLED", func(b bool) { cfg.MetricsEnabled = b }); err != nil {
		return err
	}
	return nil
}

// applySMTPEnv consolidates email-related env parsing
func applySMTPEnv(cfg *Config) error {
	if v := os.Getenv("MSGRELAY_SMTP_HOST"); v != "" {
		cfg.SMTPHost = v
	}
	if v := os.Getenv("MSGRELAY_SMTP_SENDER"); v != "" {
		cfg.SMTPSender = v
	}
	if v := os.Getenv("MSGRELAY_SMTP_PASSWORD"); v != "" {
		cfg.SMTPPassword = v
	}
	if v := os.Getenv("MSGRELAY_SMTP_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MSGRELAY_SMTP_PORT: %w", err)
		}
		cfg.SMTPPort = p
	}
	if v := os.Getenv("MSGRELAY_EMAIL_TO"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.EmailTo = parts
	}
	return nil
}

// setBoolEnv is a small helper to parse boolean environment variables
func setBoolEnv(env string, setter func(bool)) error {
	if v := os.Getenv(env); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env, err)
		}
		setter(b)
	}
	return nil
}
