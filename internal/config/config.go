package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for msgrelay.
type Config struct {
	// Logging
	LogLevel string `json:"log_level" yaml:"log_level"` // "debug", "info", "warn", "error"
	LogFile  string `json:"log_file" yaml:"log_file"`

	// Serve mode
	ListenAddr     string `json:"listen_addr" yaml:"listen_addr"`
	MetricsEnabled bool   `json:"metrics_enabled" yaml:"metrics_enabled"`

	// DefaultChannel is used when a send request does not name one.
	DefaultChannel string `json:"default_channel" yaml:"default_channel"` // "email", "gmail", "sms", "pushover"

	// Generic SMTP email. All fields are explicit; this channel has no
	// environment fallback.
	SMTPHost     string   `json:"smtp_host" yaml:"smtp_host"`
	SMTPPort     int      `json:"smtp_port" yaml:"smtp_port"`
	SMTPSender   string   `json:"smtp_sender" yaml:"smtp_sender"`
	SMTPPassword string   `json:"smtp_password" yaml:"smtp_password"`
	EmailTo      []string `json:"email_to" yaml:"email_to"`

	// Gmail convenience channel.
	GmailSender   string `json:"gmail_sender" yaml:"gmail_sender"`
	GmailPassword string `json:"gmail_password" yaml:"gmail_password"`

	// SMS via Azure Communication Services.
	SMSConnectionString string   `json:"sms_connection_string" yaml:"sms_connection_string"`
	SMSFromNumber       string   `json:"sms_from_number" yaml:"sms_from_number"`
	SMSTo               []string `json:"sms_to" yaml:"sms_to"`

	// Pushover.
	PushoverToken string `json:"pushover_token" yaml:"pushover_token"`
	PushoverUser  string `json:"pushover_user" yaml:"pushover_user"`
}

// DefaultConfig returns a sane default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",

		// Implicit-TLS SMTP submission port, matches most providers.
		SMTPPort: 465,

		// Serve mode is opt-in; an empty listen address means one-shot.
		ListenAddr:     "",
		MetricsEnabled: false,
	}
}

// Validate returns a list of non-fatal configuration warnings, such as
// incomplete channel credential combinations.
func (c *Config) Validate() []string {
	var warnings []string
	checks := []struct {
		cond bool
		msg  string
	}{
		{c.SMTPHost != "" && c.SMTPSender == "", "smtp host provided but sender is missing"},
		{c.SMTPSender != "" && c.SMTPPassword == "", "smtp sender provided but password is missing"},
		{c.SMTPHost != "" && len(c.EmailTo) == 0, "smtp host provided but no recipients configured (email_to)"},
		{c.GmailSender != "" && c.GmailPassword == "", "gmail sender provided but password is missing"},
		{c.GmailPassword != "" && c.GmailSender == "", "gmail password provided but sender is missing"},
		{c.SMSConnectionString != "" && c.SMSFromNumber == "", "sms connection string provided but from number is missing"},
		{c.SMSFromNumber != "" && c.SMSConnectionString == "", "sms from number provided but connection string is missing"},
		{c.PushoverToken != "" && c.PushoverUser == "", "pushover token provided but user key is missing"},
		{c.PushoverUser != "" && c.PushoverToken == "", "pushover user key provided but token is missing"},
	}
	for _, ch := range checks {
		if ch.cond {
			warnings = append(warnings, ch.msg)
		}
	}
	return warnings
}

// Keys exposes the file-provided channel values under their canonical
// configuration keys so they can back a Store. Layer the environment on
// top to keep env precedence: Layered(Env(), cfg.Keys()).
func (c *Config) Keys() Map {
	return Map{
		KeyGmailUsername:            c.GmailSender,
		KeyGmailPassword:            c.GmailPassword,
		KeyAzureSMSConnectionString: c.SMSConnectionString,
		KeyAzureSMSNumber:           c.SMSFromNumber,
		KeySMSNumber:                strings.Join(c.SMSTo, ","),
		KeyPushoverAPIKey:           c.PushoverToken,
		KeyPushoverUserKey:          c.PushoverUser,
	}
}

// LoadConfigFromFile loads config from a YAML/JSON file.
func LoadConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
