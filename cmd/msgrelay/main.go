package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/msgrelay/msgrelay/internal/config"
	"github.com/msgrelay/msgrelay/internal/logging"
	"github.com/msgrelay/msgrelay/internal/notify"
	"github.com/msgrelay/msgrelay/internal/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	cfgFile := flag.String("config", "", "Path to config file")
	channel := flag.String("channel", "", "Channel to send on: email, gmail, sms, pushover")
	to := flag.String("to", "", "Comma-separated recipients")
	subject := flag.String("subject", "", "Email subject")
	body := flag.String("body", "", "Message body (read from stdin when empty)")
	listen := flag.String("listen", "", "Listen address for serve mode (e.g. :8080)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "Optional log file path")
	flag.Parse()

	// Best-effort .env load for local development; a missing file is fine.
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	// load from file if provided (overrides defaults)
	if *cfgFile != "" {
		c, err := config.LoadConfigFromFile(*cfgFile)
		if err != nil {
			log.Fatalf("failed loading config: %v", err)
		}
		cfg = c
	}

	// apply env var overrides (overrides file/defaults)
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		log.Fatalf("invalid environment configuration: %v", err)
	}

	// CLI flags have highest precedence (override env/file/defaults)
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	cleanup, err := logging.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer cleanup()

	for _, w := range cfg.Validate() {
		logging.Get().Warn().Msg(w)
	}

	// Env wins over file-provided credentials.
	store := config.Layered(config.Env(), cfg.Keys())

	if cfg.ListenAddr != "" {
		serve(cfg, store)
		return
	}

	msgBody, err := readBody(os.Stdin, *body)
	if err != nil {
		log.Fatalf("failed to read message body: %v", err)
	}

	ctx := context.Background()
	msg := notify.Message{Body: msgBody, Subject: *subject}
	if err := runSend(ctx, cfg, store, pickChannel(cfg, *channel), notify.ParseRecipients(*to), msg); err != nil {
		logging.Get().Error().Err(err).Msg("dispatch failed")
		os.Exit(1)
	}
}

func serve(cfg *config.Config, store config.Store) {
	h := server.New(cfg, store, Version)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	logging.Get().Info().Str("addr", cfg.ListenAddr).Msg("listening")
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// pickChannel prefers the flag, then the configured default.
func pickChannel(cfg *config.Config, flagVal string) string {
	if flagVal != "" {
		return flagVal
	}
	return cfg.DefaultChannel
}

// readBody returns the flag value when present, otherwise the trimmed
// contents of r (stdin).
func readBody(r io.Reader, flagVal string) (string, error) {
	if flagVal != "" {
		return flagVal, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	body := strings.TrimSpace(string(b))
	if body == "" {
		return "", fmt.Errorf("empty message body")
	}
	return body, nil
}

// runSend performs one dispatch and reports delivery problems as errors
// so the process exit code is meaningful.
func runSend(ctx context.Context, cfg *config.Config, store config.Store, channel string, recipients []string, msg notify.Message) error {
	switch channel {
	case "email":
		e := &notify.Email{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Sender:   cfg.SMTPSender,
			Password: cfg.SMTPPassword,
		}
		if len(recipients) == 0 {
			recipients = cfg.EmailTo
		}
		return e.Send(ctx, msg, recipients...)

	case "gmail":
		g, err := notify.NewGmail(store, cfg.GmailSender, cfg.GmailPassword)
		if err != nil {
			return err
		}
		return g.Send(ctx, msg, recipients...)

	case "sms":
		s := &notify.SMS{Store: store}
		results, err := s.Send(ctx, msg.Body, recipients...)
		if err != nil {
			return err
		}
		var delivered int
		for _, r := range results {
			if r.Successful {
				delivered++
			}
		}
		if delivered < len(results) {
			return fmt.Errorf("delivered %d of %d messages", delivered, len(results))
		}
		return nil

	case "pushover":
		p := &notify.Pushover{Store: store}
		res, err := p.Send(ctx, msg.Body)
		if err != nil {
			return err
		}
		if !res.Successful() {
			return fmt.Errorf("pushover api returned status %d", res.StatusCode)
		}
		return nil

	default:
		return fmt.Errorf("unknown channel %q (want email, gmail, sms, or pushover)", channel)
	}
}
