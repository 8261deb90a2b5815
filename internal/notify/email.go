package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/msgrelay/msgrelay/internal/config"
	"github.com/msgrelay/msgrelay/internal/logging"
)

// defaultSMTPPort is the implicit-TLS submission port.
const defaultSMTPPort = 465

const (
	gmailHost = "smtp.gmail.com"
	gmailPort = 465
)

// EmailSession is one authenticated, encrypted connection to an SMTP
// server. Close must be safe to call on every exit path.
type EmailSession interface {
	Auth(user, password string) error
	SendMail(from string, to []string, msg []byte) error
	Close() error
}

// EmailTransport opens encrypted sessions to an SMTP endpoint.
type EmailTransport interface {
	Open(host string, port int) (EmailSession, error)
}

// tlsDialHook allows tests to stub the TLS dial.
var tlsDialHook = tls.Dial

// smtpTransport is the production EmailTransport: implicit TLS plus
// net/smtp on top of the secured connection.
type smtpTransport struct{}

func (smtpTransport) Open(host string, port int) (EmailSession, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := tlsDialHook("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return nil, fmt.Errorf("smtp: dial %s: %w", addr, err)
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("smtp: handshake with %s: %w", addr, err)
	}
	return &smtpSession{c: c, host: host}, nil
}

type smtpSession struct {
	c    *smtp.Client
	host string
}

func (s *smtpSession) Auth(user, password string) error {
	return s.c.Auth(smtp.PlainAuth("", user, password, s.host))
}

func (s *smtpSession) SendMail(from string, to []string, msg []byte) error {
	if err := s.c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := s.c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := s.c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (s *smtpSession) Close() error {
	return s.c.Quit()
}

// Email sends plain-text messages over SMTP. All credentials are
// explicit; this channel has no configuration fallback.
type Email struct {
	Host     string
	Port     int // defaults to 465
	Sender   string
	Password string

	// Transport overrides the SMTP implementation, for tests.
	Transport EmailTransport
}

// Send transmits one message to all recipients in a single SMTP
// session. The session is released on every exit path. The transport
// call either covers the whole recipient set or fails as a unit; there
// is no per-recipient outcome for email.
// The context is accepted for interface symmetry; net/smtp offers no
// cancellation points.
func (e *Email) Send(_ context.Context, msg Message, recipients ...string) error {
	if _, err := resolveCredentials(nil, "email", []credField{
		{name: "host", explicit: e.Host},
		{name: "sender", explicit: e.Sender},
		{name: "password", explicit: e.Password},
	}); err != nil {
		return err
	}
	if len(recipients) == 0 {
		return ErrMissingRecipients
	}

	port := e.Port
	if port == 0 {
		port = defaultSMTPPort
	}
	transport := e.Transport
	if transport == nil {
		transport = smtpTransport{}
	}

	envelope := buildEnvelope(e.Sender, recipients, msg)

	session, err := transport.Open(e.Host, port)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	if err := session.Auth(e.Sender, e.Password); err != nil {
		return fmt.Errorf("smtp: auth as %s: %w", e.Sender, err)
	}
	if err := session.SendMail(e.Sender, recipients, envelope); err != nil {
		return fmt.Errorf("smtp: send: %w", err)
	}

	logging.Get().Debug().Strs("recipients", recipients).Msg("email sent")
	return nil
}

// NewGmail resolves Gmail credentials from explicit arguments or the
// store (GMAIL_USERNAME / GMAIL_PASSWORD) and returns an Email pinned
// to smtp.gmail.com:465. Unresolved credentials fail hard with
// MissingCredentialsError.
func NewGmail(store config.Store, sender, password string) (*Email, error) {
	if store == nil {
		store = config.Env()
	}
	creds, err := resolveCredentials(store, "gmail", []credField{
		{name: "sender", explicit: sender, key: config.KeyGmailUsername},
		{name: "password", explicit: password, key: config.KeyGmailPassword},
	})
	if err != nil {
		return nil, err
	}
	return &Email{
		Host:     gmailHost,
		Port:     gmailPort,
		Sender:   creds["sender"],
		Password: creds["password"],
	}, nil
}

// buildEnvelope assembles a minimal MIME text message: From, To
// comma-joined, optional Subject, blank line, body.
func buildEnvelope(sender string, recipients []string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", sender)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(recipients, ", "))
	if msg.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	}
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
