// Package mailer provides functionality to send emails over SMTP.
//
// Any relay that accepts PLAIN auth works. In development the defaults point at
// Mailtrap (smtp.mailtrap.io:2525), which captures messages in a test inbox
// instead of delivering them.
package mailer

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"
)

const (
	DefaultHost = "smtp.mailtrap.io"
	DefaultPort = "2525"
)

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends email through a single SMTP relay.
type Mailer struct {
	cfg  Config
	send sendFunc
}

// New creates a Mailer. Empty Host and Port fall back to Mailtrap.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("SMTP username and password must be provided")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("sender email address cannot be empty")
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}, nil
}

// SendEmail sends one message to recipient.
//
// The Content-Type is inferred from the body: bodies containing <html> or <p>
// are sent as text/html, everything else as text/plain.
//
// Returns an error if recipient or subject are empty, if the relay refuses
// the connection or the credentials, or if the send command fails.
func (m *Mailer) SendEmail(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	message := BuildMessage(recipient, m.cfg.From, subject, body)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendWelcome sends the greeting mailed after a successful sign-up.
func (m *Mailer) SendWelcome(recipient, displayName string) error {
	name := displayName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("<html><body><h1>Welcome to Watchlist, %s!</h1>"+
		"<p>Search for a movie and add it to your Favorites, Watched or Watch Later lists.</p>"+
		"</body></html>", html.EscapeString(name))
	return m.SendEmail(recipient, "Welcome to Watchlist", body)
}

// BuildMessage assembles the raw RFC 822 message.
func BuildMessage(recipient, sender, subject, body string) []byte {
	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	return []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, sender, subject, contentType, body))
}
