package mailer

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(Config{From: "noreply@example.com"})
	assert.Error(t, err)

	_, err = New(Config{Username: "u", Password: "p"})
	assert.Error(t, err)

	m, err := New(Config{Username: "u", Password: "p", From: "noreply@example.com"})
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, m.cfg.Host)
	assert.Equal(t, DefaultPort, m.cfg.Port)
}

func TestSendWelcome(t *testing.T) {
	m, err := New(Config{Host: "smtp.example.com", Port: "587", Username: "u", Password: "p", From: "noreply@example.com"})
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, m.SendWelcome("ada@example.com", "Ada"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Welcome to Watchlist\r\n")
	assert.Contains(t, string(gotMsg), "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, string(gotMsg), "Welcome to Watchlist, Ada!")
}

func TestSendEmailErrors(t *testing.T) {
	m, err := New(Config{Username: "u", Password: "p", From: "noreply@example.com"})
	require.NoError(t, err)
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("535 auth failed") }

	assert.Error(t, m.SendEmail("", "subject", "body"))
	assert.Error(t, m.SendEmail("a@example.com", "", "body"))

	err = m.SendEmail("a@example.com", "subject", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")
}

func TestBuildMessagePlainText(t *testing.T) {
	msg := string(BuildMessage("a@example.com", "b@example.com", "Hi", "plain body"))
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, msg, "\r\n\r\nplain body\r\n")
}
