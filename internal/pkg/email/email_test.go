package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg config.SMTPConfig, send sendFunc) *emailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)
	impl.send = send
	impl.backoff = time.Millisecond
	return impl
}

func TestSendPasswordReset_SkipsWhenSMTPNotConfigured(t *testing.T) {
	called := false
	svc := newTestService(t, config.SMTPConfig{}, func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	})

	err := svc.SendPasswordReset("an@example.com", "http://localhost:3000/reset?token=abc", time.Now())
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestSendPasswordReset_RendersLink(t *testing.T) {
	var sent []byte
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.local", Port: 25, From: "noreply@example.com", FromName: "Leave"},
		func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			assert.Equal(t, "smtp.local:25", addr)
			assert.Equal(t, []string{"an@example.com"}, to)
			sent = msg
			return nil
		})

	err := svc.SendPasswordReset("an@example.com", "http://localhost:3000/reset?token=abc", time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	body := string(sent)
	assert.True(t, strings.Contains(body, "token=abc"))
	assert.True(t, strings.Contains(body, "09:00 03/06/2024"))
}

func TestSendPasswordReset_RetriesThenFails(t *testing.T) {
	attempts := 0
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.local", Port: 25},
		func(string, smtp.Auth, string, []string, []byte) error {
			attempts++
			return errors.New("connection refused")
		})

	err := svc.SendPasswordReset("an@example.com", "http://x", time.Now())
	assert.Error(t, err)
	assert.Equal(t, maxRetries, attempts)
}
