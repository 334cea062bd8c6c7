package notifier

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"botwatch/internal/models"
)

func newTestEmail(user string, recipients []string) *Email {
	return NewEmail("smtp.example.com", 587, user, "secret", recipients,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEnabled(t *testing.T) {
	assert.True(t, newTestEmail("bot@example.com", []string{"ops@example.com"}).Enabled())
	assert.False(t, newTestEmail("", []string{"ops@example.com"}).Enabled())
	assert.False(t, newTestEmail("bot@example.com", nil).Enabled())
	assert.False(t, newTestEmail("", nil).Enabled())
}

func TestCompose(t *testing.T) {
	e := newTestEmail("bot@example.com", []string{"ops@example.com", "oncall@example.com"})
	alert := models.Alert{
		ID:        "a1",
		Timestamp: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Type:      models.AlertBotDown,
		Message:   "bot not running",
		Severity:  models.SeverityCritical,
	}

	msg := e.Compose(alert)

	assert.Contains(t, msg, "From: bot@example.com\r\n")
	assert.Contains(t, msg, "To: ops@example.com, oncall@example.com\r\n")
	assert.Contains(t, msg, "Subject: CRITICAL ALERT: publishing bot - bot_down\r\n")
	assert.Contains(t, msg, "Type: bot_down\r\n")
	assert.Contains(t, msg, "Severity: critical\r\n")
	assert.Contains(t, msg, "Time: 2026-03-14T12:00:00Z\r\n")
	assert.Contains(t, msg, "bot not running")
}

func TestNotifyFailureIsNonFatal(t *testing.T) {
	// Nothing listens on this address; delivery must fail fast and quietly.
	e := NewEmail("127.0.0.1", 1, "bot@example.com", "secret",
		[]string{"ops@example.com"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.Timeout = 200 * time.Millisecond

	alert := models.NewAlert(time.Now(), models.AlertBotDown, "bot not running", models.SeverityCritical)
	assert.False(t, e.Notify(alert))
}
