package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 80.0, cfg.CPUThreshold)
	assert.Equal(t, 85.0, cfg.MemoryThreshold)
	assert.Equal(t, 90.0, cfg.DiskThreshold)
	assert.Equal(t, 5, cfg.ErrorThreshold)
	assert.Equal(t, 100, cfg.LogTailLines)
	assert.Equal(t, time.Hour, cfg.LogWindow)
	assert.Equal(t, 5*time.Minute, cfg.Interval)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Empty(t, cfg.AlertRecipients)
	assert.Empty(t, cfg.ContentMgmtURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CPU_THRESHOLD", "70.5")
	t.Setenv("ERROR_THRESHOLD", "10")
	t.Setenv("MONITOR_INTERVAL", "90s")
	t.Setenv("ALERT_RECIPIENTS", "a@example.com, b@example.com ,")
	t.Setenv("CONTENT_MGMT_URL", "https://blog.example.com/xmlrpc.php")

	cfg := Load()

	assert.Equal(t, 70.5, cfg.CPUThreshold)
	assert.Equal(t, 10, cfg.ErrorThreshold)
	assert.Equal(t, 90*time.Second, cfg.Interval)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AlertRecipients)
	assert.Equal(t, "https://blog.example.com/xmlrpc.php", cfg.ContentMgmtURL)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CPU_THRESHOLD", "lots")
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("MONITOR_INTERVAL", "soon")

	cfg := Load()

	assert.Equal(t, 80.0, cfg.CPUThreshold)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 5*time.Minute, cfg.Interval)
}
