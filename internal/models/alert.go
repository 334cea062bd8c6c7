package models

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

const (
	AlertHighCPU        = "high_cpu"
	AlertHighMemory     = "high_memory"
	AlertLowDisk        = "low_disk"
	AlertBotDown        = "bot_down"
	AlertFrequentErrors = "frequent_errors"
	AlertServiceDown    = "service_down"
)

type Alert struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
}

func NewAlert(ts time.Time, alertType, message string, severity Severity) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Timestamp: ts,
		Type:      alertType,
		Message:   message,
		Severity:  severity,
	}
}
