package models

import "time"

type BotProcess struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

type SystemSample struct {
	Timestamp     time.Time    `json:"timestamp"`
	CPUPercent    float64      `json:"cpu_percent"`
	MemoryPercent float64      `json:"memory_percent"`
	DiskPercent   float64      `json:"disk_percent"`
	DiskFreeBytes uint64       `json:"disk_free_bytes"`
	UptimeSeconds uint64       `json:"uptime_seconds"`
	BotProcesses  []BotProcess `json:"bot_processes"`
	BotRunning    bool         `json:"bot_running"`
}

type LogAnalysis struct {
	ErrorCount   int      `json:"error_count"`
	WarningCount int      `json:"warning_count"`
	RecentErrors []string `json:"recent_errors"`
	LastActivity string   `json:"last_activity,omitempty"`
}

// ServiceStatus maps a dependency name to whether it answered a probe.
// The key set is fixed: messaging-api, inference-api, content-management,
// internet.
type ServiceStatus map[string]bool

const (
	ServiceMessagingAPI      = "messaging-api"
	ServiceInferenceAPI      = "inference-api"
	ServiceContentManagement = "content-management"
	ServiceInternet          = "internet"
)

// BotStats is an opaque passthrough of counters the bot maintains about
// itself. The monitor never interprets the keys.
type BotStats map[string]any

type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusWarning  HealthStatus = "warning"
	StatusCritical HealthStatus = "critical"
)

type HealthReport struct {
	Timestamp        time.Time     `json:"timestamp"`
	OverallStatus    HealthStatus  `json:"overall_status"`
	Issues           []string      `json:"issues"`
	System           *SystemSample `json:"system,omitempty"`
	Logs             *LogAnalysis  `json:"logs,omitempty"`
	ExternalServices ServiceStatus `json:"external_services,omitempty"`
	BotStats         BotStats      `json:"bot_stats,omitempty"`
}

type DailyReport struct {
	Date           string   `json:"date"`
	Alerts         []Alert  `json:"alerts"`
	BotPerformance BotStats `json:"bot_performance,omitempty"`
}
