package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// File locations, all relative to DataDir unless overridden.
	DataDir        string
	StatsFile      string
	AlertsFile     string
	HealthFile     string
	BotLogFile     string
	MonitorLogFile string

	// Evaluation thresholds.
	CPUThreshold    float64
	MemoryThreshold float64
	DiskThreshold   float64
	ErrorThreshold  int

	// Log analysis.
	LogTailLines  int
	LogWindow     time.Duration
	SuccessMarker string

	// Bot process matching.
	ProcessMarker string

	// Dependency probing.
	MessagingAPIURL  string
	InferenceAPIURL  string
	ContentMgmtURL   string
	InternetCheckURL string
	ProbeTimeout     time.Duration
	InternetTimeout  time.Duration

	// Notification (optional; notification is skipped when unset).
	SMTPHost        string
	SMTPPort        int
	EmailUser       string
	EmailPassword   string
	AlertRecipients []string

	// Scheduling.
	Interval time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() Config {
	_ = godotenv.Load()

	dataDir := getenv("MONITOR_DATA_DIR", "./logs")
	return Config{
		DataDir:        dataDir,
		StatsFile:      getenv("BOT_STATS_FILE", filepath.Join(dataDir, "bot_stats.json")),
		AlertsFile:     getenv("ALERTS_FILE", filepath.Join(dataDir, "alerts.json")),
		HealthFile:     getenv("HEALTH_REPORT_FILE", filepath.Join(dataDir, "health_report.json")),
		BotLogFile:     getenv("BOT_LOG_FILE", filepath.Join(dataDir, "bot.log")),
		MonitorLogFile: getenv("MONITOR_LOG_FILE", filepath.Join(dataDir, "monitor.log")),

		CPUThreshold:    getenvFloat("CPU_THRESHOLD", 80),
		MemoryThreshold: getenvFloat("MEMORY_THRESHOLD", 85),
		DiskThreshold:   getenvFloat("DISK_THRESHOLD", 90),
		ErrorThreshold:  getenvInt("ERROR_THRESHOLD", 5),

		LogTailLines:  getenvInt("LOG_TAIL_LINES", 100),
		LogWindow:     getenvDuration("LOG_WINDOW", time.Hour),
		SuccessMarker: getenv("LOG_SUCCESS_MARKER", "Article published successfully"),

		ProcessMarker: getenv("BOT_PROCESS_MARKER", "telegram_to_wordpress"),

		MessagingAPIURL:  getenv("MESSAGING_API_URL", "https://api.telegram.org"),
		InferenceAPIURL:  getenv("INFERENCE_API_URL", "https://api.groq.com"),
		ContentMgmtURL:   os.Getenv("CONTENT_MGMT_URL"),
		InternetCheckURL: getenv("INTERNET_CHECK_URL", "https://8.8.8.8"),
		ProbeTimeout:     getenvDuration("PROBE_TIMEOUT", 10*time.Second),
		InternetTimeout:  getenvDuration("INTERNET_TIMEOUT", 5*time.Second),

		SMTPHost:        getenv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:        getenvInt("SMTP_PORT", 587),
		EmailUser:       os.Getenv("ALERT_EMAIL_USER"),
		EmailPassword:   os.Getenv("ALERT_EMAIL_PASSWORD"),
		AlertRecipients: splitList(os.Getenv("ALERT_RECIPIENTS")),

		Interval: getenvDuration("MONITOR_INTERVAL", 5*time.Minute),
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return d
	}
	return n
}

func getenvFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return d
	}
	return f
}

func getenvDuration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return d
	}
	return dur
}
