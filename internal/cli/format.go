package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"botwatch/internal/models"
)

func FormatJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatHealthPretty renders a health report for humans: colored verdict,
// issue list and the gathered snapshots.
func FormatHealthPretty(report models.HealthReport) error {
	fmt.Printf("Health check at %s\n", report.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("Overall status: %s\n\n", colorStatus(report.OverallStatus))

	if len(report.Issues) == 0 {
		fmt.Println("No issues detected")
	} else {
		fmt.Printf("Issues (%d):\n", len(report.Issues))
		for _, issue := range report.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	if sys := report.System; sys != nil {
		fmt.Fprintf(w, "CPU:\t%.1f%%\n", sys.CPUPercent)
		fmt.Fprintf(w, "Memory:\t%.1f%%\n", sys.MemoryPercent)
		fmt.Fprintf(w, "Disk:\t%.1f%% used, %s free\n", sys.DiskPercent, formatBytes(sys.DiskFreeBytes))
		fmt.Fprintf(w, "Uptime:\t%s\n", formatUptime(sys.UptimeSeconds))
		fmt.Fprintf(w, "Bot running:\t%s\n", formatBool(sys.BotRunning))
	} else {
		fmt.Fprintln(w, "System:\tno data available")
	}

	if logs := report.Logs; logs != nil {
		fmt.Fprintf(w, "Log errors (1h):\t%d\n", logs.ErrorCount)
		fmt.Fprintf(w, "Log warnings (1h):\t%d\n", logs.WarningCount)
		if logs.LastActivity != "" {
			fmt.Fprintf(w, "Last publish:\t%s\n", logs.LastActivity)
		}
	}

	for _, name := range []string{
		models.ServiceInternet,
		models.ServiceMessagingAPI,
		models.ServiceInferenceAPI,
		models.ServiceContentManagement,
	} {
		if up, ok := report.ExternalServices[name]; ok {
			fmt.Fprintf(w, "%s:\t%s\n", name, formatReachable(up))
		}
	}

	return w.Flush()
}

// FormatDailyReport summarizes a rollup on stdout.
func FormatDailyReport(report models.DailyReport) {
	fmt.Printf("Daily report for %s: %d alert(s)\n", report.Date, len(report.Alerts))
	for _, a := range report.Alerts {
		fmt.Printf("  %s  %-8s  %-16s  %s\n",
			a.Timestamp.Format("15:04:05"), a.Severity, a.Type, a.Message)
	}
}

func colorStatus(status models.HealthStatus) string {
	switch status {
	case models.StatusHealthy:
		return color.GreenString(string(status))
	case models.StatusWarning:
		return color.YellowString(string(status))
	case models.StatusCritical:
		return color.RedString(string(status))
	default:
		return string(status)
	}
}

func formatReachable(up bool) string {
	if up {
		return color.GreenString("reachable")
	}
	return color.RedString("unreachable")
}

func formatBool(v bool) string {
	if v {
		return color.GreenString("yes")
	}
	return color.RedString("no")
}

func formatBytes(bytes uint64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	val := float64(bytes)
	i := 0
	for val >= 1024 && i < len(units)-1 {
		val /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", val, units[i])
}

func formatUptime(seconds uint64) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
