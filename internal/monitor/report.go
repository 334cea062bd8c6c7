package monitor

import (
	"fmt"
	"path/filepath"
	"time"

	"botwatch/internal/jsonfile"
	"botwatch/internal/models"
)

// GenerateDailyReport builds the rollup for one calendar day from the alert
// history and the bot's self-reported stats, and persists it to a dated file
// in the data directory. Regenerating for the same day overwrites the file.
func (m *Monitor) GenerateDailyReport(date time.Time) (models.DailyReport, error) {
	alerts := m.store.FilterByDay(date)
	if alerts == nil {
		alerts = []models.Alert{}
	}

	report := models.DailyReport{
		Date:           date.Format("2006-01-02"),
		Alerts:         alerts,
		BotPerformance: m.readBotStats(),
	}

	path := filepath.Join(m.cfg.DataDir, fmt.Sprintf("daily_report_%s.json", report.Date))
	if err := jsonfile.WriteAtomic(path, report); err != nil {
		return report, fmt.Errorf("persist daily report: %w", err)
	}

	m.log.Info("daily report generated", "date", report.Date, "alerts", len(alerts), "path", path)
	return report, nil
}
