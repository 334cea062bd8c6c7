package monitor

import (
	"context"
	"time"
)

// Run executes evaluation cycles at the given interval until ctx is
// cancelled. The loop is the outermost failure boundary: a cycle that fails
// or panics is logged and skipped, never fatal. When the calendar date
// advances, one rollup is produced for the just-completed day before the
// loop continues.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	m.log.Info("starting continuous monitoring", "interval", interval)

	lastDay := dateOf(m.now())
	m.cycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitoring stopped")
			return
		case <-ticker.C:
			m.cycle(ctx)
			lastDay = m.rollupIfNewDay(lastDay)
		}
	}
}

// rollupIfNewDay generates the daily report for lastDay once the current
// date has advanced past it, and returns the new tracking date.
func (m *Monitor) rollupIfNewDay(lastDay time.Time) time.Time {
	today := dateOf(m.now())
	if !today.After(lastDay) {
		return lastDay
	}
	if _, err := m.GenerateDailyReport(lastDay); err != nil {
		m.log.Error("daily report failed", "date", lastDay.Format("2006-01-02"), "err", err)
	}
	return today
}

func (m *Monitor) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("health check cycle panicked, skipping", "panic", r)
		}
	}()
	m.RunHealthCheck(ctx)
}

func dateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
