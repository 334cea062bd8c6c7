package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"botwatch/internal/alertstore"
	"botwatch/internal/config"
	"botwatch/internal/jsonfile"
	"botwatch/internal/logscan"
	"botwatch/internal/models"
	"botwatch/internal/notifier"
	"botwatch/internal/probe"
	"botwatch/internal/sampler"
)

type systemSampler interface {
	Sample(ctx context.Context) (models.SystemSample, bool)
}

type logAnalyzer interface {
	Analyze(now time.Time) models.LogAnalysis
}

type serviceProber interface {
	Check(ctx context.Context) models.ServiceStatus
}

type alertNotifier interface {
	Enabled() bool
	Notify(alert models.Alert) bool
}

// Monitor evaluates the health of the publishing bot and its host. It owns
// the alert store and triggers notification for critical conditions; all
// gathering is delegated to read-only probes.
type Monitor struct {
	cfg   config.Config
	store *alertstore.Store
	log   *slog.Logger

	sampler systemSampler
	logs    logAnalyzer
	prober  serviceProber
	notify  alertNotifier

	now func() time.Time
}

func New(cfg config.Config, logger *slog.Logger) *Monitor {
	return &Monitor{
		cfg:     cfg,
		store:   alertstore.New(cfg.AlertsFile, logger.With("module", "alerts")),
		log:     logger,
		sampler: sampler.New(cfg.ProcessMarker, logger.With("module", "sampler")),
		logs: logscan.New(cfg.BotLogFile, cfg.LogTailLines, cfg.LogWindow,
			cfg.SuccessMarker, logger.With("module", "logscan")),
		prober: probe.New(probe.Options{
			MessagingAPIURL:  cfg.MessagingAPIURL,
			InferenceAPIURL:  cfg.InferenceAPIURL,
			ContentMgmtURL:   cfg.ContentMgmtURL,
			InternetCheckURL: cfg.InternetCheckURL,
			ProbeTimeout:     cfg.ProbeTimeout,
			InternetTimeout:  cfg.InternetTimeout,
		}),
		notify: notifier.NewEmail(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser,
			cfg.EmailPassword, cfg.AlertRecipients, logger.With("module", "notifier")),
		now: time.Now,
	}
}

// Store exposes the alert history for reporting.
func (m *Monitor) Store() *alertstore.Store {
	return m.store
}

// RunHealthCheck performs one full evaluation cycle: gather, evaluate,
// persist. It always returns a report; a failed gather step degrades the
// report instead of failing the cycle.
func (m *Monitor) RunHealthCheck(ctx context.Context) models.HealthReport {
	m.log.Info("starting health check")

	var (
		sample   models.SystemSample
		sampleOK bool
		logs     models.LogAnalysis
		services models.ServiceStatus
		stats    models.BotStats
	)

	// The gather steps are independent read-only probes, each with its own
	// timeout, so they run concurrently within the cycle.
	var g errgroup.Group
	g.Go(func() error {
		sample, sampleOK = m.sampler.Sample(ctx)
		return nil
	})
	g.Go(func() error {
		logs = m.logs.Analyze(m.now())
		return nil
	})
	g.Go(func() error {
		services = m.prober.Check(ctx)
		return nil
	})
	g.Go(func() error {
		stats = m.readBotStats()
		return nil
	})
	_ = g.Wait()

	report := models.HealthReport{
		Timestamp:        m.now(),
		OverallStatus:    models.StatusHealthy,
		Issues:           []string{},
		Logs:             &logs,
		ExternalServices: services,
		BotStats:         stats,
	}

	critical := false
	addIssue := func(issue, alertType string, severity models.Severity) {
		report.Issues = append(report.Issues, issue)
		m.generateAlert(alertType, issue, severity)
		if severity == models.SeverityCritical {
			critical = true
		}
	}

	if sampleOK {
		report.System = &sample

		if sample.CPUPercent > m.cfg.CPUThreshold {
			addIssue(fmt.Sprintf("high CPU usage: %.1f%%", sample.CPUPercent),
				models.AlertHighCPU, models.SeverityWarning)
		}
		if sample.MemoryPercent > m.cfg.MemoryThreshold {
			addIssue(fmt.Sprintf("high memory usage: %.1f%%", sample.MemoryPercent),
				models.AlertHighMemory, models.SeverityWarning)
		}
		if sample.DiskPercent > m.cfg.DiskThreshold {
			addIssue(fmt.Sprintf("low disk space: %.1f%% used", sample.DiskPercent),
				models.AlertLowDisk, models.SeverityCritical)
		}
		if !sample.BotRunning {
			addIssue("bot not running", models.AlertBotDown, models.SeverityCritical)
		}
	}

	if logs.ErrorCount > m.cfg.ErrorThreshold {
		addIssue(fmt.Sprintf("frequent log errors: %d in the last hour", logs.ErrorCount),
			models.AlertFrequentErrors, models.SeverityWarning)
	}

	if down := downServices(services); len(down) > 0 {
		severity := models.SeverityWarning
		for _, name := range down {
			if name == models.ServiceInternet {
				severity = models.SeverityCritical
			}
		}
		addIssue(fmt.Sprintf("services unreachable: %s", strings.Join(down, ", ")),
			models.AlertServiceDown, severity)
	}

	switch {
	case critical:
		report.OverallStatus = models.StatusCritical
	case len(report.Issues) > 0:
		report.OverallStatus = models.StatusWarning
	}

	if err := jsonfile.WriteAtomic(m.cfg.HealthFile, report); err != nil {
		// Next cycle overwrites the report anyway.
		m.log.Error("persist health report", "err", err)
	}

	m.log.Info("health check completed", "status", report.OverallStatus, "issues", len(report.Issues))
	return report
}

// generateAlert records the alert, logs it at a severity-appropriate level
// and, for critical alerts with notification configured, attempts delivery.
// Delivery failure never aborts the cycle; the alert is stored regardless.
func (m *Monitor) generateAlert(alertType, message string, severity models.Severity) {
	alert := models.NewAlert(m.now(), alertType, message, severity)

	if err := m.store.Append(alert); err != nil {
		m.log.Error("persist alert", "type", alertType, "err", err)
	}

	if severity == models.SeverityCritical {
		m.log.Error("ALERT "+alertType, "message", message, "severity", severity)
	} else {
		m.log.Warn("ALERT "+alertType, "message", message, "severity", severity)
	}

	if severity == models.SeverityCritical && m.notify.Enabled() {
		m.notify.Notify(alert)
	}
}

func (m *Monitor) readBotStats() models.BotStats {
	var stats models.BotStats
	if err := jsonfile.Read(m.cfg.StatsFile, &stats); err != nil {
		if !os.IsNotExist(err) {
			m.log.Warn("bot stats unreadable", "path", m.cfg.StatsFile, "err", err)
		}
		return nil
	}
	return stats
}

func downServices(services models.ServiceStatus) []string {
	var down []string
	for name, up := range services {
		if !up {
			down = append(down, name)
		}
	}
	sort.Strings(down)
	return down
}
