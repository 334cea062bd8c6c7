package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"botwatch/internal/cli"
	"botwatch/internal/config"
	"botwatch/internal/monitor"
)

var (
	intervalMinutes int
	singleCheck     bool
	dailyReport     bool
	prettyOutput    bool
)

var rootCmd = &cobra.Command{
	Use:   "botwatch",
	Short: "Health monitor for the publishing bot",
	Long: `botwatch is a self-monitoring companion for the unattended
content-publishing bot. It samples host resources, checks that the bot
process is alive, scans its log for recent errors, probes external
dependencies and records alerts for anything unhealthy.

Without flags it runs continuously, evaluating on a fixed interval and
producing a rollup report at every date change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if intervalMinutes > 0 {
			cfg.Interval = time.Duration(intervalMinutes) * time.Minute
		}

		switch {
		case singleCheck:
			return runSingleCheck(cfg)
		case dailyReport:
			return runDailyReport(cfg)
		default:
			return runContinuous(cfg)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntVarP(&intervalMinutes, "interval", "i", 0, "Monitoring interval in minutes (default 5)")
	rootCmd.Flags().BoolVar(&singleCheck, "single-check", false, "Run one health check, print the report and exit")
	rootCmd.Flags().BoolVar(&dailyReport, "daily-report", false, "Generate today's rollup report and exit")
	rootCmd.Flags().BoolVar(&prettyOutput, "pretty", false, "Human-readable output instead of JSON (with --single-check)")
}

func runSingleCheck(cfg config.Config) error {
	// stdout carries the report; logs stay on stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	report := monitor.New(cfg, logger).RunHealthCheck(context.Background())

	// Health problems are data, not a process failure: exit 0 either way.
	if prettyOutput {
		return cli.FormatHealthPretty(report)
	}
	return cli.FormatJSON(report)
}

func runDailyReport(cfg config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	report, err := monitor.New(cfg, logger).GenerateDailyReport(time.Now())
	if err != nil {
		return err
	}
	cli.FormatDailyReport(report)
	return nil
}

func runContinuous(cfg config.Config) error {
	logW, closeLog, err := monitorLogWriter(cfg.MonitorLogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := slog.New(slog.NewTextHandler(logW, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	monitor.New(cfg, logger).Run(ctx, cfg.Interval)
	return nil
}

// monitorLogWriter tees the monitor's own log to stderr and a log file, like
// the bot's other operational logs.
func monitorLogWriter(path string) (io.Writer, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open monitor log: %w", err)
	}
	return io.MultiWriter(os.Stderr, f), func() { f.Close() }, nil
}
