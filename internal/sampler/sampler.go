package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"botwatch/internal/models"
)

// Sampler collects a point-in-time snapshot of host resources and of the
// monitored bot's processes. It holds no state between samples.
type Sampler struct {
	marker string
	log    *slog.Logger
	now    func() time.Time
}

func New(processMarker string, logger *slog.Logger) *Sampler {
	return &Sampler{marker: processMarker, log: logger, now: time.Now}
}

// Sample returns the current snapshot. ok is false when no usable system
// data could be gathered; the caller then skips resource checks for the
// cycle instead of failing it.
func (s *Sampler) Sample(ctx context.Context) (models.SystemSample, bool) {
	sample, err := s.collect(ctx)
	if err != nil {
		s.log.Error("system sample failed", "err", err)
		return models.SystemSample{}, false
	}
	return sample, true
}

func (s *Sampler) collect(ctx context.Context) (models.SystemSample, error) {
	var sample models.SystemSample
	sample.Timestamp = s.now()

	cpuPercent, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return sample, fmt.Errorf("get cpu percent: %w", err)
	}
	if len(cpuPercent) > 0 {
		sample.CPUPercent = cpuPercent[0]
	}

	memInfo, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return sample, fmt.Errorf("get memory usage: %w", err)
	}
	sample.MemoryPercent = memInfo.UsedPercent

	diskInfo, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return sample, fmt.Errorf("get disk usage: %w", err)
	}
	sample.DiskPercent = diskInfo.UsedPercent
	sample.DiskFreeBytes = diskInfo.Free

	// Uptime is informational only; a failure here does not spoil the sample.
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		sample.UptimeSeconds = uptime
	}

	procs, err := s.botProcesses(ctx)
	if err != nil {
		return sample, fmt.Errorf("enumerate processes: %w", err)
	}
	sample.BotProcesses = procs
	sample.BotRunning = len(procs) > 0

	return sample, nil
}

func (s *Sampler) botProcesses(ctx context.Context) ([]models.BotProcess, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	var found []models.BotProcess
	for _, p := range procs {
		cmdline, err := p.CmdlineSliceWithContext(ctx)
		if err != nil {
			// Processes can exit or deny access mid-scan; skip them.
			continue
		}
		if !IsBotProcess(cmdline, s.marker) {
			continue
		}

		name, _ := p.NameWithContext(ctx)
		cpuPct, _ := p.CPUPercentWithContext(ctx)
		memPct, _ := p.MemoryPercentWithContext(ctx)
		found = append(found, models.BotProcess{
			PID:           p.Pid,
			Name:          name,
			CPUPercent:    cpuPct,
			MemoryPercent: float64(memPct),
		})
	}
	return found, nil
}

// IsBotProcess reports whether a command line belongs to the monitored bot.
// The match is a heuristic over the invocation arguments; duplicate or stale
// matches are tolerated and surface as extra entries in the sample.
func IsBotProcess(cmdline []string, marker string) bool {
	if marker == "" {
		return false
	}
	for _, arg := range cmdline {
		if strings.Contains(arg, marker) {
			return true
		}
	}
	return false
}
