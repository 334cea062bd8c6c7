package logscan

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"botwatch/internal/models"
)

// tailReadBytes bounds how much of the log file is read per analysis,
// independent of the line cap.
const tailReadBytes = 256 * 1024

// Analyzer scans the tail of the bot's append-only log for recent errors,
// warnings and the last successful publish.
type Analyzer struct {
	path      string
	tailLines int
	window    time.Duration
	marker    string
	log       *slog.Logger
}

func New(path string, tailLines int, window time.Duration, successMarker string, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		path:      path,
		tailLines: tailLines,
		window:    window,
		marker:    successMarker,
		log:       logger,
	}
}

// Analyze reads the last tailLines lines of the log and counts ERROR and
// WARNING records whose timestamp falls within the trailing window, measured
// from now. The boundary is exclusive: a line stamped exactly window ago is
// not counted. A missing or unreadable log yields a zero analysis.
func (a *Analyzer) Analyze(now time.Time) models.LogAnalysis {
	var analysis models.LogAnalysis

	lines, err := readTail(a.path, a.tailLines)
	if err != nil {
		if !os.IsNotExist(err) {
			a.log.Warn("log file unreadable", "path", a.path, "err", err)
		}
		return analysis
	}

	cutoff := now.Add(-a.window)
	for _, line := range lines {
		ts, level, ok := parseLine(line)
		if ok && ts.After(cutoff) {
			switch level {
			case "ERROR":
				analysis.ErrorCount++
				analysis.RecentErrors = append(analysis.RecentErrors, strings.TrimSpace(line))
			case "WARNING":
				analysis.WarningCount++
			}
		}

		// Last activity is scanned across the whole tail, not time-windowed.
		if a.marker != "" && strings.Contains(line, a.marker) {
			if raw, _, found := strings.Cut(line, " - "); found {
				analysis.LastActivity = strings.TrimSpace(raw)
			}
		}
	}
	return analysis
}

// parseLine extracts the timestamp and level token from a log record of the
// form "<timestamp> - <name> - <LEVEL> - <message>". Lines that do not parse
// are skipped by the caller, never counted.
func parseLine(line string) (time.Time, string, bool) {
	parts := strings.SplitN(line, " - ", 4)
	if len(parts) < 3 {
		return time.Time{}, "", false
	}

	ts, err := parseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, "", false
	}
	return ts, strings.TrimSpace(parts[2]), true
}

func parseTimestamp(raw string) (time.Time, error) {
	// Python's logging default stamps milliseconds after a comma.
	raw = strings.Replace(raw, ",", ".", 1)

	layouts := []string{
		"2006-01-02 15:04:05.000",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		time.RFC3339,
	}
	var err error
	for _, layout := range layouts {
		var ts time.Time
		if ts, err = time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// readTail returns up to maxLines complete lines from the end of the file,
// reading at most tailReadBytes.
func readTail(path string, maxLines int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	offset := int64(0)
	if info.Size() > tailReadBytes {
		offset = info.Size() - tailReadBytes
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	if offset > 0 && len(lines) > 0 {
		// The first line is almost certainly cut mid-record.
		lines = lines[1:]
	}

	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	if len(out) > maxLines {
		out = out[len(out)-maxLines:]
	}
	return out, nil
}
