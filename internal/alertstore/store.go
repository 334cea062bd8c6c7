package alertstore

import (
	"log/slog"
	"os"
	"time"

	"botwatch/internal/jsonfile"
	"botwatch/internal/models"
)

// DefaultMaxAlerts caps the persisted alert history.
const DefaultMaxAlerts = 50

// Store is an append-only, size-bounded list of alerts backed by a JSON
// array file. Oldest records are evicted in insertion order once the cap is
// reached. Writes replace the file atomically.
type Store struct {
	path string
	max  int
	log  *slog.Logger
}

func New(path string, logger *slog.Logger) *Store {
	return &Store{path: path, max: DefaultMaxAlerts, log: logger}
}

// Load returns all stored alerts in insertion order. An absent or unreadable
// store is an empty list, never an error.
func (s *Store) Load() []models.Alert {
	var alerts []models.Alert
	if err := jsonfile.Read(s.path, &alerts); err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("alert store unreadable, starting empty", "path", s.path, "err", err)
		}
		return nil
	}
	return alerts
}

// Append adds an alert, trims the history to the most recent entries and
// persists the result.
func (s *Store) Append(alert models.Alert) error {
	alerts := append(s.Load(), alert)
	if len(alerts) > s.max {
		alerts = alerts[len(alerts)-s.max:]
	}
	return jsonfile.WriteAtomic(s.path, alerts)
}

// FilterByDay returns the stored alerts whose timestamp falls on the same
// calendar day as date, in insertion order.
func (s *Store) FilterByDay(date time.Time) []models.Alert {
	y, m, d := date.Date()
	var out []models.Alert
	for _, a := range s.Load() {
		ay, am, ad := a.Timestamp.Date()
		if ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	return out
}
