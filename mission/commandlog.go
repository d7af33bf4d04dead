// mission/commandlog.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
)

// CommandRecord is one row of the command log: a single committed change
// to one of the instruments.
type CommandRecord struct {
	Time     time.Time `csv:"time"`
	Control  string    `csv:"control"`
	OldValue float64   `csv:"old_value"`
	NewValue float64   `csv:"new_value"`
	Unit     string    `csv:"unit"`
}

// CommandLog accumulates every command the operator issues during a
// session, for CSV export alongside the flight records. It is safe for
// concurrent use.
type CommandLog struct {
	mu      sync.Mutex
	records []CommandRecord
}

// Append adds a record for a command event; events of other types are
// ignored so the log can be fed straight from an event subscription.
func (c *CommandLog) Append(e Event) {
	if e.Type != CommandEvent {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, CommandRecord{
		Time:     time.Now(),
		Control:  e.Control,
		OldValue: e.OldValue,
		NewValue: e.NewValue,
		Unit:     string(e.Unit),
	})
}

func (c *CommandLog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Write exports the log as CSV with a header row.
func (c *CommandLog) Write(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gocsv.Marshal(c.records, w)
}

// Export writes the log to a CSV file at path.
func (c *CommandLog) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Write(f)
}
