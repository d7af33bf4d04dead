// mission/commandlog_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"bytes"
	"strings"
	"testing"

	"github.com/avdeck/skydeck/units"
)

func TestCommandLog(t *testing.T) {
	var cl CommandLog

	cl.Append(Event{Type: CommandEvent, Control: "heading", OldValue: 0, NewValue: 95})
	cl.Append(Event{Type: CommandEvent, Control: "speed", OldValue: 45, NewValue: 80, Unit: units.Knots})
	cl.Append(Event{Type: StatusMessageEvent, WrittenText: "not a command"})

	if cl.Len() != 2 {
		t.Fatalf("log has %d records, expected 2", cl.Len())
	}

	var buf bytes.Buffer
	if err := cl.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 { // header plus two records
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "time,control,old_value,new_value,unit" {
		t.Errorf("header %q", lines[0])
	}
	if !strings.Contains(lines[1], "heading") || !strings.Contains(lines[1], "95") {
		t.Errorf("first record %q", lines[1])
	}
	if !strings.Contains(lines[2], "speed") || !strings.Contains(lines[2], "kts") {
		t.Errorf("second record %q", lines[2])
	}
}

func TestCommandLogEmpty(t *testing.T) {
	var cl CommandLog

	var buf bytes.Buffer
	if err := cl.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "time,control,old_value,new_value,unit" {
		t.Errorf("empty log wrote %q, expected just the header", got)
	}
}
