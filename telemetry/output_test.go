package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/gridsoup/components"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil manager write: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil manager close: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 100), PreyCount: i}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	events := []Event{
		NewDeathEvent(7, 3, components.KindPrey, components.Position{X: 1, Y: 2}, CauseStarvation),
		NewReproductionEvent(7, components.KindPrey, 4),
	}
	if err := om.WriteEvents(events); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkExtinction, Tick: 9, Description: "Prey went extinct"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, "telemetry.csv"))
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,prey,pred") {
		t.Errorf("unexpected header %q", lines[0])
	}

	lines = readLines(t, filepath.Join(dir, "events.csv"))
	if len(lines) != 3 {
		t.Fatalf("events.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[1], "death,7,3,") || !strings.Contains(lines[1], "starvation") {
		t.Errorf("unexpected death row %q", lines[1])
	}

	lines = readLines(t, filepath.Join(dir, "bookmarks.csv"))
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "extinction,9,") {
		t.Errorf("unexpected bookmarks.csv %q", lines)
	}
}
