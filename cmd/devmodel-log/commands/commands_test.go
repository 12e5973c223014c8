package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devmodel/devmodel-go/pkg/log"
)

const testBootID = "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0"

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test"+log.FileExt)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func bootEvents() []log.Event {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	return []log.Event{
		{
			Timestamp: ts,
			BootID:    testBootID,
			Category:  log.CategoryBoot,
			Boot:      &log.BootEvent{OldState: "NOT_STARTED", NewState: "RUNNING", TreeDigest: "b3:abcd"},
		},
		{
			Timestamp: ts.Add(time.Millisecond),
			BootID:    testBootID,
			Category:  log.CategoryRegistration,
			Bus:       "platform",
			Driver:    "i2c_designware",
			Registration: &log.RegistrationEvent{
				Kind:    log.DriverAdded,
				Matches: 2,
			},
		},
		{
			Timestamp: ts.Add(2 * time.Millisecond),
			BootID:    testBootID,
			Category:  log.CategoryProbe,
			Bus:       "platform",
			Device:    "i2c@1000",
			Driver:    "i2c_designware",
			Probe:     &log.ProbeEvent{Entry: 0, Success: true, Duration: 1500 * time.Microsecond},
		},
		{
			Timestamp: ts.Add(3 * time.Millisecond),
			BootID:    testBootID,
			Category:  log.CategoryProbe,
			Bus:       "platform",
			Device:    "i2c@3000",
			Driver:    "i2c_designware",
			Probe:     &log.ProbeEvent{Entry: 0, Success: false, Err: "no such device", Duration: 200 * time.Microsecond},
		},
		{
			Timestamp: ts.Add(4 * time.Millisecond),
			BootID:    testBootID,
			Category:  log.CategoryInitcall,
			Initcall: &log.InitcallEvent{
				Level:     4,
				LevelName: "subsys",
				Offset:    1,
				Name:      "i2c_designware",
				Code:      0,
				Duration:  3 * time.Millisecond,
			},
		},
		{
			Timestamp: ts.Add(5 * time.Millisecond),
			BootID:    testBootID,
			Category:  log.CategoryIRQ,
			IRQ:       &log.IRQEvent{Action: log.IRQRequested, IRQ: 33, Name: "i2c_designware", Flags: "SHARED"},
		},
		{
			Timestamp: ts.Add(6 * time.Millisecond),
			BootID:    testBootID,
			Category:  log.CategoryBoot,
			Boot:      &log.BootEvent{OldState: "RUNNING", NewState: "COMPLETED"},
		},
	}
}

func TestExportToJSONL(t *testing.T) {
	path := createTestLogFile(t, bootEvents())

	outPath := filepath.Join(t.TempDir(), "out.jsonl")
	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if first["BootID"] != testBootID {
		t.Errorf("expected BootID %s, got %v", testBootID, first["BootID"])
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestLogFile(t, bootEvents())

	outPath := filepath.Join(t.TempDir(), "out.csv")
	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(records) != 8 {
		t.Fatalf("expected header + 7 rows, got %d", len(records))
	}
	if records[0][0] != "timestamp" || records[0][7] != "detail" {
		t.Errorf("unexpected header: %v", records[0])
	}

	failed := records[4]
	if failed[2] != "PROBE" || failed[4] != "i2c@3000" || failed[7] != "no such device" {
		t.Errorf("unexpected probe row: %v", failed)
	}
	if records[5][7] != "subsys+1 i2c_designware=0" {
		t.Errorf("unexpected initcall detail: %q", records[5][7])
	}
}

func TestExportToYAML(t *testing.T) {
	path := createTestLogFile(t, bootEvents())

	outPath := filepath.Join(t.TempDir(), "out.yaml")
	if err := RunExport(path, "yaml", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	out := string(data)
	if got := strings.Count(out, "boot_id: "+testBootID); got != 7 {
		t.Errorf("expected 7 documents, got %d", got)
	}
	if !strings.Contains(out, "type: DRIVER_ADDED") {
		t.Errorf("missing registration document:\n%s", out)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, bootEvents())

	err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunViewAll(t *testing.T) {
	path := createTestLogFile(t, bootEvents())

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := buf.String()

	wants := []string{
		"2026-01-28T10:15:32.123456Z [boot:0f1e2d3c] BOOT",
		"NOT_STARTED -> RUNNING",
		"Tree: b3:abcd",
		"REGISTRATION platform i2c_designware",
		"DRIVER_ADDED (2 matches)",
		"PROBE platform i2c@3000 i2c_designware",
		"Result: FAILED  Duration: 200.000us",
		"Error: no such device",
		"subsys+1 i2c_designware -> 0 (3.000ms)",
		`REQUESTED irq 33 "i2c_designware" flags=SHARED`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunViewFailuresOnly(t *testing.T) {
	path := createTestLogFile(t, bootEvents())

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{FailuresOnly: true}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "i2c@3000") {
		t.Errorf("expected failed probe in output:\n%s", out)
	}
	if strings.Contains(out, "i2c@1000") {
		t.Errorf("successful probe should be filtered:\n%s", out)
	}
}

func TestRunFilter(t *testing.T) {
	path := createTestLogFile(t, bootEvents())
	outPath := filepath.Join(t.TempDir(), "probe"+log.FileExt)

	count, err := RunFilter(path, outPath, FilterOptions{Category: "probe", Driver: "i2c_designware"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}

	reader, err := log.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open filtered log: %v", err)
	}
	defer reader.Close()

	n := 0
	for {
		event, err := reader.Next()
		if err != nil {
			break
		}
		if event.Category != log.CategoryProbe {
			t.Errorf("unexpected category %s", event.Category)
		}
		n++
	}
	if n != 2 {
		t.Errorf("expected 2 events in filtered file, got %d", n)
	}
}

func TestFilterOptionsBuild(t *testing.T) {
	opts := FilterOptions{
		BootID:    testBootID,
		Category:  "Initcall",
		TimeStart: "2026-01-28T10:00:00Z",
		TimeEnd:   "2026-01-28T11:00:00Z",
	}
	filter, err := opts.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if filter.Category == nil || *filter.Category != log.CategoryInitcall {
		t.Errorf("expected INITCALL category, got %v", filter.Category)
	}
	if filter.TimeStart == nil || filter.TimeEnd == nil {
		t.Fatal("expected time range to be set")
	}
	if !filter.TimeEnd.After(*filter.TimeStart) {
		t.Errorf("time range inverted")
	}

	if _, err := (FilterOptions{TimeStart: "yesterday"}).Build(); err == nil {
		t.Error("expected error for invalid time-start")
	}
	if _, err := (FilterOptions{TimeEnd: "tomorrow"}).Build(); err == nil {
		t.Error("expected error for invalid time-end")
	}
	if _, err := (FilterOptions{Category: "frame"}).Build(); err == nil {
		t.Error("expected error for invalid category")
	}
}

func TestRunStats(t *testing.T) {
	path := createTestLogFile(t, bootEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	out := buf.String()

	wants := []string{
		"Total Events: 7",
		"Failures:     1",
		"PROBE:         2",
		"Boots (1):",
		"State:     COMPLETED",
		"Tree:      b3:abcd",
		"Slowest:   i2c_designware (3.000ms)",
		"probes=2 failed=1 removed=0",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunStatsMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunStats(filepath.Join(t.TempDir(), "missing"+log.FileExt), &buf); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500.000us"},
		{1500 * time.Microsecond, "1.500ms"},
		{2 * time.Second, "2.000s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
