package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSessionStampsEvents(t *testing.T) {
	mem := &MemoryLogger{}
	s := NewSession(mem)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.Log(Event{Category: CategoryBoot})
	s.Log(Event{Category: CategoryBoot, BootID: "explicit", Timestamp: fixed.Add(time.Hour)})

	got := mem.Events()
	if len(got) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(got))
	}
	if got[0].BootID != s.BootID() || s.BootID() == "" {
		t.Errorf("BootID = %q, want session ID %q", got[0].BootID, s.BootID())
	}
	if !got[0].Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", got[0].Timestamp, fixed)
	}
	if got[1].BootID != "explicit" {
		t.Errorf("explicit BootID overwritten: %q", got[1].BootID)
	}
	if !got[1].Timestamp.Equal(fixed.Add(time.Hour)) {
		t.Errorf("explicit Timestamp overwritten: %v", got[1].Timestamp)
	}
}

func TestSessionsHaveDistinctIDs(t *testing.T) {
	if NewSession(nil).BootID() == NewSession(nil).BootID() {
		t.Error("two sessions share a boot ID")
	}
}

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(NoopLogger); !ok {
		t.Error("OrNoop(nil) should return NoopLogger")
	}
	mem := &MemoryLogger{}
	if OrNoop(mem) != Logger(mem) {
		t.Error("OrNoop should return non-nil logger unchanged")
	}
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	a, b := &MemoryLogger{}, &MemoryLogger{}
	m := NewMultiLogger(a, nil, b)
	m.Log(Event{Category: CategoryIRQ})

	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Errorf("events = %d/%d, want 1/1", len(a.Events()), len(b.Events()))
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewSlogAdapter(logger)

	a.Log(Event{
		Category: CategoryInitcall,
		Initcall: &InitcallEvent{Level: 2, LevelName: "postcore", Offset: 1, Name: "bad", Code: -1},
	})

	out := buf.String()
	for _, want := range []string{"level=WARN", "category=INITCALL", "initcall_level=postcore", "name=bad", "code=-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}
