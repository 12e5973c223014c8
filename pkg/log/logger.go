package log

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger receives driver-model events.
// Pass nil or NoopLogger to disable tracing.
type Logger interface {
	// Log records an event. Implementations must be thread-safe and must
	// not call back into the driver model.
	Log(event Event)
}

// NoopLogger discards all events.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// OrNoop returns l, or NoopLogger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return l
}

// Session stamps every event with one boot ID and, when missing, the
// current time before forwarding it.
type Session struct {
	next   Logger
	bootID string
	now    func() time.Time
}

// NewSession creates a session with a fresh random boot ID.
func NewSession(next Logger) *Session {
	return &Session{
		next:   OrNoop(next),
		bootID: uuid.NewString(),
		now:    time.Now,
	}
}

// BootID returns the session identifier.
func (s *Session) BootID() string {
	return s.bootID
}

// Log stamps and forwards the event.
func (s *Session) Log(event Event) {
	if event.BootID == "" {
		event.BootID = s.bootID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.next.Log(event)
}

// MemoryLogger keeps events in memory. It is intended for tests and for
// the interactive shell's history.
type MemoryLogger struct {
	mu     sync.Mutex
	events []Event
}

// Log appends the event.
func (m *MemoryLogger) Log(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of the recorded events.
func (m *MemoryLogger) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NoopLogger{}
	_ Logger = (*Session)(nil)
	_ Logger = (*MemoryLogger)(nil)
)
