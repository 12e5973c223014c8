package initcall

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/log"
)

// State is the sequencer state.
type State uint8

const (
	StateNotStarted State = iota
	StateRunning
	StateCompleted
	StateAborted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NOT_STARTED"
	case StateRunning:
		return "RUNNING"
	case StateCompleted:
		return "COMPLETED"
	case StateAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// Status is a snapshot of sequencer progress. Level and Offset identify
// the routine running (Running) or the one that aborted (Aborted).
type Status struct {
	State  State
	Level  Level
	Offset int
	Code   int
}

// Result records one executed routine.
type Result struct {
	Level    Level
	Offset   int
	Name     string
	Code     int
	Duration time.Duration
}

// FatalError reports a routine that returned a negative status.
type FatalError struct {
	Level  Level
	Offset int
	Name   string
	Code   int
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("initcall %s (%s+%d) returned %d", e.Name, e.Level, e.Offset, e.Code)
}

// Is matches errcode.ErrFatal.
func (e *FatalError) Is(target error) bool {
	return target == errcode.ErrFatal
}

// Unwrap returns the error matching the status code.
func (e *FatalError) Unwrap() error {
	return errcode.FromErrno(e.Code)
}

// Options configures a Sequencer.
type Options struct {
	// Logger receives operational messages. Nil uses slog.Default().
	Logger *slog.Logger

	// Trace receives one event per routine and per state change.
	Trace log.Logger

	// TreeDigest, when set, is recorded in the boot state events.
	TreeDigest string
}

// Sequencer runs a table once.
type Sequencer struct {
	table  *Table
	logger *slog.Logger
	trace  log.Logger
	digest string

	mu      sync.Mutex
	status  Status
	results []Result
}

// NewSequencer creates a sequencer for t.
func NewSequencer(t *Table, opts Options) *Sequencer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{
		table:  t,
		logger: logger,
		trace:  log.OrNoop(opts.Trace),
		digest: opts.TreeDigest,
	}
}

// Run seals the table and executes every routine, level by level. It
// stops at the first negative status and returns a *FatalError. A
// sequencer runs once; later calls fail with errcode.ErrBusy.
func (s *Sequencer) Run() error {
	s.mu.Lock()
	if s.status.State != StateNotStarted {
		st := s.status.State
		s.mu.Unlock()
		return fmt.Errorf("initcall sequencer %s: %w", st, errcode.ErrBusy)
	}
	s.status.State = StateRunning
	s.mu.Unlock()
	s.traceState(StateNotStarted, StateRunning, "")

	levels := s.table.seal()
	for l := LevelCore; l <= LevelLate; l++ {
		for off, call := range levels[l] {
			s.mu.Lock()
			s.status.Level, s.status.Offset = l, off
			s.mu.Unlock()

			start := time.Now()
			code := call.Fn()
			res := Result{Level: l, Offset: off, Name: call.Name, Code: code, Duration: time.Since(start)}

			s.mu.Lock()
			s.results = append(s.results, res)
			s.mu.Unlock()
			s.traceCall(res)

			if code < 0 {
				s.mu.Lock()
				s.status.State = StateAborted
				s.status.Code = code
				s.mu.Unlock()

				err := &FatalError{Level: l, Offset: off, Name: call.Name, Code: code}
				s.logger.Error("initcall failed", "level", l.String(), "offset", off, "name", call.Name, "code", code)
				s.traceState(StateRunning, StateAborted, err.Error())
				return err
			}
			s.logger.Debug("initcall", "level", l.String(), "name", call.Name, "code", code, "duration", res.Duration)
		}
	}

	s.mu.Lock()
	s.status = Status{State: StateCompleted}
	s.mu.Unlock()
	s.traceState(StateRunning, StateCompleted, "")
	return nil
}

// Status returns the current progress.
func (s *Sequencer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Results returns the routines executed so far, in order.
func (s *Sequencer) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

func (s *Sequencer) traceCall(r Result) {
	s.trace.Log(log.Event{
		Category: log.CategoryInitcall,
		Initcall: &log.InitcallEvent{
			Level:     uint8(r.Level),
			LevelName: r.Level.String(),
			Offset:    r.Offset,
			Name:      r.Name,
			Code:      r.Code,
			Duration:  r.Duration,
		},
	})
}

func (s *Sequencer) traceState(from, to State, reason string) {
	s.trace.Log(log.Event{
		Category: log.CategoryBoot,
		Boot: &log.BootEvent{
			OldState:   from.String(),
			NewState:   to.String(),
			TreeDigest: s.digest,
			Reason:     reason,
		},
	})
}

// Boot runs the default table. See BootTable.
func Boot(opts Options) *Sequencer {
	return BootTable(defaultTable, opts)
}

// BootTable runs t and panics if a routine fails: later subsystems
// assume earlier levels completed.
func BootTable(t *Table, opts Options) *Sequencer {
	s := NewSequencer(t, opts)
	if err := s.Run(); err != nil {
		panic(err)
	}
	return s
}
