package initcall

import (
	"fmt"
	"slices"
	"sync"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// Func is an initialization routine. A negative return value is a fatal
// status; zero and positive values are success.
type Func func() int

// Call is one registered routine.
type Call struct {
	Level Level
	Name  string
	Fn    Func
}

// Table is an ordered set of initcalls. Registration is closed once a
// sequencer starts running the table.
type Table struct {
	mu      sync.Mutex
	levels  [NumLevels + 1][]Call
	sealed  bool
	modules []module
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

var defaultTable = NewTable()

// Default returns the process-wide table that Register and Boot use.
func Default() *Table {
	return defaultTable
}

// Register appends fn to level. An invalid level, empty name or nil fn is
// rejected with errcode.ErrInvalidArgument; registering into a sealed
// table fails with errcode.ErrBusy.
func (t *Table) Register(level Level, name string, fn Func) error {
	switch {
	case !level.Valid():
		return fmt.Errorf("initcall %s: %w: %s", name, errcode.ErrInvalidArgument, level)
	case name == "":
		return fmt.Errorf("initcall: %w: empty name", errcode.ErrInvalidArgument)
	case fn == nil:
		return fmt.Errorf("initcall %s: %w: nil routine", name, errcode.ErrInvalidArgument)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sealed {
		return fmt.Errorf("initcall %s: table sealed: %w", name, errcode.ErrBusy)
	}
	t.levels[level] = append(t.levels[level], Call{Level: level, Name: name, Fn: fn})
	return nil
}

// Register adds fn to the default table.
func Register(level Level, name string, fn Func) error {
	return defaultTable.Register(level, name, fn)
}

// MustRegister adds fn to the default table and panics on error.
func MustRegister(level Level, name string, fn Func) {
	if err := defaultTable.Register(level, name, fn); err != nil {
		panic(err)
	}
}

// Level returns the routines registered at level, in order.
func (t *Table) Level(level Level) []Call {
	if !level.Valid() {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.levels[level])
}

// Calls returns every routine in execution order.
func (t *Table) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Call
	for l := LevelCore; l <= LevelLate; l++ {
		out = append(out, t.levels[l]...)
	}
	return out
}

// Sealed reports whether the table accepts registrations.
func (t *Table) Sealed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sealed
}

// seal closes the table and returns a snapshot of its levels.
func (t *Table) seal() [NumLevels + 1][]Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sealed = true
	var snap [NumLevels + 1][]Call
	for l := range t.levels {
		snap[l] = slices.Clone(t.levels[l])
	}
	return snap
}
