package initcall

import (
	"log/slog"
	"slices"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// Exiter is implemented by modules that release resources at shutdown.
type Exiter interface {
	Exit()
}

type module struct {
	name     string
	instance any
}

// RegisterModule registers an initcall that constructs a module. The
// constructed module is kept by the table until ExitModules; a
// constructor error becomes the routine's negative status.
func RegisterModule[M any](t *Table, level Level, name string, ctor func() (M, error)) error {
	return t.Register(level, name, func() int {
		m, err := ctor()
		if err != nil {
			slog.Error("module init failed", "module", name, "error", err)
			return errcode.Errno(err)
		}
		t.mu.Lock()
		t.modules = append(t.modules, module{name: name, instance: m})
		t.mu.Unlock()
		return 0
	})
}

// Modules returns the names of the loaded modules in load order.
func (t *Table) Modules() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, len(t.modules))
	for i, m := range t.modules {
		names[i] = m.name
	}
	return names
}

// ExitModules tears the loaded modules down in reverse load order.
func (t *Table) ExitModules() {
	t.mu.Lock()
	mods := t.modules
	t.modules = nil
	t.mu.Unlock()

	for _, m := range slices.Backward(mods) {
		if e, ok := m.instance.(Exiter); ok {
			e.Exit()
		}
	}
}
