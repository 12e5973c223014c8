package irq

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/log"
)

// Domain is a software interrupt controller.
//
// Handlers run synchronously on the goroutine calling Raise, outside the
// domain lock. A handler must not free an action on its own line.
type Domain struct {
	mu     sync.Mutex
	lines  map[uint32]*line
	nextID uint64
	trace  log.Logger
}

type line struct {
	set   *actionSet
	count atomic.Uint64
}

// actionSet is an immutable snapshot of a line's actions. Raise counts
// itself into running. Request hands running on to the next snapshot and
// Free starts a new one, then waits on the one it replaced.
type actionSet struct {
	actions []action
	running *sync.WaitGroup
}

type action struct {
	cookie uint64
	name   string
	flags  Flags
	fn     func() Return
}

// LineInfo describes one line for display.
type LineInfo struct {
	IRQ     uint32
	Count   uint64
	Actions []string
}

var defaultDomain = sync.OnceValue(NewDomain)

// Default returns the process-wide domain.
func Default() *Domain {
	return defaultDomain()
}

// NewDomain creates an empty domain.
func NewDomain() *Domain {
	return &Domain{lines: make(map[uint32]*line), trace: log.NoopLogger{}}
}

// SetTrace sets the event logger for request and free events.
func (d *Domain) SetTrace(l log.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trace = log.OrNoop(l)
}

// Request installs fn on line irq. A second action on a line is only
// accepted when both the existing and the new action set Shared.
func (d *Domain) Request(irq uint32, flags Flags, name string, fn func() Return) (uint64, error) {
	if fn == nil {
		return 0, errcode.ErrInvalidArgument
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.lines[irq]
	if !ok {
		l = &line{set: &actionSet{running: new(sync.WaitGroup)}}
		d.lines[irq] = l
	}

	cur := l.set.actions
	if len(cur) > 0 {
		if !flags.Has(Shared) || !cur[0].flags.Has(Shared) {
			return 0, fmt.Errorf("line %d held by %s: %w", irq, cur[0].name, errcode.ErrBusy)
		}
	}

	d.nextID++
	actions := append(slices.Clone(cur), action{cookie: d.nextID, name: name, flags: flags, fn: fn})
	l.set = &actionSet{actions: actions, running: l.set.running}
	d.trace.Log(log.Event{
		Category: log.CategoryIRQ,
		IRQ:      &log.IRQEvent{Action: log.IRQRequested, IRQ: irq, Name: name, Flags: flags.String()},
	})
	return d.nextID, nil
}

// Free removes the action identified by cookie and waits for handlers
// already running on the line to return. Unknown cookies are ignored.
func (d *Domain) Free(irq uint32, cookie uint64) {
	d.mu.Lock()
	l, ok := d.lines[irq]
	if !ok {
		d.mu.Unlock()
		return
	}

	old := l.set
	var freed string
	actions := slices.DeleteFunc(slices.Clone(old.actions), func(a action) bool {
		if a.cookie == cookie {
			freed = a.name
			return true
		}
		return false
	})
	if freed == "" {
		d.mu.Unlock()
		return
	}

	l.set = &actionSet{actions: actions, running: new(sync.WaitGroup)}
	if len(actions) == 0 {
		delete(d.lines, irq)
	}
	trace := d.trace
	d.mu.Unlock()

	old.running.Wait()

	trace.Log(log.Event{
		Category: log.CategoryIRQ,
		IRQ:      &log.IRQEvent{Action: log.IRQFreed, IRQ: irq, Name: freed},
	})
}

// Raise fires line irq and returns the combined handler result. A line
// without actions returns None.
func (d *Domain) Raise(irq uint32) Return {
	d.mu.Lock()
	l, ok := d.lines[irq]
	if !ok {
		d.mu.Unlock()
		return None
	}
	set := l.set
	set.running.Add(1)
	d.mu.Unlock()
	defer set.running.Done()

	l.count.Add(1)
	var ret Return
	for _, a := range set.actions {
		ret |= a.fn()
	}
	return ret
}

// Lines returns the active lines in ascending order.
func (d *Domain) Lines() []LineInfo {
	d.mu.Lock()
	defer d.mu.Unlock()

	infos := make([]LineInfo, 0, len(d.lines))
	for irq, l := range d.lines {
		names := make([]string, 0, len(l.set.actions))
		for _, a := range l.set.actions {
			names = append(names, a.name)
		}
		infos = append(infos, LineInfo{IRQ: irq, Count: l.count.Load(), Actions: names})
	}
	slices.SortFunc(infos, func(a, b LineInfo) int {
		return cmp.Compare(a.IRQ, b.IRQ)
	})
	return infos
}

// Compile-time interface satisfaction check.
var _ Controller = (*Domain)(nil)
