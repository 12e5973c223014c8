package driver

import (
	"fmt"

	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/irq"
)

// Device is the constraint on bus device types: comparable handles that
// can be matched against identifiers of type I.
type Device[I comparable] interface {
	comparable
	Matcher[I]
}

// Driver is the required driver contract.
//
// Probe receives the matched entry's context, or nil when the entry has
// none. The returned private data is stored by the adapter and passed to
// every later callback.
type Driver[D Device[I], I comparable, C any, P any] interface {
	Name() string
	IDTable() *Table[I, C]
	Probe(dev D, info *C) (P, error)
}

// Adapter binds a typed driver to its dispatch record and private-data
// slot.
type Adapter[D Device[I], I comparable, C any, P any] struct {
	drv  Driver[D, I, C, P]
	caps Capabilities
	data Slot[D, P]
	ops  Ops[D]
}

// NewAdapter inspects drv once and builds its dispatch record. A nil
// driver, an empty name or a nil table is rejected with
// errcode.ErrInvalidArgument.
func NewAdapter[D Device[I], I comparable, C any, P any](drv Driver[D, I, C, P]) (*Adapter[D, I, C, P], error) {
	if drv == nil {
		return nil, fmt.Errorf("%w: nil driver", errcode.ErrInvalidArgument)
	}
	if drv.Name() == "" {
		return nil, fmt.Errorf("%w: driver without name", errcode.ErrInvalidArgument)
	}
	if drv.IDTable() == nil {
		return nil, fmt.Errorf("%w: driver %s has no identifier table", errcode.ErrInvalidArgument, drv.Name())
	}

	a := &Adapter[D, I, C, P]{drv: drv, caps: CapabilitiesOf[P](drv)}
	a.ops = Ops[D]{
		Name:   drv.Name(),
		Caps:   a.caps,
		Match:  a.match,
		Probe:  a.probe,
		Detach: a.detach,
	}

	if a.caps.Has(HasRemove) {
		a.ops.Remove = a.detach
	}
	if h, ok := drv.(IRQHandler[P]); ok {
		a.ops.IRQ = func(dev D, line uint32) irq.Return {
			p, ok := a.data.Get(dev)
			if !ok {
				return irq.None
			}
			return h.HandleIRQ(p, line)
		}
	}
	if q, ok := drv.(FunctionalityQuerier[P]); ok {
		a.ops.Functionality = func(dev D) uint32 {
			p, ok := a.data.Get(dev)
			if !ok {
				return 0
			}
			return q.Functionality(p)
		}
	}
	if s, ok := drv.(Suspender[P]); ok {
		a.ops.Suspend = func(dev D) error {
			p, ok := a.data.Get(dev)
			if !ok {
				return errcode.ErrNoDevice
			}
			return s.Suspend(p)
		}
	}
	if r, ok := drv.(Resumer[P]); ok {
		a.ops.Resume = func(dev D) error {
			p, ok := a.data.Get(dev)
			if !ok {
				return errcode.ErrNoDevice
			}
			return r.Resume(p)
		}
	}
	return a, nil
}

// MustAdapter is like NewAdapter but panics on error.
func MustAdapter[D Device[I], I comparable, C any, P any](drv Driver[D, I, C, P]) *Adapter[D, I, C, P] {
	a, err := NewAdapter(drv)
	if err != nil {
		panic(err)
	}
	return a
}

// Ops returns the dispatch record. The record is shared; callers must not
// modify it.
func (a *Adapter[D, I, C, P]) Ops() *Ops[D] {
	return &a.ops
}

// Capabilities returns the detected capability set.
func (a *Adapter[D, I, C, P]) Capabilities() Capabilities {
	return a.caps
}

// Driver returns the wrapped driver.
func (a *Adapter[D, I, C, P]) Driver() Driver[D, I, C, P] {
	return a.drv
}

// Data returns the private data of a bound device.
func (a *Adapter[D, I, C, P]) Data(dev D) (P, bool) {
	return a.data.Get(dev)
}

func (a *Adapter[D, I, C, P]) match(dev D) (int, bool) {
	_, i, ok := a.drv.IDTable().Match(dev)
	return i, ok
}

func (a *Adapter[D, I, C, P]) probe(dev D, entry int) error {
	table := a.drv.IDTable()
	if entry < 0 || entry >= table.Len() {
		return fmt.Errorf("%w: entry %d out of range", errcode.ErrInvalidArgument, entry)
	}

	var info *C
	if c, ok := table.At(entry).Info(); ok {
		info = &c
	}

	p, err := a.drv.Probe(dev, info)
	if err != nil {
		return err
	}
	if err := a.data.Set(dev, p); err != nil {
		if rm, ok := any(p).(DeviceRemoval); ok {
			rm.DeviceRemove()
		}
		return fmt.Errorf("store private data: %w", err)
	}
	return nil
}

func (a *Adapter[D, I, C, P]) detach(dev D) error {
	p, ok := a.data.Take(dev)
	if !ok {
		return nil
	}

	var err error
	if r, ok := a.drv.(Remover[P]); ok {
		err = r.Remove(p)
	}
	if rm, ok := any(p).(DeviceRemoval); ok {
		rm.DeviceRemove()
	}
	return err
}
