package irq

import (
	"fmt"
	"sync"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// Controller is the interrupt subsystem a Registration is made against.
//
// Request installs fn on line irq and returns a cookie identifying the
// action. Free removes the action; once Free returns, fn is never
// invoked again.
type Controller interface {
	Request(irq uint32, flags Flags, name string, fn func() Return) (uint64, error)
	Free(irq uint32, cookie uint64)
}

// Handler services an interrupt using the context data given to TryNew.
type Handler[T any] func(data T) Return

// Registration is an installed interrupt handler. Close releases it.
type Registration struct {
	ctl    Controller
	irq    uint32
	name   string
	flags  Flags
	cookie uint64
	once   sync.Once
}

// TryNew registers handler on line irq with the given context data. A nil
// ctl uses the process-wide Default domain.
func TryNew[T any](ctl Controller, irq uint32, data T, flags Flags, name string, handler Handler[T]) (*Registration, error) {
	if handler == nil {
		return nil, fmt.Errorf("irq %d: nil handler: %w", irq, errcode.ErrInvalidArgument)
	}
	if name == "" {
		return nil, fmt.Errorf("irq %d: empty name: %w", irq, errcode.ErrInvalidArgument)
	}
	if ctl == nil {
		ctl = Default()
	}

	cookie, err := ctl.Request(irq, flags, name, func() Return {
		return handler(data)
	})
	if err != nil {
		return nil, fmt.Errorf("request irq %d (%s): %w", irq, name, err)
	}

	return &Registration{
		ctl:    ctl,
		irq:    irq,
		name:   name,
		flags:  flags,
		cookie: cookie,
	}, nil
}

// IRQ returns the line number.
func (r *Registration) IRQ() uint32 {
	return r.irq
}

// Name returns the name given at registration.
func (r *Registration) Name() string {
	return r.name
}

// Flags returns the request flags.
func (r *Registration) Flags() Flags {
	return r.flags
}

// Close frees the handler. It is safe to call Close multiple times.
// Close must not be called from the handler it frees.
func (r *Registration) Close() error {
	r.once.Do(func() {
		r.ctl.Free(r.irq, r.cookie)
	})
	return nil
}
