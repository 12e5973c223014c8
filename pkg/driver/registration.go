package driver

import (
	"errors"
	"fmt"
	"sync"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// Registrar is the register/unregister pair a Registration drives.
type Registrar[T any] interface {
	Register(item T) error
	Unregister(item T)
}

// Registration tracks whether an item is registered with a registrar.
// Registering twice fails; unregistering is idempotent.
type Registration[T any] struct {
	mu         sync.Mutex
	registrar  Registrar[T]
	item       T
	registered bool
}

// NewRegistration creates an unregistered registration for item.
func NewRegistration[T any](r Registrar[T], item T) *Registration[T] {
	return &Registration[T]{registrar: r, item: item}
}

// Register registers the item. A second call fails with
// errcode.ErrInvalidArgument.
//
// A probe failure leaves the driver registered, so the registration is
// recorded and the ProbeError returned; Unregister still cleans up.
func (r *Registration[T]) Register() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registered {
		return fmt.Errorf("%w: already registered", errcode.ErrInvalidArgument)
	}
	err := r.registrar.Register(r.item)
	if err == nil || errors.Is(err, errcode.ErrProbeFailed) {
		r.registered = true
	}
	return err
}

// Unregister unregisters the item if it is registered.
func (r *Registration[T]) Unregister() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.registered {
		return
	}
	r.registered = false
	r.registrar.Unregister(r.item)
}

// IsRegistered reports the registration state.
func (r *Registration[T]) IsRegistered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registered
}
