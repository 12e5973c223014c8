package driver

import (
	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/irq"
)

// Ops is the dispatch record a bus registry holds for one driver.
//
// Match, Probe and Detach are always set. The remaining callbacks are nil
// when the driver does not implement them; use the Call helpers, which
// return errcode.ErrUnsupported for absent callbacks.
type Ops[D any] struct {
	Name string
	Caps Capabilities

	// Match returns the index of the first identifier-table entry the
	// device is compatible with.
	Match func(dev D) (int, bool)

	// Probe binds the device using the table entry at index entry.
	Probe func(dev D, entry int) error

	// Detach releases the device's private data, running the driver's
	// Remove and the data's DeviceRemove. Repeated calls are no-ops.
	Detach func(dev D) error

	// Remove is present when the driver implements Remover. It runs the
	// same teardown as Detach and is meant for the registry: calling it
	// directly releases the private data but leaves the registry binding
	// in place. Unbind devices through the bus registry instead.
	Remove func(dev D) error

	IRQ           func(dev D, line uint32) irq.Return
	Functionality func(dev D) uint32
	Suspend       func(dev D) error
	Resume        func(dev D) error
}

// CallRemove invokes Remove, or returns errcode.ErrUnsupported. Like
// Remove it does not update registry bindings.
func (o *Ops[D]) CallRemove(dev D) error {
	if o.Remove == nil {
		return errcode.ErrUnsupported
	}
	return o.Remove(dev)
}

// CallIRQ invokes IRQ, or returns errcode.ErrUnsupported.
func (o *Ops[D]) CallIRQ(dev D, line uint32) (irq.Return, error) {
	if o.IRQ == nil {
		return irq.None, errcode.ErrUnsupported
	}
	return o.IRQ(dev, line), nil
}

// CallFunctionality invokes Functionality, or returns
// errcode.ErrUnsupported.
func (o *Ops[D]) CallFunctionality(dev D) (uint32, error) {
	if o.Functionality == nil {
		return 0, errcode.ErrUnsupported
	}
	return o.Functionality(dev), nil
}

// CallSuspend invokes Suspend, or returns errcode.ErrUnsupported.
func (o *Ops[D]) CallSuspend(dev D) error {
	if o.Suspend == nil {
		return errcode.ErrUnsupported
	}
	return o.Suspend(dev)
}

// CallResume invokes Resume, or returns errcode.ErrUnsupported.
func (o *Ops[D]) CallResume(dev D) error {
	if o.Resume == nil {
		return errcode.ErrUnsupported
	}
	return o.Resume(dev)
}
