package driver

import (
	"strings"

	"github.com/devmodel/devmodel-go/pkg/irq"
)

// Capabilities records which optional callbacks a driver implements.
type Capabilities uint8

// Capability bits.
const (
	HasRemove Capabilities = 1 << iota
	HasIRQ
	HasFunctionality
	HasSuspend
	HasResume
)

var capabilityNames = []struct {
	c    Capabilities
	name string
}{
	{HasRemove, "remove"},
	{HasIRQ, "irq"},
	{HasFunctionality, "functionality"},
	{HasSuspend, "suspend"},
	{HasResume, "resume"},
}

// Has reports whether every bit in c2 is set.
func (c Capabilities) Has(c2 Capabilities) bool {
	return c&c2 == c2
}

// String lists the capability names joined by "|", or "probe" when only
// the required callback is present.
func (c Capabilities) String() string {
	var names []string
	for _, n := range capabilityNames {
		if c.Has(n.c) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "probe"
	}
	return strings.Join(names, "|")
}

// Remover is implemented by drivers that release a device on teardown.
type Remover[P any] interface {
	Remove(data P) error
}

// IRQHandler is implemented by drivers that service interrupts through the
// bus registry.
type IRQHandler[P any] interface {
	HandleIRQ(data P, line uint32) irq.Return
}

// FunctionalityQuerier is implemented by drivers that report a feature
// bitmap for a bound device.
type FunctionalityQuerier[P any] interface {
	Functionality(data P) uint32
}

// Suspender is implemented by drivers that can quiesce a single device.
type Suspender[P any] interface {
	Suspend(data P) error
}

// Resumer is implemented by drivers that can restart a suspended device.
type Resumer[P any] interface {
	Resume(data P) error
}

// DeviceRemoval is implemented by private data that must release resources
// when the device is detached. It runs after the driver's Remove.
type DeviceRemoval interface {
	DeviceRemove()
}

// CapabilitiesOf inspects drv once and returns its capability set.
func CapabilitiesOf[P any](drv any) Capabilities {
	var c Capabilities
	if _, ok := drv.(Remover[P]); ok {
		c |= HasRemove
	}
	if _, ok := drv.(IRQHandler[P]); ok {
		c |= HasIRQ
	}
	if _, ok := drv.(FunctionalityQuerier[P]); ok {
		c |= HasFunctionality
	}
	if _, ok := drv.(Suspender[P]); ok {
		c |= HasSuspend
	}
	if _, ok := drv.(Resumer[P]); ok {
		c |= HasResume
	}
	return c
}
