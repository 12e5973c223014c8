package platform

import (
	"fmt"

	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/irq"
	"github.com/devmodel/devmodel-go/pkg/of"
)

// Device is a platform device. It refers to the firmware node it was
// created from; the tree owns the node.
type Device struct {
	name string
	node *of.Node
}

// NewDevice creates a device for node, named by the node path.
func NewDevice(node *of.Node) *Device {
	return &Device{name: node.FullName(), node: node}
}

// NewStaticDevice creates a device that is not backed by the firmware
// tree. It carries a detached node holding the compatible strings.
func NewStaticDevice(name string, compatible ...string) *Device {
	node := of.NewTree().Root().AddChild(name)
	node.SetStrings(of.PropCompatible, compatible...)
	return &Device{name: name, node: node}
}

// DeviceName returns the device name.
func (d *Device) DeviceName() string {
	return d.name
}

// Node returns the firmware node.
func (d *Device) Node() *of.Node {
	return d.node
}

// MatchID reports whether the device is compatible with id.
func (d *Device) MatchID(id of.DeviceID) bool {
	return id.Match(d.node)
}

// IRQ returns the interrupt number of the device's index'th interrupt.
func (d *Device) IRQ(index int) (uint32, error) {
	return of.IRQ(d.node, index)
}

// IRQCount returns the number of interrupts the device declares.
func (d *Device) IRQCount() int {
	return of.IRQCount(d.node)
}

// RequestIRQ looks up the device's index'th interrupt and installs
// handler on it. A nil ctl uses irq.Default().
func RequestIRQ[T any](ctl irq.Controller, dev *Device, index int, data T, flags irq.Flags, name string, handler irq.Handler[T]) (*irq.Registration, error) {
	line, err := dev.IRQ(index)
	if err != nil {
		return nil, fmt.Errorf("%s: interrupt %d: %w", dev.name, index, err)
	}
	if name == "" {
		return nil, fmt.Errorf("%s: %w: empty handler name", dev.name, errcode.ErrInvalidArgument)
	}
	return irq.TryNew(ctl, line, data, flags, name, handler)
}

func (d *Device) String() string {
	return d.name
}
