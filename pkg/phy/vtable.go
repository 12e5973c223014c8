package phy

import (
	"fmt"

	"github.com/devmodel/devmodel-go/pkg/driver"
	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// Driver is the required PHY driver contract.
type Driver interface {
	Name() string
	ID() DeviceID
}

// Flagger is implemented by drivers with non-zero DriverFlags.
type Flagger interface {
	Flags() DriverFlags
}

// SoftResetter issues a PHY software reset.
type SoftResetter interface {
	SoftReset(dev *Device) error
}

// FeatureGetter determines the PHY's abilities at probe time. Drivers
// without it get GenphyReadAbilities.
type FeatureGetter interface {
	GetFeatures(dev *Device) error
}

// DeviceMatcher replaces identifier matching for drivers that need to
// inspect the device.
type DeviceMatcher interface {
	MatchPhyDevice(dev *Device) bool
}

// AnegConfigurer configures the advertisement and restarts
// autonegotiation.
type AnegConfigurer interface {
	ConfigAneg(dev *Device) error
}

// StatusReader determines the negotiated speed and duplex.
type StatusReader interface {
	ReadStatus(dev *Device) error
}

// Suspender suspends the hardware.
type Suspender interface {
	Suspend(dev *Device) error
}

// Resumer resumes the hardware.
type Resumer interface {
	Resume(dev *Device) error
}

// MMDReader overrides indirect MMD register reads.
type MMDReader interface {
	ReadMMD(dev *Device, devnum uint8, regnum uint16) (uint16, error)
}

// MMDWriter overrides indirect MMD register writes.
type MMDWriter interface {
	WriteMMD(dev *Device, devnum uint8, regnum, val uint16) error
}

// LinkChangeNotifier is told about link changes found by Device.Poll.
type LinkChangeNotifier interface {
	LinkChangeNotify(dev *Device)
}

// VTable is the callback table of one PHY driver. Callbacks the driver
// does not implement are nil.
type VTable struct {
	Name  string
	Flags DriverFlags
	ID    DeviceID

	SoftReset        func(dev *Device) error
	GetFeatures      func(dev *Device) error
	MatchPhyDevice   func(dev *Device) bool
	ConfigAneg       func(dev *Device) error
	ReadStatus       func(dev *Device) error
	Suspend          func(dev *Device) error
	Resume           func(dev *Device) error
	ReadMMD          func(dev *Device, devnum uint8, regnum uint16) (uint16, error)
	WriteMMD         func(dev *Device, devnum uint8, regnum, val uint16) error
	LinkChangeNotify func(dev *Device)
}

// NewVTable inspects drv once and fills the callbacks it implements.
func NewVTable(drv Driver) *VTable {
	vt := &VTable{Name: drv.Name(), ID: drv.ID()}
	if f, ok := drv.(Flagger); ok {
		vt.Flags = f.Flags()
	}
	if x, ok := drv.(SoftResetter); ok {
		vt.SoftReset = x.SoftReset
	}
	if x, ok := drv.(FeatureGetter); ok {
		vt.GetFeatures = x.GetFeatures
	}
	if x, ok := drv.(DeviceMatcher); ok {
		vt.MatchPhyDevice = x.MatchPhyDevice
	}
	if x, ok := drv.(AnegConfigurer); ok {
		vt.ConfigAneg = x.ConfigAneg
	}
	if x, ok := drv.(StatusReader); ok {
		vt.ReadStatus = x.ReadStatus
	}
	if x, ok := drv.(Suspender); ok {
		vt.Suspend = x.Suspend
	}
	if x, ok := drv.(Resumer); ok {
		vt.Resume = x.Resume
	}
	if x, ok := drv.(MMDReader); ok {
		vt.ReadMMD = x.ReadMMD
	}
	if x, ok := drv.(MMDWriter); ok {
		vt.WriteMMD = x.WriteMMD
	}
	if x, ok := drv.(LinkChangeNotifier); ok {
		vt.LinkChangeNotify = x.LinkChangeNotify
	}
	return vt
}

// Capabilities returns the generic capability bits of the table.
func (vt *VTable) Capabilities() driver.Capabilities {
	var c driver.Capabilities
	if vt.Suspend != nil {
		c |= driver.HasSuspend
	}
	if vt.Resume != nil {
		c |= driver.HasResume
	}
	return c
}

// binder adapts a VTable to the generic bus dispatch record.
type binder struct {
	vt    *VTable
	ids   *driver.Table[DeviceID, struct{}]
	bound driver.Slot[*Device, *VTable]
	ops   Ops
}

func newBinder(vt *VTable) *binder {
	b := &binder{
		vt:  vt,
		ids: driver.MustTable(driver.NewEntry[DeviceID, struct{}](vt.ID)),
	}
	b.ops = Ops{
		Name:   vt.Name,
		Caps:   vt.Capabilities(),
		Match:  b.match,
		Probe:  b.probe,
		Detach: b.detach,
	}
	if vt.Suspend != nil {
		b.ops.Suspend = func(dev *Device) error {
			if err := vt.Suspend(dev); err != nil {
				return err
			}
			dev.setSuspended(true)
			return nil
		}
	}
	if vt.Resume != nil {
		b.ops.Resume = func(dev *Device) error {
			if err := vt.Resume(dev); err != nil {
				return err
			}
			dev.setSuspended(false)
			return nil
		}
	}
	return b
}

func (b *binder) match(dev *Device) (int, bool) {
	if b.vt.MatchPhyDevice != nil {
		return 0, b.matchCustom(dev)
	}
	_, i, ok := b.ids.Match(dev)
	return i, ok
}

// matchCustom runs MatchPhyDevice. A panicking matcher does not match.
func (b *binder) matchCustom(dev *Device) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return b.vt.MatchPhyDevice(dev)
}

func (b *binder) probe(dev *Device, entry int) error {
	if entry != 0 {
		return fmt.Errorf("%w: entry %d out of range", errcode.ErrInvalidArgument, entry)
	}
	if err := dev.attach(b.vt); err != nil {
		return err
	}
	if err := b.bound.Set(dev, b.vt); err != nil {
		dev.detach()
		return err
	}
	return nil
}

func (b *binder) detach(dev *Device) error {
	if _, ok := b.bound.Take(dev); !ok {
		return nil
	}
	dev.detach()
	return nil
}
