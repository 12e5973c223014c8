package phy

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/devmodel/devmodel-go/pkg/bus"
	"github.com/devmodel/devmodel-go/pkg/driver"
	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// BusName is the PHY bus class name.
const BusName = "mdio"

// Bus is the PHY device registry.
type Bus = bus.Registry[*Device]

// Ops is the dispatch record of a PHY driver.
type Ops = driver.Ops[*Device]

// NewBus creates a PHY registry.
func NewBus(cfg bus.Config) *Bus {
	if cfg.Name == "" {
		cfg.Name = BusName
	}
	return bus.NewRegistry[*Device](cfg)
}

var defaultBus = bus.NewLazy[*Device](bus.DefaultConfig(BusName))

// Default returns the process-wide PHY bus, creating it on first use.
func Default() *Bus {
	return defaultBus.Get()
}

// ConfigureDefault sets the configuration Default uses. It fails with
// errcode.ErrBusy once the default bus exists.
func ConfigureDefault(cfg bus.Config) error {
	if cfg.Name == "" {
		cfg.Name = BusName
	}
	if err := defaultBus.Configure(cfg); err != nil {
		return fmt.Errorf("phy: %w", err)
	}
	return nil
}

// Registration is a set of PHY drivers registered together.
type Registration struct {
	binders []*binder
	regs    []*driver.Registration[*Ops]
}

// RegisterDrivers registers every table with b, in order.
//
// An empty list or a nil table fails with errcode.ErrInvalidArgument.
// Any other registration failure unregisters the tables registered so
// far. Probe failures leave the drivers registered and are returned
// joined alongside the registration.
func RegisterDrivers(b *Bus, vts ...*VTable) (*Registration, error) {
	if len(vts) == 0 {
		return nil, fmt.Errorf("%w: no PHY drivers", errcode.ErrInvalidArgument)
	}
	if slices.Contains(vts, nil) {
		return nil, fmt.Errorf("%w: nil PHY driver", errcode.ErrInvalidArgument)
	}

	r := &Registration{}
	var probeErrs []error
	for _, vt := range vts {
		bd := newBinder(vt)
		reg := b.Registration(&bd.ops)
		if err := reg.Register(); err != nil {
			if !errors.Is(err, errcode.ErrProbeFailed) {
				r.Unregister()
				return nil, fmt.Errorf("register PHY driver %q: %w", vt.Name, err)
			}
			probeErrs = append(probeErrs, err)
		}
		r.binders = append(r.binders, bd)
		r.regs = append(r.regs, reg)
	}
	return r, errors.Join(probeErrs...)
}

// Unregister unregisters the drivers in reverse order. Repeated calls are
// no-ops.
func (r *Registration) Unregister() {
	for _, reg := range slices.Backward(r.regs) {
		reg.Unregister()
	}
}

// Drivers returns the registered driver names in registration order.
func (r *Registration) Drivers() []string {
	names := make([]string, len(r.binders))
	for i, bd := range r.binders {
		names[i] = bd.vt.Name
	}
	return names
}

// Scan reads the identifier at every address of mii and registers a
// device for each PHY found. Addresses reading back all ones or zero are
// empty. A device whose probe fails is logged and kept unbound; any other
// error stops the scan.
func Scan(b *Bus, mii MII, busID string, logger *slog.Logger) ([]*Device, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var devs []*Device
	for addr := uint8(0); addr <= MaxAddr; addr++ {
		id, err := ReadID(mii, addr)
		if err != nil {
			return devs, fmt.Errorf("%s: read id at address %d: %w", busID, addr, err)
		}
		if id&invalidID == invalidID || id == 0 {
			continue
		}

		dev := NewDevice(mii, busID, addr, id)
		if err := b.RegisterDevice(dev); err != nil {
			if !errors.Is(err, errcode.ErrProbeFailed) {
				return devs, err
			}
			logger.Warn("PHY registered unbound", "device", dev.DeviceName(), "error", err)
		}
		logger.Info("found PHY", "device", dev.DeviceName(), "phy_id", fmt.Sprintf("0x%08x", id))
		devs = append(devs, dev)
	}
	return devs, nil
}
