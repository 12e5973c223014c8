package platform

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/devmodel/devmodel-go/pkg/bus"
	"github.com/devmodel/devmodel-go/pkg/driver"
	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/initcall"
	"github.com/devmodel/devmodel-go/pkg/of"
)

// BusName is the platform bus class name.
const BusName = "platform"

// Bus is the platform device registry.
type Bus = bus.Registry[*Device]

// Ops is the dispatch record of a platform driver.
type Ops = driver.Ops[*Device]

// NewBus creates a platform registry.
func NewBus(cfg bus.Config) *Bus {
	if cfg.Name == "" {
		cfg.Name = BusName
	}
	return bus.NewRegistry[*Device](cfg)
}

var defaultBus = bus.NewLazy[*Device](bus.DefaultConfig(BusName))

// Default returns the process-wide platform bus, creating it on first
// use.
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
		return fmt.Errorf("platform: %w", err)
	}
	return nil
}

// Driver is the platform driver contract.
type Driver[C, P any] interface {
	driver.Driver[*Device, of.DeviceID, C, P]
}

// Registration is a registered platform driver.
type Registration[C, P any] struct {
	*driver.Registration[*Ops]
	adapter *driver.Adapter[*Device, of.DeviceID, C, P]
}

// Data returns the private data drv stored for a bound device.
func (r *Registration[C, P]) Data(dev *Device) (P, bool) {
	return r.adapter.Data(dev)
}

// Ops returns the driver's dispatch record.
func (r *Registration[C, P]) Ops() *Ops {
	return r.adapter.Ops()
}

// Register adapts drv and registers it with b. Probe failures are
// returned but leave the driver registered; see bus.Registry.RegisterDriver.
func Register[C, P any](b *Bus, drv Driver[C, P]) (*Registration[C, P], error) {
	a, err := driver.NewAdapter[*Device, of.DeviceID, C, P](drv)
	if err != nil {
		return nil, err
	}
	reg := &Registration[C, P]{
		Registration: b.Registration(a.Ops()),
		adapter:      a,
	}
	return reg, reg.Register()
}

// Populate creates a device for every child of a bus-container node in t
// and registers it with b. Probe failures of individual devices are
// logged; any other registration error stops population.
func Populate(b *Bus, t *of.Tree, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	count := 0
	err := of.Populate(t, of.DefaultBusMatchTable, logger, func(node *of.Node) error {
		dev := NewDevice(node)
		if err := b.RegisterDevice(dev); err != nil {
			if !errors.Is(err, errcode.ErrProbeFailed) {
				return err
			}
			logger.Warn("device registered unbound", "device", dev.DeviceName(), "error", err)
		}
		count++
		logger.Info("create platform device", "device", dev.DeviceName(), "compatible", node.Compatible()[0])
		return nil
	})
	return count, err
}

// populateDefault is the boot-time population routine.
func populateDefault() int {
	t := of.Default()
	if t == nil {
		slog.Debug("no firmware tree installed, skipping platform population")
		return 0
	}
	n, err := Populate(Default(), t, nil)
	if err != nil {
		slog.Error("platform population failed", "error", err)
		return errcode.Errno(err)
	}
	return n
}

// PopulateInitcall is the name of the boot-time population routine.
const PopulateInitcall = "of_platform_default_populate"

func init() {
	initcall.MustRegister(initcall.LevelSubsys, PopulateInitcall, populateDefault)
}
