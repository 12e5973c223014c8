package samples

import (
	"errors"
	"log/slog"

	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/initcall"
	"github.com/devmodel/devmodel-go/pkg/irq"
	"github.com/devmodel/devmodel-go/pkg/phy"
	"github.com/devmodel/devmodel-go/pkg/platform"
)

// Env selects the buses the samples register with. Nil fields resolve to
// the process-wide defaults when the initcall runs.
type Env struct {
	Platform *platform.Bus
	PHY      *phy.Bus
	IRQ      irq.Controller
	Logger   *slog.Logger
}

func (e Env) platformBus() *platform.Bus {
	if e.Platform != nil {
		return e.Platform
	}
	return platform.Default()
}

func (e Env) phyBus() *phy.Bus {
	if e.PHY != nil {
		return e.PHY
	}
	return phy.Default()
}

func (e Env) logger() *slog.Logger {
	return orDefault(e.Logger)
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// Initcall names.
const (
	MinimalInitcall        = "minimal_sample"
	DesignWareI2CInitcall  = "i2c_designware"
	PlatformSampleInitcall = "platform_sample"
	PHYSampleInitcall      = "phy_sample"
)

// Install registers every sample with t.
func Install(t *initcall.Table, env Env) error {
	return errors.Join(
		initcall.RegisterModule(t, initcall.LevelSubsys, DesignWareI2CInitcall, func() (*DriverModule, error) {
			r, err := platform.Register[struct{}, *DesignWareI2CData](env.platformBus(), &DesignWareI2C{IRQ: env.IRQ, Logger: env.logger()})
			return newDriverModule(DesignWareI2CInitcall, r, err, env.logger())
		}),
		initcall.RegisterModule(t, initcall.LevelDevice, MinimalInitcall, func() (*Minimal, error) {
			return NewMinimal(env.logger())
		}),
		initcall.RegisterModule(t, initcall.LevelDevice, PlatformSampleInitcall, func() (*DriverModule, error) {
			r, err := platform.Register[struct{}, struct{}](env.platformBus(), &PlatformSample{Logger: env.logger()})
			return newDriverModule(PlatformSampleInitcall, r, err, env.logger())
		}),
		initcall.RegisterModule(t, initcall.LevelDevice, PHYSampleInitcall, func() (*DriverModule, error) {
			r, err := phy.RegisterDrivers(env.phyBus(), PHYDrivers(env.logger())...)
			return newDriverModule(PHYSampleInitcall, r, err, env.logger())
		}),
	)
}

// unregisterer is implemented by platform and PHY registrations.
type unregisterer interface {
	Unregister()
}

// DriverModule holds a driver registration for the lifetime of the
// module.
type DriverModule struct {
	name string
	reg  unregisterer
}

// newDriverModule wraps the result of a driver registration. A probe
// failure unregisters the driver again and fails the module load.
func newDriverModule(name string, reg unregisterer, err error, logger *slog.Logger) (*DriverModule, error) {
	if err != nil {
		if errors.Is(err, errcode.ErrProbeFailed) {
			logger.Error("driver probe failed, unloading module", "module", name, "error", err)
			reg.Unregister()
		}
		return nil, err
	}
	return &DriverModule{name: name, reg: reg}, nil
}

// Name returns the module name.
func (m *DriverModule) Name() string {
	return m.name
}

// Exit unregisters the driver.
func (m *DriverModule) Exit() {
	m.reg.Unregister()
}

func init() {
	if err := Install(initcall.Default(), Env{}); err != nil {
		panic(err)
	}
}
