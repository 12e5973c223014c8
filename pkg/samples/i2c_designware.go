package samples

import (
	"log/slog"
	"sync/atomic"

	"github.com/devmodel/devmodel-go/pkg/driver"
	"github.com/devmodel/devmodel-go/pkg/irq"
	"github.com/devmodel/devmodel-go/pkg/of"
	"github.com/devmodel/devmodel-go/pkg/platform"
)

// DesignWareI2CCompatible is the compatible string of the DesignWare APB
// I2C controller.
const DesignWareI2CCompatible = "snps,designware-i2c"

// I2C adapter functionality bits.
const (
	I2CFuncI2C        uint32 = 0x00000001
	I2CFunc10BitAddr  uint32 = 0x00000002
	I2CFuncSMBusQuick uint32 = 0x00010000
	I2CFuncSMBusEmul  uint32 = 0x0eff0008
)

var designWareI2CIDs = driver.MustTable(
	driver.NewEntry[of.DeviceID, struct{}](of.Compatible(DesignWareI2CCompatible)),
)

// DesignWareI2C is the platform driver of the DesignWare I2C controller.
// Probe requests the device's first interrupt.
type DesignWareI2C struct {
	// IRQ is the interrupt controller; nil uses irq.Default().
	IRQ    irq.Controller
	Logger *slog.Logger
}

// DesignWareI2CData is the per-controller state.
type DesignWareI2CData struct {
	dev     *platform.Device
	irq     *irq.Registration
	logger  *slog.Logger
	handled atomic.Uint64
}

func (*DesignWareI2C) Name() string                                  { return "i2c_designware" }
func (*DesignWareI2C) IDTable() *driver.Table[of.DeviceID, struct{}] { return designWareI2CIDs }

// Probe requests interrupt 0 of dev. A device without interrupts fails
// to probe.
func (d *DesignWareI2C) Probe(dev *platform.Device, _ *struct{}) (*DesignWareI2CData, error) {
	logger := orDefault(d.Logger)
	data := &DesignWareI2CData{dev: dev, logger: logger}
	reg, err := platform.RequestIRQ(d.IRQ, dev, 0, data, irq.Shared, "i2c_designware", (*DesignWareI2CData).service)
	if err != nil {
		return nil, err
	}
	data.irq = reg
	logger.Info("designware i2c probed", "device", dev.DeviceName(), "irq", reg.IRQ())
	return data, nil
}

// HandleIRQ services an interrupt dispatched through the bus.
func (d *DesignWareI2C) HandleIRQ(data *DesignWareI2CData, line uint32) irq.Return {
	if line != data.irq.IRQ() {
		return irq.None
	}
	return data.service()
}

// Functionality reports plain I2C with SMBus emulation.
func (d *DesignWareI2C) Functionality(*DesignWareI2CData) uint32 {
	return I2CFuncI2C | I2CFunc10BitAddr | I2CFuncSMBusEmul
}

// Remove logs the teardown. The interrupt is released by DeviceRemove.
func (d *DesignWareI2C) Remove(data *DesignWareI2CData) error {
	data.logger.Info("designware i2c removed", "device", data.dev.DeviceName())
	return nil
}

func (c *DesignWareI2CData) service() irq.Return {
	n := c.handled.Add(1)
	c.logger.Debug("i2c interrupt", "device", c.dev.DeviceName(), "count", n)
	return irq.Handled
}

// Handled returns the number of interrupts serviced.
func (c *DesignWareI2CData) Handled() uint64 {
	return c.handled.Load()
}

// IRQ returns the requested interrupt line.
func (c *DesignWareI2CData) IRQ() uint32 {
	return c.irq.IRQ()
}

// DeviceRemove frees the interrupt.
func (c *DesignWareI2CData) DeviceRemove() {
	if err := c.irq.Close(); err != nil {
		c.logger.Warn("free i2c interrupt", "device", c.dev.DeviceName(), "error", err)
	}
}
