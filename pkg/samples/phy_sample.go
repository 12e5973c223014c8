package samples

import (
	"log/slog"

	"github.com/devmodel/devmodel-go/pkg/phy"
)

// PHY identifiers handled by the samples.
const (
	PHYSampleID = 0x00000001
	RTL8201FID  = 0x001cc816
)

// PHYSample binds a single identifier and relies on the generic
// implementations for everything else.
type PHYSample struct{}

func (PHYSample) Name() string     { return "PhySample" }
func (PHYSample) ID() phy.DeviceID { return phy.ExactID(PHYSampleID) }

// RTL8201F handles every revision of the Realtek RTL8201F.
type RTL8201F struct {
	Logger *slog.Logger
}

func (*RTL8201F) Name() string                { return "RTL8201F Fast Ethernet" }
func (*RTL8201F) ID() phy.DeviceID            { return phy.ModelID(RTL8201FID) }
func (*RTL8201F) Flags() phy.DriverFlags      { return phy.ResetAfterClockEnable }
func (*RTL8201F) Suspend(d *phy.Device) error { return phy.GenphySuspend(d) }
func (*RTL8201F) Resume(d *phy.Device) error  { return phy.GenphyResume(d) }

// LinkChangeNotify logs the resolved link.
func (r *RTL8201F) LinkChangeNotify(d *phy.Device) {
	logger := orDefault(r.Logger)
	if d.IsLinkUp() {
		logger.Info("link up", "device", d.DeviceName(), "speed", d.Speed(), "duplex", d.Duplex().String())
		return
	}
	logger.Info("link down", "device", d.DeviceName())
}

// PHYDrivers returns the sample PHY driver tables in registration order.
func PHYDrivers(logger *slog.Logger) []*phy.VTable {
	return []*phy.VTable{
		phy.NewVTable(PHYSample{}),
		phy.NewVTable(&RTL8201F{Logger: logger}),
	}
}
