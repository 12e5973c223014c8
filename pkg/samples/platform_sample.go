package samples

import (
	"log/slog"

	"github.com/devmodel/devmodel-go/pkg/driver"
	"github.com/devmodel/devmodel-go/pkg/of"
	"github.com/devmodel/devmodel-go/pkg/platform"
)

// PlatformSampleCompatible is the compatible string PlatformSample binds.
const PlatformSampleCompatible = "cicv,sample"

var platformSampleIDs = driver.MustTable(
	driver.NewEntry[of.DeviceID, struct{}](of.Compatible(PlatformSampleCompatible)),
)

// PlatformSample is a platform driver that only logs its probe.
type PlatformSample struct {
	Logger *slog.Logger
}

func (*PlatformSample) Name() string                                  { return "platform_sample" }
func (*PlatformSample) IDTable() *driver.Table[of.DeviceID, struct{}] { return platformSampleIDs }

// Probe logs the bound device.
func (s *PlatformSample) Probe(dev *platform.Device, _ *struct{}) (struct{}, error) {
	orDefault(s.Logger).Info("platform sample probed", "device", dev.DeviceName())
	return struct{}{}, nil
}
