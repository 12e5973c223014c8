package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmodel/devmodel-go/pkg/bus"
	"github.com/devmodel/devmodel-go/pkg/driver"
	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/irq"
	"github.com/devmodel/devmodel-go/pkg/of"
)

type fooInfo struct {
	variant int
}

type fooData struct {
	dev     *Device
	variant int
}

type fooDriver struct {
	table  *driver.Table[of.DeviceID, fooInfo]
	failOn string
}

func newFooDriver() *fooDriver {
	return &fooDriver{table: driver.MustTable(
		driver.NewEntryWithInfo(of.Compatible("vendor,foo"), fooInfo{variant: 1}),
		driver.NewEntryWithInfo(of.Compatible("vendor,foo-v2"), fooInfo{variant: 2}),
	)}
}

func (d *fooDriver) Name() string                                 { return "foo" }
func (d *fooDriver) IDTable() *driver.Table[of.DeviceID, fooInfo] { return d.table }

func (d *fooDriver) Probe(dev *Device, info *fooInfo) (*fooData, error) {
	if dev.DeviceName() == d.failOn {
		return nil, errcode.ErrIO
	}
	return &fooData{dev: dev, variant: info.variant}, nil
}

func simpleBusTree() *of.Tree {
	t := of.NewTree()
	b := t.Root().AddChild("bus")
	b.SetStrings(of.PropCompatible, "simple-bus")
	b.AddChild("foo@0").SetStrings(of.PropCompatible, "vendor,foo")
	b.AddChild("nocompat@1").SetCells("reg", 1)
	return t
}

func TestPopulateCreatesOneDevice(t *testing.T) {
	b := NewBus(bus.DefaultConfig(""))
	n, err := Populate(b, simpleBusTree(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	devs := b.Devices()
	require.Len(t, devs, 1)
	assert.Equal(t, "/bus/foo@0", devs[0].DeviceName())
	assert.Equal(t, BusName, b.Name())
}

func TestRegisterBindsPopulatedDevice(t *testing.T) {
	b := NewBus(bus.DefaultConfig(BusName))
	_, err := Populate(b, simpleBusTree(), nil)
	require.NoError(t, err)

	reg, err := Register[fooInfo, *fooData](b, newFooDriver())
	require.NoError(t, err)
	assert.True(t, reg.IsRegistered())

	dev := b.Devices()[0]
	data, ok := reg.Data(dev)
	require.True(t, ok)
	assert.Same(t, dev, data.dev)
	assert.Equal(t, 1, data.variant)

	reg.Unregister()
	assert.False(t, b.IsBound(dev))
	assert.Empty(t, b.Drivers())
}

func TestRegisterBeforePopulate(t *testing.T) {
	b := NewBus(bus.DefaultConfig(BusName))
	reg, err := Register[fooInfo, *fooData](b, newFooDriver())
	require.NoError(t, err)

	tree := of.NewTree()
	sb := tree.Root().AddChild("soc").SetStrings(of.PropCompatible, "simple-mfd")
	sb.AddChild("foo@1").SetStrings(of.PropCompatible, "vendor,foo-v2")

	_, err = Populate(b, tree, nil)
	require.NoError(t, err)

	data, ok := reg.Data(b.Devices()[0])
	require.True(t, ok)
	assert.Equal(t, 2, data.variant, "entry context follows the matched entry")
}

func TestPopulateContinuesAfterProbeFailure(t *testing.T) {
	b := NewBus(bus.DefaultConfig(BusName))
	drv := newFooDriver()
	drv.failOn = "/bus/foo@0"
	_, err := Register[fooInfo, *fooData](b, drv)
	require.NoError(t, err)

	tree := simpleBusTree()
	tree.FindByPath("/bus").AddChild("foo@2").SetStrings(of.PropCompatible, "vendor,foo")

	n, err := Populate(b, tree, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	devs := b.Devices()
	assert.False(t, b.IsBound(devs[0]))
	assert.True(t, b.IsBound(devs[1]))
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	b := NewBus(bus.DefaultConfig(BusName))
	_, err := Register[fooInfo, *fooData](b, newFooDriver())
	require.NoError(t, err)
	_, err = Register[fooInfo, *fooData](b, newFooDriver())
	assert.ErrorIs(t, err, errcode.ErrBusy)
}

func irqTree() *of.Tree {
	t := of.NewTree()
	t.Root().AddChild("gic").
		SetCells(of.PropInterruptCells, 3).
		SetCells(of.PropPhandle, 1)
	soc := t.Root().AddChild("soc").
		SetStrings(of.PropCompatible, "simple-bus").
		SetCells(of.PropInterruptParent, 1)
	soc.AddChild("i2c@1000").
		SetStrings(of.PropCompatible, "snps,designware-i2c").
		SetCells(of.PropInterrupts, 0, 40, 4, 0, 41, 4)
	return t
}

func TestDeviceIRQ(t *testing.T) {
	dev := NewDevice(irqTree().FindByPath("/soc/i2c@1000"))

	assert.Equal(t, 2, dev.IRQCount())
	n, err := dev.IRQ(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(41), n)
}

func TestRequestIRQ(t *testing.T) {
	dev := NewDevice(irqTree().FindByPath("/soc/i2c@1000"))
	d := irq.NewDomain()

	hits := 0
	reg, err := RequestIRQ(d, dev, 0, &hits, irq.Shared, "i2c", func(h *int) irq.Return {
		*h++
		return irq.Handled
	})
	require.NoError(t, err)
	defer reg.Close()

	assert.Equal(t, irq.Handled, d.Raise(40))
	assert.Equal(t, irq.None, d.Raise(41))
	assert.Equal(t, 1, hits)

	_, err = RequestIRQ(d, dev, 5, &hits, 0, "i2c", func(*int) irq.Return { return irq.None })
	assert.Error(t, err)
}

func TestStaticDevice(t *testing.T) {
	dev := NewStaticDevice("sample0", "cicv,sample")
	assert.Equal(t, "sample0", dev.DeviceName())
	assert.True(t, dev.MatchID(of.Compatible("cicv,sample")))
	assert.False(t, dev.MatchID(of.Compatible("vendor,foo")))
	_, err := dev.IRQ(0)
	assert.Error(t, err)
}

func swapDefaultBus(t *testing.T) {
	t.Helper()
	saved := defaultBus
	defaultBus = bus.NewLazy[*Device](bus.DefaultConfig(BusName))
	t.Cleanup(func() { defaultBus = saved })
}

func TestDefaultBusConfiguration(t *testing.T) {
	swapDefaultBus(t)

	cfg := bus.DefaultConfig("")
	cfg.ProbeOnDeviceAdd = false
	require.NoError(t, ConfigureDefault(cfg))

	b := Default()
	assert.Same(t, b, Default())
	assert.Equal(t, BusName, b.Name())
	assert.True(t, errors.Is(ConfigureDefault(cfg), errcode.ErrBusy))
}

func TestPopulateDefault(t *testing.T) {
	swapDefaultBus(t)
	savedTree := of.Default()
	t.Cleanup(func() { of.SetDefault(savedTree) })

	of.SetDefault(nil)
	assert.Equal(t, 0, populateDefault())

	of.SetDefault(simpleBusTree())
	assert.Equal(t, 1, populateDefault())
	assert.Len(t, Default().Devices(), 1)

	// Same nodes again: every device is already registered.
	assert.Equal(t, -errcode.EBUSY, populateDefault())
}
