package interactive

import (
	"bytes"
	"strings"
	"testing"

	"github.com/devmodel/devmodel-go/pkg/bus"
	"github.com/devmodel/devmodel-go/pkg/initcall"
	"github.com/devmodel/devmodel-go/pkg/irq"
	"github.com/devmodel/devmodel-go/pkg/of"
	"github.com/devmodel/devmodel-go/pkg/phy"
	"github.com/devmodel/devmodel-go/pkg/platform"
	"github.com/devmodel/devmodel-go/pkg/samples"
)

const testBoard = `
soc:
  compatible: simple-bus
  sample@2000:
    compatible: cicv,sample
`

type harness struct {
	shell *Shell
	out   *bytes.Buffer
	plat  *platform.Bus
	phys  *phy.Bus
	sim   *phy.SimBus
	irqs  *irq.Domain
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	tree, err := of.LoadYAML([]byte(testBoard), "test.yaml")
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}

	h := &harness{
		out:  &bytes.Buffer{},
		plat: platform.NewBus(bus.DefaultConfig(platform.BusName)),
		phys: phy.NewBus(bus.DefaultConfig(phy.BusName)),
		sim:  phy.NewSimBus(),
		irqs: irq.NewDomain(),
	}
	if err := h.sim.AddPHY(4, samples.PHYSampleID, phy.BMSR100Full); err != nil {
		t.Fatalf("AddPHY failed: %v", err)
	}

	table := initcall.NewTable()
	mustRegister := func(level initcall.Level, name string, fn initcall.Func) {
		if err := table.Register(level, name, fn); err != nil {
			t.Fatalf("Register %s failed: %v", name, err)
		}
	}
	mustRegister(initcall.LevelSubsys, "populate", func() int {
		n, err := platform.Populate(h.plat, tree, nil)
		if err != nil {
			return -1
		}
		return n
	})
	if err := samples.Install(table, samples.Env{Platform: h.plat, PHY: h.phys, IRQ: h.irqs}); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	mustRegister(initcall.LevelLate, "mdio_scan", func() int {
		devs, err := phy.Scan(h.phys, h.sim, "sim", nil)
		if err != nil {
			return -1
		}
		for _, d := range devs {
			if err := d.Start(); err != nil {
				return -1
			}
		}
		return len(devs)
	})

	seq := initcall.NewSequencer(table, initcall.Options{})
	if err := seq.Run(); err != nil {
		t.Fatalf("boot failed: %v", err)
	}
	t.Cleanup(table.ExitModules)

	h.shell = newShell(Env{
		Platform:  h.plat,
		PHY:       h.phys,
		MDIO:      h.sim,
		IRQ:       h.irqs,
		Initcalls: table,
		Sequencer: seq,
		Tree:      tree,
	}, h.out)
	return h
}

// exec runs line and returns the output it produced.
func (h *harness) exec(t *testing.T, line string) string {
	t.Helper()
	h.out.Reset()
	if !h.shell.Exec(line) {
		t.Fatalf("%q requested exit", line)
	}
	return h.out.String()
}

func TestShellDevices(t *testing.T) {
	h := newHarness(t)

	out := h.exec(t, "devices")
	if !strings.Contains(out, "/soc/sample@2000") || !strings.Contains(out, "platform_sample") {
		t.Errorf("platform device missing:\n%s", out)
	}
	if !strings.Contains(out, "sim:04") || !strings.Contains(out, "PhySample") {
		t.Errorf("PHY device missing:\n%s", out)
	}

	out = h.exec(t, "drivers")
	for _, want := range []string{"platform_sample", "i2c_designware", "RTL8201F Fast Ethernet"} {
		if !strings.Contains(out, want) {
			t.Errorf("drivers missing %q:\n%s", want, out)
		}
	}
}

func TestShellBindUnbind(t *testing.T) {
	h := newHarness(t)
	dev, ok := h.plat.Lookup("/soc/sample@2000")
	if !ok {
		t.Fatal("sample device not registered")
	}

	if out := h.exec(t, "unbind /soc/sample@2000"); !strings.Contains(out, "ok") {
		t.Errorf("unbind output: %s", out)
	}
	if h.plat.IsBound(dev) {
		t.Fatal("device still bound after unbind")
	}

	if out := h.exec(t, "bind /soc/sample@2000"); !strings.Contains(out, "ok") {
		t.Errorf("bind output: %s", out)
	}
	if !h.plat.IsBound(dev) {
		t.Fatal("device not bound after bind")
	}

	if out := h.exec(t, "bind /soc/sample@2000"); !strings.Contains(out, "Error:") {
		t.Errorf("expected error binding a bound device: %s", out)
	}
	if out := h.exec(t, "bind nothing"); !strings.Contains(out, "No such device") {
		t.Errorf("unexpected output: %s", out)
	}
	if out := h.exec(t, "bind"); !strings.Contains(out, "Usage: bind") {
		t.Errorf("expected usage: %s", out)
	}
}

func TestShellSuspendResumePHY(t *testing.T) {
	h := newHarness(t)

	out := h.exec(t, "suspend sim:04")
	if !strings.Contains(out, "Error:") && !strings.Contains(out, "ok") {
		t.Errorf("unexpected output: %s", out)
	}
	if out := h.exec(t, "resume nothing"); !strings.Contains(out, "No such device") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestShellIRQ(t *testing.T) {
	h := newHarness(t)

	var fired int
	if _, err := irq.TryNew(h.irqs, 40, &fired, 0, "test", func(n *int) irq.Return {
		*n++
		return irq.Handled
	}); err != nil {
		t.Fatalf("TryNew failed: %v", err)
	}

	if out := h.exec(t, "irq 40"); !strings.Contains(out, "irq 40: HANDLED") {
		t.Errorf("unexpected output: %s", out)
	}
	if fired != 1 {
		t.Errorf("handler ran %d times, want 1", fired)
	}
	if out := h.exec(t, "irq 41"); !strings.Contains(out, "irq 41: NONE") {
		t.Errorf("unexpected output: %s", out)
	}
	if out := h.exec(t, "irq x"); !strings.Contains(out, "Invalid line") {
		t.Errorf("unexpected output: %s", out)
	}

	out := h.exec(t, "irqs")
	if !strings.Contains(out, "40") || !strings.Contains(out, "test") {
		t.Errorf("irqs missing line 40:\n%s", out)
	}
}

func TestShellLink(t *testing.T) {
	h := newHarness(t)

	if out := h.exec(t, "link 4 up"); !strings.Contains(out, "sim:04: link up") {
		t.Errorf("unexpected output: %s", out)
	}
	out := h.exec(t, "phys")
	if !strings.Contains(out, "RUNNING") || !strings.Contains(out, "100/full") {
		t.Errorf("unexpected phys output:\n%s", out)
	}

	if out := h.exec(t, "link 4 down"); !strings.Contains(out, "sim:04: link down") {
		t.Errorf("unexpected output: %s", out)
	}
	if out := h.exec(t, "link 9 up"); !strings.Contains(out, "Error:") {
		t.Errorf("expected error for empty address: %s", out)
	}
	if out := h.exec(t, "link 4 sideways"); !strings.Contains(out, "Usage: link") {
		t.Errorf("expected usage: %s", out)
	}
}

func TestShellInitcallsAndTree(t *testing.T) {
	h := newHarness(t)

	out := h.exec(t, "initcalls")
	for _, want := range []string{"State: COMPLETED", "populate", "mdio_scan", "Modules:", samples.PHYSampleInitcall} {
		if !strings.Contains(out, want) {
			t.Errorf("initcalls missing %q:\n%s", want, out)
		}
	}

	out = h.exec(t, "tree")
	if !strings.Contains(out, "  soc [simple-bus]") || !strings.Contains(out, "    sample@2000 [cicv,sample]") {
		t.Errorf("unexpected tree:\n%s", out)
	}
}

func TestShellQuitAndUnknown(t *testing.T) {
	h := newHarness(t)

	if out := h.exec(t, "frobnicate"); !strings.Contains(out, "Unknown command: frobnicate") {
		t.Errorf("unexpected output: %s", out)
	}
	if out := h.exec(t, "   "); out != "" {
		t.Errorf("blank line produced output: %q", out)
	}
	if h.shell.Exec("quit") {
		t.Error("quit should end the shell")
	}
}
