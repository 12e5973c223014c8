package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/devmodel/devmodel-go/pkg/bus"
	"github.com/devmodel/devmodel-go/pkg/initcall"
	"github.com/devmodel/devmodel-go/pkg/phy"
	"github.com/devmodel/devmodel-go/pkg/platform"
	"github.com/devmodel/devmodel-go/pkg/samples"
)

func TestMDIOScanInitcall(t *testing.T) {
	cfg := MDIOConfig{
		BusID: "sim-mdio",
		PHYs: []PHYConfig{
			{Addr: 1, ID: samples.RTL8201FID, Features: []string{"100full", "10full"}, Link: true},
			{Addr: 4, ID: samples.PHYSampleID},
			{Addr: 7, ID: 0x00221556},
		},
	}
	sim, err := newSimMDIO(cfg)
	if err != nil {
		t.Fatalf("newSimMDIO failed: %v", err)
	}

	phys := phy.NewBus(bus.DefaultConfig(phy.BusName))
	reg, err := phy.RegisterDrivers(phys, samples.PHYDrivers(nil)...)
	if err != nil {
		t.Fatalf("RegisterDrivers failed: %v", err)
	}
	defer reg.Unregister()

	table := initcall.NewTable()
	if err := registerMDIOScan(table, phys, sim, cfg, nil); err != nil {
		t.Fatalf("registerMDIOScan failed: %v", err)
	}
	seq := initcall.NewSequencer(table, initcall.Options{})
	if err := seq.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := seq.Results()[0].Code; got != 3 {
		t.Errorf("mdio_scan returned %d, want 3 devices", got)
	}

	devs := phys.Devices()
	if len(devs) != 3 {
		t.Fatalf("expected 3 PHYs, got %d", len(devs))
	}

	rtl := devs[0]
	if rtl.Driver() != "RTL8201F Fast Ethernet" {
		t.Errorf("addr 1 bound to %q", rtl.Driver())
	}
	if !rtl.IsLinkUp() {
		t.Fatal("expected link up on addr 1")
	}
	if rtl.Speed() != phy.Speed100 || rtl.Duplex() != phy.DuplexFull {
		t.Errorf("resolved %d/%s, want 100/full", rtl.Speed(), rtl.Duplex())
	}

	if devs[1].State() != phy.StateNoLink {
		t.Errorf("addr 4 state = %s, want NOLINK", devs[1].State())
	}
	if devs[2].Driver() != "" {
		t.Errorf("addr 7 should stay unbound, got %q", devs[2].Driver())
	}

	var buf bytes.Buffer
	printBindings(&buf, platform.NewBus(bus.DefaultConfig(platform.BusName)), phys)
	out := buf.String()
	for _, want := range []string{"sim-mdio:01", "RTL8201F Fast Ethernet", "PhySample"} {
		if !strings.Contains(out, want) {
			t.Errorf("bindings missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "sim-mdio:07") || strings.Count(out, " -\n") != 1 {
		t.Errorf("expected one unbound PHY:\n%s", out)
	}
}

func TestNewSimMDIOErrors(t *testing.T) {
	if _, err := newSimMDIO(MDIOConfig{PHYs: []PHYConfig{{Addr: 1, Features: []string{"bogus"}}}}); err == nil {
		t.Error("expected error for unknown feature")
	}
	if _, err := newSimMDIO(MDIOConfig{PHYs: []PHYConfig{{Addr: 1, ID: 1}, {Addr: 1, ID: 2}}}); err == nil {
		t.Error("expected error for duplicate address")
	}
}
