package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/initcall"
	"github.com/devmodel/devmodel-go/pkg/phy"
	"github.com/devmodel/devmodel-go/pkg/platform"
)

// MDIOScanInitcall is the name of the late initcall scanning the
// simulated management bus.
const MDIOScanInitcall = "mdio_scan"

// partnerAll is the advertisement of a link partner supporting every mode.
const partnerAll = phy.AdvertiseCSMA | phy.Advertise10Half | phy.Advertise10Full | phy.Advertise100Half | phy.Advertise100Full

// newSimMDIO builds the simulated bus described by cfg.
func newSimMDIO(cfg MDIOConfig) (*phy.SimBus, error) {
	sim := phy.NewSimBus()
	for _, p := range cfg.PHYs {
		abilities, err := p.Abilities()
		if err != nil {
			return nil, err
		}
		if err := sim.AddPHY(p.Addr, p.ID, abilities); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

// registerMDIOScan adds the late initcall that scans sim into b, brings
// the bound PHYs up and connects the configured link partners.
func registerMDIOScan(t *initcall.Table, b *phy.Bus, sim *phy.SimBus, cfg MDIOConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	return t.Register(initcall.LevelLate, MDIOScanInitcall, func() int {
		devs, err := phy.Scan(b, sim, cfg.BusID, logger)
		if err != nil {
			logger.Error("mdio scan failed", "bus", cfg.BusID, "error", err)
			return errcode.Errno(err)
		}
		for _, p := range cfg.PHYs {
			if !p.Link {
				continue
			}
			if err := sim.SetLink(p.Addr, true, partnerAll); err != nil {
				logger.Warn("connect link partner", "addr", p.Addr, "error", err)
			}
		}
		for _, dev := range devs {
			if dev.Driver() == "" {
				continue
			}
			if err := dev.Start(); err != nil {
				logger.Warn("PHY start failed", "device", dev.DeviceName(), "error", err)
				continue
			}
			if _, err := dev.Poll(); err != nil {
				logger.Warn("PHY poll failed", "device", dev.DeviceName(), "error", err)
			}
		}
		return len(devs)
	})
}

// printBindings writes one line per device on the platform and PHY buses.
func printBindings(w io.Writer, pb *platform.Bus, mb *phy.Bus) {
	fmt.Fprintf(w, "%-10s %-28s %s\n", "BUS", "DEVICE", "DRIVER")
	for _, dev := range pb.Devices() {
		fmt.Fprintf(w, "%-10s %-28s %s\n", pb.Name(), dev.DeviceName(), driverOrDash(pb.DriverOf(dev)))
	}
	for _, dev := range mb.Devices() {
		fmt.Fprintf(w, "%-10s %-28s %s\n", mb.Name(), dev.DeviceName(), driverOrDash(mb.DriverOf(dev)))
	}
}

func driverOrDash(name string, ok bool) string {
	if !ok {
		return "-"
	}
	return name
}
