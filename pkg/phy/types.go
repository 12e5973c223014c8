package phy

import (
	"fmt"
	"strings"
)

// DriverFlags describe properties of the PHYs a driver handles.
type DriverFlags uint32

// Driver flags.
const (
	// IsInternal marks a PHY integrated into the MAC.
	IsInternal DriverFlags = 1 << iota
	// ResetAfterClockEnable requests a soft reset once the reference
	// clock runs.
	ResetAfterClockEnable
	// PollCableTest requests polling for cable test results.
	PollCableTest
	// AlwaysCallSuspend calls Suspend even when wake-on-LAN is armed.
	AlwaysCallSuspend
)

var driverFlagNames = []struct {
	f    DriverFlags
	name string
}{
	{IsInternal, "IS_INTERNAL"},
	{ResetAfterClockEnable, "RST_AFTER_CLK_EN"},
	{PollCableTest, "POLL_CABLE_TEST"},
	{AlwaysCallSuspend, "ALWAYS_CALL_SUSPEND"},
}

// Has reports whether every flag in f2 is set.
func (f DriverFlags) Has(f2 DriverFlags) bool {
	return f&f2 == f2
}

func (f DriverFlags) String() string {
	var names []string
	for _, n := range driverFlagNames {
		if f.Has(n.f) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}

// DeviceState is the PHY state machine state.
type DeviceState uint8

// Device states.
const (
	StateDown DeviceState = iota
	StateReady
	StateHalted
	StateError
	StateUp
	StateRunning
	StateNoLink
	StateCableTest
)

var deviceStateNames = map[DeviceState]string{
	StateDown:      "DOWN",
	StateReady:     "READY",
	StateHalted:    "HALTED",
	StateError:     "ERROR",
	StateUp:        "UP",
	StateRunning:   "RUNNING",
	StateNoLink:    "NOLINK",
	StateCableTest: "CABLETEST",
}

func (s DeviceState) String() string {
	if name, ok := deviceStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", s)
}

// DuplexMode is the negotiated or forced duplex.
type DuplexMode uint8

// Duplex modes.
const (
	DuplexUnknown DuplexMode = iota
	DuplexHalf
	DuplexFull
)

func (d DuplexMode) String() string {
	switch d {
	case DuplexHalf:
		return "half"
	case DuplexFull:
		return "full"
	default:
		return "unknown"
	}
}

// Speed values in Mbit/s.
const (
	SpeedUnknown uint32 = 0
	Speed10      uint32 = 10
	Speed100     uint32 = 100
)

// Features is the set of link modes a PHY supports or advertises.
type Features uint16

// Link mode bits.
const (
	Feature10Half Features = 1 << iota
	Feature10Full
	Feature100Half
	Feature100Full
	FeatureAutoneg
)

var featureNames = []struct {
	f    Features
	name string
}{
	{Feature10Half, "10baseT/Half"},
	{Feature10Full, "10baseT/Full"},
	{Feature100Half, "100baseT/Half"},
	{Feature100Full, "100baseT/Full"},
	{FeatureAutoneg, "Autoneg"},
}

// Has reports whether every bit in f2 is set.
func (f Features) Has(f2 Features) bool {
	return f&f2 == f2
}

func (f Features) String() string {
	var names []string
	for _, n := range featureNames {
		if f.Has(n.f) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, " ")
}
