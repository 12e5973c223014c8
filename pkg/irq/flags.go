package irq

import "strings"

// Flags configures an interrupt request.
type Flags uint32

// Interrupt request flags.
const (
	// TriggerNone uses the line as already configured.
	TriggerNone Flags = 1 << iota
	// TriggerRising fires on a low-to-high transition.
	TriggerRising
	// Shared allows several handlers on one line.
	Shared
	// NoSuspend keeps the line enabled across suspend.
	NoSuspend
	// CondSuspend runs the handler after suspend if the line is shared
	// with a NoSuspend user.
	CondSuspend
	// PerCPU marks a per-CPU interrupt.
	PerCPU
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{TriggerNone, "TRIGGER_NONE"},
	{TriggerRising, "TRIGGER_RISING"},
	{Shared, "SHARED"},
	{NoSuspend, "NO_SUSPEND"},
	{CondSuspend, "COND_SUSPEND"},
	{PerCPU, "PERCPU"},
}

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String returns the flag names joined with '|'.
func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, n := range flagNames {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Return is the result of an interrupt handler.
type Return uint8

// Handler results. Results of handlers sharing a line are OR-ed.
const (
	// None means the interrupt was not from this device.
	None Return = 0
	// Handled means the interrupt was serviced.
	Handled Return = 1 << 0
	// WakeThread asks for the threaded handler to run.
	WakeThread Return = 1 << 1
)

// String returns the result name.
func (r Return) String() string {
	switch r {
	case None:
		return "NONE"
	case Handled:
		return "HANDLED"
	case WakeThread:
		return "WAKE_THREAD"
	case Handled | WakeThread:
		return "HANDLED|WAKE_THREAD"
	default:
		return "UNKNOWN"
	}
}
