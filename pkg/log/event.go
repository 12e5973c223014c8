package log

import "time"

// Event is one driver-model trace record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// BootID identifies the boot session (UUID).
	BootID string `cbor:"2,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"3,keyasint"`

	// Bus is the bus class name (empty for initcall and boot events).
	Bus string `cbor:"4,keyasint,omitempty"`

	// Device is the device name, when the event concerns one device.
	Device string `cbor:"5,keyasint,omitempty"`

	// Driver is the driver name, when the event concerns one driver.
	Driver string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Registration *RegistrationEvent `cbor:"10,keyasint,omitempty"`
	Probe        *ProbeEvent        `cbor:"11,keyasint,omitempty"`
	Remove       *RemoveEvent       `cbor:"12,keyasint,omitempty"`
	Initcall     *InitcallEvent     `cbor:"13,keyasint,omitempty"`
	IRQ          *IRQEvent          `cbor:"14,keyasint,omitempty"`
	Boot         *BootEvent         `cbor:"15,keyasint,omitempty"`
	Error        *ErrorEventData    `cbor:"16,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryRegistration indicates a device or driver list change.
	CategoryRegistration Category = 0
	// CategoryProbe indicates a probe attempt.
	CategoryProbe Category = 1
	// CategoryRemove indicates a device being detached from its driver.
	CategoryRemove Category = 2
	// CategoryInitcall indicates an initcall invocation.
	CategoryInitcall Category = 3
	// CategoryIRQ indicates an interrupt request or release.
	CategoryIRQ Category = 4
	// CategoryBoot indicates a boot sequence state change.
	CategoryBoot Category = 5
	// CategoryError indicates an error outside the other categories.
	CategoryError Category = 6
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryRegistration:
		return "REGISTRATION"
	case CategoryProbe:
		return "PROBE"
	case CategoryRemove:
		return "REMOVE"
	case CategoryInitcall:
		return "INITCALL"
	case CategoryIRQ:
		return "IRQ"
	case CategoryBoot:
		return "BOOT"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the category with the given name (case-sensitive,
// as produced by String).
func ParseCategory(name string) (Category, bool) {
	for c := CategoryRegistration; c <= CategoryError; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// RegistrationKind distinguishes registry list changes.
type RegistrationKind uint8

const (
	DriverAdded   RegistrationKind = 0
	DriverRemoved RegistrationKind = 1
	DeviceAdded   RegistrationKind = 2
	DeviceRemoved RegistrationKind = 3
)

// String returns the kind name.
func (k RegistrationKind) String() string {
	switch k {
	case DriverAdded:
		return "DRIVER_ADDED"
	case DriverRemoved:
		return "DRIVER_REMOVED"
	case DeviceAdded:
		return "DEVICE_ADDED"
	case DeviceRemoved:
		return "DEVICE_REMOVED"
	default:
		return "UNKNOWN"
	}
}

// RegistrationEvent captures a registry list change.
type RegistrationEvent struct {
	Kind RegistrationKind `cbor:"1,keyasint"`

	// Matches is the number of devices the new driver matched (DriverAdded
	// only).
	Matches int `cbor:"2,keyasint,omitempty"`
}

// ProbeEvent captures one probe attempt.
type ProbeEvent struct {
	// Entry is the index of the matching id-table entry.
	Entry int `cbor:"1,keyasint"`

	// Success reports whether the driver claimed the device.
	Success bool `cbor:"2,keyasint"`

	// Err is the probe error message (failure only).
	Err string `cbor:"3,keyasint,omitempty"`

	// Duration of the probe call. Stored as nanoseconds.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`
}

// RemoveEvent captures a device being detached.
type RemoveEvent struct {
	// Callback reports whether the driver installed a remove callback.
	Callback bool `cbor:"1,keyasint"`

	// Err is the remove error message, if any.
	Err string `cbor:"2,keyasint,omitempty"`
}

// InitcallEvent captures one initcall invocation.
type InitcallEvent struct {
	Level     uint8         `cbor:"1,keyasint"`
	LevelName string        `cbor:"2,keyasint"`
	Offset    int           `cbor:"3,keyasint"`
	Name      string        `cbor:"4,keyasint"`
	Code      int           `cbor:"5,keyasint"`
	Duration  time.Duration `cbor:"6,keyasint,omitempty"`
}

// IRQAction distinguishes interrupt request and release.
type IRQAction uint8

const (
	IRQRequested IRQAction = 0
	IRQFreed     IRQAction = 1
)

// String returns the action name.
func (a IRQAction) String() string {
	switch a {
	case IRQRequested:
		return "REQUESTED"
	case IRQFreed:
		return "FREED"
	default:
		return "UNKNOWN"
	}
}

// IRQEvent captures an interrupt line being requested or freed.
type IRQEvent struct {
	Action IRQAction `cbor:"1,keyasint"`
	IRQ    uint32    `cbor:"2,keyasint"`
	Name   string    `cbor:"3,keyasint"`
	Flags  string    `cbor:"4,keyasint,omitempty"`
}

// BootEvent captures a boot sequencer state change.
type BootEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// TreeDigest fingerprints the firmware description in use, if any.
	TreeDigest string `cbor:"3,keyasint,omitempty"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures errors outside probe/remove/initcall.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Code is the negative errno, if applicable.
	Code *int `cbor:"2,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
