package driver

import "fmt"

// Mask selects the identifier bits compared when matching numeric ids.
type Mask uint32

// Standard match-mask policies.
const (
	// Exact compares every bit.
	Exact Mask = 0xFFFFFFFF
	// Model ignores the 4-bit revision field.
	Model Mask = 0xFFFFFFF0
	// Vendor compares only the OUI bits.
	Vendor Mask = 0xFFFFFC00
)

// Custom returns a mask comparing exactly the given bits.
func Custom(bits uint32) Mask {
	return Mask(bits)
}

// Equal reports whether a and b agree on every bit in the mask.
func (m Mask) Equal(a, b uint32) bool {
	return a&uint32(m) == b&uint32(m)
}

// String returns the policy name, or the raw bits for custom masks.
func (m Mask) String() string {
	switch m {
	case Exact:
		return "exact"
	case Model:
		return "model"
	case Vendor:
		return "vendor"
	default:
		return fmt.Sprintf("custom(0x%08x)", uint32(m))
	}
}
