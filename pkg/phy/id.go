package phy

import (
	"fmt"

	"github.com/devmodel/devmodel-go/pkg/driver"
)

// DeviceID identifies the PHYs a driver supports: a PHY matches when its
// identifier agrees with ID on every bit of Mask.
type DeviceID struct {
	ID   uint32
	Mask driver.Mask
}

// ExactID matches a single identifier.
func ExactID(id uint32) DeviceID {
	return DeviceID{ID: id, Mask: driver.Exact}
}

// ModelID matches every revision of a model.
func ModelID(id uint32) DeviceID {
	return DeviceID{ID: id, Mask: driver.Model}
}

// VendorID matches every model of a vendor.
func VendorID(id uint32) DeviceID {
	return DeviceID{ID: id, Mask: driver.Vendor}
}

// CustomID matches the bits selected by mask.
func CustomID(id, mask uint32) DeviceID {
	return DeviceID{ID: id, Mask: driver.Custom(mask)}
}

// Match reports whether phyID is covered by id.
func (id DeviceID) Match(phyID uint32) bool {
	return id.Mask.Equal(id.ID, phyID)
}

func (id DeviceID) String() string {
	return fmt.Sprintf("0x%08x/%s", id.ID, id.Mask)
}
