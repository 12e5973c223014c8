package phy

// MII is a management bus giving access to the clause 22 registers of
// up to 32 PHYs.
type MII interface {
	Read(addr uint8, reg uint16) (uint16, error)
	Write(addr uint8, reg uint16, val uint16) error
}

// MaxAddr is the highest MDIO address.
const MaxAddr = 31

// Clause 22 registers.
const (
	RegBMCR      uint16 = 0x00
	RegBMSR      uint16 = 0x01
	RegPHYSID1   uint16 = 0x02
	RegPHYSID2   uint16 = 0x03
	RegAdvertise uint16 = 0x04
	RegLPA       uint16 = 0x05
	RegMMDCtrl   uint16 = 0x0d
	RegMMDData   uint16 = 0x0e
)

// BMCR bits.
const (
	BMCRFullDuplex uint16 = 0x0100
	BMCRANRestart  uint16 = 0x0200
	BMCRIsolate    uint16 = 0x0400
	BMCRPowerDown  uint16 = 0x0800
	BMCRANEnable   uint16 = 0x1000
	BMCRSpeed100   uint16 = 0x2000
	BMCRLoopback   uint16 = 0x4000
	BMCRReset      uint16 = 0x8000
)

// BMSR bits.
const (
	BMSRLinkStatus  uint16 = 0x0004
	BMSRANCapable   uint16 = 0x0008
	BMSRANComplete  uint16 = 0x0020
	BMSR10Half      uint16 = 0x0800
	BMSR10Full      uint16 = 0x1000
	BMSR100Half     uint16 = 0x2000
	BMSR100Full     uint16 = 0x4000
	bmsrAbilityMask uint16 = BMSR10Half | BMSR10Full | BMSR100Half | BMSR100Full
)

// ADVERTISE and LPA bits.
const (
	AdvertiseCSMA    uint16 = 0x0001
	Advertise10Half  uint16 = 0x0020
	Advertise10Full  uint16 = 0x0040
	Advertise100Half uint16 = 0x0080
	Advertise100Full uint16 = 0x0100
	advertiseAll     uint16 = Advertise10Half | Advertise10Full | Advertise100Half | Advertise100Full
)

// MMD control register bits.
const (
	MMDCtrlDevAdMask uint16 = 0x001f
	MMDCtrlNoIncr    uint16 = 0x4000
)

// invalidID is read back from an address with no PHY attached.
const invalidID = 0x1fffffff
