// Package phy is the bus class for Ethernet PHYs on an MDIO bus.
//
// PHY drivers match devices by the 32-bit identifier read from the
// PHYSID1/PHYSID2 registers under a [driver.Mask]. A driver implements
// [Driver] plus whichever optional interfaces it supports; [NewVTable]
// inspects it once and leaves the callbacks it lacks nil. Operations
// without a driver callback fall back to the generic clause 22
// implementations (GenphySoftReset, GenphyConfigAneg, ...).
//
//	type rtl8201 struct{}
//
//	func (rtl8201) Name() string     { return "RTL8201CP Ethernet" }
//	func (rtl8201) ID() phy.DeviceID { return phy.ExactID(0x00008201) }
//
//	func init() {
//		initcall.MustRegister(initcall.LevelDevice, "realtek_phy", func() int {
//			_, err := phy.RegisterDrivers(phy.Default(), phy.NewVTable(rtl8201{}))
//			return errcode.Errno(err)
//		})
//	}
//
// Devices are created by [Scan], which probes addresses 0 to 31 of an
// [MII] bus.
package phy
