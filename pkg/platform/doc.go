// Package platform is the bus class for devices described by the firmware
// tree rather than discovered by probing hardware.
//
// Devices are created from the children of bus-container nodes (see
// of.Populate) by the subsys-level initcall this package registers.
// Drivers match them by compatible string:
//
//	var ids = driver.MustTable(
//		driver.NewEntryWithInfo(of.Compatible("vendor,uart"), uartInfo{fifo: 64}),
//	)
//
//	func init() {
//		initcall.MustRegister(initcall.LevelDevice, "uart", func() int {
//			_, err := platform.Register[uartInfo, *uart](platform.Default(), &uartDriver{})
//			return errcode.Errno(err)
//		})
//	}
package platform
