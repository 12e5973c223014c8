// Package samples contains small drivers that exercise the driver model
// end to end. Importing the package registers them with the default
// initcall table:
//
//   - minimal_sample: a module with no driver, built at device level
//   - i2c_designware: platform driver for "snps,designware-i2c" at subsys
//     level; requests the device's first interrupt
//   - platform_sample: platform driver for "cicv,sample"
//   - phy_sample: PHY drivers for the sample PHY and the RTL8201F
//
// Every sample is a module: its registration is released by
// initcall.Table.ExitModules.
package samples
