// Package initcall runs boot-time initialization routines in priority
// order.
//
// Routines are registered into a Table at one of seven levels, usually
// from package init functions:
//
//	func init() {
//		initcall.MustRegister(initcall.LevelSubsys, "i2c_designware", registerDriver)
//	}
//
// A Sequencer walks the levels in ascending order and the routines of
// each level in registration order. A routine returning a negative status
// aborts the sequence with a *FatalError; later routines never run. Boot
// treats that as unrecoverable and panics.
package initcall
