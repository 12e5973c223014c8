// Package driver provides the bus-independent half of the driver model:
// identifier tables, capability detection and the lifecycle adapter that
// turns a typed driver into a dispatch record a bus registry can call.
//
// A driver implements Driver (name, identifier table and Probe) and any
// of the optional interfaces Remover, IRQHandler, FunctionalityQuerier,
// Suspender and Resumer. NewAdapter inspects the driver once and builds
// an Ops record in which every optional callback the driver does not
// implement is nil. Calling an absent callback through the Call helpers
// returns errcode.ErrUnsupported; nothing ever calls a default stub.
//
// Private data returned by Probe is stored in a typed Slot owned by the
// adapter, so a driver reads back exactly the type it produced.
package driver
