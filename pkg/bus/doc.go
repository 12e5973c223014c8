// Package bus implements the registry shared by every bus class: an
// ordered device list, an ordered driver list and the bindings between
// them.
//
// Registering a driver sweeps the registered devices in list order and
// probes each unbound device the driver matches. Registering a device
// tries the registered drivers in registration order until one claims it
// (see Config.ProbeOnDeviceAdd). A device is bound to at most one driver.
//
// The registry lock only guards the lists. Match, probe, remove and every
// other driver callback run with the lock released, so a probe may
// register further devices or drivers on the same registry.
package bus
