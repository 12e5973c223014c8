// Package irq provides interrupt handler registration for drivers.
//
// A driver requests a line with [TryNew], supplying the context data its
// handler needs. The [Controller] invokes the handler synchronously with
// that data whenever the line fires, and stops doing so once the
// [Registration] is closed:
//
//	reg, err := irq.TryNew(ctl, 33, bus, irq.Shared, "i2c_designware", func(b *i2cBus) irq.Return {
//	    return b.service()
//	})
//	defer reg.Close()
//
// [Domain] is an in-process Controller used when no hardware interrupt
// controller is attached; [Domain.Raise] fires a line from software.
package irq
