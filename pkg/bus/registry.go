package bus

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/devmodel/devmodel-go/pkg/driver"
	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/irq"
	"github.com/devmodel/devmodel-go/pkg/log"
)

// Device is the constraint on device handles kept by a registry.
type Device interface {
	comparable
	DeviceName() string
}

type binding[D any] struct {
	ops *driver.Ops[D]

	// ready is false while the probe is in flight.
	ready bool

	// gone is set when the device is unregistered during its probe.
	gone bool
}

// Registry holds the devices and drivers of one bus class.
type Registry[D Device] struct {
	cfg    Config
	logger *slog.Logger
	trace  log.Logger

	mu       sync.Mutex
	devices  []D
	drivers  []*driver.Ops[D]
	bindings map[D]*binding[D]
}

// NewRegistry creates an empty registry.
func NewRegistry[D Device](cfg Config) *Registry[D] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry[D]{
		cfg:      cfg,
		logger:   logger.With("bus", cfg.Name),
		trace:    log.OrNoop(cfg.Trace),
		bindings: make(map[D]*binding[D]),
	}
}

// Name returns the bus class name.
func (r *Registry[D]) Name() string {
	return r.cfg.Name
}

// RegisterDriver appends ops to the driver list and probes every matching
// unbound device in device-list order.
//
// A driver name already registered fails with errcode.ErrBusy. A probe
// failure stops the sweep and returns an *errcode.ProbeError; devices
// bound earlier in the sweep stay bound and the driver stays registered.
func (r *Registry[D]) RegisterDriver(ops *driver.Ops[D]) error {
	if ops == nil || ops.Name == "" || ops.Match == nil || ops.Probe == nil || ops.Detach == nil {
		return fmt.Errorf("%s: %w: incomplete driver record", r.cfg.Name, errcode.ErrInvalidArgument)
	}

	r.mu.Lock()
	if r.driverIndexLocked(ops.Name) >= 0 {
		r.mu.Unlock()
		return fmt.Errorf("%s: driver %s: %w", r.cfg.Name, ops.Name, errcode.ErrBusy)
	}
	r.drivers = append(r.drivers, ops)
	devices := slices.Clone(r.devices)
	r.mu.Unlock()

	type match struct {
		dev   D
		entry int
	}
	var matches []match
	for _, dev := range devices {
		if entry, ok := ops.Match(dev); ok {
			matches = append(matches, match{dev, entry})
		}
	}

	r.logger.Debug("driver registered", "driver", ops.Name, "caps", ops.Caps.String(), "matches", len(matches))
	r.trace.Log(log.Event{
		Category:     log.CategoryRegistration,
		Bus:          r.cfg.Name,
		Driver:       ops.Name,
		Registration: &log.RegistrationEvent{Kind: log.DriverAdded, Matches: len(matches)},
	})

	for _, m := range matches {
		if _, err := r.probe(ops, m.dev, m.entry); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDevice appends dev to the device list. A device already
// registered, or another device with the same name, fails with
// errcode.ErrBusy.
//
// With ProbeOnDeviceAdd, drivers are tried in registration order until
// one claims the device. Probe failures are returned only if no driver
// claimed it.
func (r *Registry[D]) RegisterDevice(dev D) error {
	r.mu.Lock()
	name := dev.DeviceName()
	if slices.ContainsFunc(r.devices, func(d D) bool { return d == dev || d.DeviceName() == name }) {
		r.mu.Unlock()
		return fmt.Errorf("%s: device %s: %w", r.cfg.Name, name, errcode.ErrBusy)
	}
	r.devices = append(r.devices, dev)
	r.mu.Unlock()

	r.logger.Debug("device registered", "device", dev.DeviceName())
	r.trace.Log(log.Event{
		Category:     log.CategoryRegistration,
		Bus:          r.cfg.Name,
		Device:       dev.DeviceName(),
		Registration: &log.RegistrationEvent{Kind: log.DeviceAdded},
	})

	if !r.cfg.ProbeOnDeviceAdd {
		return nil
	}
	_, err := r.attach(dev)
	return err
}

// Bind tries the registered drivers against an unbound device. It reports
// whether a driver claimed the device.
func (r *Registry[D]) Bind(dev D) (bool, error) {
	r.mu.Lock()
	registered := slices.Contains(r.devices, dev)
	_, bound := r.bindings[dev]
	r.mu.Unlock()

	switch {
	case !registered:
		return false, fmt.Errorf("%s: device %s: %w", r.cfg.Name, dev.DeviceName(), errcode.ErrNoDevice)
	case bound:
		return false, fmt.Errorf("%s: device %s: %w", r.cfg.Name, dev.DeviceName(), errcode.ErrBusy)
	}
	return r.attach(dev)
}

func (r *Registry[D]) attach(dev D) (bool, error) {
	r.mu.Lock()
	drivers := slices.Clone(r.drivers)
	r.mu.Unlock()

	var errs []error
	for _, ops := range drivers {
		entry, ok := ops.Match(dev)
		if !ok {
			continue
		}
		claimed, err := r.probe(ops, dev, entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if claimed {
			return true, nil
		}
		if r.IsBound(dev) {
			// Claimed concurrently by another driver.
			return false, nil
		}
	}
	return false, errors.Join(errs...)
}

// probe claims dev for ops and runs the probe with the lock released.
// It reports whether the device ended up bound to ops.
func (r *Registry[D]) probe(ops *driver.Ops[D], dev D, entry int) (bool, error) {
	r.mu.Lock()
	if !slices.Contains(r.devices, dev) || !slices.Contains(r.drivers, ops) || r.bindings[dev] != nil {
		r.mu.Unlock()
		return false, nil
	}
	b := &binding[D]{ops: ops}
	r.bindings[dev] = b
	r.mu.Unlock()

	start := time.Now()
	err := ops.Probe(dev, entry)
	elapsed := time.Since(start)

	r.mu.Lock()
	gone := b.gone || !slices.Contains(r.drivers, ops)
	if err != nil || gone {
		if r.bindings[dev] == b {
			delete(r.bindings, dev)
		}
	} else {
		b.ready = true
	}
	r.mu.Unlock()

	ev := &log.ProbeEvent{Entry: entry, Success: err == nil, Duration: elapsed}
	if err != nil {
		ev.Err = err.Error()
	}
	r.trace.Log(log.Event{
		Category: log.CategoryProbe,
		Bus:      r.cfg.Name,
		Device:   dev.DeviceName(),
		Driver:   ops.Name,
		Probe:    ev,
	})

	if err != nil {
		r.logger.Warn("probe failed", "driver", ops.Name, "device", dev.DeviceName(), "error", err)
		return false, &errcode.ProbeError{Driver: ops.Name, Device: dev.DeviceName(), Err: err}
	}
	if gone {
		// The device or driver went away while the probe ran.
		r.detach(ops, dev)
		return false, nil
	}
	r.logger.Info("device bound", "driver", ops.Name, "device", dev.DeviceName(), "entry", entry)
	return true, nil
}

func (r *Registry[D]) detach(ops *driver.Ops[D], dev D) error {
	err := ops.Detach(dev)
	ev := &log.RemoveEvent{Callback: ops.Remove != nil}
	if err != nil {
		ev.Err = err.Error()
		r.logger.Warn("remove failed", "driver", ops.Name, "device", dev.DeviceName(), "error", err)
	}
	r.trace.Log(log.Event{
		Category: log.CategoryRemove,
		Bus:      r.cfg.Name,
		Device:   dev.DeviceName(),
		Driver:   ops.Name,
		Remove:   ev,
	})
	return err
}

// Unbind detaches dev from its driver. Unbinding an unbound device is a
// no-op.
func (r *Registry[D]) Unbind(dev D) error {
	r.mu.Lock()
	b, ok := r.bindings[dev]
	if !ok || !b.ready {
		r.mu.Unlock()
		return nil
	}
	delete(r.bindings, dev)
	r.mu.Unlock()

	return r.detach(b.ops, dev)
}

// UnregisterDriver removes the named driver and detaches the devices bound
// to it, in device-list order.
func (r *Registry[D]) UnregisterDriver(name string) error {
	r.mu.Lock()
	i := r.driverIndexLocked(name)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%s: driver %s: %w", r.cfg.Name, name, errcode.ErrNotFound)
	}
	ops := r.drivers[i]
	r.drivers = slices.Delete(r.drivers, i, i+1)

	var owned []D
	for _, dev := range r.devices {
		if b, ok := r.bindings[dev]; ok && b.ops == ops && b.ready {
			owned = append(owned, dev)
			delete(r.bindings, dev)
		}
	}
	r.mu.Unlock()

	r.trace.Log(log.Event{
		Category:     log.CategoryRegistration,
		Bus:          r.cfg.Name,
		Driver:       name,
		Registration: &log.RegistrationEvent{Kind: log.DriverRemoved},
	})

	var errs []error
	for _, dev := range owned {
		errs = append(errs, r.detach(ops, dev))
	}
	return errors.Join(errs...)
}

// UnregisterDevice removes dev, detaching it from its driver first.
func (r *Registry[D]) UnregisterDevice(dev D) error {
	r.mu.Lock()
	i := slices.Index(r.devices, dev)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%s: device %s: %w", r.cfg.Name, dev.DeviceName(), errcode.ErrNoDevice)
	}
	r.devices = slices.Delete(r.devices, i, i+1)

	b, bound := r.bindings[dev]
	if bound {
		if b.ready {
			delete(r.bindings, dev)
		} else {
			b.gone = true
			bound = false
		}
	}
	r.mu.Unlock()

	r.trace.Log(log.Event{
		Category:     log.CategoryRegistration,
		Bus:          r.cfg.Name,
		Device:       dev.DeviceName(),
		Registration: &log.RegistrationEvent{Kind: log.DeviceRemoved},
	})

	if bound {
		return r.detach(b.ops, dev)
	}
	return nil
}

// Shutdown detaches every bound device in reverse registration order and
// empties the registry.
func (r *Registry[D]) Shutdown() error {
	r.mu.Lock()
	devices := r.devices
	bindings := r.bindings
	r.devices = nil
	r.drivers = nil
	r.bindings = make(map[D]*binding[D])
	r.mu.Unlock()

	var errs []error
	for _, dev := range slices.Backward(devices) {
		if b, ok := bindings[dev]; ok && b.ready {
			errs = append(errs, r.detach(b.ops, dev))
		}
	}
	return errors.Join(errs...)
}

// Devices returns the registered devices in registration order.
func (r *Registry[D]) Devices() []D {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.devices)
}

// Lookup returns the registered device with the given name.
func (r *Registry[D]) Lookup(name string) (D, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dev := range r.devices {
		if dev.DeviceName() == name {
			return dev, true
		}
	}
	var zero D
	return zero, false
}

// Drivers returns the registered driver names in registration order.
func (r *Registry[D]) Drivers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.drivers))
	for i, ops := range r.drivers {
		names[i] = ops.Name
	}
	return names
}

// DriverInfo describes a registered driver.
type DriverInfo struct {
	Name string
	Caps driver.Capabilities
}

// DriverInfos returns the registered drivers in registration order.
func (r *Registry[D]) DriverInfos() []DriverInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]DriverInfo, len(r.drivers))
	for i, ops := range r.drivers {
		infos[i] = DriverInfo{Name: ops.Name, Caps: ops.Caps}
	}
	return infos
}

// DriverOf returns the name of the driver bound to dev.
func (r *Registry[D]) DriverOf(dev D) (string, bool) {
	if ops := r.boundOps(dev); ops != nil {
		return ops.Name, true
	}
	return "", false
}

// IsBound reports whether dev is bound to a driver.
func (r *Registry[D]) IsBound(dev D) bool {
	return r.boundOps(dev) != nil
}

// Suspend dispatches the bound driver's Suspend callback.
func (r *Registry[D]) Suspend(dev D) error {
	ops, err := r.dispatch(dev)
	if err != nil {
		return err
	}
	return ops.CallSuspend(dev)
}

// Resume dispatches the bound driver's Resume callback.
func (r *Registry[D]) Resume(dev D) error {
	ops, err := r.dispatch(dev)
	if err != nil {
		return err
	}
	return ops.CallResume(dev)
}

// HandleIRQ dispatches the bound driver's interrupt callback.
func (r *Registry[D]) HandleIRQ(dev D, line uint32) (irq.Return, error) {
	ops, err := r.dispatch(dev)
	if err != nil {
		return irq.None, err
	}
	return ops.CallIRQ(dev, line)
}

// Functionality dispatches the bound driver's functionality query.
func (r *Registry[D]) Functionality(dev D) (uint32, error) {
	ops, err := r.dispatch(dev)
	if err != nil {
		return 0, err
	}
	return ops.CallFunctionality(dev)
}

// Registration returns a register-once handle for ops on this registry.
func (r *Registry[D]) Registration(ops *driver.Ops[D]) *driver.Registration[*driver.Ops[D]] {
	return driver.NewRegistration[*driver.Ops[D]](registrar[D]{r}, ops)
}

type registrar[D Device] struct {
	r *Registry[D]
}

func (g registrar[D]) Register(ops *driver.Ops[D]) error {
	return g.r.RegisterDriver(ops)
}

func (g registrar[D]) Unregister(ops *driver.Ops[D]) {
	if err := g.r.UnregisterDriver(ops.Name); err != nil && !errors.Is(err, errcode.ErrNotFound) {
		g.r.logger.Warn("unregister driver", "driver", ops.Name, "error", err)
	}
}

func (r *Registry[D]) dispatch(dev D) (*driver.Ops[D], error) {
	ops := r.boundOps(dev)
	if ops == nil {
		return nil, fmt.Errorf("%s: device %s not bound: %w", r.cfg.Name, dev.DeviceName(), errcode.ErrNoDevice)
	}
	return ops, nil
}

func (r *Registry[D]) boundOps(dev D) *driver.Ops[D] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bindings[dev]; ok && b.ready {
		return b.ops
	}
	return nil
}

func (r *Registry[D]) driverIndexLocked(name string) int {
	return slices.IndexFunc(r.drivers, func(ops *driver.Ops[D]) bool {
		return ops.Name == name
	})
}
