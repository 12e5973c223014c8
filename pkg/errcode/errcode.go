package errcode

import (
	"errors"
	"fmt"
)

// Driver model errors.
var (
	// ErrInvalidArgument indicates a malformed table, nil driver or a
	// repeated registration of the same handle.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupported indicates an optional callback that the driver does
	// not implement.
	ErrUnsupported = errors.New("operation not supported")

	// ErrBusy indicates a resource that is already registered or claimed.
	ErrBusy = errors.New("device or resource busy")

	// ErrProbeFailed indicates a driver probe returned an error.
	ErrProbeFailed = errors.New("probe failed")

	// ErrFatal indicates a boot routine returned a negative status.
	ErrFatal = errors.New("fatal boot failure")

	// ErrNoDevice indicates the device is not registered or not bound.
	ErrNoDevice = errors.New("no such device")

	// ErrNotFound indicates a missing property, node or registration.
	ErrNotFound = errors.New("not found")

	// ErrIO indicates a failure of the underlying hardware access.
	ErrIO = errors.New("I/O error")

	// ErrNoMemory indicates an allocation failure reported by a driver.
	ErrNoMemory = errors.New("out of memory")
)

// Errno values mirrored from the kernel ABI.
const (
	EIO      = 5
	ENOMEM   = 12
	EBUSY    = 16
	EEXIST   = 17
	ENODEV   = 19
	EINVAL   = 22
	ENOENT   = 2
	ENOTSUPP = 524
)

var errnoTable = []struct {
	err  error
	code int
}{
	{ErrInvalidArgument, EINVAL},
	{ErrUnsupported, ENOTSUPP},
	{ErrBusy, EBUSY},
	{ErrNoDevice, ENODEV},
	{ErrNotFound, ENOENT},
	{ErrIO, EIO},
	{ErrNoMemory, ENOMEM},
}

// Errno converts err into a status value: 0 for nil, a negative errno
// otherwise. Errors outside the taxonomy map to -EIO.
func Errno(err error) int {
	if err == nil {
		return 0
	}
	for _, e := range errnoTable {
		if errors.Is(err, e.err) {
			return -e.code
		}
	}
	return -EIO
}

// FromErrno converts a status value back into an error. Non-negative
// values are success and return nil.
func FromErrno(code int) error {
	if code >= 0 {
		return nil
	}
	for _, e := range errnoTable {
		if e.code == -code {
			return e.err
		}
	}
	return fmt.Errorf("errno %d", -code)
}

// ProbeError reports a failed probe of one device by one driver.
type ProbeError struct {
	Driver string
	Device string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s on %s: %v", e.Driver, e.Device, e.Err)
}

// Unwrap returns the driver-supplied cause.
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Is reports ErrProbeFailed as a match so callers need not know the cause.
func (e *ProbeError) Is(target error) bool {
	return target == ErrProbeFailed
}
