// Package errcode defines the error taxonomy shared by the driver model.
//
// Callers test errors with [errors.Is] against the sentinel values:
//
//	if errors.Is(err, errcode.ErrUnsupported) {
//	    // optional callback not installed by the driver
//	}
//
// Routines that report an integer status (initcalls, module init) use
// [Errno] and [FromErrno] to translate between Go errors and negative
// errno values.
package errcode
