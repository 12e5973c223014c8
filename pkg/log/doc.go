// Package log records driver-model events.
//
// The trace is separate from operational logging (slog): it is a complete,
// machine-readable record of what the driver model did during a boot
// session - which drivers and devices were registered, which pairs were
// probed and with what result, which initcalls ran, and which interrupt
// lines were requested.
//
// # Basic Usage
//
// Components accept a Logger in their configuration:
//
//	// Development: print events through slog
//	cfg.Trace = log.NewSlogAdapter(slog.Default())
//
//	// Production: append to a binary trace file
//	cfg.Trace, _ = log.NewFileLogger("/var/log/devmodel/boot.dmlog")
//
//	// Both, stamped with one boot session ID
//	cfg.Trace = log.NewSession(log.NewMultiLogger(slogAdapter, fileLogger))
//
// # File Format
//
// Trace files are a sequence of CBOR-encoded events with integer keys and
// the .dmlog extension. The devmodel-log tool views, filters and
// summarises them.
package log
