// Package log provides a structured routing trace for the bridge.
//
// Every event the router handles can be captured as an [Event]: messages
// routed to a data point, changes published to the bus, events dropped
// because they have no mapping, failed writes, and controller state changes.
// This is separate from operational logging (slog); the trace is a complete
// machine-readable record for debugging a mapping table after the fact.
//
// # Basic Usage
//
// Applications configure tracing by providing a Logger implementation:
//
//	// For development: mirror events to slog
//	trace := log.NewSlogAdapter(slog.Default())
//
//	// For production: append to a binary file
//	trace, _ := log.NewFileLogger("/var/log/tagbridge/bridge.btrace")
//
//	// Both
//	trace := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fileLogger)
//
// # File Format
//
// Trace files are a sequence of CBOR-encoded events with integer keys. The
// tagbridge-log tool views and summarizes them; [Reader] streams them back
// with an optional [Filter].
package log
