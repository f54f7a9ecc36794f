// Package logging constructs the zap logger used across gdbflash.
//
// Logging is silent by default so the CLI's own output stays readable; set
// GDBFLASH_LOG_LEVEL=debug to see the full console dialogue with GDB,
// including every request line and every response line with the stream it
// arrived on.
//
// The constructors return an explicit *zap.Logger handle. The session and
// upload packages take that handle as a parameter rather than reaching for
// a process-wide sink, so tests and embedders control where logs go.
package logging
