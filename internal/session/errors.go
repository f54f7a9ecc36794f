package session

import (
	"fmt"
	"time"
)

// SpawnError represents a failure to start the GDB subprocess.
type SpawnError struct {
	// Path is the GDB executable that could not be started
	Path string
	// Underlying error
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn gdb at %q: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// PipeError represents a write failure on the subprocess stdin pipe,
// typically because GDB has already exited.
type PipeError struct {
	// Command is the command text that could not be sent
	Command string
	// Underlying error
	Err error
}

func (e *PipeError) Error() string {
	return fmt.Sprintf("failed to send %q to gdb: %v", e.Command, e.Err)
}

func (e *PipeError) Unwrap() error {
	return e.Err
}

// HandshakeTimeoutError represents a remote attach that produced no
// response within the handshake timeout. This usually means the debug stub
// is not running or is listening on a different address.
type HandshakeTimeoutError struct {
	// Server is the remote debug stub address
	Server string
	// Timeout is the bound that elapsed
	Timeout time.Duration
}

func (e *HandshakeTimeoutError) Error() string {
	return fmt.Sprintf("no response attaching to %s within %s\n"+
		"Hint: check that the GDB server (OpenOCD, ST-LINK gdbserver) is running and reachable",
		e.Server, e.Timeout)
}

// ProcessExitedError represents a GDB output stream that closed in the
// middle of a session. The session is unusable once this is returned.
type ProcessExitedError struct{}

func (e *ProcessExitedError) Error() string {
	return "gdb process exited unexpectedly (output stream closed)"
}
