package parse

import "fmt"

// MalformedResponseError represents a response line that lacks an expected
// pattern. This occurs when GDB output does not match the format a command
// is known to produce, typically after a GDB version change.
type MalformedResponseError struct {
	// Want describes the expected pattern
	Want string
	// Line is the response line that failed to match
	Line string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: expected %s in %q", e.Want, e.Line)
}

// NoReturnValueError represents a target function call that was expected to
// produce a return value but produced no output at all.
type NoReturnValueError struct {
	// Function is the called function name, if known
	Function string
}

func (e *NoReturnValueError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("call to %s produced no return value", e.Function)
	}
	return "call produced no return value"
}
