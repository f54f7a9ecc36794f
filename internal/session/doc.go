// Package session drives an interactive GDB subprocess as a request/response
// protocol.
//
// GDB's console dialogue is made for humans: replies carry no framing or
// terminator, their length depends on the command and on target state, and
// some confirmations arrive on stderr instead of stdout. This package turns
// that dialogue into a disciplined protocol by
//
//   - merging stdout and stderr into one ordered stream of lines, consumed
//     "whichever is ready first", so callers never care which channel GDB
//     picked for a given reply, and
//
//   - pairing every command kind with an empirically tuned collection policy
//     (exact line count, no output, or collect-until-timeout) and timeout,
//     kept in one table so the heuristics are auditable and overridable.
//
// A Session owns exactly one subprocess and allows one outstanding request
// at a time. All blocking calls are timeout-bounded; a hung or silent GDB
// never blocks the caller past the configured bound, and whatever partial
// response was collected by then is returned rather than discarded.
package session
