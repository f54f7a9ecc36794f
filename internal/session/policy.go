package session

import (
	"fmt"
	"time"
)

// CollectMode selects how Await decides that a response is complete.
type CollectMode int

const (
	// CollectNone expects no output; Await returns an empty frame without
	// reading anything.
	CollectNone CollectMode = iota
	// CollectExact expects a fixed number of lines.
	CollectExact
	// CollectUnbounded collects whatever arrives until the timeout elapses.
	CollectUnbounded
)

// Policy is the collection policy for one response: how many lines to wait
// for, or whether to wait at all.
type Policy struct {
	Mode CollectMode
	// Lines is the expected line count; meaningful only for CollectExact.
	Lines int
}

// Exactly returns a policy expecting exactly n lines (n > 0).
func Exactly(n int) Policy {
	if n <= 0 {
		panic(fmt.Sprintf("session: Exactly(%d): line count must be positive", n))
	}
	return Policy{Mode: CollectExact, Lines: n}
}

// None is the policy for commands that produce no output.
var None = Policy{Mode: CollectNone}

// Unbounded is the policy for commands whose output length depends on
// target state.
var Unbounded = Policy{Mode: CollectUnbounded}

func (p Policy) String() string {
	switch p.Mode {
	case CollectNone:
		return "none"
	case CollectExact:
		return fmt.Sprintf("exactly(%d)", p.Lines)
	default:
		return "unbounded"
	}
}

// Command identifies one kind of console command in the catalogue.
type Command int

const (
	// CmdStartup is the pseudo-command for draining the startup banner.
	CmdStartup Command = iota
	// CmdAttach is "target remote <addr>".
	CmdAttach
	// CmdReset is "monitor reset".
	CmdReset
	// CmdBreak is "break <symbol>".
	CmdBreak
	// CmdResume is "continue".
	CmdResume
	// CmdHalt is "monitor halt".
	CmdHalt
	// CmdSleep is "monitor sleep <millis>".
	CmdSleep
	// CmdCall is "call <symbol>(...)" when a return value is expected.
	CmdCall
	// CmdCallVoid is "call <symbol>(...)" when no return value is expected.
	CmdCallVoid
	// CmdPrint is "print <variable>".
	CmdPrint
	// CmdRestore is "restore <path> binary <buffer>".
	CmdRestore
	// CmdDump is "dump binary memory <path> <start> <end>".
	CmdDump
	// CmdHelp is "help".
	CmdHelp
	// CmdQuit is "quit".
	CmdQuit
)

// Profile pairs a collection policy with the timeout observed to be
// sufficient for that command kind.
type Profile struct {
	Policy  Policy
	Timeout time.Duration
}

// defaultProfiles is the command catalogue: per command kind, how much
// output to expect and how long to wait for it. The values reflect observed
// target behavior, not a protocol guarantee:
//
//   - reset and break always answer with a single line (reset's arrives on
//     stderr),
//   - continue may or may not report hitting a breakpoint, so its output is
//     unbounded,
//   - halt and quit produce nothing,
//   - attach is the slow one, since establishing the remote link takes far
//     longer than an ordinary command round-trip,
//   - calls that return a value answer with one $N = <value> line but may
//     run a long target-side routine first (flash copy of a full chunk).
//
// For CmdSleep the timeout is slack added on top of the requested sleep
// duration.
var defaultProfiles = map[Command]Profile{
	CmdStartup:  {Policy: Unbounded, Timeout: 1 * time.Second},
	CmdAttach:   {Policy: Unbounded, Timeout: 3 * time.Second},
	CmdReset:    {Policy: Exactly(1), Timeout: 500 * time.Millisecond},
	CmdBreak:    {Policy: Exactly(1), Timeout: 500 * time.Millisecond},
	CmdResume:   {Policy: Unbounded, Timeout: 1 * time.Second},
	CmdHalt:     {Policy: None, Timeout: 0},
	CmdSleep:    {Policy: Unbounded, Timeout: 250 * time.Millisecond},
	CmdCall:     {Policy: Exactly(1), Timeout: 10 * time.Second},
	CmdCallVoid: {Policy: Unbounded, Timeout: 500 * time.Millisecond},
	CmdPrint:    {Policy: Exactly(1), Timeout: 500 * time.Millisecond},
	CmdRestore:  {Policy: Exactly(1), Timeout: 5 * time.Second},
	CmdDump:     {Policy: Unbounded, Timeout: 5 * time.Second},
	CmdHelp:     {Policy: Unbounded, Timeout: 1 * time.Second},
	CmdQuit:     {Policy: None, Timeout: 0},
}

// profile resolves the effective profile for a command, preferring a
// configured override over the default catalogue.
func (s *Session) profile(cmd Command) Profile {
	if p, ok := s.cfg.Overrides[cmd]; ok {
		return p
	}
	return defaultProfiles[cmd]
}
