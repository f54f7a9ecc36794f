package session

import (
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/stmtools/gdbflash/internal/parse"
)

// Config holds the configuration for a GDB session.
type Config struct {
	// GDBPath is the path to the GDB binary.
	// Default: "arm-none-eabi-gdb" (searches PATH)
	GDBPath string

	// ImagePath is the ELF image handed to GDB for symbol information.
	ImagePath string

	// ServerAddr is the remote debug stub address, e.g. "localhost:3333".
	ServerAddr string

	// Overrides replaces catalogue entries for individual command kinds.
	// Leave nil to use the defaults.
	Overrides map[Command]Profile
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GDBPath: "arm-none-eabi-gdb",
	}
}

type state int

const (
	stateReady state = iota
	stateFailed
	stateClosed
)

// Session is the exclusive owner of one GDB subprocess and its three I/O
// pipes. At most one request may be outstanding at a time; callers hold a
// single exclusive handle, so no locking is needed.
type Session struct {
	cfg    Config
	logger *zap.Logger
	parser *parse.Parser

	cmd   *exec.Cmd
	stdin *bufio.Writer
	src   *lineSource

	state state
}

// Open spawns GDB with the target image, performs the handshake and returns
// a ready session. The handshake disables interactive confirmation prompts
// (fire-and-forget), drains whatever startup banner GDB prints within a
// short grace period, then attaches to the remote debug stub and waits for
// its response under the attach timeout.
func Open(cfg Config, logger *zap.Logger) (*Session, error) {
	if cfg.GDBPath == "" {
		cfg.GDBPath = "arm-none-eabi-gdb"
	}

	logger.Info("spawning gdb",
		zap.String("gdb_path", cfg.GDBPath),
		zap.String("image", cfg.ImagePath),
		zap.String("server", cfg.ServerAddr),
	)

	cmd := exec.Command(cfg.GDBPath, "-q", cfg.ImagePath)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &SpawnError{Path: cfg.GDBPath, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Path: cfg.GDBPath, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Path: cfg.GDBPath, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Path: cfg.GDBPath, Err: err}
	}

	s := &Session{
		cfg:    cfg,
		logger: logger,
		parser: parse.NewParser(),
		cmd:    cmd,
		stdin:  bufio.NewWriter(stdin),
		src:    newLineSource(stdout, stderr),
	}

	if err := s.handshake(); err != nil {
		// The subprocess is of no further use; reap it so it doesn't linger.
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		s.src.stop()
		return nil, err
	}

	return s, nil
}

func (s *Session) handshake() error {
	if _, err := s.Request("set confirm off", None, 0); err != nil {
		return err
	}

	banner := s.profile(CmdStartup)
	dropped := s.Await(banner.Policy, banner.Timeout)
	s.logger.Debug("discarded startup banner", zap.Int("lines", len(dropped)))

	attach := s.profile(CmdAttach)
	frame, err := s.Request("target remote "+s.cfg.ServerAddr, attach.Policy, attach.Timeout)
	if err != nil {
		return err
	}
	if s.state == stateFailed {
		return &ProcessExitedError{}
	}
	if len(frame) == 0 {
		return &HandshakeTimeoutError{Server: s.cfg.ServerAddr, Timeout: attach.Timeout}
	}

	s.logger.Info("attached to remote target",
		zap.String("server", s.cfg.ServerAddr),
		zap.Strings("response", frame),
	)
	return nil
}

// Send writes one command line to GDB and flushes it.
func (s *Session) Send(command string) error {
	switch s.state {
	case stateFailed:
		return &ProcessExitedError{}
	case stateClosed:
		return &PipeError{Command: command, Err: fmt.Errorf("session is closed")}
	}

	s.logger.Debug("request", zap.String("cmd", command))

	if _, err := s.stdin.WriteString(command + "\n"); err != nil {
		return &PipeError{Command: command, Err: err}
	}
	if err := s.stdin.Flush(); err != nil {
		return &PipeError{Command: command, Err: err}
	}
	return nil
}

// Await collects a response frame according to the collection policy. Lines
// are pulled from stdout and stderr concurrently, whichever has one ready,
// and appended in arrival order. Collection ends when the policy is
// satisfied, the timeout elapses, or a stream reports end-of-file. On
// timeout the partial frame gathered so far is returned, never discarded.
// A stream EOF also returns the partial frame; the failure surfaces on the
// next operation, not retroactively on this one.
func (s *Session) Await(policy Policy, timeout time.Duration) []string {
	frame := []string{}
	if policy.Mode == CollectNone {
		return frame
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case line := <-s.src.lines:
			s.logger.Debug("response", zap.String("line", line))
			frame = append(frame, line)
			if policy.Mode == CollectExact && len(frame) >= policy.Lines {
				return frame
			}
		case <-s.src.closed:
			// Prefer lines already queued over the EOF signal.
			for {
				select {
				case line := <-s.src.lines:
					s.logger.Debug("response", zap.String("line", line))
					frame = append(frame, line)
					if policy.Mode == CollectExact && len(frame) >= policy.Lines {
						return frame
					}
				default:
					s.logger.Warn("gdb output stream closed mid-session")
					s.state = stateFailed
					return frame
				}
			}
		case <-deadline.C:
			return frame
		}
	}
}

// Request sends a command and awaits its response in one step. The await is
// skipped entirely for the none-expected policy.
func (s *Session) Request(command string, policy Policy, timeout time.Duration) ([]string, error) {
	if err := s.Send(command); err != nil {
		return nil, err
	}
	if policy.Mode == CollectNone {
		return []string{}, nil
	}
	return s.Await(policy, timeout), nil
}

// request issues a command under its catalogue profile.
func (s *Session) request(kind Command, command string) ([]string, error) {
	prof := s.profile(kind)
	return s.Request(command, prof.Policy, prof.Timeout)
}

// Reset issues "monitor reset". The stub confirms with a single line,
// observed on stderr.
func (s *Session) Reset() error {
	_, err := s.request(CmdReset, "monitor reset")
	return err
}

// SetBreakpoint sets a breakpoint at the given symbol.
func (s *Session) SetBreakpoint(symbol string) error {
	_, err := s.request(CmdBreak, "break "+symbol)
	return err
}

// Resume lets the target run. Output is unbounded: GDB may or may not
// report hitting a breakpoint depending on target state.
func (s *Session) Resume() error {
	_, err := s.request(CmdResume, "continue")
	return err
}

// Halt stops the target. No output is expected.
func (s *Session) Halt() error {
	_, err := s.request(CmdHalt, "monitor halt")
	return err
}

// Sleep asks the stub to pause for the given duration. The response wait is
// the requested duration plus the catalogue slack.
func (s *Session) Sleep(d time.Duration) error {
	prof := s.profile(CmdSleep)
	_, err := s.Request(
		fmt.Sprintf("monitor sleep %d", d.Milliseconds()),
		prof.Policy,
		d+prof.Timeout,
	)
	return err
}

// Call invokes a function on the target with up to two unsigned integer
// arguments. When expectReturn is set the result line is returned verbatim
// ("$N = <value>"); otherwise the response is discarded and an empty string
// is returned.
func (s *Session) Call(symbol string, args []uint32, expectReturn bool) (string, error) {
	if len(args) > 2 {
		return "", fmt.Errorf("call %s: at most 2 arguments supported, got %d", symbol, len(args))
	}

	command := "call " + symbol + "("
	for i, a := range args {
		if i > 0 {
			command += ", "
		}
		command += fmt.Sprintf("%d", a)
	}
	command += ")"

	kind := CmdCallVoid
	if expectReturn {
		kind = CmdCall
	}

	frame, err := s.request(kind, command)
	if err != nil {
		return "", err
	}

	result, err := s.parser.CallResult(frame, expectReturn)
	if err != nil {
		var nrv *parse.NoReturnValueError
		if errors.As(err, &nrv) {
			nrv.Function = symbol
		}
		return "", err
	}
	return result, nil
}

// ReadIntVariable prints a target variable and parses its value from the
// "$N = <value>" line.
func (s *Session) ReadIntVariable(name string) (uint32, error) {
	frame, err := s.request(CmdPrint, "print "+name)
	if err != nil {
		return 0, err
	}
	if len(frame) == 0 {
		return 0, &parse.MalformedResponseError{Want: "$N = <value>", Line: ""}
	}

	value, ok := s.parser.TrailingInteger(frame[0])
	if !ok {
		return 0, &parse.MalformedResponseError{Want: "$N = <value>", Line: frame[0]}
	}
	return value, nil
}

// WriteFileToMemory restores a local binary file into the named target RAM
// buffer and returns the byte count actually written, derived from the
// address range GDB reports.
func (s *Session) WriteFileToMemory(buffer, path string) (int, error) {
	frame, err := s.request(CmdRestore, fmt.Sprintf("restore %s binary %s", path, buffer))
	if err != nil {
		return 0, err
	}
	if len(frame) == 0 {
		return 0, &parse.MalformedResponseError{Want: "(0x<start> to 0x<end>)", Line: ""}
	}

	start, end, ok := s.parser.AddressRange(frame[0])
	if !ok {
		return 0, &parse.MalformedResponseError{Want: "(0x<start> to 0x<end>)", Line: frame[0]}
	}
	return int(end - start), nil
}

// DumpMemory reads the target address range [start, end) into a local file.
// GDB creates the file itself.
func (s *Session) DumpMemory(path string, start, end uint32) error {
	_, err := s.request(CmdDump, fmt.Sprintf("dump binary memory %s %#x %#x", path, start, end))
	return err
}

// Help returns GDB's help text. Mostly useful as a cheap liveness probe.
func (s *Session) Help() ([]string, error) {
	return s.request(CmdHelp, "help")
}

// Close sends quit and waits for the subprocess to exit. A nonzero exit
// status is logged but not treated as a failure of the close itself.
func (s *Session) Close() error {
	if s.state == stateClosed {
		return nil
	}

	// Best effort if the process already went away.
	sendErr := s.Send("quit")
	s.state = stateClosed
	defer s.src.stop()

	if err := s.cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			s.logger.Warn("gdb exited with nonzero status",
				zap.Int("exit_code", exitErr.ExitCode()),
			)
		} else {
			return &PipeError{Command: "quit", Err: err}
		}
	}

	s.logger.Info("gdb session closed")
	if sendErr != nil {
		// quit never reached the process but it is gone either way.
		s.logger.Debug("quit not delivered", zap.Error(sendErr))
	}
	return nil
}
