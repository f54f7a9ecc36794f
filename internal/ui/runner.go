package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// UploadRunnerConfig holds the presentation context for one upload.
type UploadRunnerConfig struct {
	Title   string            // e.g., "Firmware upload"
	Command string            // the invoked command line
	Params  map[string]string // parameters shown in the header
	Output  io.Writer         // defaults to os.Stdout
}

// UploadRunner orchestrates the header → live progress → result flow around
// an upload. The upload loop reports through OnProgress; the runner redraws
// the progress line in place when stdout is a terminal and falls back to
// one line per chunk otherwise.
type UploadRunner struct {
	config    UploadRunnerConfig
	output    io.Writer
	bar       *TransferProgress
	isTTY     bool
	startTime time.Time
}

// NewUploadRunner creates a runner for one upload of totalBytes bytes.
func NewUploadRunner(config UploadRunnerConfig, totalBytes int) *UploadRunner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &UploadRunner{
		config: config,
		output: config.Output,
		bar:    NewTransferProgress(totalBytes),
		isTTY:  IsTerminal(),
	}
}

// Start prints the header.
func (r *UploadRunner) Start() {
	r.startTime = time.Now()
	header := NewHeader(r.config.Title, r.config.Command, r.config.Params)
	_, _ = fmt.Fprintln(r.output, header.Render())
	_, _ = fmt.Fprintln(r.output)
}

// OnProgress renders one progress update. Safe to use as the uploader's
// progress callback.
func (r *UploadRunner) OnProgress(chunk, chunks, transferred int, elapsed time.Duration) {
	line := r.bar.Render(chunk, chunks, transferred, elapsed)
	if r.isTTY {
		_, _ = fmt.Fprint(r.output, "\r"+line)
	} else {
		_, _ = fmt.Fprintln(r.output, line)
	}
}

// Finish prints the final result box and returns the error unchanged, so
// callers can chain it into their own error handling.
func (r *UploadRunner) Finish(err error, details map[string]string) error {
	if r.isTTY {
		_, _ = fmt.Fprintln(r.output)
	}
	_, _ = fmt.Fprintln(r.output)

	duration := time.Since(r.startTime).Round(time.Millisecond)

	if err != nil {
		result := NewFailureResult(r.config.Title+" failed", err, []string{
			"Verify the GDB server is still connected",
			"Check the target has not reset unexpectedly",
			"Re-run with GDBFLASH_LOG_LEVEL=debug for the full GDB dialogue",
		})
		_, _ = fmt.Fprintln(r.output, result.Render())
		return err
	}

	if details == nil {
		details = make(map[string]string)
	}
	details["Duration"] = duration.String()

	result := NewSuccessResult(r.config.Title+" complete", details)
	if r.isTTY {
		if rerr := RenderOnce(result.Render()); rerr == nil {
			return nil
		}
	}
	_, _ = fmt.Fprintln(r.output, result.Render())
	return nil
}
