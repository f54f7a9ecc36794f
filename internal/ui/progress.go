package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
)

// TransferProgress renders the live byte-progress line of an upload: a
// progress bar, the chunk counter, transferred/total bytes and throughput.
type TransferProgress struct {
	TotalBytes int
	Width      int

	bar progress.Model
}

// NewTransferProgress creates a progress display for an upload of the given
// total size.
func NewTransferProgress(totalBytes int) *TransferProgress {
	width := GetTerminalWidth()

	barWidth := width - 44 // leave room for the counters
	if barWidth < 16 {
		barWidth = 16
	}

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)

	return &TransferProgress{
		TotalBytes: totalBytes,
		Width:      width,
		bar:        bar,
	}
}

// Render returns the progress line for the given state.
func (p *TransferProgress) Render(chunk, chunks, transferred int, elapsed time.Duration) string {
	ratio := 0.0
	if p.TotalBytes > 0 {
		ratio = float64(transferred) / float64(p.TotalBytes)
	}

	rate := ""
	if secs := elapsed.Seconds(); secs > 0.1 {
		rate = fmt.Sprintf(" %s/s", FormatBytes(int(float64(transferred)/secs)))
	}

	line := fmt.Sprintf("%s %3.0f%%  chunk %d/%d  %s / %s%s",
		p.bar.ViewAs(ratio),
		ratio*100,
		chunk+1, chunks,
		FormatBytes(transferred), FormatBytes(p.TotalBytes),
		rate,
	)
	return ProgressLabelStyle.Render(line)
}

// FormatBytes renders a byte count in human-friendly units.
func FormatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
