package ui

import (
	"fmt"
	"sort"
	"strings"
)

// Result represents the final box of an operation: success with detail
// lines, or failure with the error and troubleshooting hints.
type Result struct {
	Success         bool
	Title           string            // e.g., "Firmware upload complete"
	Details         map[string]string // Key-value details to display
	Err             error             // Error (for failure results)
	Troubleshooting []string          // Hints shown under the error
	Width           int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details map[string]string) *Result {
	return &Result{
		Success: true,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{
		Success:         false,
		Title:           title,
		Err:             err,
		Troubleshooting: troubleshooting,
		Width:           GetTerminalWidth(),
	}
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var lines []string
	lines = append(lines, "")

	if r.Success {
		lines = append(lines, SuccessTitleStyle.Render(
			fmt.Sprintf("   %s  SUCCESS  ─  %s", SuccessMarker, r.Title)))
		lines = append(lines, "")

		keys := make([]string, 0, len(r.Details))
		for key := range r.Details {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			keyStyled := ResultKeyStyle.Render(fmt.Sprintf("   %s:", key))
			lines = append(lines, keyStyled+" "+ResultValueStyle.Render(r.Details[key]))
		}
	} else {
		lines = append(lines, ErrorTitleStyle.Render(
			fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, r.Title)))
		lines = append(lines, "")

		if r.Err != nil {
			lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Err.Error()))
			lines = append(lines, "")
		}
		if len(r.Troubleshooting) > 0 {
			lines = append(lines, HintStyle.Render("   Troubleshooting:"))
			for _, hint := range r.Troubleshooting {
				lines = append(lines, HintStyle.Render("     • "+hint))
			}
		}
	}

	lines = append(lines, "")
	content := strings.Join(lines, "\n")

	if r.Success {
		return SuccessBoxStyle(width).Render(content)
	}
	return ErrorBoxStyle(width).Render(content)
}
