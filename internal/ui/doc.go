// Package ui renders the terminal output of the gdbflash CLI: a header
// describing the operation, a live progress line while chunks are being
// transferred, and a final success or failure box.
//
// Rendering uses lipgloss for styling and a bubbles progress bar for the
// byte progress. Everything degrades to a fixed minimum width when the
// terminal size cannot be determined.
package ui
