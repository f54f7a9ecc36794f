package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmFlash displays a warning box and prompts the user to type "FLASH"
// before overwriting the target's external flash. Returns true if the user
// confirmed.
func ConfirmFlash(imagePath string, totalBytes int, flashBase uint32) bool {
	width := GetTerminalWidth()
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var lines []string
	titleLine := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true).
		Render("   ⚠  WARNING  ─  external flash will be overwritten")
	lines = append(lines, "", titleLine, "")

	bullet := lipgloss.NewStyle().Foreground(TextColor)
	lines = append(lines,
		bullet.Render(fmt.Sprintf("   • image: %s (%s)", imagePath, FormatBytes(totalBytes))),
		bullet.Render(fmt.Sprintf("   • flash offset: %#x", flashBase)),
		bullet.Render("   • previously flashed content in this range is lost"),
		"",
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width - 2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))

	fmt.Println(box)
	fmt.Println()

	prompt := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	fmt.Print(prompt.Render("To proceed, type \"FLASH\" and press Enter: "))

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return false
	}

	return strings.TrimSpace(input) == "FLASH"
}
