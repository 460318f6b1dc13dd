package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sadopc/usbclean/internal/model"
	"github.com/sadopc/usbclean/internal/ui/style"
	"github.com/sadopc/usbclean/internal/util"
)

// StatusInfo holds the current state for the status bar.
type StatusInfo struct {
	ItemCount   int
	TotalSize   int64
	MarkedCount int
	MarkedSize  int64
	Policy      model.ScanPolicy
	// Status is the session's status line; shown when nothing else is.
	Status   string
	ErrorMsg string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(theme style.Theme, info StatusInfo, width int) string {
	if info.ErrorMsg != "" {
		errLine := " " + lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render(info.ErrorMsg)
		return theme.StatusBarStyle.Width(width).Render(ansi.Truncate(errLine, width, "…"))
	}

	var parts []string
	if info.Status != "" {
		parts = append(parts, info.Status)
	}
	parts = append(parts, fmt.Sprintf("%d items", info.ItemCount))
	parts = append(parts, util.FormatSize(info.TotalSize)+" "+info.Policy.String())

	if info.MarkedCount > 0 {
		marked := lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true).
			Render(fmt.Sprintf("* %d marked (%s)", info.MarkedCount, util.FormatSize(info.MarkedSize)))
		parts = append(parts, marked)
	}

	left := " " + strings.Join(parts, " | ")

	hints := []struct{ key, desc string }{
		{"?", "help"},
		{"d", "clean"},
		{"q", "quit"},
	}

	var rightParts []string
	for _, h := range hints {
		k := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(h.key)
		d := lipgloss.NewStyle().Foreground(theme.TextMuted).Render(" " + h.desc)
		rightParts = append(rightParts, k+d)
	}
	right := strings.Join(rightParts, "  ") + " "

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := width - leftW - rightW
	if gap < 1 {
		// Hints go first when the line is too narrow.
		return theme.StatusBarStyle.Width(width).Render(ansi.Truncate(left, width, "…"))
	}

	line := left + strings.Repeat(" ", gap) + right
	return theme.StatusBarStyle.Width(width).Render(line)
}
