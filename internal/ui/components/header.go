package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/usbclean/internal/model"
	"github.com/sadopc/usbclean/internal/stats"
	"github.com/sadopc/usbclean/internal/ui/style"
	"github.com/sadopc/usbclean/internal/util"
)

// RenderHeader renders the top header bar: title, scan root and the
// lifetime cleanup totals.
func RenderHeader(theme style.Theme, root string, totals stats.Totals, width int) string {
	if width < 10 {
		return ""
	}

	titleStr := " usbclean"
	titleStyled := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(titleStr)

	lifetime := fmt.Sprintf("lifetime: %s files  %s freed ",
		util.FormatCount(totals.Files),
		util.FormatSize(totals.Bytes),
	)
	statsStyled := lipgloss.NewStyle().Foreground(theme.TextMuted).Render(lifetime)

	titleW := lipgloss.Width(titleStyled)
	statsW := lipgloss.Width(statsStyled)

	// Path gets whatever space remains
	pathMaxW := width - titleW - statsW - 3 // 3 for "  " separator + safety
	pathStr := root
	if pathMaxW > 5 {
		pathStr = util.TruncateString(pathStr, pathMaxW)
	} else {
		pathStr = ""
	}

	pathStyled := lipgloss.NewStyle().Foreground(theme.TextPrimary).Render("  " + pathStr)
	pathW := lipgloss.Width(pathStyled)

	gap := width - titleW - pathW - statsW
	if gap < 1 {
		gap = 1
	}

	line := titleStyled + pathStyled + strings.Repeat(" ", gap) + statsStyled
	return theme.HeaderStyle.Width(width).Render(style.FullWidth(line, width))
}

// RenderPolicyBar renders the scan policy selector and the active sort.
func RenderPolicyBar(theme style.Theme, policy model.ScanPolicy, sortCfg model.SortConfig, width int) string {
	left := " " + theme.PolicyTabs(policy.Deep())

	arrow := "↑"
	if sortCfg.Order == model.SortDesc {
		arrow = "↓"
	}
	sortLabel := lipgloss.NewStyle().
		Foreground(theme.TextMuted).
		Render("Sort: " + sortCfg.Field.String() + " " + arrow + " ")

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(sortLabel)
	gap := width - leftW - rightW
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + sortLabel
	return lipgloss.NewStyle().
		Foreground(theme.TextSecondary).
		Background(theme.Raised).
		Width(width).
		Render(style.FullWidth(line, width))
}
