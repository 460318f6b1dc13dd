package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/usbclean/internal/scanner"
	"github.com/sadopc/usbclean/internal/ui/style"
	"github.com/sadopc/usbclean/internal/util"
)

// RenderScanProgress renders the scanning progress overlay. spinner is the
// current spinner frame.
func RenderScanProgress(theme style.Theme, spinner string, progress scanner.Progress, root string, width, height int) string {
	boxWidth := 50
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	var lines []string

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Primary).
		Render("  " + spinner + " Scanning " + util.TruncateString(root, max(boxWidth-16, 1)))

	lines = append(lines, title)
	lines = append(lines, "")

	statStyle := lipgloss.NewStyle().Foreground(theme.TextSecondary)
	lines = append(lines, statStyle.Render(fmt.Sprintf("  Junk:    %s", util.FormatCount(progress.Matches))))
	lines = append(lines, statStyle.Render(fmt.Sprintf("  Size:    %s", util.FormatSize(progress.BytesFound))))
	lines = append(lines, statStyle.Render(fmt.Sprintf("  Dirs:    %s", util.FormatCount(progress.DirsScanned))))
	lines = append(lines, statStyle.Render(fmt.Sprintf("  Visited: %s", util.FormatCount(progress.EntriesVisited))))
	lines = append(lines, statStyle.Render(fmt.Sprintf("  Speed:   %s items/s", util.FormatCount(int64(progress.ItemsPerSecond())))))

	if progress.Errors > 0 {
		errLine := fmt.Sprintf("  Errors:  %d", progress.Errors)
		lines = append(lines, theme.ErrorText.Render(errLine))
	}

	if progress.CurrentPath != "" {
		lines = append(lines, "")
		current := util.TruncateString(progress.CurrentPath, max(boxWidth-4, 1))
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  "+current))
	}

	lines = append(lines, "")

	elapsed := fmt.Sprintf("  Elapsed: %.1fs   esc to cancel", progress.Duration.Seconds())
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextMuted).Render(elapsed))

	content := strings.Join(lines, "\n")

	box := theme.ModalStyle.
		Width(boxWidth).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// RenderCleaning renders the overlay shown while a clean runs.
func RenderCleaning(theme style.Theme, spinner string, count int, size int64, width, height int) string {
	boxWidth := 50
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Primary).
		Render("  " + spinner + " Cleaning...")
	detail := lipgloss.NewStyle().
		Foreground(theme.TextSecondary).
		Render(fmt.Sprintf("  %d item(s), %s", count, util.FormatSize(size)))

	box := theme.ModalStyle.
		Width(boxWidth).
		Render(title + "\n\n" + detail)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
