package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/usbclean/internal/ui/style"
)

// RenderHelp renders the help overlay.
func RenderHelp(theme style.Theme, width, height int) string {
	boxWidth := 60
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	title := theme.ModalTitle.Render("  usbclean - Keyboard Shortcuts")

	sections := []struct {
		name  string
		binds []struct{ key, desc string }
	}{
		{
			name: "Navigation",
			binds: []struct{ key, desc string }{
				{"j/k", "Move up/down"},
				{"PgUp/PgDn", "Page up/down"},
				{"g/G", "First / last item"},
			},
		},
		{
			name: "Scanning",
			binds: []struct{ key, desc string }{
				{"t", "Toggle shallow / deep scan"},
				{"r", "Rescan volume"},
				{"Esc", "Cancel running scan"},
			},
		},
		{
			name: "Sorting",
			binds: []struct{ key, desc string }{
				{"s", "Sort by size"},
				{"n", "Sort by name"},
				{"p", "Sort by path"},
			},
		},
		{
			name: "Cleaning",
			binds: []struct{ key, desc string }{
				{"Space", "Mark/unmark item"},
				{"a", "Mark/unmark all"},
				{"d", "Clean marked/current"},
			},
		},
		{
			name: "General",
			binds: []struct{ key, desc string }{
				{"?", "Toggle help"},
				{"q", "Quit"},
			},
		},
	}

	var lines []string
	lines = append(lines, title)
	lines = append(lines, "")

	for _, sec := range sections {
		lines = append(lines, theme.HelpSection.Render("  "+sec.name))
		for _, b := range sec.binds {
			lines = append(lines, fmt.Sprintf("%s %s",
				theme.HelpKey.Render("    "+b.key), theme.HelpDesc.Render(b.desc)))
		}
		lines = append(lines, "")
	}

	lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  Press ? or Esc to close"))

	content := strings.Join(lines, "\n")

	box := theme.ModalStyle.
		Width(boxWidth).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
