package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sadopc/usbclean/internal/model"
	"github.com/sadopc/usbclean/internal/ui/style"
	"github.com/sadopc/usbclean/internal/util"
)

// ResultList renders the junk entries found by the last scan.
type ResultList struct {
	Theme  style.Theme
	Layout style.Layout
	Root   string
	Items  []model.Entry
	Cursor int
	Offset int
	Marked map[uuid.UUID]bool
	// TotalSize is the size of every match; bars show each entry's share.
	TotalSize int64
	// EmptyText replaces the list when there are no items.
	EmptyText string
}

// RenderColumns renders the column titles above the list.
func (rl *ResultList) RenderColumns() string {
	width := rl.Layout.ContentWidth()
	nameWidth := rl.Layout.NameWidth()
	ruleWidth := rl.Layout.RuleWidth()

	title := fmt.Sprintf("  %6s  %-*s  %-*s",
		"share", rl.Layout.BarWidth(), "", nameWidth-ruleWidth, "path")
	if ruleWidth > 0 {
		title += fmt.Sprintf("%-*s", ruleWidth, "rule")
	}
	title += fmt.Sprintf(" %10s", "size")
	return rl.Theme.ColumnHeader.Render(style.FullWidth(title, width))
}

// Render renders the list.
func (rl *ResultList) Render() string {
	width := rl.Layout.ContentWidth()
	contentHeight := rl.Layout.ContentHeight()

	if len(rl.Items) == 0 {
		text := rl.EmptyText
		if text == "" {
			text = "no junk found"
		}
		empty := lipgloss.NewStyle().Foreground(rl.Theme.TextMuted).Render("  (" + text + ")")
		lines := []string{style.FullWidth(empty, width)}
		for len(lines) < contentHeight {
			lines = append(lines, strings.Repeat(" ", width))
		}
		return strings.Join(lines, "\n")
	}

	barWidth := rl.Layout.BarWidth()
	nameWidth := rl.Layout.NameWidth()
	ruleWidth := rl.Layout.RuleWidth()

	start := rl.Offset
	end := start + contentHeight
	if end > len(rl.Items) {
		end = len(rl.Items)
	}

	var lines []string
	for i := start; i < end; i++ {
		item := rl.Items[i]
		selected := i == rl.Cursor
		marked := rl.Marked[item.ID]
		lines = append(lines, rl.renderRow(item, selected, marked, barWidth, nameWidth, ruleWidth, width))
	}

	// Pad remaining height
	for len(lines) < contentHeight {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

func (rl *ResultList) renderRow(item model.Entry, selected, marked bool, barWidth, nameWidth, ruleWidth, totalWidth int) string {
	pct := util.Percent(item.Size, rl.TotalSize)
	pctStr := fmt.Sprintf("%5.1f%%", pct)

	ratio := pct / 100.0
	bar := rl.Theme.BarGradient(barWidth, ratio)

	// Cursor / mark indicator (2 chars)
	indicator := "  "
	if selected && marked {
		indicator = rl.Theme.MarkedIndicator.Render("*") + rl.Theme.CursorIndicator.Render(">")
	} else if selected {
		indicator = rl.Theme.CursorIndicator.Render(" >")
	} else if marked {
		indicator = rl.Theme.MarkedIndicator.Render("* ")
	}

	// Relative path, since most matches share the root prefix.
	name := relativeTo(rl.Root, item.Path)
	if item.IsDir {
		name += "/"
	}
	name = util.PadRight(name, nameWidth-ruleWidth)

	var nameStyled string
	if item.IsDir {
		nameStyled = rl.Theme.DirName.Render(name)
	} else {
		nameStyled = rl.Theme.FileName.Render(name)
	}
	if ruleWidth > 0 {
		nameStyled += rl.Theme.RuleTag.Render(util.PadRight(item.Rule, ruleWidth))
	}

	sizeStr := util.FormatSize(item.Size)
	if item.IsDir {
		sizeStr = "-"
	}
	sizeStyled := rl.Theme.SizeText.
		Foreground(rl.Theme.GradientColor(ratio)).
		Width(10).
		Render(sizeStr)
	pctStyled := rl.Theme.PercentText.Render(pctStr)

	row := fmt.Sprintf("%s%s [%s] %s %s",
		indicator, pctStyled, bar, nameStyled, sizeStyled,
	)

	// Ensure exactly totalWidth visual chars
	row = style.FullWidth(row, totalWidth)

	if selected {
		return rl.Theme.SelectedRow.Width(totalWidth).Render(row)
	}
	return rl.Theme.NormalRow.Render(row)
}

// EnsureVisible adjusts offset to keep cursor visible.
func (rl *ResultList) EnsureVisible() {
	contentHeight := rl.Layout.ContentHeight()
	if rl.Cursor < rl.Offset {
		rl.Offset = rl.Cursor
	}
	if rl.Cursor >= rl.Offset+contentHeight {
		rl.Offset = rl.Cursor - contentHeight + 1
	}
	if rl.Offset < 0 {
		rl.Offset = 0
	}
}

func relativeTo(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
