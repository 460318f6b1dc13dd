package style

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Layout manages the arrangement of UI components within terminal dimensions.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentHeight returns the height available for the main content area.
func (l Layout) ContentHeight() int {
	h := l.Height - 4 // header + policy bar + column titles + statusbar
	if h < 1 {
		h = 1
	}
	return h
}

// ContentWidth returns the width available for the main content area.
func (l Layout) ContentWidth() int {
	if l.Width < 20 {
		return 20
	}
	return l.Width
}

// BarWidth returns the width for share-of-total bars in the result list.
func (l Layout) BarWidth() int {
	bar := l.ContentWidth() - l.rowOverhead()
	if bar < 5 {
		bar = 5
	}
	if bar > 30 {
		bar = 30
	}
	return bar
}

// NameWidth returns the width available for the relative path and rule tag.
func (l Layout) NameWidth() int {
	w := l.ContentWidth() - l.rowOverhead() - l.BarWidth()
	if w < 8 {
		w = 8
	}
	return w
}

// rowOverhead returns the fixed-width portion of each result row
// (everything except the bar and name).
//
// Layout: "  " mark + "99.9%" pct(6) + " [" + bar + "] " + name + " " + "  9.9 GiB" size(10)
// Fixed:    2         + 6             + 2    +     + 2    +      + 1  + 10 = 23
func (l Layout) rowOverhead() int {
	return 23 // mark(2) + pct(6) + " ["(2) + "] "(2) + " "(1) + size(10)
}

// RuleWidth returns the width of the rule tag column, or 0 when the name
// column is too narrow to spare it.
func (l Layout) RuleWidth() int {
	if l.NameWidth() < 40 {
		return 0
	}
	return 27 // longest built-in rule name plus a space
}

// PageSize returns how many rows a page jump moves.
func (l Layout) PageSize() int {
	return l.ContentHeight()
}

// FullWidth pads a string with spaces to reach exactly the target visual width.
// Wider strings are cut, keeping their ANSI styling intact.
func FullWidth(s string, width int) string {
	visLen := ansi.StringWidth(s)
	if visLen > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-visLen)
}
