package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the set of colors a Theme is derived from.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Success   lipgloss.Color

	// Panel backs the header and status bar, Raised the policy bar and
	// Highlight the cursor row.
	Panel     lipgloss.Color
	Raised    lipgloss.Color
	Highlight lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	// BarFrom and BarTo are the ends of the share-of-total gradient.
	BarFrom lipgloss.Color
	BarTo   lipgloss.Color
}

// DefaultPalette is a dark palette with amber accents for junk.
func DefaultPalette() Palette {
	return Palette{
		Primary:   lipgloss.Color("#D08770"),
		Secondary: lipgloss.Color("#88C0D0"),
		Accent:    lipgloss.Color("#EBCB8B"),
		Error:     lipgloss.Color("#BF616A"),
		Warning:   lipgloss.Color("#EBCB8B"),
		Success:   lipgloss.Color("#A3BE8C"),

		Panel:     lipgloss.Color("#2E3440"),
		Raised:    lipgloss.Color("#3B4252"),
		Highlight: lipgloss.Color("#4C566A"),

		TextPrimary:   lipgloss.Color("#ECEFF4"),
		TextSecondary: lipgloss.Color("#D8DEE9"),
		TextMuted:     lipgloss.Color("#7B8394"),

		BarFrom: lipgloss.Color("#88C0D0"),
		BarTo:   lipgloss.Color("#D08770"),
	}
}

// Theme is a Palette plus the styles the components render with.
type Theme struct {
	Palette

	HeaderStyle      lipgloss.Style
	ColumnHeader     lipgloss.Style
	TabActiveStyle   lipgloss.Style
	TabInactiveStyle lipgloss.Style
	StatusBarStyle   lipgloss.Style

	SelectedRow     lipgloss.Style
	NormalRow       lipgloss.Style
	MarkedIndicator lipgloss.Style
	CursorIndicator lipgloss.Style
	DirName         lipgloss.Style
	FileName        lipgloss.Style
	RuleTag         lipgloss.Style
	SizeText        lipgloss.Style
	PercentText     lipgloss.Style

	SpinnerStyle lipgloss.Style
	ErrorText    lipgloss.Style

	HelpSection lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
	ModalStyle  lipgloss.Style
	ModalTitle  lipgloss.Style

	barFrom colorful.Color
	barTo   colorful.Color
}

func DefaultTheme() Theme {
	return NewTheme(DefaultPalette())
}

// NewTheme derives every style from p.
func NewTheme(p Palette) Theme {
	t := Theme{Palette: p}
	t.barFrom, _ = colorful.Hex(string(p.BarFrom))
	t.barTo, _ = colorful.Hex(string(p.BarTo))

	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	t.HeaderStyle = fg(p.TextPrimary).Bold(true).Background(p.Panel)
	t.ColumnHeader = fg(p.TextMuted).Underline(true)
	t.TabActiveStyle = fg(p.Panel).Bold(true).Background(p.Primary).Padding(0, 1)
	t.TabInactiveStyle = fg(p.TextMuted).Padding(0, 1)
	t.StatusBarStyle = fg(p.TextSecondary).Background(p.Panel)

	t.SelectedRow = fg(p.TextPrimary).Bold(true).Background(p.Highlight)
	t.NormalRow = fg(p.TextSecondary)
	t.MarkedIndicator = fg(p.Error).Bold(true)
	t.CursorIndicator = fg(p.Primary).Bold(true)
	t.DirName = fg(p.Accent).Bold(true)
	t.FileName = fg(p.TextSecondary)
	t.RuleTag = fg(p.Secondary).Italic(true)
	t.SizeText = fg(p.TextMuted).Align(lipgloss.Right)
	t.PercentText = fg(p.TextMuted).Width(6).Align(lipgloss.Right)

	t.SpinnerStyle = fg(p.Secondary)
	t.ErrorText = fg(p.Error)

	t.HelpSection = fg(p.Accent).Bold(true)
	t.HelpKey = fg(p.Primary).Bold(true).Width(14)
	t.HelpDesc = fg(p.TextSecondary)
	t.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Background(p.Panel).
		Padding(1, 2)
	t.ModalTitle = fg(p.TextPrimary).Bold(true).PaddingBottom(1)

	return t
}

func (t Theme) blend(ratio float64) colorful.Color {
	return t.barFrom.BlendLab(t.barTo, min(max(ratio, 0), 1))
}

// GradientColor tints a size by its share of the junk total.
func (t Theme) GradientColor(ratio float64) lipgloss.Color {
	switch {
	case ratio <= 0:
		return t.BarFrom
	case ratio >= 1:
		return t.BarTo
	}
	return lipgloss.Color(t.blend(ratio).Hex())
}

// BarGradient draws a bar width cells wide with ratio of it filled. Each
// filled cell takes its own color along the gradient.
func (t Theme) BarGradient(width int, ratio float64) string {
	if width <= 0 {
		return ""
	}
	filled := min(max(int(ratio*float64(width)), 0), width)

	var b strings.Builder
	step := 1.0 / float64(max(width-1, 1))
	for i := range filled {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.blend(float64(i) * step).Hex())).
			Render("━"))
	}
	if rest := width - filled; rest > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(strings.Repeat("─", rest)))
	}
	return b.String()
}

// PolicyTabs renders the shallow/deep selector with the active policy
// highlighted.
func (t Theme) PolicyTabs(deep bool) string {
	shallow, deepTab := t.TabActiveStyle, t.TabInactiveStyle
	if deep {
		shallow, deepTab = t.TabInactiveStyle, t.TabActiveStyle
	}
	return shallow.Render("Shallow") + " " + deepTab.Render("Deep")
}
