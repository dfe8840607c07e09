package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fibersim/internal/analysis"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240"))

	persistentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	extinctStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mixedStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	DimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Verdict renders a verdict label in its color.
func Verdict(v analysis.Verdict) string {
	switch v {
	case analysis.Persistent:
		return persistentStyle.Render(v.String())
	case analysis.Extinct:
		return extinctStyle.Render(v.String())
	default:
		return mixedStyle.Render(v.String())
	}
}

// Check renders a pass/fail mark.
func Check(ok bool) string {
	if ok {
		return persistentStyle.Render("yes")
	}
	return extinctStyle.Render("no")
}
