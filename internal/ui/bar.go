package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	barLow, _  = colorful.Hex("#4ade80")
	barHigh, _ = colorful.Hex("#fb7185")
)

// GradientBar renders a ████░░░░ bar of the given width whose fill shifts
// from green to coral as pct approaches 100.
func GradientBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(pct, 100))
	filled := int(pct / 100 * float64(width))

	var b strings.Builder
	for i := 0; i < filled; i++ {
		c := barLow.BlendHcl(barHigh, float64(i)/float64(width)).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("█"))
	}
	b.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled)))
	return b.String()
}
