package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lakshaymaurya-felt/diskmap/internal/core"
	"github.com/lakshaymaurya-felt/diskmap/internal/ui"
)

// Summary is the one-line form used in headers: "120 GB free of 500 GB".
func (u *Usage) Summary() string {
	if u == nil {
		return ""
	}
	return fmt.Sprintf("%s free of %s",
		core.FormatSize(int64(u.Free)), core.FormatSize(int64(u.Total)))
}

// Render draws the volume as a labelled usage bar.
func Render(u *Usage, width int) string {
	if u == nil {
		return ""
	}
	barW := 36
	if width > 110 {
		barW = 48
	}

	title := ui.TitleStyle().Render("  " + ui.IconDiamond + " Storage")
	path := lipgloss.NewStyle().Foreground(ui.ColorTextDim).Render("  " + u.Path)

	lines := []string{
		title,
		path,
		"",
		fmt.Sprintf("  %s  %5.1f%%", ui.GradientBar(u.UsedPercent, barW), u.UsedPercent),
		fmt.Sprintf("  Used   %s", core.FormatSize(int64(u.Used))),
		fmt.Sprintf("  Free   %s", core.FormatSize(int64(u.Free))),
		fmt.Sprintf("  Total  %s", core.FormatSize(int64(u.Total))),
	}
	return strings.Join(lines, "\n")
}

// RenderTable lists several volumes, one bar per line.
func RenderTable(us []*Usage, width int) string {
	barW := 24
	if width > 110 {
		barW = 36
	}
	var lines []string
	for _, u := range us {
		lines = append(lines,
			fmt.Sprintf("  %-12s %s  %5.1f%%  %s / %s",
				core.Truncate(u.Path, 12), ui.GradientBar(u.UsedPercent, barW), u.UsedPercent,
				core.FormatSize(int64(u.Used)),
				core.FormatSize(int64(u.Total))))
	}
	return strings.Join(lines, "\n")
}
