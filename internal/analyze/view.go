package analyze

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lakshaymaurya-felt/diskmap/internal/core"
	"github.com/lakshaymaurya-felt/diskmap/internal/ui"
	"github.com/mattn/go-runewidth"
)

// ─── Top-level view ──────────────────────────────────────────────────────────

func (m Model) renderView() string {
	snap := m.nav.Snapshot()
	w, h := m.mapSize()

	var body string
	switch {
	case snap.State == StateScanning:
		body = m.renderScanning(snap, w, h)
	case snap.Tree != nil:
		body = m.renderTreemap(snap, w, h)
	default:
		body = m.renderIdle(snap, w, h)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(snap, w),
		body,
		m.renderFooter(snap, w),
	)
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(snap Snapshot, w int) string {
	title := ui.TitleStyle().Render("  " + ui.IconDiamond + " Disk Map")
	if m.usage != nil {
		title += lipgloss.NewStyle().
			Foreground(ui.ColorTextDim).
			Render("    " + m.usage.Summary())
	}
	switch snap.State {
	case StateCancelled:
		title += "  " + ui.TagWarningStyle().Render(" "+snap.Status+" ")
	case StateScanning:
		title += "  " + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(m.spinner.View())
	}

	var crumbs []string
	for i, id := range snap.Breadcrumbs {
		crumbs = append(crumbs, fmt.Sprintf("%d %s", i+1, snap.Tree.Node(id).Name))
	}
	crumbLine := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render("  " + core.Truncate(strings.Join(crumbs, " "+ui.IconChevron+" "), max(1, w-2)))

	pathLine := "  " + m.path
	if snap.Tree.Valid(snap.Current) {
		n := snap.Tree.Node(snap.Current)
		pathLine = fmt.Sprintf("  %s    %s", n.Path, core.FormatSize(snap.Tree.TotalSize(snap.Current)))
	}
	pathLine = lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render(core.Truncate(pathLine, max(1, w)))

	return lipgloss.JoinVertical(lipgloss.Left, title, crumbLine, pathLine)
}

// ─── Body ────────────────────────────────────────────────────────────────────

func (m Model) renderScanning(snap Snapshot, w, h int) string {
	label := snap.Status
	if label == "" {
		label = "Preparing scan..."
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.spinner.View()+" "+lipgloss.NewStyle().Foreground(ui.ColorText).Render(core.Truncate(label, max(1, w-6))),
		"",
		m.bar.ViewAs(snap.Progress),
	)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderIdle(snap Snapshot, w, h int) string {
	msg := "Nothing scanned. Press r to scan " + m.path
	if snap.State == StateCancelled {
		msg = "Scan cancelled. Press r to scan again."
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Render(msg))
}

// renderTreemap rasterises the current layout to terminal cells. Each cell is
// owned by at most one rect; runs of cells with the same owner are styled
// together.
func (m Model) renderTreemap(snap Snapshot, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	if len(m.rects) == 0 {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Render("(empty directory)"))
	}

	owner := make([][]int, h)
	glyph := make([][]rune, h)
	for y := range owner {
		owner[y] = make([]int, w)
		glyph[y] = []rune(strings.Repeat(" ", w))
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}

	styles := make([]lipgloss.Style, len(m.rects))
	for i, r := range m.rects {
		x0, x1, y0, y1 := cellBounds(r.Frame, w, h)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				owner[y][x] = i
			}
		}

		n := snap.Tree.Node(r.Node)
		bg := ui.ColorFor(n.Name, n.Ext, n.IsDir)
		if i == m.selected {
			bg = ui.Shade(bg, 0.35)
		}
		styles[i] = lipgloss.NewStyle().
			Background(bg).
			Foreground(ui.LabelColor(bg)).
			Bold(i == m.selected)

		if y1 <= y0 || x1-x0 < 2 {
			continue
		}
		name := n.Name
		if n.IsDir {
			name += "/"
		}
		putLabel(glyph[y0], x0, x1, name)
		if y1-y0 >= 2 {
			putLabel(glyph[y0+1], x0, x1, core.FormatSize(snap.Tree.TotalSize(r.Node)))
		}
	}

	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var b strings.Builder
		for x := 0; x < w; {
			o := owner[y][x]
			end := x
			for end < w && owner[y][end] == o {
				end++
			}
			run := cellText(glyph[y][x:end])
			if o >= 0 {
				run = styles[o].Render(run)
			}
			b.WriteString(run)
			x = end
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// cellBounds converts a frame to half-open cell ranges clipped to the area.
func cellBounds(f Rect, w, h int) (x0, x1, y0, y1 int) {
	clip := func(v float64, hi int) int {
		return max(0, min(int(math.Round(v)), hi))
	}
	return clip(f.X, w), clip(f.X+f.W, w), clip(f.Y, h), clip(f.Y+f.H, h)
}

// putLabel writes text into row between x0 and x1 with one cell of padding,
// truncated by display width. A double-width rune takes two cells; the second
// holds 0 and is skipped when the row is printed.
func putLabel(row []rune, x0, x1 int, text string) {
	room := x1 - x0 - 1
	if room <= 0 {
		return
	}
	x := x0 + 1
	for _, r := range core.Truncate(text, room) {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > x1 {
			break
		}
		row[x] = r
		for i := 1; i < rw; i++ {
			row[x+i] = 0
		}
		x += rw
	}
}

// cellText turns a run of glyph cells back into a string.
func cellText(cells []rune) string {
	var b strings.Builder
	for _, r := range cells {
		if r != 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter(snap Snapshot, w int) string {
	info := ""
	if id := m.selectedNode(); snap.State != StateScanning && snap.Tree.Valid(id) {
		n := snap.Tree.Node(id)
		icon := ui.IconBullet + " "
		if n.IsDir {
			icon = ui.IconFolder
		}
		parent := snap.Tree.TotalSize(snap.Current)
		size := snap.Tree.TotalSize(id)
		info = fmt.Sprintf("  %s%s  %s  %.1f%%",
			icon,
			lipgloss.NewStyle().Bold(n.IsDir).Foreground(ui.ColorText).Render(core.Truncate(n.Name, max(8, w-30))),
			core.FormatSize(size),
			snap.Tree.Percentage(id, parent))
	}
	if warnings := snap.Tree.Warnings(); len(warnings) > 0 && snap.State == StateReady {
		info += lipgloss.NewStyle().
			Foreground(ui.ColorWarning).
			Render(fmt.Sprintf("  %s %d unreadable", ui.IconWarning, len(warnings)))
	}
	return info + "\n" + m.hintLine(snap.State)
}

func joinPipe(parts []string) string {
	return strings.Join(parts, " "+ui.IconPipe+" ")
}
