package status

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRead(t *testing.T) {
	dir := t.TempDir()
	u, err := Read(context.Background(), dir)
	if err != nil {
		t.Skipf("volume stats unavailable: %v", err)
	}
	if u.Path != dir {
		t.Errorf("Path = %q, want %q", u.Path, dir)
	}
	if u.Total == 0 {
		t.Error("Total should be non-zero")
	}
	if u.UsedPercent < 0 || u.UsedPercent > 100 {
		t.Errorf("UsedPercent = %.2f out of range", u.UsedPercent)
	}
}

func TestReadMissingPath(t *testing.T) {
	if _, err := Read(context.Background(), "/definitely/not/a/real/path/xyz"); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestRender(t *testing.T) {
	u := &Usage{Path: "/data", Total: 500e9, Used: 380e9, Free: 120e9, UsedPercent: 76}
	out := Render(u, 80)
	for _, want := range []string{"/data", "76.0%", "380 GB", "120 GB", "500 GB"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q:\n%s", want, out)
		}
	}
	if got := u.Summary(); got != "120 GB free of 500 GB" {
		t.Errorf("Summary = %q", got)
	}
	if Render(nil, 80) != "" {
		t.Error("Render(nil) should be empty")
	}
}

func TestRenderBarWidth(t *testing.T) {
	for _, pct := range []float64{-1, 0, 50, 90, 100, 120} {
		u := &Usage{Path: "/", Total: 100, Used: 50, Free: 50, UsedPercent: pct}

		lines := strings.Split(Render(u, 80), "\n")
		// "  " + 36-cell bar + "  " + "%5.1f%%"
		if w := lipgloss.Width(lines[3]); w != 2+36+2+len(fmt.Sprintf("%5.1f%%", pct)) {
			t.Errorf("Render(%.0f%%) bar line width = %d", pct, w)
		}

		row := RenderTable([]*Usage{u}, 80)
		wide := RenderTable([]*Usage{u}, 120)
		if d := lipgloss.Width(wide) - lipgloss.Width(row); d != 12 {
			t.Errorf("wide table bar grew by %d cells, want 12", d)
		}
	}
}

func TestVolumes(t *testing.T) {
	vols, err := Volumes(context.Background())
	if err != nil {
		t.Skipf("partitions unavailable: %v", err)
	}
	seen := make(map[string]bool)
	for _, v := range vols {
		if seen[v.Path] {
			t.Errorf("volume %s listed twice", v.Path)
		}
		seen[v.Path] = true
		if v.Total == 0 {
			t.Errorf("volume %s has zero capacity", v.Path)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]*Usage{
		{Path: "/", Total: 100e9, Used: 50e9, UsedPercent: 50},
		{Path: "/mnt/backup", Total: 2e12, Used: 1.9e12, UsedPercent: 95},
	}, 80)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[1], "/mnt/backup") || !strings.Contains(lines[1], "95.0%") || !strings.Contains(lines[1], "1.9 TB / 2.0 TB") {
		t.Errorf("line = %q", lines[1])
	}
}
