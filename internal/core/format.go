package core

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatSize renders a byte count with decimal units, e.g. "1.5 MB".
// Negative values are treated as zero.
func FormatSize(bytes int64) string {
	if bytes < 1000 {
		if bytes < 0 {
			bytes = 0
		}
		return fmt.Sprintf("%d B", bytes)
	}
	v := float64(bytes)
	unit := 0
	for v >= 1000 && unit < len(sizeUnits)-1 {
		v /= 1000
		unit++
	}
	if v >= 100 {
		return fmt.Sprintf("%.0f %s", v, sizeUnits[unit])
	}
	return fmt.Sprintf("%.1f %s", v, sizeUnits[unit])
}

// Truncate shortens s to at most n terminal cells, marking the cut with an
// ellipsis. Double-width runes count as two cells.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return runewidth.Truncate(s, n, "…")
}
