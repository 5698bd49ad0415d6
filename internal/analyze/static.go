package analyze

import (
	"fmt"
	"io"
	"strings"

	"github.com/lakshaymaurya-felt/diskmap/internal/core"
)

const staticMaxShow = 20

// PrintStaticTree writes a plain-text tree of a scan result. It is used when
// stdout is not a terminal and the interactive TUI cannot run. maxDepth 0
// means unlimited; entries smaller than minSize are skipped.
func PrintStaticTree(w io.Writer, t *Tree, maxDepth int, minSize int64) {
	root := t.Root()
	if root == NoNode {
		fmt.Fprintln(w, "  No data to display.")
		return
	}
	total := core.FormatSize(t.TotalSize(root))

	fmt.Fprintf(w, "  Disk usage: %s\n", t.Node(root).Path)
	fmt.Fprintf(w, "  Total size: %s\n", total)
	files, dirs := t.Counts()
	fmt.Fprintf(w, "  Contents:   %d files, %d folders\n", files, dirs)
	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))
	fmt.Fprintln(w)

	p := staticPrinter{w: w, t: t, maxDepth: maxDepth, minSize: minSize}
	p.print(root, "", true, 0)

	if warnings := t.Warnings(); len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %d path(s) could not be read\n", len(warnings))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))
	fmt.Fprintf(w, "  Total: %s\n", total)
}

type staticPrinter struct {
	w        io.Writer
	t        *Tree
	maxDepth int
	minSize  int64
}

// print writes one node and its children using ASCII connectors
// (+-- \-- |) so legacy consoles render the output.
func (p staticPrinter) print(id NodeID, prefix string, isLast bool, depth int) {
	if p.maxDepth > 0 && depth > p.maxDepth {
		return
	}
	size := p.t.TotalSize(id)
	if depth > 0 && p.minSize > 0 && size < p.minSize {
		return
	}

	connector := "+-- "
	childPrefix := "|   "
	if isLast {
		connector = "\\-- "
		childPrefix = "    "
	}
	if depth == 0 {
		connector = ""
		childPrefix = ""
	}

	n := p.t.Node(id)
	dirMarker := ""
	if n.IsDir {
		dirMarker = "/"
	}
	fmt.Fprintf(p.w, "  %s%s%s%s  %s\n", prefix, connector, n.Name, dirMarker, core.FormatSize(size))

	// Children are already largest first; only the ones that pass the size
	// filter are candidates for the top entries.
	var shown []NodeID
	for _, c := range n.Children {
		if p.minSize > 0 && p.t.TotalSize(c) < p.minSize {
			continue
		}
		shown = append(shown, c)
	}
	if p.maxDepth > 0 && depth+1 > p.maxDepth {
		return
	}
	remaining := 0
	if len(shown) > staticMaxShow {
		remaining = len(shown) - staticMaxShow
		shown = shown[:staticMaxShow]
	}
	for i, c := range shown {
		p.print(c, prefix+childPrefix, i == len(shown)-1 && remaining == 0, depth+1)
	}
	if remaining > 0 {
		fmt.Fprintf(p.w, "  %s\\-- ... and %d more entries\n", prefix+childPrefix, remaining)
	}
}
