package analyze

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestPrintStaticTree(t *testing.T) {
	var buf bytes.Buffer
	PrintStaticTree(&buf, sampleTree(), 0, 0)
	out := buf.String()

	for _, want := range []string{
		"Disk usage: /root",
		"Total size: 1.0 KB",
		"Contents:   3 files, 3 folders",
		"root/  1.0 KB",
		"+-- videos/  800 B",
		"|   +-- a.mp4  600 B",
		"|   \\-- b.mkv  200 B",
		"+-- notes.txt  150 B",
		"\\-- empty/  0 B",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStaticTreeFilters(t *testing.T) {
	var buf bytes.Buffer
	PrintStaticTree(&buf, sampleTree(), 1, 100)
	out := buf.String()

	if strings.Contains(out, "a.mp4") {
		t.Error("depth filter ignored")
	}
	if strings.Contains(out, "cache") || strings.Contains(out, "empty") {
		t.Error("size filter ignored")
	}
	if !strings.Contains(out, "\\-- notes.txt") {
		t.Errorf("last visible child should use the closing connector:\n%s", out)
	}
}

func TestPrintStaticTreeTopEntries(t *testing.T) {
	root := fixture{name: "many", dir: true}
	for i := 0; i < 25; i++ {
		root.kids = append(root.kids, fixture{name: fmt.Sprintf("f%02d", i), size: int64(100 - i)})
	}
	var buf bytes.Buffer
	PrintStaticTree(&buf, buildTree(root), 0, 0)
	out := buf.String()

	if !strings.Contains(out, "f19") || strings.Contains(out, "f20") {
		t.Errorf("expected the top 20 entries only:\n%s", out)
	}
	if !strings.Contains(out, "... and 5 more entries") {
		t.Errorf("missing remainder line:\n%s", out)
	}
}

func TestPrintStaticTreeEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintStaticTree(&buf, nil, 0, 0)
	if !strings.Contains(buf.String(), "No data") {
		t.Errorf("got %q", buf.String())
	}
}
