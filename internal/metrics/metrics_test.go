package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteTextfile(t *testing.T) {
	m := NewScan()
	m.DirsScanned.Add(3)
	m.FilesScanned.Add(12)
	m.ObserveDuration(time.Now().Add(-time.Second))

	path := filepath.Join(t.TempDir(), "diskmap.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		"diskmap_dirs_scanned_total 3",
		"diskmap_files_scanned_total 12",
		"diskmap_scan_duration_seconds_count 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	m := NewScan()
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestObserveDurationNil(t *testing.T) {
	var m *Scan
	m.ObserveDuration(time.Now())
}

func TestIndependentRegistries(t *testing.T) {
	a, b := NewScan(), NewScan()
	a.PathErrors.Inc()
	families, err := b.Registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() == "diskmap_path_errors_total" && f.GetMetric()[0].GetCounter().GetValue() != 0 {
			t.Error("registries share state")
		}
	}
}
