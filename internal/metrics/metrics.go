package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Scan holds the counters updated by the directory scanner. Each Scan owns a
// private registry so tests and repeated runs never collide on registration.
type Scan struct {
	Registry *prometheus.Registry

	DirsScanned  prometheus.Counter
	FilesScanned prometheus.Counter
	PathErrors   prometheus.Counter
	Cancelled    prometheus.Counter
	Duration     prometheus.Histogram
}

// NewScan creates and registers the scan metrics.
func NewScan() *Scan {
	m := &Scan{
		Registry: prometheus.NewRegistry(),
		DirsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diskmap_dirs_scanned_total",
			Help: "Directories listed by the scanner",
		}),
		FilesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diskmap_files_scanned_total",
			Help: "Files recorded as leaf nodes",
		}),
		PathErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diskmap_path_errors_total",
			Help: "Entries skipped because they could not be read",
		}),
		Cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diskmap_scans_cancelled_total",
			Help: "Scans stopped by cancellation",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "diskmap_scan_duration_seconds",
			Help:    "Wall-clock time of completed scans",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 300},
		}),
	}
	m.Registry.MustRegister(m.DirsScanned, m.FilesScanned, m.PathErrors, m.Cancelled, m.Duration)
	return m
}

// ObserveDuration records a completed scan that started at start.
func (m *Scan) ObserveDuration(start time.Time) {
	if m == nil {
		return
	}
	m.Duration.Observe(time.Since(start).Seconds())
}

// WriteTextfile writes the metrics in Prometheus text format, suitable for the
// node_exporter textfile collector.
func (m *Scan) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
