package analyze

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lakshaymaurya-felt/diskmap/internal/metrics"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxDepth is the depth below which directories are summarised by a
// SizeProbe instead of being expanded.
const DefaultMaxDepth = 5

const maxWarnings = 500

// Progress is a coarse progress report: root-level subdirectories finished
// over root-level subdirectories found.
type Progress struct {
	Label    string
	Fraction float64
}

// Scanner builds a Tree by walking a directory with one concurrent unit per
// subdirectory. A Scanner holds no per-scan state and may run several scans
// at once.
//
// Directories at the depth cap are sized by the probe, which honours the
// exclude list but, unlike the listing above the cap, counts hidden files.
type Scanner struct {
	probe   SizeProbe
	workers *semaphore.Weighted
	exclude nameSet
	logger  *slog.Logger
	metrics *metrics.Scan
}

// ScannerOption customises a Scanner.
type ScannerOption func(*Scanner)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Scan) ScannerOption {
	return func(s *Scanner) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithProbe replaces the SizeProbe used for depth-capped directories.
func WithProbe(p SizeProbe) ScannerOption {
	return func(s *Scanner) {
		if p != nil {
			s.probe = p
		}
	}
}

// NewScanner creates a scanner with bounded concurrency.
// exclude is a list of directory names (case-insensitive) to skip.
func NewScanner(maxConcurrency int, exclude []string, opts ...ScannerOption) *Scanner {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	s := &Scanner{
		workers: semaphore.NewWeighted(int64(maxConcurrency)),
		exclude: newNameSet(exclude),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.probe == nil {
		s.probe = NewProbe(maxConcurrency, exclude)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewScan()
	}
	return s
}

// Metrics returns the scanner's metrics sink.
func (s *Scanner) Metrics() *metrics.Scan {
	return s.metrics
}

// Scan walks path down to maxDepth and returns the resulting tree. A negative
// maxDepth selects DefaultMaxDepth. Progress reports are sent on progress
// when it is non-nil; none are sent once ctx is cancelled.
//
// Unreadable entries never fail a scan. The only error is ctx.Err() when the
// scan was cancelled, in which case the partial tree is discarded.
func (s *Scanner) Scan(ctx context.Context, path string, maxDepth int, progress chan<- Progress) (*Tree, error) {
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}
	path = filepath.Clean(path)
	start := time.Now()
	s.logger.Info("scan started", "path", path, "max_depth", maxDepth)

	run := &scanRun{s: s, ctx: ctx, maxDepth: maxDepth, progress: progress}
	root := run.scanRoot(path)

	if err := ctx.Err(); err != nil {
		s.metrics.Cancelled.Inc()
		s.logger.Info("scan cancelled", "path", path, "elapsed", time.Since(start))
		return nil, err
	}
	if root == nil {
		return EmptyTree(), nil
	}

	t := flatten(root)
	t.warnings = run.warnings
	s.metrics.ObserveDuration(start)
	s.logger.Info("scan complete",
		"path", path,
		"nodes", t.Len(),
		"bytes", root.total,
		"warnings", len(run.warnings),
		"elapsed", time.Since(start))
	return t, nil
}

// entry is the scratch node built by one scan unit. Each unit owns the
// entries it creates until it returns them to its parent.
type entry struct {
	name     string
	path     string
	size     int64
	isDir    bool
	children []*entry
	total    int64
}

// scanRun is the state shared by the units of a single Scan call.
type scanRun struct {
	s        *Scanner
	ctx      context.Context
	maxDepth int
	progress chan<- Progress

	warnMu   sync.Mutex
	warnings []string

	progressMu sync.Mutex
	rootTotal  int
	rootDone   int
}

func (r *scanRun) warn(path string, err error) {
	r.s.metrics.PathErrors.Inc()
	r.s.logger.Debug("path skipped", "path", path, "error", err)
	r.warnMu.Lock()
	defer r.warnMu.Unlock()
	if len(r.warnings) < maxWarnings {
		r.warnings = append(r.warnings, "cannot read "+path+": "+err.Error())
	}
}

// scanRoot returns nil when path does not exist.
func (r *scanRun) scanRoot(path string) *entry {
	info, err := os.Stat(longPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.s.logger.Error("path does not exist", "path", path)
		} else {
			r.warn(path, err)
		}
		return nil
	}

	name := filepath.Base(path)
	if !info.IsDir() {
		e := &entry{name: name, path: path}
		if info.Mode().IsRegular() {
			e.size = info.Size()
		}
		e.total = e.size
		r.s.metrics.FilesScanned.Inc()
		return e
	}
	return r.scanDir(path, name, 0)
}

// scanDir expands a directory. Files become leaves synchronously; each
// subdirectory is scanned by its own unit, on a new goroutine while the
// worker semaphore has room and inline otherwise.
func (r *scanRun) scanDir(path, name string, depth int) *entry {
	e := &entry{name: name, path: path, isDir: true}

	if depth >= r.maxDepth {
		e.size = r.s.probe.Size(r.ctx, path)
		e.total = e.size
		return e
	}
	if r.ctx.Err() != nil {
		return e
	}

	list, err := os.ReadDir(longPath(path))
	r.s.metrics.DirsScanned.Inc()
	if err != nil {
		r.warn(path, err)
		return e
	}

	var (
		files []*entry
		dirs  []string
	)
	for _, de := range list {
		childName := de.Name()
		if strings.HasPrefix(childName, ".") {
			continue
		}
		childPath := filepath.Join(path, childName)

		if de.IsDir() {
			if r.s.exclude.has(childName) {
				continue
			}
			// NEVER follow junction points / reparse points.
			if isReparsePoint(childPath) {
				continue
			}
			dirs = append(dirs, childName)
			continue
		}

		leaf := &entry{name: childName, path: childPath}
		info, err := de.Info()
		switch {
		case err != nil:
			r.warn(childPath, err)
		case info.Mode().IsRegular():
			leaf.size = info.Size()
		}
		leaf.total = leaf.size
		files = append(files, leaf)
		r.s.metrics.FilesScanned.Inc()
	}

	if depth == 0 {
		r.setRootTotal(len(dirs))
	}

	subs := make([]*entry, len(dirs))
	var wg sync.WaitGroup
	for i, dirName := range dirs {
		if r.ctx.Err() != nil {
			break
		}
		unit := func() {
			subs[i] = r.scanDir(filepath.Join(path, dirName), dirName, depth+1)
			if depth == 0 {
				r.rootChildDone(dirName)
			}
		}
		if r.s.workers.TryAcquire(1) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer r.s.workers.Release(1)
				unit()
			}()
		} else {
			unit()
		}
	}
	wg.Wait()

	e.children = files
	for _, sub := range subs {
		if sub != nil {
			e.children = append(e.children, sub)
		}
	}
	for _, c := range e.children {
		e.total += c.total
	}
	sortBySize(e.children)
	return e
}

func (r *scanRun) setRootTotal(n int) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.rootTotal = n
}

// rootChildDone counts one finished root-level subdirectory and reports it.
func (r *scanRun) rootChildDone(name string) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	if r.ctx.Err() != nil {
		return
	}
	r.rootDone++
	if r.progress == nil || r.rootTotal == 0 {
		return
	}
	p := Progress{
		Label:    "Scanning: " + name,
		Fraction: float64(r.rootDone) / float64(r.rootTotal),
	}
	select {
	case r.progress <- p:
	case <-r.ctx.Done():
	}
}

// sortBySize orders entries largest first, keeping traversal order on ties.
func sortBySize(entries []*entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].total > entries[j].total
	})
}

// flatten copies a finished scratch tree into an arena, preorder.
func flatten(root *entry) *Tree {
	t := &Tree{}
	var add func(parent NodeID, e *entry)
	add = func(parent NodeID, e *entry) {
		n := Node{Name: e.name, Path: e.path, OwnSize: e.size, IsDir: e.isDir}
		if !e.isDir {
			n.Ext = extOf(e.name)
		}
		id := t.add(parent, n)
		for _, c := range e.children {
			add(id, c)
		}
	}
	add(NoNode, root)
	return t
}
