package analyze

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// SizeProbe reports the total bytes of regular files at or below a path.
// Unreadable entries count as zero and symbolic links are never followed, so
// every probe terminates. Hidden files are counted.
type SizeProbe interface {
	Size(ctx context.Context, path string) int64
}

// NewProbe returns the parallel bulk probe, or the sequential walk when only a
// single worker is allowed. Directories named in exclude (case-insensitive)
// are skipped below the probed path.
func NewProbe(maxConcurrency int, exclude []string) SizeProbe {
	if maxConcurrency <= 1 {
		return WalkProbe{exclude: newNameSet(exclude)}
	}
	p := NewParallelProbe(maxConcurrency)
	p.exclude = newNameSet(exclude)
	return p
}

// nameSet is a case-insensitive set of directory names.
type nameSet map[string]bool

func newNameSet(names []string) nameSet {
	set := make(nameSet, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}

func (s nameSet) has(name string) bool {
	return len(s) > 0 && s[strings.ToLower(name)]
}

// rootInfo stats the probe root. The root itself may be a symlink; nothing
// below it is followed.
func rootInfo(path string) (fs.FileInfo, bool) {
	info, err := os.Stat(longPath(path))
	if err != nil {
		return nil, false
	}
	return info, true
}

// WalkProbe is the sequential fallback built on filepath.WalkDir.
type WalkProbe struct {
	exclude nameSet
}

// Size implements SizeProbe.
func (w WalkProbe) Size(ctx context.Context, path string) int64 {
	info, ok := rootInfo(path)
	if !ok {
		return 0
	}
	if !info.IsDir() {
		if info.Mode().IsRegular() {
			return info.Size()
		}
		return 0
	}

	var total int64
	_ = filepath.WalkDir(longPath(path), func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Permission denied or vanished entry: skip it and keep walking.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p == longPath(path) {
				return nil
			}
			if w.exclude.has(d.Name()) || isReparsePoint(p) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += fi.Size()
		}
		return nil
	})
	return total
}

// ParallelProbe walks sibling directories concurrently. Goroutines are capped
// by a weighted semaphore; when it is exhausted the walk continues inline.
type ParallelProbe struct {
	workers *semaphore.Weighted
	exclude nameSet
}

// NewParallelProbe creates a probe running at most maxConcurrency extra
// goroutines per process.
func NewParallelProbe(maxConcurrency int) *ParallelProbe {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	return &ParallelProbe{workers: semaphore.NewWeighted(int64(maxConcurrency))}
}

// Size implements SizeProbe.
func (p *ParallelProbe) Size(ctx context.Context, path string) int64 {
	info, ok := rootInfo(path)
	if !ok {
		return 0
	}
	if !info.IsDir() {
		if info.Mode().IsRegular() {
			return info.Size()
		}
		return 0
	}

	var (
		total atomic.Int64
		wg    sync.WaitGroup
	)

	var walk func(dir string)
	walk = func(dir string) {
		if ctx.Err() != nil {
			return
		}
		entries, err := os.ReadDir(longPath(dir))
		if err != nil {
			return
		}
		for _, e := range entries {
			child := filepath.Join(dir, e.Name())
			switch {
			case e.IsDir():
				if p.exclude.has(e.Name()) || isReparsePoint(child) {
					continue
				}
				if p.workers.TryAcquire(1) {
					wg.Add(1)
					go func(d string) {
						defer wg.Done()
						defer p.workers.Release(1)
						walk(d)
					}(child)
				} else {
					walk(child)
				}
			case e.Type().IsRegular():
				if fi, err := e.Info(); err == nil {
					total.Add(fi.Size())
				}
			}
		}
	}

	walk(filepath.Clean(path))
	wg.Wait()
	return total.Load()
}
