package analyze

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeScanner returns a fixed tree. When block is set it reports progress
// and then waits for cancellation or release.
type fakeScanner struct {
	tree    *Tree
	block   bool
	release chan struct{}

	mu      sync.Mutex
	started chan struct{}
	calls   int
}

func newFakeScanner(tree *Tree, block bool) *fakeScanner {
	return &fakeScanner{
		tree:    tree,
		block:   block,
		release: make(chan struct{}),
		started: make(chan struct{}, 8),
	}
}

func (f *fakeScanner) Scan(ctx context.Context, path string, maxDepth int, progress chan<- Progress) (*Tree, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	f.started <- struct{}{}
	if !f.block {
		return f.tree, nil
	}
	select {
	case <-ctx.Done():
		// A scanner that ignores the guard and reports anyway.
		select {
		case progress <- Progress{Label: "Scanning: late", Fraction: 0.9}:
		default:
		}
		return nil, ctx.Err()
	case <-f.release:
		select {
		case progress <- Progress{Label: "Scanning: late", Fraction: 0.9}:
		default:
		}
		return f.tree, nil
	}
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not finish")
	}
}

func readyNavigator(t *testing.T) (*Navigator, *Tree) {
	t.Helper()
	tree := sampleTree()
	nav := NewNavigator(newFakeScanner(tree, false), 3, nil)
	waitDone(t, nav.StartScan("/root"))
	return nav, tree
}

func TestNavigatorStartScan(t *testing.T) {
	nav, tree := readyNavigator(t)
	snap := nav.Snapshot()
	if snap.State != StateReady {
		t.Fatalf("state = %v, want ready", snap.State)
	}
	if snap.Tree != tree || snap.Current != tree.Root() {
		t.Error("tree or current node not set")
	}
	if !reflect.DeepEqual(snap.Breadcrumbs, []NodeID{tree.Root()}) {
		t.Errorf("breadcrumbs = %v", snap.Breadcrumbs)
	}
	if snap.Progress != 1 || snap.Status != "Scan complete!" || snap.Path != "/root" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestNavigatorInitialState(t *testing.T) {
	nav := NewNavigator(newFakeScanner(nil, false), 3, nil)
	snap := nav.Snapshot()
	if snap.State != StateIdle || snap.Tree != nil || snap.Current != NoNode || len(snap.Breadcrumbs) != 0 {
		t.Errorf("initial snapshot = %+v", snap)
	}
	if nav.NavigateInto(0) || nav.NavigateUp() || nav.NavigateToBreadcrumb(0) {
		t.Error("navigation without a tree must be a no-op")
	}
	nav.Reset()
	if nav.Layout(Rect{W: 10, H: 10}, 0) != nil {
		t.Error("layout without a tree must be empty")
	}
}

func TestNavigateIntoAndUp(t *testing.T) {
	nav, tree := readyNavigator(t)
	root := tree.Root()
	videos := tree.Children(root)[0]

	if !nav.NavigateInto(videos) {
		t.Fatal("NavigateInto(videos) = false")
	}
	snap := nav.Snapshot()
	if snap.Current != videos || !reflect.DeepEqual(snap.Breadcrumbs, []NodeID{root, videos}) {
		t.Errorf("after into: current %v crumbs %v", snap.Current, snap.Breadcrumbs)
	}

	if !nav.NavigateUp() {
		t.Fatal("NavigateUp() = false")
	}
	snap = nav.Snapshot()
	if snap.Current != root || !reflect.DeepEqual(snap.Breadcrumbs, []NodeID{root}) {
		t.Errorf("after up: current %v crumbs %v", snap.Current, snap.Breadcrumbs)
	}
	if nav.NavigateUp() {
		t.Error("NavigateUp at the root must be a no-op")
	}
}

func TestNavigateIntoRejects(t *testing.T) {
	nav, tree := readyNavigator(t)
	kids := tree.Children(tree.Root())
	before := nav.Snapshot()

	for name, id := range map[string]NodeID{
		"file":       kids[1],
		"capped dir": kids[2],
		"empty dir":  kids[3],
		"invalid":    NodeID(99),
		"negative":   NoNode,
	} {
		if nav.NavigateInto(id) {
			t.Errorf("%s: NavigateInto = true", name)
		}
		if after := nav.Snapshot(); after.Current != before.Current || !reflect.DeepEqual(after.Breadcrumbs, before.Breadcrumbs) {
			t.Errorf("%s: state changed", name)
		}
	}
}

func TestNavigateIntoTruncatesExisting(t *testing.T) {
	nav, tree := readyNavigator(t)
	root := tree.Root()
	videos := tree.Children(root)[0]
	nav.NavigateInto(videos)

	if !nav.NavigateInto(root) {
		t.Fatal("NavigateInto(root) = false")
	}
	if snap := nav.Snapshot(); !reflect.DeepEqual(snap.Breadcrumbs, []NodeID{root}) || snap.Current != root {
		t.Errorf("crumbs = %v current = %v", snap.Breadcrumbs, snap.Current)
	}
}

func TestNavigateToBreadcrumb(t *testing.T) {
	tree := buildTree(fixture{name: "r", dir: true, kids: []fixture{
		{name: "a", dir: true, kids: []fixture{
			{name: "b", dir: true, kids: []fixture{{name: "f", size: 1}}},
		}},
	}})
	nav := NewNavigator(newFakeScanner(tree, false), 3, nil)
	waitDone(t, nav.StartScan("/r"))

	r := tree.Root()
	a := tree.Children(r)[0]
	b := tree.Children(a)[0]
	nav.NavigateInto(a)
	nav.NavigateInto(b)
	if snap := nav.Snapshot(); !reflect.DeepEqual(snap.Breadcrumbs, []NodeID{r, a, b}) {
		t.Fatalf("crumbs = %v", snap.Breadcrumbs)
	}

	if nav.NavigateToBreadcrumb(99) {
		t.Error("unknown breadcrumb accepted")
	}
	if !nav.NavigateToBreadcrumb(a) {
		t.Fatal("NavigateToBreadcrumb(a) = false")
	}
	if snap := nav.Snapshot(); snap.Current != a || !reflect.DeepEqual(snap.Breadcrumbs, []NodeID{r, a}) {
		t.Errorf("crumbs = %v current = %v", snap.Breadcrumbs, snap.Current)
	}

	nav.NavigateInto(b)
	nav.Reset()
	if snap := nav.Snapshot(); snap.Current != r || !reflect.DeepEqual(snap.Breadcrumbs, []NodeID{r}) || snap.Tree != tree {
		t.Errorf("after reset: %+v", snap)
	}
}

func TestNavigatorClear(t *testing.T) {
	nav, _ := readyNavigator(t)
	nav.Clear()
	snap := nav.Snapshot()
	if snap.State != StateIdle || snap.Tree != nil || snap.Current != NoNode || snap.Breadcrumbs != nil || snap.Progress != 0 {
		t.Errorf("after clear: %+v", snap)
	}
}

func TestNavigatorCancel(t *testing.T) {
	prior := sampleTree()
	nav := NewNavigator(newFakeScanner(prior, false), 3, nil)
	waitDone(t, nav.StartScan("/first"))

	blocking := newFakeScanner(buildTree(fixture{name: "other", dir: true}), true)
	nav.scanner = blocking
	done := nav.StartScan("/second")
	<-blocking.started
	if nav.Snapshot().State != StateScanning {
		t.Fatal("not scanning")
	}

	nav.Cancel()
	waitDone(t, done)

	snap := nav.Snapshot()
	if snap.State != StateCancelled || snap.Status != "Scan cancelled" {
		t.Errorf("state = %v status = %q", snap.State, snap.Status)
	}
	if snap.Tree != prior {
		t.Error("prior tree not retained")
	}
	if snap.Progress != 0 {
		t.Errorf("progress %v reported after cancellation", snap.Progress)
	}

	nav.Cancel()
	if nav.Snapshot().State != StateCancelled {
		t.Error("second Cancel changed state")
	}
}

func TestNavigatorCancelWithoutPriorTree(t *testing.T) {
	blocking := newFakeScanner(sampleTree(), true)
	nav := NewNavigator(blocking, 3, nil)
	done := nav.StartScan("/x")
	<-blocking.started
	nav.Cancel()
	close(blocking.release)
	waitDone(t, done)

	if snap := nav.Snapshot(); snap.State != StateCancelled || snap.Tree != nil {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestNavigatorRestartDiscardsStale(t *testing.T) {
	stale := newFakeScanner(buildTree(fixture{name: "stale", dir: true}), true)
	nav := NewNavigator(stale, 3, nil)
	first := nav.StartScan("/a")
	<-stale.started

	fresh := sampleTree()
	nav.scanner = newFakeScanner(fresh, false)
	second := nav.StartScan("/b")
	waitDone(t, second)
	waitDone(t, first)

	snap := nav.Snapshot()
	if snap.State != StateReady || snap.Tree != fresh || snap.Path != "/b" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestNavigatorClearDuringScan(t *testing.T) {
	blocking := newFakeScanner(sampleTree(), true)
	nav := NewNavigator(blocking, 3, nil)
	done := nav.StartScan("/x")
	<-blocking.started
	nav.Clear()
	waitDone(t, done)

	if snap := nav.Snapshot(); snap.State != StateIdle || snap.Tree != nil {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestNavigatorForwardsProgress(t *testing.T) {
	tree := sampleTree()
	scanner := newFakeScanner(tree, true)
	nav := NewNavigator(scanner, 3, nil)
	nav.applyProgress("stale-token", Progress{Label: "x", Fraction: 0.5})
	if nav.Snapshot().Progress != 0 {
		t.Error("progress from an unknown scan was applied")
	}

	done := nav.StartScan("/p")
	<-scanner.started
	nav.mu.Lock()
	token := nav.token
	nav.mu.Unlock()
	nav.applyProgress(token, Progress{Label: "Scanning: videos", Fraction: 0.5})
	if snap := nav.Snapshot(); snap.Progress != 0.5 || snap.Status != "Scanning: videos" {
		t.Errorf("snapshot = %+v", snap)
	}
	close(scanner.release)
	waitDone(t, done)
	if snap := nav.Snapshot(); snap.Progress != 1 || snap.State != StateReady {
		t.Errorf("final snapshot = %+v", snap)
	}
}

func TestNavigatorChangedCoalesces(t *testing.T) {
	nav, tree := readyNavigator(t)
	videos := tree.Children(tree.Root())[0]
	nav.NavigateInto(videos)
	nav.NavigateUp()
	select {
	case <-nav.Changed():
	default:
		t.Fatal("no change signal")
	}
	select {
	case <-nav.Changed():
		t.Fatal("signals did not coalesce")
	default:
	}
}

func TestNavigatorLayout(t *testing.T) {
	nav, tree := readyNavigator(t)
	rects := nav.Layout(Rect{W: 100, H: 10}, 0)
	// "empty" has no bytes and is filtered.
	if len(rects) != 3 {
		t.Fatalf("got %d rects, want 3", len(rects))
	}
	if rects[0].Node != tree.Children(tree.Root())[0] || rects[0].Depth != 0 {
		t.Errorf("first rect = %+v", rects[0])
	}

	nav.NavigateInto(rects[0].Node)
	if rects := nav.Layout(Rect{W: 100, H: 10}, 0); len(rects) != 2 || rects[0].Depth != 1 {
		t.Errorf("nested layout = %+v", rects)
	}
}

func TestStateString(t *testing.T) {
	if StateCancelled.String() != "cancelled" || State(42).String() != "unknown" {
		t.Error("unexpected State strings")
	}
}
