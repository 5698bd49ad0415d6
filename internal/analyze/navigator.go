package analyze

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// State is the scan lifecycle seen by a Navigator.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateReady
	StateCancelled
)

var stateNames = []string{"idle", "scanning", "ready", "cancelled"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// TreeScanner is the scanning dependency of a Navigator.
type TreeScanner interface {
	Scan(ctx context.Context, path string, maxDepth int, progress chan<- Progress) (*Tree, error)
}

// Snapshot is a consistent copy of the navigation state.
type Snapshot struct {
	State       State
	Path        string
	Tree        *Tree
	Current     NodeID
	Breadcrumbs []NodeID
	Progress    float64
	Status      string
}

// Navigator owns the scanned tree, the current view node and the breadcrumb
// stack from the root to it. All methods are safe for concurrent use and
// silently ignore requests that do not apply.
type Navigator struct {
	scanner  TreeScanner
	maxDepth int
	logger   *slog.Logger
	changed  chan struct{}

	mu       sync.Mutex
	state    State
	path     string
	tree     *Tree
	current  NodeID
	crumbs   []NodeID
	progress float64
	status   string

	// token identifies the scan whose results may still be published.
	token  string
	cancel context.CancelFunc
}

// NewNavigator creates an idle Navigator.
func NewNavigator(scanner TreeScanner, maxDepth int, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Navigator{
		scanner:  scanner,
		maxDepth: maxDepth,
		logger:   logger,
		changed:  make(chan struct{}, 1),
		current:  NoNode,
	}
}

// Changed delivers a signal after state changes. Signals coalesce; read the
// state with Snapshot.
func (n *Navigator) Changed() <-chan struct{} {
	return n.changed
}

func (n *Navigator) notify() {
	select {
	case n.changed <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of the current state.
func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Snapshot{
		State:       n.state,
		Path:        n.path,
		Tree:        n.tree,
		Current:     n.current,
		Breadcrumbs: slices.Clone(n.crumbs),
		Progress:    n.progress,
		Status:      n.status,
	}
}

// StartScan cancels any scan in flight and scans path in the background. The
// returned channel is closed when this scan's goroutine has finished.
func (n *Navigator) StartScan(path string) <-chan struct{} {
	ctx, cancel := context.WithCancel(context.Background())
	token := uuid.NewString()

	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
	}
	n.token = token
	n.cancel = cancel
	n.state = StateScanning
	n.path = path
	n.progress = 0
	n.status = "Preparing scan..."
	scanner := n.scanner
	n.mu.Unlock()
	n.notify()
	n.logger.Debug("navigator scan requested", "path", path, "token", token)

	progress := make(chan Progress, 16)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for p := range progress {
			n.applyProgress(token, p)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		tree, err := scanner.Scan(ctx, path, n.maxDepth, progress)
		close(progress)
		<-drained
		n.finish(token, tree, err)
		cancel()
	}()
	return done
}

func (n *Navigator) applyProgress(token string, p Progress) {
	n.mu.Lock()
	if token != n.token || n.state != StateScanning {
		n.mu.Unlock()
		return
	}
	n.progress = p.Fraction
	n.status = p.Label
	n.mu.Unlock()
	n.notify()
}

func (n *Navigator) finish(token string, tree *Tree, err error) {
	n.mu.Lock()
	if token != n.token {
		n.mu.Unlock()
		n.logger.Debug("stale scan result discarded", "token", token)
		return
	}
	n.token = ""
	n.cancel = nil
	if err != nil || tree == nil {
		n.state = StateCancelled
		n.status = "Scan cancelled"
		n.progress = 0
		n.mu.Unlock()
		n.notify()
		return
	}
	root := tree.Root()
	n.tree = tree
	n.current = root
	n.crumbs = []NodeID{root}
	n.state = StateReady
	n.status = "Scan complete!"
	n.progress = 1
	n.mu.Unlock()
	n.notify()
}

// Cancel stops the scan in flight. The previous tree, if any, is kept.
func (n *Navigator) Cancel() {
	n.mu.Lock()
	if n.state != StateScanning {
		n.mu.Unlock()
		return
	}
	if n.cancel != nil {
		n.cancel()
	}
	n.cancel = nil
	n.token = ""
	n.state = StateCancelled
	n.status = "Scan cancelled"
	n.progress = 0
	n.mu.Unlock()
	n.notify()
	n.logger.Info("scan cancelled by request")
}

// NavigateInto zooms into a directory with children. If id is already on the
// breadcrumb stack the stack is cut back to it, otherwise id is pushed.
func (n *Navigator) NavigateInto(id NodeID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.tree.Valid(id) {
		return false
	}
	node := n.tree.Node(id)
	if !node.IsDir || len(node.Children) == 0 {
		return false
	}
	n.current = id
	if i := slices.Index(n.crumbs, id); i >= 0 {
		n.crumbs = n.crumbs[:i+1]
	} else {
		n.crumbs = append(n.crumbs, id)
	}
	n.notify()
	return true
}

// NavigateUp pops one breadcrumb unless only the root is left.
func (n *Navigator) NavigateUp() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.crumbs) <= 1 {
		return false
	}
	n.crumbs = n.crumbs[:len(n.crumbs)-1]
	n.current = n.crumbs[len(n.crumbs)-1]
	n.notify()
	return true
}

// NavigateToBreadcrumb cuts the stack back to id. Unknown ids are ignored.
func (n *Navigator) NavigateToBreadcrumb(id NodeID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	i := slices.Index(n.crumbs, id)
	if i < 0 {
		return false
	}
	n.crumbs = n.crumbs[:i+1]
	n.current = id
	n.notify()
	return true
}

// Reset returns to the root without rescanning.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.tree == nil {
		return
	}
	root := n.tree.Root()
	n.current = root
	n.crumbs = []NodeID{root}
	n.notify()
}

// Clear cancels any scan, drops the tree and returns to Idle.
func (n *Navigator) Clear() {
	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
	}
	n.cancel = nil
	n.token = ""
	n.state = StateIdle
	n.path = ""
	n.tree = nil
	n.current = NoNode
	n.crumbs = nil
	n.progress = 0
	n.status = ""
	n.mu.Unlock()
	n.notify()
}

// Layout lays out the children of the current node inside rect.
func (n *Navigator) Layout(rect Rect, inset float64) []TreemapRect {
	n.mu.Lock()
	tree, current, depth := n.tree, n.current, len(n.crumbs)-1
	n.mu.Unlock()
	if !tree.Valid(current) {
		return nil
	}
	return Layout(tree, tree.Children(current), rect, depth, inset)
}
