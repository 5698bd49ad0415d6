package analyze

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// NodeID is a stable handle to a node inside one Tree.
type NodeID int

// NoNode is the parent of the root and the result of failed lookups.
const NoNode NodeID = -1

// Node is a single filesystem entry in a scan tree.
type Node struct {
	Name     string
	Path     string
	OwnSize  int64 // bytes of a file, or the probed total of a depth-capped directory
	IsDir    bool
	Ext      string // lowercase, no dot; empty for directories
	Parent   NodeID
	Children []NodeID
}

// Tree is an arena of Nodes produced by one scan. Node 0 is the root.
// A Tree is never mutated after the scan that built it returns.
type Tree struct {
	nodes    []Node
	warnings []string
}

// Root returns the root handle.
func (t *Tree) Root() NodeID {
	if t == nil || len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Valid reports whether id refers to a node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return t != nil && id >= 0 && int(id) < len(t.nodes)
}

// Node returns a copy of the node. The Children slice is shared and must not
// be modified. Invalid ids yield the zero Node.
func (t *Tree) Node(id NodeID) Node {
	if !t.Valid(id) {
		return Node{Parent: NoNode}
	}
	return t.nodes[id]
}

// Children returns the ordered child handles of id (largest first after a scan).
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.Valid(id) {
		return nil
	}
	return t.nodes[id].Children
}

// TotalSize is OwnSize plus the total of every child, computed on demand.
func (t *Tree) TotalSize(id NodeID) int64 {
	if !t.Valid(id) {
		return 0
	}
	n := &t.nodes[id]
	total := n.OwnSize
	for _, c := range n.Children {
		total += t.TotalSize(c)
	}
	return total
}

// Percentage returns the node's total as a percentage of parentSize.
func (t *Tree) Percentage(id NodeID, parentSize int64) float64 {
	if parentSize <= 0 {
		return 0
	}
	return float64(t.TotalSize(id)) / float64(parentSize) * 100
}

// Warnings returns the unreadable-path messages collected during the scan.
func (t *Tree) Warnings() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.warnings...)
}

// Walk visits nodes depth-first in child order. Returning false from fn skips
// the node's children.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	if t.Root() == NoNode {
		return
	}
	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		if !fn(id, depth) {
			return
		}
		for _, c := range t.nodes[id].Children {
			visit(c, depth+1)
		}
	}
	visit(0, 0)
}

// Counts returns the number of files and directories below the root.
func (t *Tree) Counts() (files, dirs int) {
	t.Walk(func(id NodeID, depth int) bool {
		switch {
		case depth == 0:
		case t.nodes[id].IsDir:
			dirs++
		default:
			files++
		}
		return true
	})
	return files, dirs
}

// add appends n to the arena, links it under parent and returns its handle.
func (t *Tree) add(parent NodeID, n Node) NodeID {
	id := NodeID(len(t.nodes))
	n.Parent = parent
	t.nodes = append(t.nodes, n)
	if parent != NoNode {
		t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	}
	return id
}

// newLeafTree builds a single-node tree.
func newLeafTree(n Node) *Tree {
	t := &Tree{}
	t.add(NoNode, n)
	return t
}

// EmptyTree is the placeholder returned for paths that do not exist.
func EmptyTree() *Tree {
	return newLeafTree(Node{Name: "Empty", IsDir: true})
}

// extOf returns the lowercase extension of a file name without the dot.
func extOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// jsonNode is the nested export shape of a Tree.
type jsonNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Size     int64       `json:"size"`
	IsDir    bool        `json:"is_dir"`
	Ext      string      `json:"ext,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

// MarshalJSON writes the tree as nested objects rooted at node 0.
func (t *Tree) MarshalJSON() ([]byte, error) {
	if t.Root() == NoNode {
		return []byte("null"), nil
	}
	var build func(id NodeID) *jsonNode
	build = func(id NodeID) *jsonNode {
		n := &t.nodes[id]
		out := &jsonNode{
			Name:  n.Name,
			Path:  n.Path,
			Size:  t.TotalSize(id),
			IsDir: n.IsDir,
			Ext:   n.Ext,
		}
		for _, c := range n.Children {
			out.Children = append(out.Children, build(c))
		}
		return out
	}
	return json.Marshal(build(0))
}
