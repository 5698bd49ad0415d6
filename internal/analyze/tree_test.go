package analyze

import (
	"encoding/json"
	"testing"
)

// fixture describes a tree for buildTree.
type fixture struct {
	name string
	size int64
	dir  bool
	kids []fixture
}

func buildTree(root fixture) *Tree {
	t := &Tree{}
	var add func(parent NodeID, path string, f fixture)
	add = func(parent NodeID, path string, f fixture) {
		p := path + "/" + f.name
		n := Node{Name: f.name, Path: p, OwnSize: f.size, IsDir: f.dir}
		if !f.dir {
			n.Ext = extOf(f.name)
		}
		id := t.add(parent, n)
		for _, k := range f.kids {
			add(id, p, k)
		}
	}
	add(NoNode, "", root)
	return t
}

func sampleTree() *Tree {
	return buildTree(fixture{name: "root", dir: true, kids: []fixture{
		{name: "videos", dir: true, kids: []fixture{
			{name: "a.mp4", size: 600},
			{name: "b.mkv", size: 200},
		}},
		{name: "notes.txt", size: 150},
		{name: "cache", dir: true, size: 50},
		{name: "empty", dir: true},
	}})
}

func TestTotalSizeAggregation(t *testing.T) {
	tree := sampleTree()
	if got := tree.TotalSize(tree.Root()); got != 1000 {
		t.Fatalf("root total = %d, want 1000", got)
	}
	tree.Walk(func(id NodeID, _ int) bool {
		n := tree.Node(id)
		sum := n.OwnSize
		for _, c := range n.Children {
			sum += tree.TotalSize(c)
		}
		if got := tree.TotalSize(id); got != sum {
			t.Errorf("%s: total %d != own+children %d", n.Name, got, sum)
		}
		return true
	})
}

func TestNodeAccessors(t *testing.T) {
	tree := sampleTree()
	root := tree.Root()
	if root != 0 {
		t.Fatalf("Root() = %d, want 0", root)
	}
	if tree.Len() != 7 {
		t.Errorf("Len() = %d, want 7", tree.Len())
	}
	kids := tree.Children(root)
	if len(kids) != 4 {
		t.Fatalf("root has %d children, want 4", len(kids))
	}
	videos := tree.Node(kids[0])
	if videos.Name != "videos" || !videos.IsDir || videos.Parent != root {
		t.Errorf("unexpected first child %+v", videos)
	}
	if videos.Ext != "" {
		t.Errorf("directory ext = %q, want empty", videos.Ext)
	}
	if file := tree.Node(videos.Children[1]); file.Ext != "mkv" {
		t.Errorf("file ext = %q, want mkv", file.Ext)
	}

	if tree.Valid(NoNode) || tree.Valid(NodeID(tree.Len())) {
		t.Error("out-of-range ids must be invalid")
	}
	if n := tree.Node(99); n.Name != "" || n.Parent != NoNode {
		t.Errorf("invalid Node() = %+v", n)
	}
	if tree.TotalSize(99) != 0 || tree.Children(99) != nil {
		t.Error("invalid ids must yield zero values")
	}
}

func TestNilTree(t *testing.T) {
	var tree *Tree
	if tree.Root() != NoNode || tree.Len() != 0 || tree.Valid(0) {
		t.Error("nil tree should be empty")
	}
	if tree.Warnings() != nil {
		t.Error("nil tree has no warnings")
	}
	tree.Walk(func(NodeID, int) bool {
		t.Error("Walk visited a node of a nil tree")
		return true
	})
}

func TestPercentage(t *testing.T) {
	tree := sampleTree()
	videos := tree.Children(tree.Root())[0]
	if got := tree.Percentage(videos, 1000); got != 80 {
		t.Errorf("Percentage = %v, want 80", got)
	}
	if got := tree.Percentage(videos, 0); got != 0 {
		t.Errorf("Percentage with zero parent = %v, want 0", got)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	tree := sampleTree()
	var names []string
	tree.Walk(func(id NodeID, depth int) bool {
		n := tree.Node(id)
		names = append(names, n.Name)
		return n.Name != "videos"
	})
	want := []string{"root", "videos", "notes.txt", "cache", "empty"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestEmptyTree(t *testing.T) {
	tree := EmptyTree()
	n := tree.Node(tree.Root())
	if n.Name != "Empty" || !n.IsDir || n.Path != "" || len(n.Children) != 0 {
		t.Errorf("EmptyTree root = %+v", n)
	}
	if tree.TotalSize(tree.Root()) != 0 {
		t.Error("EmptyTree should have zero size")
	}
}

func TestExtOf(t *testing.T) {
	tests := map[string]string{
		"photo.JPG":      "jpg",
		"archive.tar.gz": "gz",
		"Makefile":       "",
		".bashrc":        "bashrc",
	}
	for in, want := range tests {
		if got := extOf(in); got != want {
			t.Errorf("extOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleTree())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got jsonNode
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Name != "root" || got.Size != 1000 || !got.IsDir {
		t.Errorf("root = %+v", got)
	}
	if len(got.Children) != 4 || got.Children[0].Size != 800 {
		t.Fatalf("children = %+v", got.Children)
	}
	if got.Children[0].Children[0].Ext != "mp4" {
		t.Errorf("nested ext = %q", got.Children[0].Children[0].Ext)
	}

	var empty *Tree
	data, err = json.Marshal(empty)
	if err != nil || string(data) != "null" {
		t.Errorf("nil tree marshals to %s, %v", data, err)
	}
}

func TestCounts(t *testing.T) {
	files, dirs := sampleTree().Counts()
	if files != 3 || dirs != 3 {
		t.Errorf("Counts() = %d files, %d dirs; want 3, 3", files, dirs)
	}

	var nilTree *Tree
	if f, d := nilTree.Counts(); f != 0 || d != 0 {
		t.Errorf("nil tree Counts() = %d, %d", f, d)
	}
	if f, d := EmptyTree().Counts(); f != 0 || d != 0 {
		t.Errorf("EmptyTree Counts() = %d, %d", f, d)
	}
}
