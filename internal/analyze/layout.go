package analyze

// Rect is an axis-aligned rectangle in layout units (pixels, terminal cells).
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside r (left/top edges inclusive).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inset shrinks r by d on every side. ok is false when nothing is left.
func (r Rect) Inset(d float64) (out Rect, ok bool) {
	out = Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
	return out, out.W > 0 && out.H > 0
}

// TreemapRect places one node of a layout pass. It is a view only.
type TreemapRect struct {
	Node  NodeID
	Frame Rect
	Depth int
}

// Layout partitions rect among nodes in proportion to their total size,
// slicing once along the longer axis (horizontal when W >= H). Nodes with a
// non-positive total are skipped. The caller's order is kept and the last
// node takes whatever extent is left, so the slices tile rect exactly. Each
// slice is shrunk by inset; slices the inset consumes are dropped.
func Layout(t *Tree, nodes []NodeID, rect Rect, depth int, inset float64) []TreemapRect {
	valid := make([]NodeID, 0, len(nodes))
	sizes := make([]int64, 0, len(nodes))
	var sum int64
	for _, id := range nodes {
		size := t.TotalSize(id)
		if size <= 0 {
			continue
		}
		valid = append(valid, id)
		sizes = append(sizes, size)
		sum += size
	}
	if len(valid) == 0 {
		return nil
	}

	if len(valid) == 1 {
		frame, ok := rect.Inset(inset)
		if !ok {
			return nil
		}
		return []TreemapRect{{Node: valid[0], Frame: frame, Depth: depth}}
	}

	horizontal := rect.W >= rect.H
	extent := rect.H
	if horizontal {
		extent = rect.W
	}

	out := make([]TreemapRect, 0, len(valid))
	var offset float64
	for i, id := range valid {
		var span float64
		if i == len(valid)-1 {
			span = extent - offset
		} else {
			span = extent * float64(sizes[i]) / float64(sum)
		}

		slice := Rect{X: rect.X, Y: rect.Y + offset, W: rect.W, H: span}
		if horizontal {
			slice = Rect{X: rect.X + offset, Y: rect.Y, W: span, H: rect.H}
		}
		offset += span

		frame, ok := slice.Inset(inset)
		if !ok {
			continue
		}
		out = append(out, TreemapRect{Node: id, Frame: frame, Depth: depth})
	}
	return out
}

// HitTest returns the node whose frame contains the point, or NoNode.
func HitTest(rects []TreemapRect, x, y float64) NodeID {
	for _, r := range rects {
		if r.Frame.Contains(x, y) {
			return r.Node
		}
	}
	return NoNode
}
