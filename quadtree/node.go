package quadtree // Declares that this file belongs to the "quadtree" package

// NodeData is an immutable bundle carried through the tree as a unit.
// Position is never mutated after insertion; seq records insertion order
// and is used only to break exact distance ties in Nearest.
type NodeData struct {
	Position Point
	Payload  interface{}
	seq      uint64
}

// Node is a single tree node: it owns a frame, at most one data point, up
// to four child slots, a parent back-reference and a depth. A node is a
// leaf iff all four child slots are empty; IsDivided becomes true the
// first time a real (non-dummy) child is attached and stays true.
//
// Interior nodes may still carry data (see insert) — this is the
// distinguishing feature relative to a classical bucket PR-quadtree, so
// IsLeaf must never be used as a proxy for "has no data".
type Node struct {
	Frame     Frame
	Data      *NodeData
	Children  [4]*Node
	Parent    *Node
	Depth     int
	IsDivided bool

	// Collisions holds extra NodeData that landed in the same quadrant as
	// Data at maxInsertDepth, where insert no longer subdivides
	// (exactly-equal points, or points closer together than a frame at
	// that depth is wide). See insert.
	Collisions []*NodeData

	// externalPoint is stamped by Quadtree.FindContainingNode so that
	// FindCandidates knows, for this leaf, which point is being searched
	// for without threading it through every call.
	externalPoint *Point
}

// maxInsertDepth bounds split-on-demand recursion. A frame's width halves
// at every level, so two points that differ by at least 2^-64 of the
// domain's width (or height) on either axis are forced into different
// quadrants before this depth. Points closer than that on both axes
// (exact duplicates, or distinct coordinates small enough in magnitude
// for float64 to hold so fine a gap) reach it, and insert stops
// subdividing and collects them as collisions instead of recursing
// forever.
const maxInsertDepth = 64

func newNode(frame Frame, depth int) *Node {
	return &Node{Frame: frame, Depth: depth}
}

// IsLeaf reports whether n has no children at all.
func (n *Node) IsLeaf() bool {
	return n.Children == [4]*Node{}
}

// addChild creates a child of n at quadrant q. If dummy is true the child
// is a transient, per-query node: it shares the parent's frame math but is
// never attached to n.Children and never flips IsDivided.
func (n *Node) addChild(q Quadrant, dummy bool) *Node {
	child := newNode(n.Frame.GenerateSubframe(q), n.Depth+1)
	child.Parent = n
	if dummy {
		return child
	}
	n.IsDivided = true
	n.Children[q] = child
	return child
}

// delegateData moves n's resident data into child and clears n's slot.
func (n *Node) delegateData(child *Node) {
	child.Data = n.Data
	n.Data = nil
}

// insert implements the split-on-demand algorithm of spec §4.2. Per spec
// §8, inserting the same position twice (or two positions closer than
// float64 can distinguish) is permitted and both must be retrievable; see
// maxInsertDepth and Node.Collisions for how that case terminates instead
// of subdividing forever.
func (n *Node) insert(nd *NodeData) error {
	if !n.Frame.Contains(nd.Position) {
		return ErrOutOfDomain
	}

	if !n.IsDivided {
		if n.Data == nil {
			n.Data = nd
			return nil
		}

		ndDir := n.Frame.FindLocationInFrame(nd.Position)
		dataDir := n.Frame.FindLocationInFrame(n.Data.Position)

		if ndDir == dataDir && n.Depth >= maxInsertDepth {
			n.Collisions = append(n.Collisions, nd)
			return nil
		}

		child := n.addChild(ndDir, false)
		if ndDir == dataDir {
			n.delegateData(child)
			return child.insert(nd)
		}
		child.Data = nd
		return nil
	}

	ndDir := n.Frame.FindLocationInFrame(nd.Position)
	candidate := n.Children[ndDir]

	if n.Data != nil {
		if candidate != nil {
			return candidate.insert(nd)
		}

		dataDir := n.Frame.FindLocationInFrame(n.Data.Position)

		if ndDir == dataDir && n.Depth >= maxInsertDepth {
			n.Collisions = append(n.Collisions, nd)
			return nil
		}

		child := n.addChild(ndDir, false)
		if ndDir == dataDir {
			n.delegateData(child)
			return child.insert(nd)
		}
		child.Data = nd
		return nil
	}

	if candidate == nil {
		n.Data = nd
		return nil
	}
	return candidate.insert(nd)
}

// allData returns n's resident NodeData together with any Collisions, the
// full set of points actually stored at n.
func (n *Node) allData() []*NodeData {
	if n.Data == nil {
		return nil
	}
	out := make([]*NodeData, 0, 1+len(n.Collisions))
	out = append(out, n.Data)
	out = append(out, n.Collisions...)
	return out
}

// FindContainingNode descends from n to the deepest node whose frame
// contains p: a leaf, or an interior node with no child in p's quadrant.
func (n *Node) FindContainingNode(p Point) *Node {
	q := n.Frame.FindLocationInFrame(p)
	if n.Children[q] != nil {
		return n.Children[q].FindContainingNode(p)
	}
	return n
}

func (n *Node) root() *Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// GetNeighborOfGreaterOrEqualSize returns a node of depth <= n.Depth whose
// frame abuts n across side, except that when n's sibling slot across side
// is empty it returns n.Parent itself, whose frame contains n's rather than
// abutting it. It may synthesize a per-query dummy node when
// the true neighbor carries data at an interior level that hasn't been
// subdivided down to the needed quadrant; see spec §4.4.
func (n *Node) GetNeighborOfGreaterOrEqualSize(side Side) *Node {
	mirrored := neighboring[side]

	if n.Parent == nil {
		return nil
	}

	if n.Parent.Children[mirrored[0]] == n {
		opp := OppositeAcrossSide(mirrored[0], side)
		if sibling := n.Parent.Children[opp]; sibling != nil {
			return sibling
		}
		return n.Parent
	}

	if n.Parent.Children[mirrored[1]] == n {
		opp := OppositeAcrossSide(mirrored[1], side)
		if sibling := n.Parent.Children[opp]; sibling != nil {
			return sibling
		}
		return n.Parent
	}

	node := n.Parent.GetNeighborOfGreaterOrEqualSize(side)
	if node == nil || node.IsLeaf() {
		return node
	}

	oppOfMirror1 := OppositeAcrossSide(mirrored[1], side)
	if n.Parent.Children[oppOfMirror1] == n {
		if node.Children[mirrored[1]] == nil && node.Data != nil {
			dummy := node.addChild(mirrored[1], true)
			dummy.Data = node.Data
			return dummy
		}
		return node.Children[mirrored[1]]
	}

	if node.Children[mirrored[1]] == nil && node.Data != nil {
		dummy := node.addChild(mirrored[1], true)
		dummy.Data = node.Data
		return dummy
	}
	return node.Children[mirrored[0]]
}

// hasChildrenInDirection reports whether n has a real child in either
// quadrant bordering side.
func (n *Node) hasChildrenInDirection(side Side) bool {
	a, b := SplitDirection(side)
	return n.Children[a] != nil || n.Children[b] != nil
}

// FindNeighborsOfSmallerSize descends into greater (the result of
// GetNeighborOfGreaterOrEqualSize), collecting every leaf encountered along
// the way unconditionally, plus every interior node whose data sits in the
// quadrant pair bordering side. See spec §4.5.
func (n *Node) FindNeighborsOfSmallerSize(greater *Node, side Side) []*Node {
	var candidates []*Node
	if greater != nil {
		candidates = append(candidates, greater)
	}

	var neighbors []*Node
	mirrored := neighboring[side]

	for len(candidates) > 0 {
		cur := candidates[0]
		candidates = candidates[1:]
		if cur == nil {
			continue
		}

		if cur.IsLeaf() {
			neighbors = append(neighbors, cur)
		} else if cur.Data != nil {
			dataDir := cur.Frame.FindLocationInFrame(cur.Data.Position)
			if dataDir == mirrored[0] || dataDir == mirrored[1] {
				neighbors = append(neighbors, cur)
			}
		}

		if !cur.IsLeaf() {
			counter := OppositeSide(side)
			if !cur.hasChildrenInDirection(counter) {
				pair := neighboring[counter]
				candidates = append(candidates, cur.Children[pair[0]], cur.Children[pair[1]])
			} else {
				pair := neighboring[side]
				candidates = append(candidates, cur.Children[pair[0]], cur.Children[pair[1]])
			}
		}
	}

	return neighbors
}

// FindNeighborsInDirection finds all orthogonal neighbors of n across side,
// at any size less than or equal to the greater-or-equal-size neighbor.
func (n *Node) FindNeighborsInDirection(side Side) []*Node {
	neighbor := n.GetNeighborOfGreaterOrEqualSize(side)
	return n.FindNeighborsOfSmallerSize(neighbor, side)
}

// childDirection pairs a child quadrant with the cardinal sides its frame
// sits in relative to the query point.
type childDirection struct {
	quadrant Quadrant
	sides    []Side
}

// relativeDirectionOfChildren classifies each of n's real children by
// where they sit relative to n.externalPoint.
func (n *Node) relativeDirectionOfChildren() []childDirection {
	if n.externalPoint == nil {
		return nil
	}
	var out []childDirection
	for q, child := range n.Children {
		if child == nil {
			continue
		}
		dirs := child.Frame.FindFrameRelativeDirection(*n.externalPoint)
		if len(dirs) > 0 {
			out = append(out, childDirection{quadrant: Quadrant(q), sides: dirs})
		}
	}
	return out
}

func filteredSides(children []childDirection) map[Side]bool {
	filter := make(map[Side]bool)
	for _, cd := range children {
		for _, s := range cd.sides {
			filter[s] = true
		}
	}
	return filter
}

// findOrthogonalNeighbors gathers neighbors across every cardinal side
// that isn't already covered by a real child of n in that direction.
func (n *Node) findOrthogonalNeighbors(children []childDirection) []*Node {
	filter := filteredSides(children)

	var neighbors []*Node
	for _, side := range []Side{N, S, W, E} {
		if filter[side] {
			continue
		}
		neighbors = append(neighbors, n.FindNeighborsInDirection(side)...)
	}
	return neighbors
}

// findRelevantDescendants gathers, for each real child whose frame sits in
// one or more cardinal directions from the query point, the smaller-size
// neighbors of n descending toward that direction. Results are
// deduplicated since several children/directions can reach the same node.
func (n *Node) findRelevantDescendants(children []childDirection) []*Node {
	seen := make(map[*Node]bool)
	var out []*Node
	for _, cd := range children {
		for _, side := range cd.sides {
			for _, nb := range n.FindNeighborsOfSmallerSize(n, side) {
				if !seen[nb] {
					seen[nb] = true
					out = append(out, nb)
				}
			}
		}
	}
	return out
}

// findDiagonalNeighbors assembles neighbors that abut n only at a corner:
// for every still-uncovered (vertical, horizontal) pair of cardinal sides,
// it locates the node occupying the corresponding corner quadrant. See
// spec §4.6.
func (n *Node) findDiagonalNeighbors(children []childDirection) []*Node {
	filter := filteredSides(children)

	var verticals, horizontals []Side
	for _, s := range []Side{N, S} {
		if !filter[s] {
			verticals = append(verticals, s)
		}
	}
	for _, s := range []Side{W, E} {
		if !filter[s] {
			horizontals = append(horizontals, s)
		}
	}

	greater := make(map[Side]*Node)
	getGreater := func(side Side) *Node {
		if gn, ok := greater[side]; ok {
			return gn
		}
		gn := n.GetNeighborOfGreaterOrEqualSize(side)
		greater[side] = gn
		return gn
	}

	var diagonals []*Node
	for _, v := range verticals {
		vNode := getGreater(v)
		for _, h := range horizontals {
			hNode := getGreater(h)
			diag := ConcatenateDirections(v, h)

			if vNode == nil && hNode == nil {
				continue
			}

			if n.Parent != nil {
				oppCenter := OppositeAcrossCenter(diag)
				if n.Parent.Children[oppCenter] == n && n.Parent.Children[diag] != nil {
					diagonals = append(diagonals, collectLeaves(n.Parent.Children[diag])...)
					continue
				}
			}

			shallow := vNode
			if shallow == nil || (hNode != nil && hNode.Depth < vNode.Depth) {
				shallow = hNode
			}
			if shallow == nil {
				continue
			}
			diagonals = append(diagonals, shallow.FindDiagonalDescendants(diag)...)
		}
	}
	return diagonals
}

// FindDiagonalDescendants locates the leaf (or data-carrying interior
// node) at the corner of n's frame identified by dir, nudging past the
// exact corner point into the neighboring quadrant before descending from
// the tree root. See spec §4.6.
func (n *Node) FindDiagonalDescendants(dir Quadrant) []*Node {
	corner := n.Frame.Corner(dir)
	nudged := nudgeCorner(corner, dir)

	root := n.root()
	if !root.Frame.Contains(nudged) {
		return nil
	}

	node := root.FindContainingNode(nudged)
	if node.IsLeaf() {
		return []*Node{node}
	}
	if node.Data != nil && node.Frame.FindLocationInFrame(node.Data.Position) == dir {
		return []*Node{node}
	}

	if child := node.Children[dir]; child != nil {
		return child.FindDiagonalDescendants(dir)
	}

	vertical, horizontal := quadrantAxes(dir)
	var out []*Node
	for _, side := range []Side{vertical, horizontal} {
		a, b := SplitDirection(side)
		if c := node.Children[a]; c != nil {
			out = append(out, collectLeaves(c)...)
		}
		if c := node.Children[b]; c != nil {
			out = append(out, collectLeaves(c)...)
		}
	}
	if len(out) == 0 {
		out = append(out, node)
	}
	return out
}

const cornerEpsilon = 1e-9

// nudgeCorner nudges p, the corner of a frame in quadrant dir, a small
// epsilon into the quadrant diagonally opposite dir's own frame, so that
// descending from the root lands in the neighboring cell instead of back
// into the originating one.
func nudgeCorner(p Point, dir Quadrant) Point {
	switch dir {
	case NW:
		return Point{X: p.X - cornerEpsilon, Y: p.Y + cornerEpsilon}
	case NE:
		return Point{X: p.X + cornerEpsilon, Y: p.Y + cornerEpsilon}
	case SE:
		return Point{X: p.X + cornerEpsilon, Y: p.Y - cornerEpsilon}
	case SW:
		return Point{X: p.X - cornerEpsilon, Y: p.Y - cornerEpsilon}
	}
	return p
}

// collectLeaves gathers every leaf node in node's subtree (node included
// if it is itself a leaf).
func collectLeaves(node *Node) []*Node {
	if node == nil {
		return nil
	}
	if node.IsLeaf() {
		return []*Node{node}
	}
	var out []*Node
	for _, child := range node.Children {
		if child != nil {
			out = append(out, collectLeaves(child)...)
		}
	}
	return out
}

// FindCandidates builds the candidate set for a nearest-data query rooted
// at n: n itself (if it carries data), its orthogonal and diagonal
// neighbors, and the descendants of n relevant to where the query point
// lies relative to n's existing children. See spec §4.7.
func (n *Node) FindCandidates() []*Node {
	children := n.relativeDirectionOfChildren()

	candidates := n.findRelevantDescendants(children)
	candidates = append(candidates, n.findOrthogonalNeighbors(children)...)
	candidates = append(candidates, n.findDiagonalNeighbors(children)...)

	if n.Data != nil {
		candidates = append(candidates, n)
	}
	return candidates
}
