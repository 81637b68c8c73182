package quadtree // Declares that this file belongs to the "quadtree" package

import (
	"fmt"
	"io"
	"math"
	"sync" // Import concurrency package (Mutex), same guard style as the teacher's facade
)

// DefaultExpandingDiskStep is the default radius increment used by
// NearestByExpandingDisk when the caller passes a non-positive step.
const DefaultExpandingDiskStep = 0.01

// Quadtree is the primary data structure: a root node spanning the
// configured domain (the unit square by default), plus bookkeeping
// counters. Mutation and queries are single-threaded per spec §5. Insert
// holds the write lock for the whole insert, tree mutation included, and
// Len/Depth read the counters under the read lock; the query methods
// (FindContainingNode, Nearest, QueryRange, QueryDisk) take no lock.
type Quadtree struct {
	root   *Node
	domain Frame

	mu          sync.RWMutex
	totalLeaves int
	depth       int
	nextSeq     uint64
}

// New creates a Quadtree over the default unit-square domain.
func New() *Quadtree {
	return NewWithDomain(UnitSquareDomain())
}

// NewWithDomain creates a Quadtree over an explicit domain frame. The
// reference domain is the unit square; any frame works since every
// algorithm in this package is scale-invariant.
func NewWithDomain(domain Frame) *Quadtree {
	return &Quadtree{
		root:   newNode(domain, 0),
		domain: domain,
	}
}

func (q *Quadtree) String() string {
	return fmt.Sprintf("Data count: %d", q.Len())
}

// Insert adds a point carrying payload to the tree. It returns
// ErrOutOfDomain if position lies outside the tree's domain and is a
// no-op in that case. Successful inserts increment Len().
func (q *Quadtree) Insert(position Point, payload interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	nd := &NodeData{Position: position, Payload: payload, seq: q.nextSeq}
	if err := q.root.insert(nd); err != nil {
		return err
	}
	q.nextSeq++
	q.totalLeaves++

	if containing := q.root.FindContainingNode(position); containing.Depth > q.depth {
		q.depth = containing.Depth
	}
	return nil
}

// Len returns the number of points successfully inserted into the tree.
func (q *Quadtree) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.totalLeaves
}

// Depth returns the advisory maximum node depth observed so far.
func (q *Quadtree) Depth() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.depth
}

// FindContainingNode returns the deepest node whose frame contains p (a
// leaf, or an interior node with no child in p's quadrant), tagged with p
// as its external point for subsequent candidate construction. It returns
// ErrOutOfDomain if p lies outside the tree's domain.
func (q *Quadtree) FindContainingNode(p Point) (*Node, error) {
	if !q.domain.Contains(p) {
		return nil, ErrOutOfDomain
	}
	node := q.root.FindContainingNode(p)
	node.externalPoint = &p
	return node, nil
}

// Nearest returns the stored NodeData minimizing Euclidean distance to p,
// per the approximate algorithm of spec §4.7. It is exact when the true
// nearest point lies within the origin node's immediate neighborhood
// (orthogonal + diagonal, greater-or-equal size, plus their relevant
// descendants); extending this to exact k-NN is explicitly out of scope.
// Ties are broken by insertion order, first-inserted wins. The second
// return value is false when the tree is empty or p lies outside the
// tree's domain.
func (q *Quadtree) Nearest(p Point) (NodeData, bool) {
	if q.Len() == 0 {
		return NodeData{}, false
	}

	origin, err := q.FindContainingNode(p)
	if err != nil {
		return NodeData{}, false
	}

	candidates := origin.FindCandidates()

	var best *NodeData
	var bestDist float64
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		for _, data := range candidate.allData() {
			d := p.DistanceTo(data.Position)
			switch {
			case best == nil:
				best, bestDist = data, d
			case d < bestDist:
				best, bestDist = data, d
			case d == bestDist && data.seq < best.seq:
				best, bestDist = data, d
			}
		}
	}

	if best == nil {
		return NodeData{}, false
	}
	return *best, true
}

// QueryRange returns every stored NodeData whose position lies in rect,
// in pre-order. Recursion is pruned by frame/rect intersection.
func (q *Quadtree) QueryRange(rect Frame) []NodeData {
	var found []NodeData
	q.root.queryRange(rect, &found)
	return found
}

func (n *Node) queryRange(rect Frame, found *[]NodeData) {
	if !n.Frame.Intersects(rect) {
		return
	}
	for _, data := range n.allData() {
		if rect.Contains(data.Position) {
			*found = append(*found, *data)
		}
	}
	for _, child := range n.Children {
		if child != nil {
			child.queryRange(rect, found)
		}
	}
}

// QueryDisk returns every stored NodeData within radius (inclusive) of
// center. It delegates to QueryRange over the disk's bounding box and then
// filters by distance. The box's east and north edges are pushed out by one
// float64 step, so points lying exactly on them (including the center
// itself when radius is 0) are not lost to the half-open convention.
func (q *Quadtree) QueryDisk(center Point, radius float64) []NodeData {
	bbox := NewFrame(
		Point{X: center.X - radius, Y: math.Nextafter(center.Y+radius, math.Inf(1))},
		Point{X: math.Nextafter(center.X+radius, math.Inf(1)), Y: center.Y - radius},
	)

	var found []NodeData
	for _, nd := range q.QueryRange(bbox) {
		if nd.Position.DistanceTo(center) <= radius {
			found = append(found, nd)
		}
	}
	return found
}

// NearestByExpandingDisk issues QueryDisk(p, r) with r = r0, r0+step,
// r0+2*step, ... until the result is non-empty, then returns the closest
// point of the first non-empty result. It is distinct from Nearest (spec
// §4.7) and subject to the obvious failure mode of expanding-disk search:
// a point just outside the current disk can be closer than every point
// inside a larger, later disk. It is kept as an alternative algorithm, not
// a replacement — see spec §4.8 and the open-question decision in
// DESIGN.md. The second return value is false if no point is ever found
// within the tree's domain.
func (q *Quadtree) NearestByExpandingDisk(p Point, r0, step float64) (NodeData, bool) {
	if step <= 0 {
		step = DefaultExpandingDiskStep
	}
	maxRadius := math.Hypot(q.domain.Width(), q.domain.Height()) * 2

	for r := r0; r <= maxRadius; r += step {
		results := q.QueryDisk(p, r)
		if len(results) == 0 {
			continue
		}

		best := results[0]
		bestDist := p.DistanceTo(best.Position)
		for _, nd := range results[1:] {
			if d := p.DistanceTo(nd.Position); d < bestDist {
				best, bestDist = nd, d
			}
		}
		return best, true
	}
	return NodeData{}, false
}

// Draw writes a textual representation of the tree to w: one line per
// node, indented by depth, showing its frame and any data it carries.
// There is no plotting library anywhere in this module's dependency
// surface, so this stands in for the matplotlib-backed draw hook of the
// reference implementation this package is grounded on.
func (q *Quadtree) Draw(w io.Writer) {
	q.root.draw(w, "")
}

func (n *Node) draw(w io.Writer, indent string) {
	if len(n.Collisions) > 0 {
		fmt.Fprintf(w, "%sframe=%s data=%v (+%d collisions)\n", indent, n.Frame, n.Data, len(n.Collisions))
	} else {
		fmt.Fprintf(w, "%sframe=%s data=%v\n", indent, n.Frame, n.Data)
	}
	for _, child := range n.Children {
		if child != nil {
			child.draw(w, indent+"  ")
		}
	}
}
