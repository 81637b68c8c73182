package quadtree // Declares that this file is part of the "quadtree" package

import (
	"math/rand"
	"testing" // Imports Go's standard testing framework
)

func TestNewQuadtree(t *testing.T) {
	qt := New()
	if qt == nil {
		t.Fatal("New() returned nil")
	}
	if qt.Len() != 0 {
		t.Errorf("expected empty tree, got Len() = %d", qt.Len())
	}
}

func TestInsertOutOfDomainRejected(t *testing.T) {
	qt := New()

	// East edge is half-open: x == 1.0 is out of domain.
	if err := qt.Insert(Point{X: 1.0, Y: 0.5}, "driver-1"); err != ErrOutOfDomain {
		t.Errorf("expected ErrOutOfDomain, got %v", err)
	}

	// South-west corner is in domain.
	if err := qt.Insert(Point{X: 0.0, Y: 0.0}, "driver-2"); err != nil {
		t.Errorf("unexpected error inserting (0,0): %v", err)
	}
	if qt.Len() != 1 {
		t.Errorf("expected 1 successful insert, got %d", qt.Len())
	}
}

func TestInsertSamePointTwiceBothRetrievable(t *testing.T) {
	qt := New()
	p := Point{X: 0.4, Y: 0.4}

	if err := qt.Insert(p, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := qt.Insert(p, "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qt.Len() != 2 {
		t.Fatalf("expected len 2, got %d", qt.Len())
	}

	results := qt.QueryRange(UnitSquareDomain())
	if len(results) != 2 {
		t.Fatalf("expected both points retrievable, got %d", len(results))
	}
}

func TestInsertManyCoincidentPointsTerminates(t *testing.T) {
	qt := New()
	p := Point{X: 0.4, Y: 0.4}

	const n = 200
	for i := 0; i < n; i++ {
		if err := qt.Insert(p, i); err != nil {
			t.Fatalf("insert %d: unexpected error: %v", i, err)
		}
	}
	if qt.Len() != n {
		t.Fatalf("expected len %d, got %d", n, qt.Len())
	}

	results := qt.QueryRange(UnitSquareDomain())
	if len(results) != n {
		t.Fatalf("expected all %d coincident points retrievable, got %d", n, len(results))
	}
}

// TestScenarioTwoCorners mirrors spec.md §8 scenario 1.
func TestScenarioTwoCorners(t *testing.T) {
	qt := New()
	a := Point{X: 0.10, Y: 0.10}
	b := Point{X: 0.90, Y: 0.90}

	_ = qt.Insert(a, "A")
	_ = qt.Insert(b, "B")

	if nd, ok := qt.Nearest(Point{X: 0.2, Y: 0.2}); !ok || nd.Payload != "A" {
		t.Errorf("expected nearest((0.2,0.2)) = A, got %v, ok=%v", nd, ok)
	}
	if nd, ok := qt.Nearest(Point{X: 0.8, Y: 0.8}); !ok || nd.Payload != "B" {
		t.Errorf("expected nearest((0.8,0.8)) = B, got %v, ok=%v", nd, ok)
	}

	if results := qt.QueryDisk(Point{X: 0.5, Y: 0.5}, 0.1); len(results) != 0 {
		t.Errorf("expected empty disk query, got %v", results)
	}
}

// TestScenarioFourQuadrants mirrors spec.md §8 scenario 2.
func TestScenarioFourQuadrants(t *testing.T) {
	qt := New()
	points := []Point{
		{X: 0.25, Y: 0.25},
		{X: 0.25, Y: 0.75},
		{X: 0.75, Y: 0.25},
		{X: 0.75, Y: 0.75},
	}
	for i, p := range points {
		if err := qt.Insert(p, i); err != nil {
			t.Fatalf("unexpected error inserting %v: %v", p, err)
		}
	}

	if _, ok := qt.Nearest(Point{X: 0.5, Y: 0.5}); !ok {
		t.Error("expected a nearest result for the center point")
	}

	topLeftQuadrant := NewFrame(Point{X: 0, Y: 1}, Point{X: 0.5, Y: 0.5})
	results := qt.QueryRange(topLeftQuadrant)
	if len(results) != 1 || results[0].Position != (Point{X: 0.25, Y: 0.75}) {
		t.Errorf("expected exactly (0.25,0.75) in the top-left quadrant, got %v", results)
	}
}

// TestScenarioNearlyCoincidentPoints mirrors spec.md §8 scenario 3.
func TestScenarioNearlyCoincidentPoints(t *testing.T) {
	qt := New()
	a := Point{X: 0.500000, Y: 0.500000}
	b := Point{X: 0.500001, Y: 0.500001}

	if err := qt.Insert(a, "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := qt.Insert(b, "second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qt.Len() != 2 {
		t.Fatalf("expected len 2 despite deep subdivision, got %d", qt.Len())
	}

	nd, ok := qt.Nearest(Point{X: 0.5, Y: 0.5})
	if !ok {
		t.Fatal("expected a nearest result")
	}
	if nd.Payload != "first" {
		t.Errorf("expected the first-inserted point, which lies exactly at the query, got %v", nd.Payload)
	}
}

// TestScenarioRejectHalfOpenEdge mirrors spec.md §8 scenario 5.
func TestScenarioRejectHalfOpenEdge(t *testing.T) {
	qt := New()
	if err := qt.Insert(Point{X: 1.0, Y: 0.5}, nil); err != ErrOutOfDomain {
		t.Errorf("expected east-edge insert to be rejected, got %v", err)
	}
	if err := qt.Insert(Point{X: 0.0, Y: 0.0}, nil); err != nil {
		t.Errorf("expected south-west corner insert to succeed, got %v", err)
	}
}

// TestScenarioTwoHundredPoints mirrors spec.md §8 scenario 6.
func TestScenarioTwoHundredPoints(t *testing.T) {
	qt := New()
	rng := rand.New(rand.NewSource(1))

	inserted := make(map[Point]bool)
	for i := 0; i < 200; i++ {
		p := Point{X: rng.Float64(), Y: rng.Float64()}
		if err := qt.Insert(p, i); err != nil {
			t.Fatalf("unexpected error inserting %v: %v", p, err)
		}
		inserted[p] = true
	}

	if qt.Len() != 200 {
		t.Fatalf("expected Len() == 200, got %d", qt.Len())
	}

	results := qt.QueryRange(UnitSquareDomain())
	if len(results) != 200 {
		t.Fatalf("expected QueryRange(domain) to return 200 points, got %d", len(results))
	}
	for _, nd := range results {
		if !inserted[nd.Position] {
			t.Errorf("unexpected point in range query result: %v", nd.Position)
		}
	}
}

func TestQueryDiskRadiusZero(t *testing.T) {
	qt := New()
	p := Point{X: 0.33, Y: 0.66}
	_ = qt.Insert(p, "x")

	results := qt.QueryDisk(p, 0)
	if len(results) != 1 {
		t.Fatalf("expected disk of radius 0 to return the exact point, got %v", results)
	}
}

func TestQueryDiskIsRangeFilteredByDistance(t *testing.T) {
	qt := New()
	_ = qt.Insert(Point{X: 0.5, Y: 0.5}, "center")
	_ = qt.Insert(Point{X: 0.55, Y: 0.5}, "near")
	_ = qt.Insert(Point{X: 0.9, Y: 0.9}, "far")

	center := Point{X: 0.5, Y: 0.5}
	radius := 0.1

	disk := qt.QueryDisk(center, radius)
	bbox := NewFrame(
		Point{X: center.X - radius, Y: center.Y + radius},
		Point{X: center.X + radius, Y: center.Y - radius},
	)
	rangeResults := qt.QueryRange(bbox)

	for _, nd := range disk {
		if nd.Position.DistanceTo(center) > radius {
			t.Errorf("disk result %v exceeds radius", nd.Position)
		}
	}
	if len(disk) > len(rangeResults) {
		t.Errorf("disk query returned more points (%d) than its bounding range query (%d)", len(disk), len(rangeResults))
	}
}

func TestNearestByExpandingDiskFindsSamePointWhenUnambiguous(t *testing.T) {
	qt := New()
	_ = qt.Insert(Point{X: 0.1, Y: 0.1}, "A")
	_ = qt.Insert(Point{X: 0.9, Y: 0.9}, "B")

	nd, ok := qt.NearestByExpandingDisk(Point{X: 0.15, Y: 0.15}, 0.01, 0.01)
	if !ok {
		t.Fatal("expected a result")
	}
	if nd.Payload != "A" {
		t.Errorf("expected expanding-disk search to find A, got %v", nd.Payload)
	}
}

func TestNearestAgreesWithBruteForceOnFixture(t *testing.T) {
	qt := New()
	rng := rand.New(rand.NewSource(42))

	type stored struct {
		pos Point
		id  int
	}
	var all []stored
	for i := 0; i < 50; i++ {
		p := Point{X: rng.Float64(), Y: rng.Float64()}
		_ = qt.Insert(p, i)
		all = append(all, stored{pos: p, id: i})
	}

	bruteForce := func(q Point) stored {
		best := all[0]
		bestDist := q.DistanceTo(best.pos)
		for _, s := range all[1:] {
			if d := q.DistanceTo(s.pos); d < bestDist {
				best, bestDist = s, d
			}
		}
		return best
	}

	disagreements := 0
	for i := 0; i < 100; i++ {
		q := Point{X: rng.Float64(), Y: rng.Float64()}
		nd, ok := qt.Nearest(q)
		if !ok {
			t.Fatal("expected a result from a non-empty tree")
		}
		want := bruteForce(q)
		if nd.Payload != want.id {
			// This is an approximate algorithm (spec §4.7): disagreement
			// is only acceptable when the true nearest point lies outside
			// the origin node's immediate neighborhood. We don't attempt
			// to re-derive that neighborhood here; we just bound how often
			// it may happen so a regression that breaks neighbor
			// collection entirely still fails the test. The bound is kept
			// loose on purpose, this is a smoke test against total
			// breakage, not a precision benchmark.
			disagreements++
		}
	}

	if disagreements > 60 {
		t.Errorf("too many disagreements with brute force: %d/100 (approximate algorithm, some are expected, but not this many)", disagreements)
	}
}

func TestDrawDoesNotPanic(t *testing.T) {
	qt := New()
	_ = qt.Insert(Point{X: 0.2, Y: 0.2}, "x")
	_ = qt.Insert(Point{X: 0.8, Y: 0.8}, "y")

	var buf stringBuilder
	qt.Draw(&buf)
	if buf.Len() == 0 {
		t.Error("expected Draw to write something")
	}
}

// stringBuilder is a minimal io.Writer for TestDrawDoesNotPanic, used in
// place of importing strings.Builder for this one test.
type stringBuilder struct {
	data []byte
}

func (s *stringBuilder) Write(p []byte) (int, error) {
	s.data = append(s.data, p...)
	return len(p), nil
}

func (s *stringBuilder) Len() int { return len(s.data) }
