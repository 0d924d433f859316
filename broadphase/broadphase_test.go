package broadphase

import (
	"testing"

	"github.com/akmonengine/feather2d/geom"
)

func box(index int, cx, cy, he float64, static, asleep bool) Entry {
	c := geom.Vec2{cx, cy}
	h := geom.Vec2{he, he}
	return Entry{
		Index:  index,
		AABB:   geom.AABB{Min: c.Sub(h), Max: c.Add(h)},
		Static: static,
		Asleep: asleep,
	}
}

func TestDetect_OverlappingPair(t *testing.T) {
	grid := NewSpatialGrid(1, 64)
	entries := []Entry{
		box(0, 0, 0, 0.5, false, false),
		box(1, 0.5, 0, 0.5, false, false),
	}
	for _, e := range entries {
		grid.Insert(e.Index, e.AABB)
	}
	grid.SortCells()

	pairs := grid.Detect(entries)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 overlapping pair, got %d", len(pairs))
	}
	if pairs[0].A != 0 || pairs[0].B != 1 {
		t.Fatalf("expected pair (0,1), got (%d,%d)", pairs[0].A, pairs[0].B)
	}
}

func TestDetect_DisjointEntriesProduceNoPairs(t *testing.T) {
	grid := NewSpatialGrid(1, 64)
	entries := []Entry{
		box(0, 0, 0, 0.5, false, false),
		box(1, 100, 100, 0.5, false, false),
	}
	for _, e := range entries {
		grid.Insert(e.Index, e.AABB)
	}
	grid.SortCells()

	pairs := grid.Detect(entries)
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs for far-apart entries, got %d", len(pairs))
	}
}

func TestDetect_SkipsStaticStaticPairs(t *testing.T) {
	grid := NewSpatialGrid(1, 64)
	entries := []Entry{
		box(0, 0, 0, 0.5, true, false),
		box(1, 0.5, 0, 0.5, true, false),
	}
	for _, e := range entries {
		grid.Insert(e.Index, e.AABB)
	}
	grid.SortCells()

	pairs := grid.Detect(entries)
	if len(pairs) != 0 {
		t.Fatalf("expected static-static pairs to be skipped, got %d", len(pairs))
	}
}

func TestDetect_SkipsAsleepAsleepPairs(t *testing.T) {
	grid := NewSpatialGrid(1, 64)
	entries := []Entry{
		box(0, 0, 0, 0.5, false, true),
		box(1, 0.5, 0, 0.5, false, true),
	}
	for _, e := range entries {
		grid.Insert(e.Index, e.AABB)
	}
	grid.SortCells()

	pairs := grid.Detect(entries)
	if len(pairs) != 0 {
		t.Fatalf("expected asleep-asleep pairs to be skipped, got %d", len(pairs))
	}
}

func TestDetect_NoDuplicatePairsAcrossMultipleCells(t *testing.T) {
	grid := NewSpatialGrid(1, 16)
	entries := []Entry{
		box(0, 0, 0, 2, false, false),
		box(1, 1, 0, 2, false, false),
	}
	for _, e := range entries {
		grid.Insert(e.Index, e.AABB)
	}
	grid.SortCells()

	pairs := grid.Detect(entries)
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 pair despite spanning multiple cells, got %d", len(pairs))
	}
}
