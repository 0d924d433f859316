// Package broadphase implements the uniform spatial-hash grid broad phase.
// Grounded 1:1 on the teacher's spatialgrid.go, dropped from 3 axes to 2 and
// generalized from operating on `*actor.RigidBody` directly to operating on
// caller-supplied index+AABB entries, so this package stays a pure leaf with
// no dependency on the body/fixture graph (spec.md §9's no-cycles design
// note).
package broadphase

import (
	"math"
	"sort"

	"github.com/akmonengine/feather2d/geom"
)

// Entry is one fixture/body's broad-phase footprint: a caller-chosen index
// (used to recover the owning fixture/body after a pair is found) and its
// current world AABB, plus the two flags the teacher's FindPairs filters on
// (both bodies static, both bodies asleep).
type Entry struct {
	Index  int
	AABB   geom.AABB
	Static bool
	Asleep bool
}

// Pair is a candidate overlapping pair of entry indices, Index values
// ordered low-before-high for deterministic downstream processing, matching
// the teacher's "otherIdx <= bodyIdx: skip" dedup rule.
type Pair struct {
	A, B int
}

// CellKey identifies one grid cell. Grounded on spatialgrid.go's CellKey,
// the Z field dropped.
type CellKey struct {
	X, Y int
}

type cell struct {
	indices []int
}

// SpatialGrid is a uniform hash grid over a fixed cell size and power-of-two
// bucket array, exactly as the teacher's SpatialGrid.
type SpatialGrid struct {
	cellSize float64
	cells    []cell
	cellMask int
}

// NewSpatialGrid constructs a grid with the given cell size and a bucket
// count rounded up to the next power of two, matching NewSpatialGrid.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)
	cells := make([]cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 8)
	}
	return &SpatialGrid{cellSize: cellSize, cells: cells, cellMask: numCells - 1}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Clear empties every cell's bucket for reuse, without reallocating.
func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].indices = sg.cells[i].indices[:0]
	}
}

// Insert adds entry index into every cell its AABB overlaps.
func (sg *SpatialGrid) Insert(index int, aabb geom.AABB) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			idx := sg.hashCell(CellKey{x, y})
			sg.cells[idx].indices = append(sg.cells[idx].indices, index)
		}
	}
}

// SortCells sorts each cell's bucket so pair generation visits indices in a
// deterministic order, matching the teacher's SortCells.
func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].indices) > 1 {
			sort.Ints(sg.cells[i].indices)
		}
	}
}

// Detect is the sequential translation of the teacher's FindPairs: for every
// entry, walk the cells its AABB touches and test every other entry found
// there with a strictly greater index (dedup against (B,A) reappearing),
// skipping static-static and asleep-asleep pairs. An entry pair sharing more
// than one grid cell is only ever emitted once, via the same per-entry
// `seen` set the teacher's FindPairsParallel resets per body
// (spatialgrid.go's `seen`/`clearSeen`) — the teacher's sequential FindPairs
// drops that dedup and double-emits such pairs, a bug not carried here,
// since spec.md §4.2 requires Detect's pair list to contain no duplicates.
// The teacher's FindPairsParallel goroutine-fanout counterpart is
// intentionally not carried otherwise: spec.md's Non-goals name
// thread-parallel solving explicitly, and broad-phase pair order feeds the
// single-threaded listener pipeline.
func (sg *SpatialGrid) Detect(entries []Entry) []Pair {
	pairs := make([]Pair, 0, len(entries)/2)

	byIndex := make(map[int]Entry, len(entries))
	for _, e := range entries {
		byIndex[e.Index] = e
	}

	seen := make(map[int]bool, 16)
	for _, a := range entries {
		minCell := sg.worldToCell(a.AABB.Min)
		maxCell := sg.worldToCell(a.AABB.Max)

		for k := range seen {
			delete(seen, k)
		}

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				cellIdx := sg.hashCell(CellKey{x, y})
				for _, otherIdx := range sg.cells[cellIdx].indices {
					if otherIdx <= a.Index || seen[otherIdx] {
						continue
					}
					seen[otherIdx] = true

					b, ok := byIndex[otherIdx]
					if !ok {
						continue
					}
					if a.Static && b.Static {
						continue
					}
					if a.Asleep && b.Asleep {
						continue
					}
					if a.AABB.Overlaps(b.AABB) {
						pairs = append(pairs, Pair{A: a.Index, B: b.Index})
					}
				}
			}
		}
	}

	return pairs
}

func (sg *SpatialGrid) worldToCell(pos geom.Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663)
	return h & sg.cellMask
}
