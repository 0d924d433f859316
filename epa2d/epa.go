// Package epa2d implements the Expanding Polytope Algorithm for 2D
// penetration depth and contact normal extraction, run after gjk2d reports
// an intersection. Grounded on the teacher's epa/epa.go and epa/polytope.go,
// with the polytope representation narrowed from a 3D face soup with
// boundary-edge counting down to a single ordered edge loop: inserting a
// point into a 2D convex polytope always just splits one edge into two, so
// there is no visible-face set or boundary-edge search to do.
package epa2d

import (
	"fmt"
	"math"
	"sync"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/gjk2d"
)

const (
	// MaxIterations limits polytope expansion to prevent infinite loops.
	MaxIterations = 32

	// ConvergenceTolerance: if a new support point fails to improve the
	// closest edge's distance by more than this, the edge is accepted.
	ConvergenceTolerance = 1e-4

	// MinEdgeDistance guards against degenerate (near the origin) edges.
	MinEdgeDistance = 1e-5

	// NormalSnapThreshold clamps near-zero normal axes to exactly zero for
	// numerical stability on axis-aligned collisions, matching the
	// teacher's NormalSnapThreshold.
	NormalSnapThreshold = 1e-8
)

// Result is the penetration info EPA extracts: a unit normal pointing from
// shape A toward shape B, and the penetration depth along it.
type Result struct {
	Normal geom.Vec2
	Depth  float64
}

// polytope is the ordered, CCW vertex loop of the Minkowski difference
// polytope under expansion. Grounded on PolytopeBuilder, reduced from a
// triangle-face buffer to a plain vertex ring.
type polytope struct {
	vertices []geom.Vec2
}

var pool = sync.Pool{
	New: func() interface{} { return &polytope{vertices: make([]geom.Vec2, 0, 8)} },
}

func (p *polytope) reset() {
	p.vertices = p.vertices[:0]
}

// edge returns the outward normal and origin-distance of the edge from
// vertex i to vertex i+1 (wrapping).
func (p *polytope) edge(i int) (normal geom.Vec2, distance float64, j int) {
	n := len(p.vertices)
	j = (i + 1) % n
	a, b := p.vertices[i], p.vertices[j]
	e := b.Sub(a)
	normal = geom.SafeNormalize(geom.RightPerp(e))
	if geom.LenSqr(normal) < 1e-20 {
		return geom.Vec2{0, 1}, MinEdgeDistance, j
	}
	distance = normal.Dot(a)
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}
	return snapNormal(normal), distance, j
}

// closestEdge scans every edge and returns the index of the one nearest the
// origin, matching FindClosestFaceIndex's linear scan.
func (p *polytope) closestEdge() (index int, normal geom.Vec2, distance float64) {
	n := len(p.vertices)
	bestDist := math.Inf(1)
	bestIdx := 0
	var bestNormal geom.Vec2
	for i := 0; i < n; i++ {
		norm, dist, _ := p.edge(i)
		if dist < bestDist {
			bestDist = dist
			bestIdx = i
			bestNormal = norm
		}
	}
	return bestIdx, bestNormal, bestDist
}

// insert splits edge i (between vertex i and i+1) by inserting v between
// them, growing the polygon outward.
func (p *polytope) insert(i int, v geom.Vec2) {
	p.vertices = append(p.vertices, geom.Vec2{})
	copy(p.vertices[i+2:], p.vertices[i+1:len(p.vertices)-1])
	p.vertices[i+1] = v
}

func snapNormal(n geom.Vec2) geom.Vec2 {
	x, y := n.X(), n.Y()
	if math.Abs(x) < NormalSnapThreshold {
		x = 0
	}
	if math.Abs(y) < NormalSnapThreshold {
		y = 0
	}
	snapped := geom.Vec2{x, y}
	return geom.SafeNormalize(snapped)
}

// EPA expands the polytope seeded by GJK's terminal simplex until the
// support point in the closest edge's normal direction stops improving the
// distance estimate, then returns that edge's normal/depth as the MTV.
// Grounded on epa.EPA's iterate-until-converged structure.
func EPA(a, b gjk2d.Support, simplex *gjk2d.Simplex) (Result, error) {
	if simplex.Count < 3 {
		return degenerateResult(a, b, simplex), nil
	}

	poly := pool.Get().(*polytope)
	defer pool.Put(poly)
	poly.reset()

	// Ensure CCW winding so outward normals compute correctly.
	p0, p1, p2 := simplex.Points[0], simplex.Points[1], simplex.Points[2]
	if geom.Cross(p1.Sub(p0), p2.Sub(p0)) < 0 {
		p1, p2 = p2, p1
	}
	poly.vertices = append(poly.vertices, p0, p1, p2)

	for i := 0; i < MaxIterations; i++ {
		if len(poly.vertices) == 0 {
			return Result{}, fmt.Errorf("epa2d: polytope collapsed")
		}

		idx, normal, distance := poly.closestEdge()
		if distance < MinEdgeDistance {
			distance = MinEdgeDistance
		}

		support := gjk2d.MinkowskiSupport(a, b, normal)
		supportDist := support.Dot(normal)

		if supportDist-distance < ConvergenceTolerance {
			return Result{Normal: normal, Depth: distance}, nil
		}

		poly.insert(idx, support)
	}

	idx, normal, distance := poly.closestEdge()
	_ = idx
	return Result{Normal: normal, Depth: distance}, nil
}

// degenerateResult handles GJK terminating with fewer than 3 simplex points
// (shapes barely touching). Grounded on epa.handleDegenerateSimplex,
// estimating the normal from the available simplex points.
func degenerateResult(a, b gjk2d.Support, simplex *gjk2d.Simplex) Result {
	if simplex.Count == 2 {
		p0, p1 := simplex.Points[0], simplex.Points[1]
		d0, d1 := p0.Len(), p1.Len()
		if d0 < d1 {
			return Result{Normal: geom.SafeNormalize(p0), Depth: d0}
		}
		return Result{Normal: geom.SafeNormalize(p1), Depth: d1}
	}
	if simplex.Count == 1 {
		p0 := simplex.Points[0]
		return Result{Normal: geom.SafeNormalize(p0), Depth: p0.Len()}
	}
	// No points at all: fall back to a zero-depth contact along +X.
	_ = a
	_ = b
	return Result{Normal: geom.Vec2{1, 0}, Depth: 0}
}
