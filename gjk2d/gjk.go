// Package gjk2d implements the Gilbert-Johnson-Keerthi distance/intersection
// algorithm in 2D. Grounded line-by-line on the teacher's gjk/gjk.go, with
// the tetrahedron case dropped: a 2D triangle already encloses the origin,
// so GJK in the plane never needs a fourth simplex point.
package gjk2d

import (
	"sync"

	"github.com/akmonengine/feather2d/geom"
)

// Support is anything that can produce a world-space support point for a
// world-space direction — implemented by a (shape, transform) pair. Kept
// as a function type rather than an interface so callers in dynamics/
// constraint packages can adapt a fixture without an import cycle back to
// gjk2d.
type Support func(direction geom.Vec2) geom.Vec2

// Simplex holds up to 3 points of the Minkowski difference. Grounded on
// gjk.Simplex, with Points shrunk from [4]Vec3 to [3]Vec2.
type Simplex struct {
	Points [3]geom.Vec2
	Count  int
}

// Reset empties the simplex for reuse from a pool.
func (s *Simplex) Reset() {
	s.Count = 0
}

// Pool recycles Simplex values across steps, matching the teacher's
// gjk.SimplexPool (spec.md §5: "pool-friendly... reused to avoid per-step
// allocation").
var Pool = sync.Pool{
	New: func() interface{} { return &Simplex{} },
}

// MinkowskiSupport computes a support point of the Minkowski difference
// A - B along direction. Grounded on gjk.MinkowskiSupport.
func MinkowskiSupport(a, b Support, direction geom.Vec2) geom.Vec2 {
	return a(direction).Sub(b(direction.Mul(-1)))
}

const maxIterations = 32

// Distance returns the separation distance between two shapes (via their
// Support functions) and reports whether they intersect. Closest points are
// not returned; the distance alone is used by CCD's conservative
// advancement and by raycast assist per spec.md §4.3's "disjoint -> output
// distance info for CCD/raycast".
func Distance(a, b Support) (dist float64, intersecting bool) {
	simplex := Pool.Get().(*Simplex)
	defer Pool.Put(simplex)
	simplex.Reset()

	hit, d := run(a, b, simplex)
	return d, hit
}

// Intersect runs GJK and returns whether the shapes overlap, along with the
// final simplex for EPA to expand from when they do.
func Intersect(a, b Support, simplex *Simplex) bool {
	hit, _ := run(a, b, simplex)
	return hit
}

// run is the core GJK loop, grounded on gjk.GJK.
func run(a, b Support, simplex *Simplex) (bool, float64) {
	direction := geom.Vec2{1, 0}
	simplex.Points[0] = MinkowskiSupport(a, b, direction)
	simplex.Count = 1

	direction = simplex.Points[0].Mul(-1)
	if geom.LenSqr(direction) < 1e-16 {
		return true, 0
	}

	for i := 0; i < maxIterations; i++ {
		newPoint := MinkowskiSupport(a, b, direction)

		if newPoint.Dot(direction) <= 0 {
			// Disjoint: direction's negation length approximates separation.
			return false, closestDistance(simplex)
		}

		simplex.Points[simplex.Count] = newPoint
		simplex.Count++

		if containsOrigin(simplex, &direction) {
			return true, 0
		}
	}

	return false, closestDistance(simplex)
}

// closestDistance estimates the distance from the origin to the simplex's
// closest feature, used for CCD/raycast distance queries on a disjoint
// result.
func closestDistance(simplex *Simplex) float64 {
	switch simplex.Count {
	case 1:
		return simplex.Points[0].Len()
	case 2:
		return pointSegmentDistance(geom.Vec2{0, 0}, simplex.Points[0], simplex.Points[1])
	default:
		min := simplex.Points[0].Len()
		n := simplex.Count
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			d := pointSegmentDistance(geom.Vec2{0, 0}, simplex.Points[i], simplex.Points[j])
			if d < min {
				min = d
			}
		}
		return min
	}
}

func pointSegmentDistance(p, a, b geom.Vec2) float64 {
	ab := b.Sub(a)
	t := p.Sub(a).Dot(ab)
	denom := ab.Dot(ab)
	if denom < 1e-18 {
		return p.Sub(a).Len()
	}
	t /= denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Mul(t))
	return p.Sub(closest).Len()
}

// containsOrigin tests whether the simplex contains the origin, shrinking
// it to the closest feature and updating direction otherwise. Grounded on
// gjk.containsOrigin/line/triangle.
func containsOrigin(simplex *Simplex, direction *geom.Vec2) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	}
	return false
}

func line(simplex *Simplex, direction *geom.Vec2) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if geom.LenSqr(ab) < 1e-18 {
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return geom.LenSqr(ao) < 1e-18
	}

	if ab.Dot(ao) <= 0 {
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return false
	}

	// Perpendicular to ab, pointing toward the origin: the 2D analogue of
	// the teacher's ab.Cross(ao).Cross(ab) triple product.
	perp := tripleProduct(ab, ao, ab)
	if geom.LenSqr(perp) < 1e-18 {
		return true // origin lies on the segment
	}
	*direction = perp
	return false
}

func triangle(simplex *Simplex, direction *geom.Vec2) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	// A 2D triangle's "outside edge AB" test: is the origin on the far
	// side of AB from C?
	abPerp := tripleProduct(ac, ab, ab)
	if abPerp.Dot(ao) > 0 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = abPerp
		return false
	}

	acPerp := tripleProduct(ab, ac, ac)
	if acPerp.Dot(ao) > 0 {
		simplex.Points[0] = c
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = acPerp
		return false
	}

	// Origin is inside the triangle's Voronoi region: it's enclosed.
	return true
}

// tripleProduct returns (a x b) x c computed directly in 2D, used to build
// a vector perpendicular to `c`.
func tripleProduct(a, b, c geom.Vec2) geom.Vec2 {
	ac := a.Dot(c)
	bc := b.Dot(c)
	return geom.Vec2{b.X()*ac - a.X()*bc, b.Y()*ac - a.Y()*bc}
}
