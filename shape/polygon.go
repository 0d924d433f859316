package shape

import (
	"fmt"
	"math"

	"github.com/akmonengine/feather2d/geom"
)

// Polygon is a convex polygon shape with CCW-wound vertices and precomputed
// outward edge normals. Grounded on actor.Box's corner/face enumeration,
// generalized from a fixed 8-corner box to an arbitrary convex N-gon, since
// spec.md §4.1 requires general convex polygons, not just boxes.
type Polygon struct {
	Vertices []geom.Vec2
	Normals  []geom.Vec2
	Centroid geom.Vec2
}

// NewPolygon validates and constructs a Polygon from a set of vertices.
// Winding is normalized to CCW at construction (spec.md §4.1 invariant).
// Zero-area, degenerate (collinear) or under-3-vertex input is an
// input-domain error (spec.md §7).
func NewPolygon(vertices []geom.Vec2) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("shape: polygon needs at least 3 vertices, got %d", len(vertices))
	}

	verts := make([]geom.Vec2, len(vertices))
	copy(verts, vertices)

	area := signedArea(verts)
	if math.Abs(area) < 1e-10 {
		return nil, fmt.Errorf("shape: polygon is degenerate (zero area)")
	}
	if area < 0 {
		reverse(verts)
	}

	for i := range verts {
		j := (i + 1) % len(verts)
		if geom.NearlyEqual(verts[i], verts[j], 1e-9) {
			return nil, fmt.Errorf("shape: polygon has duplicate adjacent vertices at index %d", i)
		}
	}

	p := &Polygon{Vertices: verts}
	p.Normals = make([]geom.Vec2, len(verts))
	for i := range verts {
		j := (i + 1) % len(verts)
		edge := verts[j].Sub(verts[i])
		n := geom.SafeNormalize(geom.RightPerp(edge))
		if n.LenSqr() < 1e-20 {
			return nil, fmt.Errorf("shape: polygon has a degenerate (collinear) edge at index %d", i)
		}
		p.Normals[i] = n
	}
	p.Centroid = polygonCentroid(verts, area)

	return p, nil
}

// NewRectangle builds an axis-aligned w x h rectangle centered at the
// origin, matching spec.md §8 property 9's round-trip requirement with
// NewPolygon.
func NewRectangle(w, h float64) (*Polygon, error) {
	hw, hh := w/2, h/2
	return NewPolygon([]geom.Vec2{
		{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh},
	})
}

func signedArea(v []geom.Vec2) float64 {
	sum := 0.0
	n := len(v)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += geom.Cross(v[i], v[j])
	}
	return sum * 0.5
}

func reverse(v []geom.Vec2) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

func polygonCentroid(v []geom.Vec2, area float64) geom.Vec2 {
	var cx, cy float64
	n := len(v)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cr := geom.Cross(v[i], v[j])
		cx += (v[i].X() + v[j].X()) * cr
		cy += (v[i].Y() + v[j].Y()) * cr
	}
	factor := 1.0 / (6.0 * area)
	return geom.Vec2{cx * factor, cy * factor}
}

func (p *Polygon) Project(axis geom.Vec2, t geom.Transform) Interval {
	localAxis := t.ToLocalVector(axis)
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range p.Vertices {
		d := v.Dot(localAxis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	// Project against the world axis by converting the local extrema back:
	// since axis is unit length and transform is rigid, dot(local v, localAxis)
	// equals dot(world v, axis) - t.Position.Dot(axis), so add that offset back.
	offset := t.Position.Dot(axis)
	return Interval{Min: min + offset, Max: max + offset}
}

func (p *Polygon) farthestIndex(localDir geom.Vec2) int {
	best := 0
	bestDot := p.Vertices[0].Dot(localDir)
	for i := 1; i < len(p.Vertices); i++ {
		d := p.Vertices[i].Dot(localDir)
		if d > bestDot {
			bestDot = d
			best = i
		}
	}
	return best
}

func (p *Polygon) FarthestPoint(dir geom.Vec2, t geom.Transform) geom.Vec2 {
	localDir := t.ToLocalVector(dir)
	i := p.farthestIndex(localDir)
	return t.ToWorld(p.Vertices[i])
}

// FarthestFeature implements spec.md §4.1's tie-break: find the farthest
// vertex, then pick whichever of its two adjacent edges has the outward
// normal nearest to dir, breaking ties toward the edge containing the
// farthest vertex (which both candidate edges always do, so the max-dot
// comparison alone is the deciding rule).
func (p *Polygon) FarthestFeature(dir geom.Vec2, t geom.Transform) Feature {
	n := len(p.Vertices)
	localDir := t.ToLocalVector(dir)
	i := p.farthestIndex(localDir)

	prev := (i - 1 + n) % n
	next := i

	var i1, i2 int
	if p.Normals[prev].Dot(localDir) > p.Normals[next].Dot(localDir) {
		i1, i2 = prev, i
	} else {
		i1, i2 = next, (next+1)%n
	}

	return Feature{
		Kind:     FeatureEdge,
		V1:       t.ToWorld(p.Vertices[i1]),
		V2:       t.ToWorld(p.Vertices[i2]),
		Index1:   i1,
		Index2:   i2,
		Max:      t.ToWorld(p.Vertices[i]),
		MaxIndex: i,
	}
}

func (p *Polygon) Support(dir geom.Vec2) geom.Vec2 {
	return p.Vertices[p.farthestIndex(dir)]
}

func (p *Polygon) ComputeAABB(t geom.Transform) geom.AABB {
	first := t.ToWorld(p.Vertices[0])
	min, max := first, first
	for i := 1; i < len(p.Vertices); i++ {
		w := t.ToWorld(p.Vertices[i])
		min = geom.Vec2{math.Min(min.X(), w.X()), math.Min(min.Y(), w.Y())}
		max = geom.Vec2{math.Max(max.X(), w.X()), math.Max(max.Y(), w.Y())}
	}
	return geom.AABB{Min: min, Max: max}
}

// ComputeMass implements the standard polygon area/centroid/inertia
// triangulation-sum formula (fan from the origin), matching the spirit of
// actor.Box.ComputeInertia's "m/12 * (dims)" closed form but generalized to
// arbitrary convex polygons instead of a fixed box.
func (p *Polygon) ComputeMass(density float64) Mass {
	var area, inertiaNumer float64
	var center geom.Vec2
	n := len(p.Vertices)
	const inv3 = 1.0 / 3.0

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		v1, v2 := p.Vertices[i], p.Vertices[j]
		cr := geom.Cross(v1, v2)
		triArea := 0.5 * cr
		area += triArea

		center = center.Add(v1.Add(v2).Mul(triArea * inv3))

		intx2 := v1.X()*v1.X() + v1.X()*v2.X() + v2.X()*v2.X()
		inty2 := v1.Y()*v1.Y() + v1.Y()*v2.Y() + v2.Y()*v2.Y()
		inertiaNumer += (0.25 * inv3 * cr) * (intx2 + inty2)
	}

	center = center.Mul(1.0 / area)
	mass := density * area
	// Inertia computed above is about the origin; shift to the centroid.
	inertiaAboutOrigin := density * inertiaNumer
	inertia := inertiaAboutOrigin - mass*center.Dot(center)

	return Mass{Center: center, Mass: mass, Inertia: inertia, Type: MassNormal}
}

func (p *Polygon) FarthestDistance(from geom.Vec2) float64 {
	max := 0.0
	for _, v := range p.Vertices {
		d := v.Sub(from).Len()
		if d > max {
			max = d
		}
	}
	return max
}
