// Package manifold turns a contact normal and a pair of support features
// into a stable set of contact points, via reference/incident edge
// selection and a 2-point Sutherland-Hodgman-style clip. Grounded on the
// teacher's epa/manifold.go, narrowed from its general N-gon polygon clip
// down to a 2-point segment clip, since every 2D edge feature is exactly
// two vertices.
package manifold

import (
	"math"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/shape"
)

// PointID stably identifies a manifold point across steps so the solver
// can carry its accumulated impulse forward (warm-starting). Grounded on
// spec.md §4.4's contact-persistence requirement; the teacher has no
// analogue since it never warm-starts (XPBD recomputes each step).
type PointID struct {
	RefEdgeIndex    int
	IncEdgeIndex    int
	ClipVertexIndex int
	Flipped         bool
}

// Point is a single contact point: world position, penetration depth along
// the manifold normal, and its stable identity.
type Point struct {
	Position    geom.Vec2
	Penetration float64
	ID          PointID
}

// Manifold is the result of narrow-phase clipping: a shared normal
// (pointing from shape A toward shape B) and 0-2 contact points.
type Manifold struct {
	Normal geom.Vec2
	Points []Point
}

const clipTolerance = 1e-6

// clipVertex tracks a clip-polygon vertex alongside the incident endpoint
// it originated from (-1 once it's a synthesized plane intersection).
type clipVertex struct {
	v         geom.Vec2
	vertexIdx int
}

// Generate builds a contact manifold from two support features (already in
// world space, as returned by shape.Shape.FarthestFeature) and the
// separating normal/depth EPA extracted. Grounded on epa.GenerateManifold's
// reference/incident split and clip-then-keep-behind-plane structure.
func Generate(featureA, featureB shape.Feature, normal geom.Vec2, depth float64) Manifold {
	if featureA.Kind == shape.FeatureVertex || featureB.Kind == shape.FeatureVertex {
		return vertexManifold(featureA, featureB, normal, depth)
	}

	normalA := edgeNormal(featureA)
	normalB := edgeNormal(featureB)

	// spec's tie-break: the edge whose normal has the larger dot product
	// with the separating normal becomes the reference; ties favor A
	// (the lower-indexed shape in the pair).
	dotA := math.Abs(normalA.Dot(normal))
	dotB := math.Abs(normalB.Dot(normal))

	var ref, inc shape.Feature
	var refNormal geom.Vec2
	refIsA := dotA >= dotB
	if refIsA {
		ref, inc = featureA, featureB
		refNormal = alignWith(normalA, normal)
	} else {
		ref, inc = featureB, featureA
		refNormal = alignWith(normalB, normal.Mul(-1))
	}

	edgeDir := geom.SafeNormalize(ref.V2.Sub(ref.V1))
	if geom.LenSqr(edgeDir) == 0 {
		return vertexManifold(featureA, featureB, normal, depth)
	}

	incPoints := [2]clipVertex{{inc.V1, 0}, {inc.V2, 1}}

	// Clip against the side plane through ref.V1 (pointing back along the
	// edge), then through ref.V2 (pointing forward).
	side1 := clipToPlane(incPoints, edgeDir.Mul(-1), edgeDir.Mul(-1).Dot(ref.V1))
	if len(side1) < 2 {
		return Manifold{Normal: normal}
	}
	side2 := clipToPlane([2]clipVertex{side1[0], side1[1]}, edgeDir, edgeDir.Dot(ref.V2))
	if len(side2) < 2 {
		return Manifold{Normal: normal}
	}

	offset := refNormal.Dot(ref.V1)

	var points []Point
	for _, cv := range side2 {
		separation := refNormal.Dot(cv.v) - offset
		if separation > clipTolerance {
			continue // in front of the reference face: not penetrating
		}
		points = append(points, Point{
			Position:    cv.v,
			Penetration: -separation,
			ID: PointID{
				RefEdgeIndex:    ref.Index1,
				IncEdgeIndex:    inc.Index1,
				ClipVertexIndex: cv.vertexIdx,
				Flipped:         !refIsA,
			},
		})
	}

	if len(points) == 0 {
		// Fall back to the feature's reported max point so the solver
		// never receives an empty manifold for a confirmed penetration.
		points = append(points, Point{
			Position:    inc.Max,
			Penetration: depth,
			ID: PointID{
				RefEdgeIndex:    ref.Index1,
				IncEdgeIndex:    inc.Index1,
				ClipVertexIndex: inc.MaxIndex,
				Flipped:         !refIsA,
			},
		})
	}

	return Manifold{Normal: normal, Points: points}
}

// vertexManifold handles circle-involving contacts (FeatureVertex on
// either side): a single contact point at the vertex feature's position.
func vertexManifold(featureA, featureB shape.Feature, normal geom.Vec2, depth float64) Manifold {
	var pos geom.Vec2
	if featureA.Kind == shape.FeatureVertex {
		pos = featureA.V1
	} else {
		pos = featureB.V1
	}
	return Manifold{
		Normal: normal,
		Points: []Point{{
			Position:    pos,
			Penetration: depth,
			ID:          PointID{RefEdgeIndex: -1, IncEdgeIndex: -1, ClipVertexIndex: 0},
		}},
	}
}

func edgeNormal(f shape.Feature) geom.Vec2 {
	return geom.SafeNormalize(geom.RightPerp(f.V2.Sub(f.V1)))
}

func alignWith(n, toward geom.Vec2) geom.Vec2 {
	if n.Dot(toward) < 0 {
		return n.Mul(-1)
	}
	return n
}

// clipToPlane implements a single pass of Box2D's classic two-point
// ClipSegmentToLine: keep points on the inside of the half-plane
// (axis . v <= offset), synthesizing the boundary crossing point when the
// segment straddles the plane.
func clipToPlane(in [2]clipVertex, axis geom.Vec2, offset float64) []clipVertex {
	var out []clipVertex

	d0 := axis.Dot(in[0].v) - offset
	d1 := axis.Dot(in[1].v) - offset

	if d0 <= 0 {
		out = append(out, in[0])
	}
	if d1 <= 0 {
		out = append(out, in[1])
	}

	if d0*d1 < 0 {
		t := d0 / (d0 - d1)
		interp := in[0].v.Add(in[1].v.Sub(in[0].v).Mul(t))
		out = append(out, clipVertex{v: interp, vertexIdx: -1})
	}

	return out
}
