package shape

import "github.com/akmonengine/feather2d/geom"

// MassType distinguishes a body's dynamic behaviour, matching spec.md §3's
// "Mass: ... type ∈ {normal, infinite, fixed-linear, fixed-angular}".
type MassType int

const (
	MassNormal MassType = iota
	MassInfinite
	MassFixedLinear
	MassFixedAngular
)

// Mass holds a shape or body's mass distribution: center of mass (in local
// space), total mass, and rotational inertia about the center of mass.
// Grounded on the teacher's per-shape ComputeMass/ComputeInertia pair,
// merged into a single return value, and generalized (in Combine) to
// multi-fixture composition via the parallel-axis theorem.
type Mass struct {
	Center  geom.Vec2
	Mass    float64
	Inertia float64
	Type    MassType
}

// NewInfiniteMass returns the mass descriptor for a static/kinematic body:
// infinite mass and inertia (spec.md §3 invariant: "dynamic iff m is
// finite").
func NewInfiniteMass(center geom.Vec2) Mass {
	return Mass{Center: center, Mass: 0, Inertia: 0, Type: MassInfinite}
}

// InvMass returns 1/m, or 0 for infinite mass (the usual physics-engine
// convention that sidesteps a division by infinity).
func (m Mass) InvMass() float64 {
	if m.Type == MassInfinite || m.Type == MassFixedLinear || m.Mass <= 0 {
		return 0
	}
	return 1.0 / m.Mass
}

// InvInertia returns 1/I, or 0 for infinite/fixed-angular bodies.
func (m Mass) InvInertia() float64 {
	if m.Type == MassInfinite || m.Type == MassFixedAngular || m.Inertia <= 0 {
		return 0
	}
	return 1.0 / m.Inertia
}

// Combine composes a set of per-fixture masses into one body mass using the
// parallel-axis theorem: I = sum(I_i + m_i*|c_i - c|^2), where c is the
// mass-weighted centroid. Associative over the input order (spec.md §8
// property 7). Grounded on spec.md §4.1's composition rule directly, since
// the teacher never composes multiple fixtures (one shape per body there).
func Combine(masses []Mass) Mass {
	if len(masses) == 0 {
		return Mass{}
	}

	var totalMass float64
	var center geom.Vec2
	for _, m := range masses {
		totalMass += m.Mass
		center = center.Add(m.Center.Mul(m.Mass))
	}

	if totalMass <= 0 {
		// No dynamic mass contributed: treat as infinite (static/sensor-only).
		var c geom.Vec2
		for _, m := range masses {
			c = c.Add(m.Center)
		}
		if len(masses) > 0 {
			c = c.Mul(1.0 / float64(len(masses)))
		}
		return Mass{Center: c, Mass: 0, Inertia: 0, Type: MassInfinite}
	}

	center = center.Mul(1.0 / totalMass)

	var inertia float64
	for _, m := range masses {
		d := m.Center.Sub(center)
		inertia += m.Inertia + m.Mass*d.Dot(d)
	}

	return Mass{Center: center, Mass: totalMass, Inertia: inertia, Type: MassNormal}
}
