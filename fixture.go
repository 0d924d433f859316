package feather2d

import (
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/shape"
)

// Filter controls which fixture pairs the broad/narrow phase consider.
// Grounded on Box2D's b2Filter (DynamicsB2Fixture.go): two fixtures collide
// only if their category/mask bits intersect, unless one overrides the
// other via GroupIndex.
type Filter struct {
	CategoryBits uint16
	MaskBits     uint16
	GroupIndex   int16
}

// DefaultFilter collides with everything, in no particular group.
func DefaultFilter() Filter {
	return Filter{CategoryBits: 0x0001, MaskBits: 0xFFFF, GroupIndex: 0}
}

// ShouldCollide applies Box2D's filter precedence: a nonzero matching
// group index short-circuits the category/mask test.
func (f Filter) ShouldCollide(other Filter) bool {
	if f.GroupIndex == other.GroupIndex && f.GroupIndex != 0 {
		return f.GroupIndex > 0
	}
	return f.CategoryBits&other.MaskBits != 0 && other.CategoryBits&f.MaskBits != 0
}

// Fixture binds a Shape to material properties and a collision filter.
// New relative to the teacher, which has exactly one shape per body;
// grounded on Box2D's B2Fixture (DynamicsB2Fixture.go).
type Fixture struct {
	Handle int

	Shape shape.Shape

	Density     float64
	Friction    float64
	Restitution float64
	IsSensor    bool
	Filter      Filter
	UserData    interface{}

	body *Body
	aabb geom.AABB
}

// Body returns the fixture's owning body.
func (f *Fixture) Body() *Body { return f.body }

// AABB returns the fixture's last-computed world AABB.
func (f *Fixture) AABB() geom.AABB { return f.aabb }

func (f *Fixture) computeAABB(t geom.Transform) {
	f.aabb = f.Shape.ComputeAABB(t)
}

func (f *Fixture) computeMass() shape.Mass {
	if f.IsSensor {
		return shape.Mass{}
	}
	return f.Shape.ComputeMass(f.Density)
}
