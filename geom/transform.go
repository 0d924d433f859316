package geom

// Transform represents a rigid 2D pose: a position plus a rotation.
// Grounded on the teacher's actor.Transform, which likewise carries the
// rotation in both directions (there: Rotation + InverseRotation quaternion
// pair; here: Rot already stores cos/sin so the inverse is just a
// transposed read, no separate cache needed).
type Transform struct {
	Position Vec2
	Rot      Rot
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Position: Vec2{0, 0}, Rot: IdentRot()}
}

// ToWorld maps a point from the transform's local space to world space.
func (t Transform) ToWorld(p Vec2) Vec2 {
	return t.Rot.Rotate(p).Add(t.Position)
}

// ToWorldVector rotates (but does not translate) a local direction/vector.
func (t Transform) ToWorldVector(v Vec2) Vec2 {
	return t.Rot.Rotate(v)
}

// ToLocal maps a point from world space to the transform's local space.
// ToWorld(ToLocal(p)) == p up to floating point error (spec round-trip
// property).
func (t Transform) ToLocal(p Vec2) Vec2 {
	return t.Rot.InverseRotate(p.Sub(t.Position))
}

// ToLocalVector rotates (but does not translate) a world direction/vector
// into local space.
func (t Transform) ToLocalVector(v Vec2) Vec2 {
	return t.Rot.InverseRotate(v)
}

// Mul composes two transforms: applying the result to a point is the same
// as applying t2 first, then t ("t * t2" in the usual matrix sense).
func Mul(t, t2 Transform) Transform {
	return Transform{
		Position: t.ToWorld(t2.Position),
		Rot:      t.Rot.Mul(t2.Rot),
	}
}
