package geom

import "math"

// Rot represents a 2D rotation as a cosine/sine pair instead of a bare
// angle. Storing both avoids repeated trig calls during integration and
// composition, the same caching trick the teacher's Transform applies to
// quaternions (Transform.Rotation / Transform.InverseRotation).
type Rot struct {
	C, S float64 // cos(theta), sin(theta)
}

// IdentRot returns the identity rotation.
func IdentRot() Rot {
	return Rot{C: 1, S: 0}
}

// NewRot builds a Rot from an angle in radians.
func NewRot(angle float64) Rot {
	return Rot{C: math.Cos(angle), S: math.Sin(angle)}
}

// Angle returns the angle in radians this rotation represents.
func (r Rot) Angle() float64 {
	return math.Atan2(r.S, r.C)
}

// Rotate applies the rotation to v.
func (r Rot) Rotate(v Vec2) Vec2 {
	return Vec2{r.C*v.X() - r.S*v.Y(), r.S*v.X() + r.C*v.Y()}
}

// InverseRotate applies the inverse (transpose) rotation to v.
func (r Rot) InverseRotate(v Vec2) Vec2 {
	return Vec2{r.C*v.X() + r.S*v.Y(), -r.S*v.X() + r.C*v.Y()}
}

// Mul composes two rotations: the result rotates by r then by other.
func (r Rot) Mul(other Rot) Rot {
	return Rot{
		C: r.C*other.C - r.S*other.S,
		S: r.S*other.C + r.C*other.S,
	}
}

// Integrate advances the rotation by angular velocity omega over dt,
// renormalizing the cos/sin pair to guard against drift, mirroring the
// teacher's per-step quaternion Normalize() in RigidBody.Integrate.
func (r Rot) Integrate(omega, dt float64) Rot {
	c2 := r.C - omega*dt*r.S
	s2 := r.S + omega*dt*r.C
	mag := math.Hypot(c2, s2)
	if mag < 1e-12 {
		return r
	}
	return Rot{C: c2 / mag, S: s2 / mag}
}
