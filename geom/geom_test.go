package geom

import (
	"math"
	"testing"
)

func TestCross(t *testing.T) {
	if got := Cross(Vec2{1, 0}, Vec2{0, 1}); got != 1 {
		t.Errorf("Cross((1,0),(0,1)) = %v, want 1", got)
	}
	if got := Cross(Vec2{0, 1}, Vec2{1, 0}); got != -1 {
		t.Errorf("Cross((0,1),(1,0)) = %v, want -1", got)
	}
}

func TestPerpRightPerp(t *testing.T) {
	v := Vec2{1, 0}
	if got := Perp(v); got != (Vec2{0, 1}) {
		t.Errorf("Perp(%v) = %v, want (0,1)", v, got)
	}
	if got := RightPerp(v); got != (Vec2{0, -1}) {
		t.Errorf("RightPerp(%v) = %v, want (0,-1)", v, got)
	}
}

func TestSafeNormalize(t *testing.T) {
	got := SafeNormalize(Vec2{3, 4})
	if !NearlyEqual(got, Vec2{0.6, 0.8}, 1e-9) {
		t.Errorf("SafeNormalize((3,4)) = %v, want (0.6,0.8)", got)
	}
	if got := SafeNormalize(Vec2{0, 0}); got != (Vec2{0, 0}) {
		t.Errorf("SafeNormalize((0,0)) = %v, want (0,0)", got)
	}
}

func TestClamp(t *testing.T) {
	got := Clamp(Vec2{-5, 5}, -1, 1)
	if got != (Vec2{-1, 1}) {
		t.Errorf("Clamp((-5,5),-1,1) = %v, want (-1,1)", got)
	}
}

func TestRotRoundTrip(t *testing.T) {
	r := NewRot(math.Pi / 3)
	v := Vec2{2, -1}
	rotated := r.Rotate(v)
	back := r.InverseRotate(rotated)
	if !NearlyEqual(back, v, 1e-9) {
		t.Errorf("InverseRotate(Rotate(v)) = %v, want %v", back, v)
	}
}

func TestRotAngle(t *testing.T) {
	r := NewRot(math.Pi / 4)
	if math.Abs(r.Angle()-math.Pi/4) > 1e-9 {
		t.Errorf("Angle() = %v, want pi/4", r.Angle())
	}
}

func TestRotIntegrateStaysNormalized(t *testing.T) {
	r := IdentRot()
	for i := 0; i < 1000; i++ {
		r = r.Integrate(1.5, 1.0/60.0)
	}
	mag := math.Hypot(r.C, r.S)
	if math.Abs(mag-1) > 1e-6 {
		t.Errorf("Integrate drifted off unit circle: |C,S| = %v", mag)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tf := Transform{Position: Vec2{5, -3}, Rot: NewRot(1.2)}
	p := Vec2{1, 1}
	world := tf.ToWorld(p)
	local := tf.ToLocal(world)
	if !NearlyEqual(local, p, 1e-9) {
		t.Errorf("ToLocal(ToWorld(p)) = %v, want %v", local, p)
	}
}

func TestTransformMulIdentity(t *testing.T) {
	tf := Transform{Position: Vec2{1, 2}, Rot: NewRot(0.5)}
	composed := Mul(tf, Identity())
	if !NearlyEqual(composed.Position, tf.Position, 1e-9) {
		t.Errorf("Mul(t, Identity()).Position = %v, want %v", composed.Position, tf.Position)
	}
}

func TestAABBOverlaps(t *testing.T) {
	a := AABB{Min: Vec2{0, 0}, Max: Vec2{1, 1}}
	b := AABB{Min: Vec2{0.5, 0.5}, Max: Vec2{2, 2}}
	c := AABB{Min: Vec2{2, 2}, Max: Vec2{3, 3}}
	if !a.Overlaps(b) {
		t.Error("expected a and b to overlap")
	}
	if a.Overlaps(c) {
		t.Error("expected a and c not to overlap")
	}
}

func TestAABBUnion(t *testing.T) {
	a := AABB{Min: Vec2{0, 0}, Max: Vec2{1, 1}}
	b := AABB{Min: Vec2{-1, 2}, Max: Vec2{3, 3}}
	u := Union(a, b)
	want := AABB{Min: Vec2{-1, 0}, Max: Vec2{3, 3}}
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
}

func TestAABBInflate(t *testing.T) {
	a := AABB{Min: Vec2{0, 0}, Max: Vec2{1, 1}}
	got := a.Inflate(0.5)
	want := AABB{Min: Vec2{-0.5, -0.5}, Max: Vec2{1.5, 1.5}}
	if got != want {
		t.Errorf("Inflate(0.5) = %+v, want %+v", got, want)
	}
}

func TestAABBContains(t *testing.T) {
	outer := AABB{Min: Vec2{0, 0}, Max: Vec2{10, 10}}
	inner := AABB{Min: Vec2{1, 1}, Max: Vec2{2, 2}}
	if !outer.Contains(inner) {
		t.Error("expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Error("expected inner not to contain outer")
	}
}
