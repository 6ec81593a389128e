package bulb

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestNormalizeUnitLength(t *testing.T) {
	vs := []Vec3{{1, 2, 3}, {-0.001, 0.002, 0.5}, {100, -50, 25}}
	for _, v := range vs {
		if l := v.Normalize().Length(); math32.Abs(l-1) > 1e-5 {
			t.Errorf("Normalize(%v).Length() = %g, want 1", v, l)
		}
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("Normalize(zero) = %v, want zero", z)
	}
}

func TestRotationsPreserveLength(t *testing.T) {
	v := Vec3{0.3, -0.8, 1.7}
	for _, a := range []float32{0, 0.5, -1.2, math32.Pi} {
		if l := v.RotateX(a).Length(); math32.Abs(l-v.Length()) > 1e-5 {
			t.Errorf("RotateX(%g) changed length: %g -> %g", a, v.Length(), l)
		}
		if l := v.RotateY(a).Length(); math32.Abs(l-v.Length()) > 1e-5 {
			t.Errorf("RotateY(%g) changed length: %g -> %g", a, v.Length(), l)
		}
	}
}

func TestReflectAboutNormal(t *testing.T) {
	// Reflecting the up vector about itself is the identity; reflecting a
	// grazing vector flips the component along the normal.
	up := Vec3{0, 1, 0}
	if r := up.Reflect(up); r.Sub(up).Length() > 1e-6 {
		t.Errorf("Reflect(up, up) = %v, want %v", r, up)
	}
	v := Vec3{1, 1, 0}.Normalize()
	r := v.Reflect(up)
	want := Vec3{-1, 1, 0}.Normalize()
	if r.Sub(want).Length() > 1e-5 {
		t.Errorf("Reflect(%v, up) = %v, want %v", v, r, want)
	}
}
