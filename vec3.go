package bulb

import "github.com/chewxy/math32"

// Vec3 is a three-component float32 vector used for positions, directions,
// normals and colors. Vec3 has value semantics and is always passed by value.
type Vec3 struct {
	X, Y, Z float32
}

// V is shorthand for constructing a Vec3.
func V(x, y, z float32) Vec3 { return Vec3{x, y, z} }

// Add returns v + u.
func (v Vec3) Add(u Vec3) Vec3 { return Vec3{v.X + u.X, v.Y + u.Y, v.Z + u.Z} }

// Sub returns v - u.
func (v Vec3) Sub(u Vec3) Vec3 { return Vec3{v.X - u.X, v.Y - u.Y, v.Z - u.Z} }

// Scale returns v scaled by t.
func (v Vec3) Scale(t float32) Vec3 { return Vec3{v.X * t, v.Y * t, v.Z * t} }

// Dot returns the dot product of v and u.
func (v Vec3) Dot(u Vec3) float32 { return v.X*u.X + v.Y*u.Y + v.Z*u.Z }

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// RotateX returns v rotated by angle a (radians) about the X axis.
func (v Vec3) RotateX(a float32) Vec3 {
	c, s := math32.Cos(a), math32.Sin(a)
	return Vec3{v.X, c*v.Y - s*v.Z, s*v.Y + c*v.Z}
}

// RotateY returns v rotated by angle a (radians) about the Y axis.
func (v Vec3) RotateY(a float32) Vec3 {
	c, s := math32.Cos(a), math32.Sin(a)
	return Vec3{c*v.X + s*v.Z, v.Y, -s*v.X + c*v.Z}
}

// Reflect returns the reflection of v about the unit normal n:
// 2*(n·v)*n - v. Both v and n are expected to be unit length.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return n.Scale(2 * n.Dot(v)).Sub(v)
}
