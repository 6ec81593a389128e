package bulb

import "github.com/chewxy/math32"

// FieldSample is the result of one distance-field evaluation.
type FieldSample struct {
	// Distance is the Koebe distance estimate 0.5·ln(r)·r/dr. It is a
	// lower bound on the distance to the surface for escaping points; for
	// points that never escape it shrinks toward (or below) zero, which is
	// what makes the marcher register interior hits.
	Distance float32

	// Iterations is the index of the last iteration executed. Escaping
	// points report the iteration at which the bailout triggered; points
	// that exhaust the budget report MaxIter-1.
	Iterations uint32

	// Trap is the orbit trap: the minimum |z| observed across iterations.
	// A point that escapes before its first trap update leaves the
	// sentinel value in place.
	Trap float32
}

// TrapSentinel is the initial orbit-trap value, larger than any |z| a
// bounded orbit can reach.
const TrapSentinel = math32.MaxFloat32

// Field evaluates the Mandelbulb distance-estimation field.
type Field struct {
	cfg Config
}

// NewField returns a Field using cfg's iteration cap and bailout radius.
func NewField(cfg Config) Field { return Field{cfg: cfg} }

// Evaluate runs the escape-time iteration at p with the given shape
// exponent and returns the distance estimate, iteration count and orbit
// trap. power must already be clamped to [MinPower, MaxPower].
//
// The iteration is the triplex power map: z is converted to spherical
// coordinates, the radius is raised to power, both angles are multiplied
// by power, and p is added back. The running derivative dr tracks
// |dz|/|dp| for the distance estimate.
func (f Field) Evaluate(p Vec3, power float32) FieldSample {
	z := p
	dr := float32(1)
	r := float32(0)
	trap := float32(TrapSentinel)

	var i uint32
	for iter := 0; iter < f.cfg.MaxIter; iter++ {
		r = z.Length()
		i = uint32(iter)
		if r > f.cfg.Bailout {
			break
		}

		trap = math32.Min(trap, r)

		dr = math32.Pow(r, power-1)*power*dr + 1

		theta := math32.Atan2(z.Z, math32.Sqrt(z.X*z.X+z.Y*z.Y)) * power
		phi := math32.Atan2(z.Y, z.X) * power
		zr := math32.Pow(r, power)

		z = Vec3{
			zr * math32.Cos(theta) * math32.Cos(phi),
			zr * math32.Cos(theta) * math32.Sin(phi),
			zr * math32.Sin(theta),
		}.Add(p)
	}

	return FieldSample{
		Distance:   0.5 * math32.Log(r) * r / dr,
		Iterations: i,
		Trap:       trap,
	}
}

// Distance returns only the distance-estimate component at p.
func (f Field) Distance(p Vec3, power float32) float32 {
	return f.Evaluate(p, power).Distance
}

// Normal estimates the unit surface normal at p by central differences of
// the distance estimate along each axis, using the hit epsilon as the
// probe offset. Costs six field evaluations, so call it once per hit, not
// per march step.
func (f Field) Normal(p Vec3, power float32) Vec3 {
	e := f.cfg.Epsilon
	return Vec3{
		f.Distance(p.Add(Vec3{e, 0, 0}), power) - f.Distance(p.Sub(Vec3{e, 0, 0}), power),
		f.Distance(p.Add(Vec3{0, e, 0}), power) - f.Distance(p.Sub(Vec3{0, e, 0}), power),
		f.Distance(p.Add(Vec3{0, 0, e}), power) - f.Distance(p.Sub(Vec3{0, 0, e}), power),
	}.Normalize()
}
