package bulb

import "github.com/chewxy/math32"

// RayHit is the outcome of marching one ray. It is created and discarded
// within a single pixel's evaluation.
type RayHit struct {
	// Hit reports whether the ray reached the surface. A miss is a valid
	// terminal outcome (background pixel), not an error.
	Hit bool

	// Position is the world-space point where the march stopped.
	Position Vec3

	// T is the accumulated ray distance at Position.
	T float32

	// Steps is the index of the last executed march step, on hits and
	// misses alike. Feeds the ambient-occlusion proxy: more steps means
	// more grazing geometry.
	Steps uint32

	// Sample is the field sample at the final step, except that Trap holds
	// the minimum trap observed across the whole walk (the shading hue
	// wants the tightest orbit anywhere along the ray).
	Sample FieldSample
}

// Marcher walks rays through the distance field with adaptive step sizes.
// Marching is deterministic and side-effect-free: the same origin,
// direction and power always produce the same RayHit.
type Marcher struct {
	cfg   Config
	field Field
}

// NewMarcher returns a Marcher over cfg's field.
func NewMarcher(cfg Config) Marcher {
	return Marcher{cfg: cfg, field: NewField(cfg)}
}

// Field returns the underlying distance field.
func (m Marcher) Field() Field { return m.field }

// March advances a ray from origin along the unit direction rd until the
// distance estimate drops below Epsilon (hit), the accumulated distance
// exceeds MaxDist, or MaxSteps runs out (miss). Each step advances by the
// damped distance estimate, so steps shrink automatically near the
// surface.
func (m Marcher) March(origin, rd Vec3, power float32) RayHit {
	var (
		t       float32
		steps   uint32
		iters   uint32
		minTrap = float32(TrapSentinel)
		p       = origin
	)

	for i := 0; i < m.cfg.MaxSteps; i++ {
		steps = uint32(i)
		p = origin.Add(rd.Scale(t))
		s := m.field.Evaluate(p, power)
		iters = s.Iterations
		minTrap = math32.Min(minTrap, s.Trap)

		if s.Distance < m.cfg.Epsilon {
			return RayHit{
				Hit:      true,
				Position: p,
				T:        t,
				Steps:    steps,
				Sample:   FieldSample{Distance: s.Distance, Iterations: iters, Trap: minTrap},
			}
		}

		t += s.Distance * m.cfg.Damping
		if t > m.cfg.MaxDist {
			break
		}
	}

	return RayHit{
		Position: p,
		T:        t,
		Steps:    steps,
		Sample:   FieldSample{Iterations: iters, Trap: minTrap},
	}
}
