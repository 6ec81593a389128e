package bulb

import "github.com/chewxy/math32"

// RGB is a color with components in [0, 1].
type RGB struct {
	R, G, B float32
}

// Fixed directional lights. The primary light also drives the specular
// highlight; the fill light contributes at half weight.
var (
	light1 = Vec3{0.577, 0.577, -0.577}
	light2 = Vec3{-0.5, 0.8, 0.3}.Normalize()
)

// Shading constants.
const (
	specExponent = 32   // Phong exponent for the primary light
	specWeight   = 0.5  // additive highlight strength per channel
	aoGamma      = 0.4  // occlusion falloff against step fraction
	ambientFloor = 0.15 // minimum diffuse contribution
)

// Shader composes final pixel colors from ray hits. Hue is a weighted
// blend of four signals: iteration fraction plus time drift (0.4), normal
// orientation (0.2), orbit trap (0.2) and world position (0.2). The blend
// is wrapped into [0,1) and converted through HSV.
type Shader struct {
	cfg   Config
	field Field
}

// NewShader returns a Shader over cfg's field.
func NewShader(cfg Config) Shader {
	return Shader{cfg: cfg, field: NewField(cfg)}
}

// Shade lights and colors a surface hit. rd is the unit ray direction that
// produced the hit; cam supplies the shape power and the time drift. All
// inputs are range-bounded upstream, so Shade has no error states.
func (s Shader) Shade(hit RayHit, rd Vec3, cam Camera) RGB {
	normal := s.field.Normal(hit.Position, cam.Power)

	diff1 := math32.Max(normal.Dot(light1), 0)
	diff2 := math32.Max(normal.Dot(light2), 0) * 0.5

	viewDir := rd.Neg()
	spec := math32.Pow(math32.Max(viewDir.Dot(light1.Reflect(normal)), 0), specExponent)

	// Step-count occlusion proxy: rays that grind through many small steps
	// are grazing dense geometry.
	ao := 1 - math32.Pow(float32(hit.Steps)/float32(s.cfg.MaxSteps), aoGamma)

	hue1 := float32(hit.Sample.Iterations)/float32(s.cfg.MaxIter) + cam.Time*0.1
	hue2 := (normal.X + normal.Y*0.5 + 1) * 0.5
	hue3 := hit.Sample.Trap * 2
	hue4 := (hit.Position.X + hit.Position.Y + hit.Position.Z) * 0.3

	hue := fract(hue1*0.4 + hue2*0.2 + hue3*0.2 + hue4*0.2)
	sat := 0.8 + (1-ao)*0.2
	val := math32.Min((diff1+diff2+ambientFloor)*ao, 1)

	r, g, b := hsvToRGB(hue, sat, val)
	return RGB{
		R: math32.Min(r+spec*specWeight, 1),
		G: math32.Min(g+spec*specWeight, 1),
		B: math32.Min(b+spec*specWeight, 1),
	}
}

// Background returns the miss color for a ray direction: a dim vertical
// gradient in a slowly time-drifting blue-violet hue, so the bulb's
// silhouette reads clearly against it. The value rises monotonically with
// rd.Y at fixed time.
func (s Shader) Background(rd Vec3, cam Camera) RGB {
	gradient := (rd.Y + 1) * 0.5
	hue := 0.6 + cam.Time*0.02
	r, g, b := hsvToRGB(hue, 0.5, gradient*0.15+0.02)
	return RGB{r, g, b}
}

// fract returns the fractional part of x in [0, 1).
func fract(x float32) float32 {
	return x - math32.Floor(x)
}

// hsvToRGB converts an HSV triple to RGB. h wraps modulo 1; s and v are
// expected in [0, 1].
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	h = fract(h)

	i := int(math32.Floor(h * 6))
	f := h*6 - float32(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
