package bulb

import "fmt"

// Default tuning constants. These match the reference scene scale: the bulb
// fits inside a radius-2 sphere and the camera moves in the same units.
const (
	DefaultWidth    = 640
	DefaultHeight   = 480
	DefaultMaxSteps = 150
	DefaultMaxIter  = 12
	DefaultBailout  = 2.0
	DefaultEpsilon  = 0.0005
	DefaultDamping  = 0.8
	DefaultMaxDist  = 6.0
)

// Config holds the session-fixed rendering parameters shared by the CPU and
// GPU backends. The GPU backend serializes the same values into its session
// uniform, so a single Config is the only source of truth for both.
//
// The zero Config is not usable; start from [DefaultConfig].
type Config struct {
	// Width and Height are the output resolution in pixels. Fixed for the
	// life of a renderer.
	Width, Height int

	// MaxSteps caps the raymarch loop per pixel.
	MaxSteps int

	// MaxIter caps the field iteration per sample. Low values produce
	// visible interior artifacts because iteration exhaustion is the only
	// inside-surface signal.
	MaxIter int

	// Bailout is the iterate magnitude past which a point counts as escaped.
	Bailout float32

	// Epsilon is the hit threshold for the distance estimate. It doubles as
	// the probe offset for normal estimation.
	Epsilon float32

	// Damping scales each march step to avoid overshooting curved regions.
	// Must be in (0, 1].
	Damping float32

	// MaxDist is the total ray distance past which a ray counts as a miss.
	MaxDist float32

	// Workers is the CPU renderer's worker count. Zero or negative selects
	// GOMAXPROCS. The GPU backend ignores it.
	Workers int
}

// DefaultConfig returns the reference configuration: 640x480, 150 march
// steps, 12 field iterations, bailout 2.0, epsilon 5e-4, damping 0.8,
// max ray distance 6.0.
func DefaultConfig() Config {
	return Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		MaxSteps: DefaultMaxSteps,
		MaxIter:  DefaultMaxIter,
		Bailout:  DefaultBailout,
		Epsilon:  DefaultEpsilon,
		Damping:  DefaultDamping,
		MaxDist:  DefaultMaxDist,
	}
}

// Validate reports whether the configuration is renderable.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("bulb: invalid resolution %dx%d", c.Width, c.Height)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("bulb: MaxSteps must be positive, got %d", c.MaxSteps)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("bulb: MaxIter must be positive, got %d", c.MaxIter)
	}
	if c.Bailout <= 0 {
		return fmt.Errorf("bulb: Bailout must be positive, got %g", c.Bailout)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("bulb: Epsilon must be positive, got %g", c.Epsilon)
	}
	if c.Damping <= 0 || c.Damping > 1 {
		return fmt.Errorf("bulb: Damping must be in (0, 1], got %g", c.Damping)
	}
	if c.MaxDist <= 0 {
		return fmt.Errorf("bulb: MaxDist must be positive, got %g", c.MaxDist)
	}
	return nil
}

// Aspect returns the width/height aspect ratio.
func (c Config) Aspect() float32 {
	return float32(c.Width) / float32(c.Height)
}
