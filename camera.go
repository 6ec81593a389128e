package bulb

// Power bounds for the bulb exponent. Below 2 the angle-multiplication step
// degenerates and successive iterations collapse to near-identical angles.
const (
	MinPower = 2
	MaxPower = 12
)

// Camera is the mutable view state owned by the application: position,
// yaw/pitch orientation, the bulb's shape exponent, and a time value that
// drives the slow hue drift. Renderers read a value snapshot per frame and
// never mutate it; the application must not change the snapshot it handed
// to a frame that is still rendering.
type Camera struct {
	Position Vec3

	// Pitch rotates about the X axis, Yaw about the Y axis, both in
	// radians. Ray directions are rotated pitch-first, then yaw.
	Yaw, Pitch float32

	// Power is the bulb exponent. Integer-valued but stored as float32
	// because the field math interpolates with it. Keep it in
	// [MinPower, MaxPower]; use ClampPower when accepting external input.
	Power float32

	// Time is a monotonically increasing animation clock in seconds.
	Time float32
}

// NewCamera returns the reference starting view: just outside the bulb at
// (0, 0, -2.5) looking down +Z with power 2.
func NewCamera() Camera {
	return Camera{Position: Vec3{0, 0, -2.5}, Power: MinPower}
}

// ClampPower clamps a shape exponent into [MinPower, MaxPower].
func ClampPower(p float32) float32 {
	if p < MinPower {
		return MinPower
	}
	if p > MaxPower {
		return MaxPower
	}
	return p
}

// RayDir builds the view ray direction for normalized device coordinates
// (u, v), where u is already aspect-scaled and v points up. Both backends
// construct rays exactly this way.
func (c Camera) RayDir(u, v float32) Vec3 {
	return Vec3{u, v, 1}.Normalize().RotateX(c.Pitch).RotateY(c.Yaw)
}

// Forward returns the unit view axis.
func (c Camera) Forward() Vec3 {
	return Vec3{0, 0, 1}.RotateX(c.Pitch).RotateY(c.Yaw)
}

// Right returns the unit strafe axis. Only yaw applies, so strafing stays
// level regardless of pitch.
func (c Camera) Right() Vec3 {
	return Vec3{1, 0, 0}.RotateY(c.Yaw)
}

// MoveForward translates the camera along the view axis.
func (c *Camera) MoveForward(amount float32) {
	c.Position = c.Position.Add(c.Forward().Scale(amount))
}

// MoveRight translates the camera along the strafe axis.
func (c *Camera) MoveRight(amount float32) {
	c.Position = c.Position.Add(c.Right().Scale(amount))
}
