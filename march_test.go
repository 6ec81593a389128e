package bulb

import "testing"

// A camera 4 units out on -Z looking straight at the bulb must hit it on
// the center ray, well within the step budget.
func TestCenterRayHitsBulb(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMarcher(cfg)
	cam := Camera{Position: Vec3{0, 0, -4}, Power: 8}

	hit := m.March(cam.Position, cam.RayDir(0, 0), cam.Power)
	if !hit.Hit {
		t.Fatalf("center ray missed: %+v", hit)
	}
	if hit.Steps >= uint32(cfg.MaxSteps) {
		t.Errorf("hit consumed %d steps, want < %d", hit.Steps, cfg.MaxSteps)
	}
	if hit.T <= 0 || hit.T > cfg.MaxDist {
		t.Errorf("hit distance t = %g out of range (0, %g]", hit.T, cfg.MaxDist)
	}
	// The surface lies between the camera and the origin.
	if hit.Position.Z >= 0 || hit.Position.Z <= -4 {
		t.Errorf("hit position %v not between camera and origin", hit.Position)
	}
}

// From far outside the bounding radius, a ray offset from the view axis
// never approaches the set and must miss.
func TestFarOffsetRayMisses(t *testing.T) {
	m := NewMarcher(DefaultConfig())
	origin := Vec3{0, 4, -100}
	rd := Vec3{0, 0, 1}

	hit := m.March(origin, rd, 8)
	if hit.Hit {
		t.Fatalf("offset ray reported a hit at %v", hit.Position)
	}
}

// On a miss, Steps must report the index of the last executed step, the
// same convention the hit path uses. The test replays the walk against the
// field directly and compares.
func TestMissStepsCountExecutedSamples(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMarcher(cfg)
	f := NewField(cfg)

	// Grazing ray: passes above the bulb, so the march takes several steps
	// before the travel cap ends it.
	origin := Vec3{0, 1.5, -4}
	rd := Vec3{0, 0, 1}

	hit := m.March(origin, rd, 8)
	if hit.Hit {
		t.Fatalf("grazing ray reported a hit at %v", hit.Position)
	}

	var dist float32
	var want uint32
	for i := 0; i < cfg.MaxSteps; i++ {
		want = uint32(i)
		s := f.Evaluate(origin.Add(rd.Scale(dist)), 8)
		if s.Distance < cfg.Epsilon {
			t.Fatalf("replay hit the surface at step %d", i)
		}
		dist += s.Distance * cfg.Damping
		if dist > cfg.MaxDist {
			break
		}
	}
	if want == 0 {
		t.Fatal("ray ended on its first step; pick a longer walk")
	}
	if hit.Steps != want {
		t.Errorf("miss Steps = %d, want last executed step %d", hit.Steps, want)
	}
}

// Marching is pure: identical inputs give identical RayHits.
func TestMarchIdempotent(t *testing.T) {
	m := NewMarcher(DefaultConfig())
	cam := Camera{Position: Vec3{0, 0, -2.5}, Power: 8}
	rd := cam.RayDir(0.3, -0.2)

	a := m.March(cam.Position, rd, cam.Power)
	b := m.March(cam.Position, rd, cam.Power)
	if a != b {
		t.Errorf("March is not deterministic:\n  first:  %+v\n  second: %+v", a, b)
	}
}

// The recorded trap is the minimum across the whole walk, so it can only
// get tighter than the final sample's own trap.
func TestMarchTrapIsRunningMinimum(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMarcher(cfg)
	f := NewField(cfg)
	cam := Camera{Position: Vec3{0, 0, -4}, Power: 8}
	rd := cam.RayDir(0, 0)

	hit := m.March(cam.Position, rd, cam.Power)
	if !hit.Hit {
		t.Fatal("expected a hit")
	}
	final := f.Evaluate(hit.Position, cam.Power)
	if hit.Sample.Trap > final.Trap {
		t.Errorf("march trap %g exceeds final sample trap %g", hit.Sample.Trap, final.Trap)
	}
}
