package bulb

import (
	"bytes"
	"testing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 80
	cfg.Height = 60
	return cfg
}

func renderOnce(t *testing.T, cfg Config, cam Camera) *Frame {
	t.Helper()
	r, err := NewCPURenderer(cfg)
	if err != nil {
		t.Fatalf("NewCPURenderer: %v", err)
	}
	defer r.Close()

	frame := NewFrame(cfg.Width, cfg.Height)
	if err := r.Render(cam, frame); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return frame
}

func TestRenderDeterministic(t *testing.T) {
	cfg := testConfig()
	cam := Camera{Position: Vec3{0, 0, -4}, Power: 8}

	a := renderOnce(t, cfg, cam)
	b := renderOnce(t, cfg, cam)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two renders of the same snapshot differ")
	}
}

// Work partitioning must not affect output: a single worker and many
// workers produce byte-identical frames.
func TestWorkerCountInvariance(t *testing.T) {
	cam := Camera{Position: Vec3{0, 0, -4}, Power: 8}

	serial := testConfig()
	serial.Workers = 1
	parallel := testConfig()
	parallel.Workers = 8

	a := renderOnce(t, serial, cam)
	b := renderOnce(t, parallel, cam)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("worker count changed the rendered image")
	}
}

func TestRenderProducesHitAndBackground(t *testing.T) {
	cfg := testConfig()
	cam := Camera{Position: Vec3{0, 0, -4}, Power: 8}
	frame := renderOnce(t, cfg, cam)

	// Center pixel: the bulb. Top-left corner: background.
	cx, cy := cfg.Width/2, cfg.Height/2
	center := frame.Pix[(cy*cfg.Width+cx)*4:]
	corner := frame.Pix[:4]

	if center[0] == corner[0] && center[1] == corner[1] && center[2] == corner[2] {
		t.Error("center pixel equals corner pixel; bulb did not render")
	}
	for i := 3; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] != 255 {
			t.Fatalf("pixel %d alpha = %d, want 255", i/4, frame.Pix[i])
		}
	}
}

// Out-of-range powers are clamped by Render, so a wild camera matches the
// clamped one exactly.
func TestRenderClampsPower(t *testing.T) {
	cfg := testConfig()

	wild := Camera{Position: Vec3{0, 0, -4}, Power: 99}
	clamped := Camera{Position: Vec3{0, 0, -4}, Power: MaxPower}

	a := renderOnce(t, cfg, wild)
	b := renderOnce(t, cfg, clamped)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("power clamping did not normalize the render")
	}
}

func TestRenderRejectsWrongFrame(t *testing.T) {
	cfg := testConfig()
	r, err := NewCPURenderer(cfg)
	if err != nil {
		t.Fatalf("NewCPURenderer: %v", err)
	}
	defer r.Close()

	if err := r.Render(NewCamera(), NewFrame(cfg.Width+1, cfg.Height)); err == nil {
		t.Error("Render accepted a mismatched frame")
	}
	if err := r.Render(NewCamera(), nil); err == nil {
		t.Error("Render accepted a nil frame")
	}
}

func TestNewCPURendererValidatesConfig(t *testing.T) {
	bad := testConfig()
	bad.Damping = 1.5
	if _, err := NewCPURenderer(bad); err == nil {
		t.Error("NewCPURenderer accepted damping > 1")
	}
	bad = testConfig()
	bad.Width = 0
	if _, err := NewCPURenderer(bad); err == nil {
		t.Error("NewCPURenderer accepted zero width")
	}
}
