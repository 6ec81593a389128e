package gpu

import (
	"testing"

	"github.com/gogpu/bulb"
)

func smallConfig() bulb.Config {
	cfg := bulb.DefaultConfig()
	cfg.Width = 160
	cfg.Height = 120
	return cfg
}

// newTestRenderer opens a GPU renderer or skips the test when no adapter
// is available (CI machines, containers without Vulkan).
func newTestRenderer(t *testing.T, cfg bulb.Config) *Renderer {
	t.Helper()
	r, err := New(cfg)
	if err != nil {
		t.Skipf("no usable GPU adapter: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRenderFillsFrame(t *testing.T) {
	cfg := smallConfig()
	r := newTestRenderer(t, cfg)

	cam := bulb.NewCamera()
	cam.Power = 8
	frame := bulb.NewFrame(cfg.Width, cfg.Height)

	if err := r.Render(cam, frame); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Every pixel must be opaque, and the image cannot be all-black: even a
	// full miss produces the background gradient.
	nonBlack := 0
	for i := 0; i < len(frame.Pix); i += 4 {
		if frame.Pix[i+3] != 255 {
			t.Fatalf("pixel %d has alpha %d, want 255", i/4, frame.Pix[i+3])
		}
		if frame.Pix[i] != 0 || frame.Pix[i+1] != 0 || frame.Pix[i+2] != 0 {
			nonBlack++
		}
	}
	if nonBlack == 0 {
		t.Fatal("GPU render produced an all-black frame")
	}
}

func TestRenderRejectsWrongFrameSize(t *testing.T) {
	cfg := smallConfig()
	r := newTestRenderer(t, cfg)

	frame := bulb.NewFrame(cfg.Width/2, cfg.Height)
	if err := r.Render(bulb.NewCamera(), frame); err == nil {
		t.Fatal("Render accepted a frame with mismatched dimensions")
	}
}

// A nil frame must error like the CPU backend does, not panic. Checked
// before any device state, so this needs no adapter.
func TestRenderRejectsNilFrame(t *testing.T) {
	r := &Renderer{cfg: smallConfig()}
	if err := r.Render(bulb.NewCamera(), nil); err == nil {
		t.Fatal("Render accepted a nil frame")
	}
}

// TestBackendParity renders the same camera snapshot through both backends
// and requires near-identical output. A small share of pixels may differ
// slightly along the silhouette, where float rounding flips a hit/miss at
// the epsilon threshold.
func TestBackendParity(t *testing.T) {
	cfg := smallConfig()
	gpuR := newTestRenderer(t, cfg)

	cpuR, err := bulb.NewCPURenderer(cfg)
	if err != nil {
		t.Fatalf("NewCPURenderer: %v", err)
	}
	defer cpuR.Close()

	cam := bulb.Camera{Position: bulb.V(0, 0, -4), Power: 8}

	cpuFrame := bulb.NewFrame(cfg.Width, cfg.Height)
	gpuFrame := bulb.NewFrame(cfg.Width, cfg.Height)
	if err := cpuR.Render(cam, cpuFrame); err != nil {
		t.Fatalf("cpu render: %v", err)
	}
	if err := gpuR.Render(cam, gpuFrame); err != nil {
		t.Fatalf("gpu render: %v", err)
	}

	const channelTolerance = 3
	total := cfg.Width * cfg.Height
	mismatched := 0
	for i := 0; i < total*4; i += 4 {
		for c := 0; c < 3; c++ {
			d := int(cpuFrame.Pix[i+c]) - int(gpuFrame.Pix[i+c])
			if d < -channelTolerance || d > channelTolerance {
				mismatched++
				break
			}
		}
	}

	percent := float64(mismatched) / float64(total) * 100
	t.Logf("backend parity: %d/%d pixels differ beyond tolerance (%.2f%%)", mismatched, total, percent)
	if percent > 2.0 {
		t.Errorf("backends diverge on %.2f%% of pixels, want <= 2%%", percent)
	}
}

func TestCloseIdempotent(t *testing.T) {
	cfg := smallConfig()
	r, err := New(cfg)
	if err != nil {
		t.Skipf("no usable GPU adapter: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := r.Render(bulb.NewCamera(), bulb.NewFrame(cfg.Width, cfg.Height)); err == nil {
		t.Fatal("Render succeeded on a closed renderer")
	}
}
