package bulb

import (
	"time"

	"github.com/gogpu/bulb/internal/parallel"
)

// CPURenderer renders frames on the host CPU, splitting the image into
// disjoint scanline bands executed on a worker pool. Pixels are
// independent, so workers share nothing but the output buffer, and each
// worker owns its rows exclusively — no locking is needed beyond the final
// join inside Render.
type CPURenderer struct {
	cfg     Config
	marcher Marcher
	shader  Shader
	pool    *parallel.Pool
}

// NewCPURenderer validates cfg and starts the worker pool.
func NewCPURenderer(cfg Config) (*CPURenderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &CPURenderer{
		cfg:     cfg,
		marcher: NewMarcher(cfg),
		shader:  NewShader(cfg),
		pool:    parallel.NewPool(cfg.Workers),
	}
	Logger().Info("cpu renderer ready",
		"width", cfg.Width, "height", cfg.Height, "workers", r.pool.Workers())
	return r, nil
}

// Name implements Renderer.
func (r *CPURenderer) Name() string { return "cpu" }

// Render implements Renderer. The camera power is clamped before use, so
// out-of-range external input cannot reach the field math.
func (r *CPURenderer) Render(cam Camera, frame *Frame) error {
	if err := checkFrame(r.cfg, frame); err != nil {
		return err
	}
	cam.Power = ClampPower(cam.Power)

	start := time.Now()

	// One task per band keeps scheduling overhead low while still feeding
	// every worker; rows within a band run on a single worker.
	bands := r.pool.Workers() * 4
	if bands > r.cfg.Height {
		bands = r.cfg.Height
	}
	rowsPerBand := (r.cfg.Height + bands - 1) / bands

	work := make([]func(), 0, bands)
	for y0 := 0; y0 < r.cfg.Height; y0 += rowsPerBand {
		y0 := y0
		y1 := y0 + rowsPerBand
		if y1 > r.cfg.Height {
			y1 = r.cfg.Height
		}
		work = append(work, func() {
			r.renderRows(cam, frame, y0, y1)
		})
	}
	r.pool.ExecuteAll(work)

	Logger().Debug("cpu frame rendered",
		"elapsed", time.Since(start), "bands", len(work), "power", cam.Power)
	return nil
}

// renderRows renders scanlines [y0, y1).
func (r *CPURenderer) renderRows(cam Camera, frame *Frame, y0, y1 int) {
	w := float32(r.cfg.Width)
	h := float32(r.cfg.Height)
	aspect := r.cfg.Aspect()

	for y := y0; y < y1; y++ {
		v := -((float32(y)/h)*2 - 1)
		for x := 0; x < r.cfg.Width; x++ {
			u := ((float32(x)/w)*2 - 1) * aspect
			frame.SetRGB(x, y, r.renderPixel(cam, u, v))
		}
	}
}

// renderPixel runs the full per-pixel sequence: build the view ray, march
// it, then shade the hit or fall back to the background gradient. The GPU
// shader performs this exact sequence per invocation.
func (r *CPURenderer) renderPixel(cam Camera, u, v float32) RGB {
	rd := cam.RayDir(u, v)
	hit := r.marcher.March(cam.Position, rd, cam.Power)
	if hit.Hit {
		return r.shader.Shade(hit, rd, cam)
	}
	return r.shader.Background(rd, cam)
}

// Close implements Renderer, stopping the worker pool.
func (r *CPURenderer) Close() error {
	r.pool.Close()
	return nil
}
