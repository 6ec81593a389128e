// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command bulbcompare renders the same Mandelbulb frame through the CPU and
// GPU backends and reports how closely they agree.
//
// It produces a triptych image (CPU | GPU | Diff) for visual inspection.
//
// Output:
//
//	tmp/bulb_cpu.png         — CPU reference
//	tmp/bulb_gpu.png         — GPU compute output
//	tmp/bulb_comparison.png  — Side-by-side triptych with diff
//
// Exits 1 when the backends disagree on more than the allowed share of
// pixels. Without a usable GPU the comparison is skipped and only the CPU
// image is written.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/bulb"
	"github.com/gogpu/bulb/gpu"
)

var (
	width     = flag.Int("width", 640, "frame width in pixels")
	height    = flag.Int("height", 480, "frame height in pixels")
	power     = flag.Float64("power", 8, "Mandelbulb power exponent")
	camZ      = flag.Float64("camz", -4, "camera distance on the -Z axis")
	tolerance = flag.Int("tolerance", 3, "per-channel difference treated as a match")
	threshold = flag.Float64("threshold", 2.0, "maximum acceptable diff percentage")
	verbose   = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	if *verbose {
		bulb.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := bulb.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height
	cam := bulb.Camera{Position: bulb.Vec3{Z: float32(*camZ)}, Power: float32(*power)}

	fmt.Printf("Mandelbulb backend comparison, %dx%d, power %g\n\n", cfg.Width, cfg.Height, cam.Power)

	cpuImg, cpuDur, err := renderCPU(cfg, cam)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: CPU render: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("CPU... %v ✓\n", cpuDur.Round(100*time.Microsecond))

	gpuImg, gpuDur, gpuErr := renderGPU(cfg, cam)
	if gpuErr != nil {
		fmt.Printf("GPU... SKIP (%v)\n", gpuErr)
	} else {
		fmt.Printf("GPU... %v ✓\n", gpuDur.Round(100*time.Microsecond))
	}
	fmt.Println()

	if err := os.MkdirAll("tmp", 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot create tmp/: %v\n", err)
		os.Exit(1)
	}
	if err := savePNG(cpuImg, "tmp/bulb_cpu.png"); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: save CPU image: %v\n", err)
		os.Exit(1)
	}

	if gpuImg == nil {
		fmt.Println("Output:")
		fmt.Println("  CPU: tmp/bulb_cpu.png")
		fmt.Println("  GPU: (skipped - no GPU)")
		return
	}

	if err := savePNG(gpuImg, "tmp/bulb_gpu.png"); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: save GPU image: %v\n", err)
		os.Exit(1)
	}

	diffPercent, diffCount := comparePixels(cpuImg, gpuImg, uint8(*tolerance))
	status := "PASS"
	if diffPercent > *threshold {
		status = "FAIL"
	}
	fmt.Println("Comparison:")
	fmt.Printf("  Pixel diff: %d / %d (%.2f%%), per-channel tolerance %d\n",
		diffCount, cfg.Width*cfg.Height, diffPercent, *tolerance)
	fmt.Printf("  Status: %s (threshold: %.1f%%)\n\n", status, *threshold)

	triptych := buildTriptych(cpuImg, gpuImg, uint8(*tolerance))
	if err := savePNG(triptych, "tmp/bulb_comparison.png"); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: save comparison: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Output:")
	fmt.Println("  CPU:        tmp/bulb_cpu.png")
	fmt.Println("  GPU:        tmp/bulb_gpu.png")
	fmt.Println("  Comparison: tmp/bulb_comparison.png")

	if status == "FAIL" {
		os.Exit(1)
	}
}

func renderCPU(cfg bulb.Config, cam bulb.Camera) (*image.RGBA, time.Duration, error) {
	r, err := bulb.NewCPURenderer(cfg)
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	frame := bulb.NewFrame(cfg.Width, cfg.Height)
	start := time.Now()
	if err := r.Render(cam, frame); err != nil {
		return nil, 0, err
	}
	return frame.RGBA(), time.Since(start), nil
}

// renderGPU renders through the compute backend. Returns a nil image when
// no GPU is available.
func renderGPU(cfg bulb.Config, cam bulb.Camera) (*image.RGBA, time.Duration, error) {
	r, err := gpu.New(cfg)
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	frame := bulb.NewFrame(cfg.Width, cfg.Height)
	start := time.Now()
	if err := r.Render(cam, frame); err != nil {
		return nil, 0, err
	}
	return frame.RGBA(), time.Since(start), nil
}

// comparePixels returns the percentage and count of pixels where any channel
// differs by more than tol.
func comparePixels(a, b *image.RGBA, tol uint8) (percent float64, count int) {
	bounds := a.Bounds()
	total := bounds.Dx() * bounds.Dy()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if pixelDiffers(a.RGBAAt(x, y), b.RGBAAt(x, y), tol) {
				count++
			}
		}
	}
	percent = float64(count) / float64(total) * 100
	return
}

func pixelDiffers(ca, cb color.RGBA, tol uint8) bool {
	return chanDiffers(ca.R, cb.R, tol) || chanDiffers(ca.G, cb.G, tol) ||
		chanDiffers(ca.B, cb.B, tol) || chanDiffers(ca.A, cb.A, tol)
}

func chanDiffers(a, b, tol uint8) bool {
	if a > b {
		return a-b > tol
	}
	return b-a > tol
}

// buildTriptych creates a side-by-side image: CPU | GPU | Diff.
func buildTriptych(cpuImg, gpuImg *image.RGBA, tol uint8) *image.RGBA {
	w := cpuImg.Bounds().Dx()
	h := cpuImg.Bounds().Dy()
	triptych := image.NewRGBA(image.Rect(0, 0, w*3, h))

	draw.Draw(triptych, image.Rect(0, 0, w, h), cpuImg, image.Point{}, draw.Src)
	draw.Draw(triptych, image.Rect(w, 0, w*2, h), gpuImg, image.Point{}, draw.Src)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ca := cpuImg.RGBAAt(x, y)
			cb := gpuImg.RGBAAt(x, y)
			if pixelDiffers(ca, cb, tol) {
				// Different pixel: bright red.
				triptych.SetRGBA(w*2+x, y, color.RGBA{R: 255, A: 255})
			} else {
				// Matching pixel: grayscale.
				gray := uint8((uint32(ca.R) + uint32(ca.G) + uint32(ca.B)) / 3)
				triptych.SetRGBA(w*2+x, y, color.RGBA{R: gray, G: gray, B: gray, A: 255})
			}
		}
	}
	return triptych
}

func savePNG(img *image.RGBA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
