// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command bulbview is an interactive Mandelbulb explorer.
//
// Controls:
//
//	W/A/S/D      move forward / left / back / right
//	Space/Shift  move up / down
//	Arrow keys   rotate the view
//	1-9          set the power exponent (2..9; 9 selects 12)
//	Tab          toggle CPU / GPU backend
//	R            reset the camera
//	H            toggle the HUD
//	P            save a screenshot to tmp/
//	Esc or Q     quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/bulb"
	"github.com/gogpu/bulb/gpu"
	"github.com/gogpu/bulb/internal/hud"
)

const (
	moveStep = 0.05
	turnStep = 0.05
	timeStep = 1.0 / 60
)

// Key 9 jumps to the power-12 bulb; the classic power-8 shape sits on key 7.
var powerKeys = [9]float32{2, 3, 4, 5, 6, 7, 8, 9, 12}

var (
	width   = flag.Int("width", bulb.DefaultWidth, "render width in pixels")
	height  = flag.Int("height", bulb.DefaultHeight, "render height in pixels")
	backend = flag.String("backend", "cpu", "initial backend: cpu or gpu")
	power   = flag.Float64("power", 8, "initial power exponent")
	verbose = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	if *verbose {
		bulb.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := bulb.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height

	g, err := newGame(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bulbview: %v\n", err)
		os.Exit(1)
	}
	defer g.shutdown()

	g.cam.Power = bulb.ClampPower(float32(*power))
	if *backend == "gpu" {
		g.toggleBackend()
	}

	ebiten.SetWindowTitle("bulbview")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Fprintf(os.Stderr, "bulbview: %v\n", err)
		os.Exit(1)
	}
}

type game struct {
	cfg bulb.Config
	cam bulb.Camera

	cpu    *bulb.CPURenderer
	gpu    *gpu.Renderer // nil until first toggle, or after GPU init failed
	useGPU bool
	gpuErr error

	frame   *bulb.Frame
	scratch []byte // HUD compositing buffer; keeps frame.Pix pristine
	img     *ebiten.Image
	lastDur time.Duration
	showHUD bool
}

func newGame(cfg bulb.Config) (*game, error) {
	cpu, err := bulb.NewCPURenderer(cfg)
	if err != nil {
		return nil, err
	}
	return &game{
		cfg:     cfg,
		cam:     bulb.NewCamera(),
		cpu:     cpu,
		frame:   bulb.NewFrame(cfg.Width, cfg.Height),
		showHUD: true,
	}, nil
}

func (g *game) shutdown() {
	if g.gpu != nil {
		g.gpu.Close()
	}
	g.cpu.Close()
}

func (g *game) renderer() bulb.Renderer {
	if g.useGPU && g.gpu != nil {
		return g.gpu
	}
	return g.cpu
}

// toggleBackend switches between CPU and GPU, creating the GPU renderer on
// first use. Falls back to CPU when no adapter is available.
func (g *game) toggleBackend() {
	if g.useGPU {
		g.useGPU = false
		return
	}
	if g.gpu == nil && g.gpuErr == nil {
		g.gpu, g.gpuErr = gpu.New(g.cfg)
		if g.gpuErr != nil {
			bulb.Logger().Warn("gpu backend unavailable", "err", g.gpuErr)
		}
	}
	if g.gpu != nil {
		g.useGPU = true
	}
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if ebiten.IsKeyPressed(ebiten.KeyW) {
		g.cam.MoveForward(moveStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		g.cam.MoveForward(-moveStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		g.cam.MoveRight(moveStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		g.cam.MoveRight(-moveStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		g.cam.Position.Y += moveStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		g.cam.Position.Y -= moveStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.Yaw -= turnStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.Yaw += turnStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.Pitch -= turnStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.Pitch += turnStep
	}

	for i := 0; i < len(powerKeys); i++ {
		if inpututil.IsKeyJustPressed(ebiten.KeyDigit1 + ebiten.Key(i)) {
			g.cam.Power = powerKeys[i]
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.toggleBackend()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		power := g.cam.Power
		g.cam = bulb.NewCamera()
		g.cam.Power = power
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if err := g.screenshot(); err != nil {
			bulb.Logger().Warn("screenshot failed", "err", err)
		}
	}

	g.cam.Time += timeStep

	start := time.Now()
	if err := g.renderer().Render(g.cam, g.frame); err != nil {
		if g.useGPU {
			// A lost device should not kill the session.
			bulb.Logger().Warn("gpu render failed, falling back to cpu", "err", err)
			g.useGPU = false
			return nil
		}
		return err
	}
	g.lastDur = time.Since(start)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.cfg.Width, g.cfg.Height)
	}
	if g.showHUD {
		if g.scratch == nil {
			g.scratch = make([]byte, len(g.frame.Pix))
		}
		copy(g.scratch, g.frame.Pix)
		img := g.frame.RGBA()
		img.Pix = g.scratch
		hud.Dim(img, 2)
		hud.Draw(img, []string{
			fmt.Sprintf("power %g  backend %s  %.1f ms", g.cam.Power, g.renderer().Name(),
				float64(g.lastDur.Microseconds())/1000),
			fmt.Sprintf("pos (%.2f, %.2f, %.2f)  yaw %.2f  pitch %.2f",
				g.cam.Position.X, g.cam.Position.Y, g.cam.Position.Z, g.cam.Yaw, g.cam.Pitch),
		})
		g.img.WritePixels(img.Pix)
	} else {
		g.img.WritePixels(g.frame.Pix)
	}
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// screenshot saves the current frame, without the HUD, to tmp/.
func (g *game) screenshot() error {
	if err := os.MkdirAll("tmp", 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("tmp/bulb_%s.png", time.Now().Format("20060102_150405"))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, g.frame.RGBA()); err != nil {
		f.Close()
		return errors.Join(err, os.Remove(name))
	}
	bulb.Logger().Info("screenshot saved", "path", name)
	return f.Close()
}
