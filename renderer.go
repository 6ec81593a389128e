package bulb

import (
	"fmt"
	"image"
)

// Renderer renders one frame of the bulb for a camera snapshot. The CPU
// implementation lives in this package ([NewCPURenderer]); the WebGPU
// implementation lives in the bulb/gpu subpackage. Both run the identical
// per-pixel math, so they are interchangeable.
type Renderer interface {
	// Name identifies the backend ("cpu" or "gpu").
	Name() string

	// Render fills frame with one image for the camera snapshot. The frame
	// dimensions must match the renderer's Config. Render blocks until the
	// frame is complete; renderers take exactly one camera snapshot per
	// call, giving at-most-one-frame-in-flight back-pressure.
	Render(cam Camera, frame *Frame) error

	// Close releases backend resources. The renderer is unusable afterward.
	Close() error
}

// Frame is a row-major RGBA8 pixel buffer with fixed dimensions.
type Frame struct {
	Width, Height int

	// Pix holds 4 bytes per pixel (R, G, B, A), rows top to bottom.
	Pix []uint8
}

// NewFrame allocates a frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// SetRGB writes an opaque color at (x, y). Channels are clamped to [0, 1]
// and truncated to bytes, matching the GPU shader's u32 conversion.
func (f *Frame) SetRGB(x, y int, c RGB) {
	i := (y*f.Width + x) * 4
	f.Pix[i+0] = channelByte(c.R)
	f.Pix[i+1] = channelByte(c.G)
	f.Pix[i+2] = channelByte(c.B)
	f.Pix[i+3] = 0xFF
}

// RGBA wraps the frame's pixels in an image.RGBA sharing the same backing
// slice. Useful for PNG encoding and HUD overlays.
func (f *Frame) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

func channelByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// checkFrame verifies that a frame matches the configured resolution.
func checkFrame(cfg Config, frame *Frame) error {
	if frame == nil {
		return fmt.Errorf("bulb: nil frame")
	}
	if frame.Width != cfg.Width || frame.Height != cfg.Height {
		return fmt.Errorf("bulb: frame is %dx%d, renderer configured for %dx%d",
			frame.Width, frame.Height, cfg.Width, cfg.Height)
	}
	if len(frame.Pix) < frame.Width*frame.Height*4 {
		return fmt.Errorf("bulb: frame buffer too short: %d bytes for %dx%d",
			len(frame.Pix), frame.Width, frame.Height)
	}
	return nil
}
