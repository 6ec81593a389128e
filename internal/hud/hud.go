// Package hud draws a small text overlay onto rendered frames.
//
// The overlay uses the fixed 7x13 bitmap face so it needs no font assets
// and stays legible at any window scale.
package hud

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	marginX    = 6
	marginY    = 4
	lineHeight = 14
)

var (
	textColor   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	shadowColor = color.RGBA{A: 0xB0}
)

// Draw writes lines of text into the top-left corner of dst. Each line is
// drawn twice, a dark offset pass first, so the overlay reads against both
// the bulb and the background gradient.
func Draw(dst *image.RGBA, lines []string) {
	face := basicfont.Face7x13
	for i, line := range lines {
		if line == "" {
			continue
		}
		y := marginY + (i+1)*lineHeight
		drawString(dst, face, line, marginX+1, y+1, shadowColor)
		drawString(dst, face, line, marginX, y, textColor)
	}
}

func drawString(dst *image.RGBA, face font.Face, s string, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Dim darkens a band behind the first n overlay lines so the text stays
// readable over bright pixels.
func Dim(dst *image.RGBA, n int) {
	if n <= 0 {
		return
	}
	band := image.Rect(0, 0, dst.Bounds().Dx(), marginY+n*lineHeight+marginY)
	draw.DrawMask(dst, band, image.NewUniform(color.Black), image.Point{},
		image.NewUniform(color.Alpha{A: 0x50}), image.Point{}, draw.Over)
}
