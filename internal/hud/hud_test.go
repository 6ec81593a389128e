package hud

import (
	"bytes"
	"image"
	"testing"
)

func solidGray(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

func TestDrawChangesPixels(t *testing.T) {
	img := solidGray(200, 60)
	before := bytes.Clone(img.Pix)

	Draw(img, []string{"power 8  backend cpu"})
	if bytes.Equal(before, img.Pix) {
		t.Error("Draw left the image untouched")
	}
}

func TestDrawSkipsEmptyLines(t *testing.T) {
	img := solidGray(200, 60)
	before := bytes.Clone(img.Pix)

	Draw(img, []string{"", ""})
	if !bytes.Equal(before, img.Pix) {
		t.Error("Draw modified the image for empty lines")
	}
}

func TestDimDarkensBand(t *testing.T) {
	img := solidGray(200, 60)
	Dim(img, 2)

	top := img.RGBAAt(100, 2)
	if top.R >= 0x80 {
		t.Errorf("band pixel not darkened: R = %d", top.R)
	}
	bottom := img.RGBAAt(100, 59)
	if bottom.R != 0x80 {
		t.Errorf("pixel below the band changed: R = %d", bottom.R)
	}
}
