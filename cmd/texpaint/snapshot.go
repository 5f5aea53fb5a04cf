package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// captionHeight is the strip added below the image for a label.
const captionHeight = 18

// compose upscales img by scale with nearest-neighbor sampling, keeping
// pixels sharp, and appends a caption strip when label is set.
func compose(img image.Image, scale int, label string) *image.NRGBA {
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	w, h := b.Dx()*scale, b.Dy()*scale

	outH := h
	if label != "" {
		outH += captionHeight
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, outH))
	xdraw.NearestNeighbor.Scale(out, image.Rect(0, 0, w, h), img, b, xdraw.Src, nil)

	if label != "" {
		strip := image.Rect(0, h, w, outH)
		xdraw.Draw(out, strip, image.NewUniform(color.NRGBA{R: 32, G: 32, B: 32, A: 255}), image.Point{}, xdraw.Src)
		d := &font.Drawer{Dst: out, Src: image.NewUniform(color.White), Face: basicfont.Face7x13,
			Dot: fixed.P(4, h+14)}
		d.DrawString(label)
	}
	return out
}

// writeSnapshot composes img and writes it as PNG.
func writeSnapshot(path string, img image.Image, scale int, label string) (err error) {
	if img == nil {
		return errors.New("nothing committed to snapshot")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, compose(img, scale, label)); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
