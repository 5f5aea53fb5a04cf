package texpaint

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// ErrInvalidDimensions is returned when a buffer width or height is not positive.
var ErrInvalidDimensions = errors.New("texpaint: invalid dimensions")

// Buffer is a rectangular grid of float RGBA pixels.
//
// Every cell is initialized; pixel (x, y) is addressable for
// 0 <= x < Width() and 0 <= y < Height(). Pixels are stored row by row.
//
// Buffer is NOT safe for concurrent use.
type Buffer struct {
	width  int
	height int
	pix    []RGBA
}

// NewBuffer creates a buffer of the given size filled with bg.
func NewBuffer(width, height int, bg RGBA) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	b := &Buffer{
		width:  width,
		height: height,
		pix:    make([]RGBA, width*height),
	}
	b.Fill(bg)
	return b, nil
}

// Width returns the width of the buffer.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height of the buffer.
func (b *Buffer) Height() int {
	return b.height
}

// Rect returns the bounds of the buffer with the origin at (0, 0).
func (b *Buffer) Rect() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// SetPixel sets the color of a single pixel.
// Out-of-bounds coordinates are ignored.
func (b *Buffer) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.pix[y*b.width+x] = c
}

// GetPixel returns the color of a single pixel.
// Out-of-bounds coordinates return the zero color.
func (b *Buffer) GetPixel(x, y int) RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return RGBA{}
	}
	return b.pix[y*b.width+x]
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c RGBA) {
	for i := range b.pix {
		b.pix[i] = c
	}
}

// Region copies the pixels inside r into a new row-major slice.
// r is intersected with the buffer bounds first; an empty intersection
// yields a nil slice.
func (b *Buffer) Region(r image.Rectangle) []RGBA {
	r = r.Intersect(b.Rect())
	if r.Empty() {
		return nil
	}
	w := r.Dx()
	out := make([]RGBA, 0, w*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * b.width
		out = append(out, b.pix[row+r.Min.X:row+r.Min.X+w]...)
	}
	return out
}

// SetRegion writes row-major pixels into r.
// r must lie within the buffer and len(px) must equal r.Dx()*r.Dy().
func (b *Buffer) SetRegion(r image.Rectangle, px []RGBA) error {
	if r.Empty() {
		return nil
	}
	if !r.In(b.Rect()) {
		return fmt.Errorf("texpaint: region %v outside buffer %v", r, b.Rect())
	}
	w := r.Dx()
	if len(px) != w*r.Dy() {
		return fmt.Errorf("texpaint: region %v needs %d pixels, got %d", r, w*r.Dy(), len(px))
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * b.width
		copy(b.pix[row+r.Min.X:row+r.Min.X+w], px[(y-r.Min.Y)*w:])
	}
	return nil
}

// Clone creates a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]RGBA, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// Pixels returns the underlying row-major pixel slice.
// Modifying it modifies the buffer.
func (b *Buffer) Pixels() []RGBA {
	return b.pix
}

// ToImage converts the buffer to an 8-bit image, clamping every channel.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(b.Rect())
	for i, c := range b.pix {
		n := c.NRGBA()
		j := i * 4
		img.Pix[j+0] = n.R
		img.Pix[j+1] = n.G
		img.Pix[j+2] = n.B
		img.Pix[j+3] = n.A
	}
	return img
}

// FromImage creates a buffer from an image.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	b, err := NewBuffer(bounds.Dx(), bounds.Dy(), RGBA{})
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.pix[y*b.width+x] = FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return b, nil
}

// SavePNG saves the buffer to a PNG file.
func (b *Buffer) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, b.ToImage())
}

// At implements the image.Image interface.
func (b *Buffer) At(x, y int) color.Color {
	return b.GetPixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (b *Buffer) Bounds() image.Rectangle {
	return b.Rect()
}

// ColorModel implements the image.Image interface.
func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}
