// Package dirty tracks which tiles of a surface changed since the last upload.
package dirty

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// DefaultTileSize is the tile edge in pixels.
const DefaultTileSize = 32

// Tiles is a lock-free bitmap with one bit per tile of a surface.
//
// Bit index = ty*tilesX + tx, packed 64 tiles per word. All methods are
// safe for concurrent use.
type Tiles struct {
	words  []atomic.Uint64
	bounds image.Rectangle
	size   int
	tilesX int
	tilesY int
}

// New creates a tracker for a width x height surface split into
// size x size tiles. All tiles start clean.
// Returns nil if any dimension is zero or negative.
func New(width, height, size int) *Tiles {
	if width <= 0 || height <= 0 || size <= 0 {
		return nil
	}
	tilesX := (width + size - 1) / size
	tilesY := (height + size - 1) / size
	return &Tiles{
		words:  make([]atomic.Uint64, (tilesX*tilesY+63)/64),
		bounds: image.Rect(0, 0, width, height),
		size:   size,
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

func (d *Tiles) mark(tx, ty int) {
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << (idx & 63))
}

// MarkRect marks every tile intersecting r, in pixel coordinates.
// Parts of r outside the surface are ignored.
func (d *Tiles) MarkRect(r image.Rectangle) {
	r = r.Intersect(d.bounds)
	if r.Empty() {
		return
	}
	tx1, ty1 := r.Min.X/d.size, r.Min.Y/d.size
	tx2, ty2 := (r.Max.X-1)/d.size, (r.Max.Y-1)/d.size
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			d.mark(tx, ty)
		}
	}
}

// MarkAll marks the whole surface.
func (d *Tiles) MarkAll() {
	total := d.tilesX * d.tilesY
	full := total / 64
	for i := 0; i < full; i++ {
		d.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		d.words[full].Store((uint64(1) << rem) - 1)
	}
}

// Empty reports whether no tile is dirty.
func (d *Tiles) Empty() bool {
	for i := range d.words {
		if d.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of dirty tiles.
func (d *Tiles) Count() int {
	n := 0
	for i := range d.words {
		n += bits.OnesCount64(d.words[i].Load())
	}
	return n
}

// Drain clears every dirty tile and returns their pixel rectangles in
// row-major order, clipped to the surface.
func (d *Tiles) Drain() []image.Rectangle {
	var out []image.Rectangle
	total := d.tilesX * d.tilesY
	for wi := range d.words {
		word := d.words[wi].Swap(0)
		for word != 0 {
			b := bits.TrailingZeros64(word)
			word &^= 1 << b
			idx := wi*64 + b
			if idx >= total {
				break
			}
			out = append(out, d.tileRect(idx%d.tilesX, idx/d.tilesX))
		}
	}
	return out
}

func (d *Tiles) tileRect(tx, ty int) image.Rectangle {
	x, y := tx*d.size, ty*d.size
	return image.Rect(x, y, x+d.size, y+d.size).Intersect(d.bounds)
}

// Grid returns the number of tiles horizontally and vertically.
func (d *Tiles) Grid() (tilesX, tilesY int) {
	return d.tilesX, d.tilesY
}
