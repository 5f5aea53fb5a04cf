package texpaint

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidArgument is returned by Composite when its arguments cannot be
// applied at all. Partial or complete placement outside the target is not an
// error; it is clipped.
var ErrInvalidArgument = errors.New("texpaint: invalid argument")

// BlendMode selects how source pixels are combined with target pixels.
type BlendMode uint8

const (
	// BlendAdd adds the source color to the target color (draw).
	BlendAdd BlendMode = iota

	// BlendSubtract subtracts the source color from the target color (erase).
	BlendSubtract
)

// ModeFor returns BlendSubtract when erase is set and BlendAdd otherwise.
func ModeFor(erase bool) BlendMode {
	if erase {
		return BlendSubtract
	}
	return BlendAdd
}

// String returns the name of the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendAdd:
		return "add"
	case BlendSubtract:
		return "subtract"
	default:
		return fmt.Sprintf("BlendMode(%d)", uint8(m))
	}
}

// Valid reports whether m is a known blend mode.
func (m BlendMode) Valid() bool {
	return m == BlendAdd || m == BlendSubtract
}

// Blend combines a target color with a source color. No clamping is done,
// so BlendSubtract exactly undoes BlendAdd.
func (m BlendMode) Blend(dst, src RGBA) RGBA {
	if m == BlendSubtract {
		return dst.Sub(src)
	}
	return dst.Add(src)
}

// Placement is the clipped geometry of a single composite.
//
// Dst is the region of the target that is read and written. Src is the
// top-left corner of the equally sized region of the source that is read.
// An empty Dst means there is nothing to do.
type Placement struct {
	Dst image.Rectangle
	Src image.Point
}

// Empty reports whether the placement touches no pixels.
func (p Placement) Empty() bool {
	return p.Dst.Empty()
}

// Plan validates a composite of source into target at at+offset and
// returns its clipped placement.
//
// The coordinate check looks at the unoffset point and only at the upper
// bounds: at.X > target width or at.Y > target height is rejected, negative
// values are left to clipping.
func Plan(target, source *Buffer, at, offset image.Point) (Placement, error) {
	if target == nil || source == nil {
		return Placement{}, fmt.Errorf("%w: nil buffer", ErrInvalidArgument)
	}
	if source.width > target.width || source.height > target.height {
		return Placement{}, fmt.Errorf("%w: source %dx%d is bigger than target %dx%d",
			ErrInvalidArgument, source.width, source.height, target.width, target.height)
	}
	if at.X > target.width || at.Y > target.height {
		return Placement{}, fmt.Errorf("%w: coordinates %v out of bounds of target %dx%d",
			ErrInvalidArgument, at, target.width, target.height)
	}
	return place(target.width, target.height, source.width, source.height, at.Add(offset)), nil
}

// place clips a source of size sw x sh positioned at coords inside a
// target of size tw x th.
func place(tw, th, sw, sh int, coords image.Point) Placement {
	aw, ah := sw, sh

	// Truncate to stay inside the target on every side.
	if coords.X < 0 {
		aw -= -coords.X
	}
	if coords.Y < 0 {
		ah -= -coords.Y
	}
	if coords.X > tw-sw {
		aw = tw - coords.X
	}
	if coords.Y > th-sh {
		ah = th - coords.Y
	}
	if aw <= 0 || ah <= 0 {
		return Placement{}
	}

	// Read the edge of the source that matches the clipped side of the target.
	var src image.Point
	if coords.X < tw/2 {
		src.X = sw - aw
	}
	if coords.Y < th/2 {
		src.Y = sh - ah
	}

	coords.X = clampInt(coords.X, 0, tw)
	coords.Y = clampInt(coords.Y, 0, th)

	dst := image.Rect(coords.X, coords.Y, coords.X+aw, coords.Y+ah).
		Intersect(image.Rect(0, 0, tw, th))
	if dst.Empty() {
		return Placement{}
	}
	// Keep the source window inside the source as well.
	srcRect := image.Rectangle{Min: src, Max: src.Add(dst.Size())}.
		Intersect(image.Rect(0, 0, sw, sh))
	if srcRect.Size() != dst.Size() {
		return Placement{}
	}
	return Placement{Dst: dst, Src: src}
}

// Composite blends source into target at at+offset, clipped to the target.
//
// The target is modified in place; nothing is committed to a display. On
// error the target is left untouched. A placement that falls entirely
// outside the target is a no-op.
func Composite(target, source *Buffer, at, offset image.Point, mode BlendMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown blend mode %v", ErrInvalidArgument, mode)
	}
	p, err := Plan(target, source, at, offset)
	if err != nil {
		return err
	}
	CompositePlaced(target, source, p, mode)
	return nil
}

// CompositePlaced applies a planned composite. p must come from Plan for
// the same buffers. An empty placement is a no-op.
//
// If an Accelerator is registered it is tried first; any error from it
// falls back to the CPU path.
func CompositePlaced(target, source *Buffer, p Placement, mode BlendMode) {
	if p.Empty() {
		return
	}

	if a := Accelerator(); a != nil {
		err := a.Composite(target, source, p, mode)
		if err == nil {
			return
		}
		if !errors.Is(err, ErrFallbackToCPU) {
			Logger().Warn("accelerated composite failed, using CPU",
				"accelerator", a.Name(), "err", err)
		}
	}

	CompositeCPU(target, source, p, mode)
}

// CompositeCPU applies a planned composite on the CPU.
// p must come from Plan for the same buffers.
func CompositeCPU(target, source *Buffer, p Placement, mode BlendMode) {
	w, h := p.Dst.Dx(), p.Dst.Dy()
	for y := 0; y < h; y++ {
		trow := target.pix[(p.Dst.Min.Y+y)*target.width+p.Dst.Min.X:]
		srow := source.pix[(p.Src.Y+y)*source.width+p.Src.X:]
		for x := 0; x < w; x++ {
			trow[x] = mode.Blend(trow[x], srow[x])
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
