package texpaint

import "fmt"

// Target identifies which surface a pointer ray hit.
type Target uint8

const (
	// TargetNone means the ray hit neither surface.
	TargetNone Target = iota

	// TargetCanvas is the large paintable surface.
	TargetCanvas

	// TargetBrush is the surface displaying the brush pattern.
	TargetBrush
)

// String returns the name of the target.
func (t Target) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetCanvas:
		return "canvas"
	case TargetBrush:
		return "brush"
	default:
		return fmt.Sprintf("Target(%d)", uint8(t))
	}
}

// UV is a normalized surface coordinate from a hit test, nominally in [0, 1].
type UV struct {
	U, V float64
}

// PaintEvent is one tick of pointer input.
// It is produced by the input adapter and consumed by Controller.Paint.
type PaintEvent struct {
	// Active is set while a paint or erase button is held.
	Active bool

	// Erase selects subtractive blending on the canvas.
	Erase bool

	// Target is the surface the pointer ray hit.
	Target Target

	// UV is the hit coordinate on Target.
	UV UV
}
