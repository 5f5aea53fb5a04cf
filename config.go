package texpaint

import (
	"fmt"
	"image"
)

// Default session dimensions.
const (
	DefaultCanvasWidth  = 400
	DefaultCanvasHeight = 400
	DefaultBrushWidth   = 10
	DefaultBrushHeight  = 10
)

// Config holds the static dimensions of a painting session.
type Config struct {
	CanvasWidth  int `toml:"canvas_width" yaml:"canvas_width"`
	CanvasHeight int `toml:"canvas_height" yaml:"canvas_height"`
	BrushWidth   int `toml:"brush_width" yaml:"brush_width"`
	BrushHeight  int `toml:"brush_height" yaml:"brush_height"`
}

// DefaultConfig returns a 400x400 canvas with a 10x10 brush.
func DefaultConfig() Config {
	return Config{
		CanvasWidth:  DefaultCanvasWidth,
		CanvasHeight: DefaultCanvasHeight,
		BrushWidth:   DefaultBrushWidth,
		BrushHeight:  DefaultBrushHeight,
	}
}

// Validate checks that all dimensions are positive.
func (c Config) Validate() error {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidDimensions, c.CanvasWidth, c.CanvasHeight)
	}
	if c.BrushWidth <= 0 || c.BrushHeight <= 0 {
		return fmt.Errorf("%w: brush %dx%d", ErrInvalidDimensions, c.BrushWidth, c.BrushHeight)
	}
	return nil
}

// BrushOffset returns the offset that centers the brush on the pointer,
// (-BrushWidth/2, -BrushHeight/2) with truncating division.
func (c Config) BrushOffset() image.Point {
	return image.Pt(-c.BrushWidth/2, -c.BrushHeight/2)
}
