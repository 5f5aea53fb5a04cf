package texpaint

import (
	"fmt"
	"image"
	"math"
)

const pixelLimit = 1 << 30

// Stats counts the operations a Controller has performed.
type Stats struct {
	Strokes      int // canvas composites in BlendAdd mode
	Erases       int // canvas composites in BlendSubtract mode
	BrushEdits   int // single pixels set on the brush
	Resets       int // ResetBrush and ResetCanvas calls
	CommitErrors int // sink commits that failed
}

// Controller owns the canvas and brush buffers of one painting session and
// turns PaintEvents into buffer updates.
//
// The buffers are never handed out; Canvas and Brush return copies.
// Controller is NOT safe for concurrent use: a front end that polls input
// on one goroutine and renders on another must serialize calls.
type Controller struct {
	cfg    Config
	opts   controllerOptions
	offset image.Point
	canvas *Buffer
	brush  *Buffer
	stats  Stats
}

// NewController creates both buffers filled with the background color and
// commits them to their sinks.
func NewController(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	canvas, err := NewBuffer(cfg.CanvasWidth, cfg.CanvasHeight, o.background)
	if err != nil {
		return nil, err
	}
	brush, err := NewBuffer(cfg.BrushWidth, cfg.BrushHeight, o.background)
	if err != nil {
		return nil, err
	}
	// The stamp must fit inside the canvas for Composite to accept it.
	if brush.width > canvas.width || brush.height > canvas.height {
		return nil, fmt.Errorf("%w: brush %dx%d is bigger than canvas %dx%d",
			ErrInvalidArgument, brush.width, brush.height, canvas.width, canvas.height)
	}

	c := &Controller{
		cfg:    cfg,
		opts:   o,
		offset: cfg.BrushOffset(),
		canvas: canvas,
		brush:  brush,
	}
	c.commit(o.canvasSink, canvas, canvas.Rect(), "canvas")
	c.commit(o.brushSink, brush, brush.Rect(), "brush")

	Logger().Debug("texpaint: session created",
		"canvas", fmt.Sprintf("%dx%d", cfg.CanvasWidth, cfg.CanvasHeight),
		"brush", fmt.Sprintf("%dx%d", cfg.BrushWidth, cfg.BrushHeight),
		"offset", c.offset)
	return c, nil
}

// Paint applies one tick of input.
//
// Inactive events and events that hit no surface are ignored. A hit on the
// brush surface sets one pixel of the brush to the edit color. A hit on the
// canvas composites the brush centered at the hit point, subtracting when
// ev.Erase is set. The changed buffer is committed to its sink.
//
// The only error is one wrapping ErrInvalidArgument, returned before
// anything is modified.
func (c *Controller) Paint(ev PaintEvent) error {
	if !ev.Active {
		return nil
	}

	switch ev.Target {
	case TargetBrush:
		return c.editBrush(ev.UV)
	case TargetCanvas:
		return c.stamp(ev.UV, ModeFor(ev.Erase))
	default:
		return nil
	}
}

// editBrush sets a single brush pixel. Coordinates outside the brush are
// clamped onto its edge.
func (c *Controller) editBrush(uv UV) error {
	x, okX := toPixel(c.brush.width, uv.U)
	y, okY := toPixel(c.brush.height, uv.V)
	if !okX || !okY {
		return fmt.Errorf("%w: brush uv %v is not a number", ErrInvalidArgument, uv)
	}
	x = clampInt(x, 0, c.brush.width-1)
	y = clampInt(y, 0, c.brush.height-1)

	c.brush.SetPixel(x, y, c.opts.editColor)
	c.stats.BrushEdits++
	Logger().Debug("texpaint: brush edit", "x", x, "y", y)

	c.commit(c.opts.brushSink, c.brush, image.Rect(x, y, x+1, y+1), "brush")
	return nil
}

// stamp composites the brush onto the canvas.
func (c *Controller) stamp(uv UV, mode BlendMode) error {
	x, okX := toPixel(c.canvas.width, uv.U)
	y, okY := toPixel(c.canvas.height, uv.V)
	if !okX || !okY {
		return fmt.Errorf("%w: canvas uv %v is not a number", ErrInvalidArgument, uv)
	}
	at := image.Pt(x, y)

	p, err := Plan(c.canvas, c.brush, at, c.offset)
	if err != nil {
		return err
	}
	CompositePlaced(c.canvas, c.brush, p, mode)
	if mode == BlendSubtract {
		c.stats.Erases++
	} else {
		c.stats.Strokes++
	}
	Logger().Debug("texpaint: composite", "at", at, "mode", mode)

	c.commit(c.opts.canvasSink, c.canvas, p.Dst, "canvas")
	return nil
}

// ResetBrush fills the brush with the background color and commits it.
func (c *Controller) ResetBrush() {
	c.brush.Fill(c.opts.background)
	c.stats.Resets++
	Logger().Debug("texpaint: brush reset")
	c.commit(c.opts.brushSink, c.brush, c.brush.Rect(), "brush")
}

// ResetCanvas fills the canvas with the background color and commits it.
func (c *Controller) ResetCanvas() {
	c.canvas.Fill(c.opts.background)
	c.stats.Resets++
	Logger().Debug("texpaint: canvas reset")
	c.commit(c.opts.canvasSink, c.canvas, c.canvas.Rect(), "canvas")
}

// commit pushes buf to s, passing the changed rectangle to a RegionSink.
// Display failures are logged and counted; the buffer stays authoritative.
func (c *Controller) commit(s Sink, buf *Buffer, changed image.Rectangle, name string) {
	var err error
	if rs, ok := s.(RegionSink); ok {
		err = rs.CommitRegion(buf, changed)
	} else {
		err = s.Commit(buf)
	}
	if err != nil {
		c.stats.CommitErrors++
		Logger().Warn("texpaint: commit failed", "buffer", name, "err", err)
	}
}

// Config returns the session configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// BrushOffset returns the offset applied to every canvas composite.
func (c *Controller) BrushOffset() image.Point {
	return c.offset
}

// CanvasPixel returns the canvas color at (x, y).
func (c *Controller) CanvasPixel(x, y int) RGBA {
	return c.canvas.GetPixel(x, y)
}

// BrushPixel returns the brush color at (x, y).
func (c *Controller) BrushPixel(x, y int) RGBA {
	return c.brush.GetPixel(x, y)
}

// Canvas returns a copy of the canvas buffer.
func (c *Controller) Canvas() *Buffer {
	return c.canvas.Clone()
}

// Brush returns a copy of the brush buffer.
func (c *Controller) Brush() *Buffer {
	return c.brush.Clone()
}

// Stats returns the operation counters.
func (c *Controller) Stats() Stats {
	return c.stats
}

// toPixel maps a normalized coordinate onto pixels by flooring size*u.
// Results are saturated to ±pixelLimit so adding an offset cannot
// overflow; NaN reports false.
func toPixel(size int, u float64) (int, bool) {
	f := math.Floor(float64(size) * u)
	switch {
	case math.IsNaN(f):
		return 0, false
	case f > pixelLimit:
		return pixelLimit, true
	case f < -pixelLimit:
		return -pixelLimit, true
	}
	return int(f), true
}
