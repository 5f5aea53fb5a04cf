package texpaint

// Option configures a Controller during creation.
//
// Example:
//
//	view := texpaint.NewImageSink()
//	c, err := texpaint.NewController(texpaint.DefaultConfig(),
//	    texpaint.WithCanvasSink(view),
//	    texpaint.WithEditColor(texpaint.RGB(1, 0, 1)),
//	)
type Option func(*controllerOptions)

// controllerOptions holds optional configuration for Controller creation.
type controllerOptions struct {
	canvasSink Sink
	brushSink  Sink
	background RGBA
	editColor  RGBA
}

// defaultOptions returns the default controller options.
func defaultOptions() controllerOptions {
	return controllerOptions{
		canvasSink: nopSink{},
		brushSink:  nopSink{},
		background: Black,
		editColor:  Cyan,
	}
}

// WithCanvasSink sets the display sink the canvas is committed to.
func WithCanvasSink(s Sink) Option {
	return func(o *controllerOptions) {
		if s != nil {
			o.canvasSink = s
		}
	}
}

// WithBrushSink sets the display sink the brush is committed to.
func WithBrushSink(s Sink) Option {
	return func(o *controllerOptions) {
		if s != nil {
			o.brushSink = s
		}
	}
}

// WithBackground sets the color buffers are created and reset with.
// The default is opaque black.
func WithBackground(c RGBA) Option {
	return func(o *controllerOptions) {
		o.background = c
	}
}

// WithEditColor sets the color stamped when painting on the brush itself.
// The default is cyan.
func WithEditColor(c RGBA) Option {
	return func(o *controllerOptions) {
		o.editColor = c
	}
}
