// Package texpaint implements a texture-painting brush tool.
//
// # Overview
//
// A session owns two pixel buffers: a large canvas and a small brush. Each
// tick of pointer input is delivered as a [PaintEvent]. A hit on the canvas
// stamps the brush onto it, centered on the hit point, by adding (draw) or
// subtracting (erase) its colors. A hit on the brush surface edits the
// brush pattern itself one pixel at a time.
//
//	view := texpaint.NewImageSink()
//	c, err := texpaint.NewController(texpaint.DefaultConfig(), texpaint.WithCanvasSink(view))
//	if err != nil {
//	    return err
//	}
//	_ = c.Paint(texpaint.PaintEvent{Active: true, Target: texpaint.TargetBrush, UV: texpaint.UV{U: 0.5, V: 0.5}})
//	_ = c.Paint(texpaint.PaintEvent{Active: true, Target: texpaint.TargetCanvas, UV: texpaint.UV{U: 0.25, V: 0.75}})
//
// # Compositing
//
// [Composite] is the core routine. It clips the stamp on all four sides so
// that painting near or past an edge applies only the in-bounds part; it
// never reads or writes outside either buffer. Colors are not clamped, so
// erasing with the same brush at the same spot exactly undoes a draw.
// Clamping happens only when a buffer is converted for display.
//
// # Display
//
// Every change is committed to a [Sink]. [ImageSink] keeps an 8-bit snapshot;
// the integration/texsink package uploads to a GPU texture.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left of a buffer
//   - X increases right, Y increases down
//   - UV (0,0) maps to pixel (0,0), UV (1,1) to (width, height)
package texpaint
