// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texsink displays texpaint buffers in gogpu windows.
//
// A Surface is a texpaint.Sink backed by a GPU texture. The data flow is:
//
//	texpaint.Controller (paint) -> Buffer (CPU) -> Commit -> GPU Texture -> Window
//
// Commit converts the buffer to 8-bit RGBA and marks the surface dirty.
// The controller uses CommitRegion, which converts only the changed pixels
// and marks the 32x32 tiles they fall in. The texture is created lazily on
// the first RenderTo and updated on later ones, so a burst of commits
// between two frames costs a single upload. Textures with an UpdateRegion
// method receive only the dirty tiles.
//
// # Usage
//
//	canvas, _ := texsink.New(app.GPUContextProvider(), 400, 400)
//	brush, _ := texsink.New(app.GPUContextProvider(), 10, 10)
//	defer canvas.Close()
//	defer brush.Close()
//
//	c, _ := texpaint.NewController(texpaint.DefaultConfig(),
//	    texpaint.WithCanvasSink(canvas),
//	    texpaint.WithBrushSink(brush),
//	)
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer(), 0, 0)
//	    brush.RenderTo(dc.AsTextureDrawer(), 420, 0)
//	})
//
// # Thread Safety
//
// Surface is NOT safe for concurrent use.
package texsink
