// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texsink

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/texpaint"
	"github.com/gogpu/texpaint/internal/dirty"
)

// Common errors returned by Surface operations.
var (
	// ErrSurfaceClosed is returned when operations are attempted on a closed surface.
	ErrSurfaceClosed = errors.New("texsink: surface is closed")

	// ErrInvalidDimensions is returned when width or height is invalid, or
	// a committed buffer does not match the surface size.
	ErrInvalidDimensions = errors.New("texsink: invalid dimensions")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("texsink: nil DeviceProvider")

	// ErrInvalidDrawContext is returned when the texture cannot be drawn.
	ErrInvalidDrawContext = errors.New("texsink: texture does not implement gpucontext.Texture")

	// ErrInvalidRenderer is returned when the draw context has no texture creator.
	ErrInvalidRenderer = errors.New("texsink: draw context has no texture creator")
)

// textureDestroyer matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// regionUpdater is implemented by textures that accept partial uploads.
// data holds w*h RGBA8 pixels, tightly packed.
type regionUpdater interface {
	UpdateRegion(x, y, w, h int, data []byte) error
}

// Surface uploads committed buffers to a GPU texture.
type Surface struct {
	provider gpucontext.DeviceProvider
	texture  any    // lazily created texture, or *pendingTexture
	data     []byte // RGBA8 pixels of the last commit
	tiles    *dirty.Tiles
	width    int
	height   int
	dirty    bool
	closed   bool
	commits  int
}

var _ texpaint.RegionSink = (*Surface)(nil)

// New creates a width x height surface. The provider should come from
// gogpu.App.GPUContextProvider().
func New(provider gpucontext.DeviceProvider, width, height int) (*Surface, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	// Error is non-fatal: the accelerator may not support device sharing,
	// in which case it keeps its own device or composites on the CPU.
	if err := texpaint.SetAcceleratorDeviceProvider(provider); err != nil {
		texpaint.Logger().Debug("texsink: accelerator device sharing unavailable", "err", err)
	}

	s := &Surface{
		provider: provider,
		width:    width,
		height:   height,
		data:     make([]byte, width*height*4),
		tiles:    dirty.New(width, height, dirty.DefaultTileSize),
		dirty:    true,
	}
	s.tiles.MarkAll()
	return s, nil
}

// Commit implements texpaint.Sink. The buffer is converted to RGBA8 with
// channels clamped to [0, 1]; the upload happens on the next Flush.
func (s *Surface) Commit(buf *texpaint.Buffer) error {
	return s.CommitRegion(buf, buf.Rect())
}

// CommitRegion implements texpaint.RegionSink. Only the changed pixels are
// converted, and only the tiles they touch are uploaded by textures that
// support partial updates.
func (s *Surface) CommitRegion(buf *texpaint.Buffer, changed image.Rectangle) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if buf.Width() != s.width || buf.Height() != s.height {
		return fmt.Errorf("%w: buffer %dx%d on %dx%d surface",
			ErrInvalidDimensions, buf.Width(), buf.Height(), s.width, s.height)
	}
	changed = changed.Intersect(buf.Rect())
	for y := changed.Min.Y; y < changed.Max.Y; y++ {
		for x := changed.Min.X; x < changed.Max.X; x++ {
			c := buf.GetPixel(x, y).NRGBA()
			i := (y*s.width + x) * 4
			s.data[i+0] = c.R
			s.data[i+1] = c.G
			s.data[i+2] = c.B
			s.data[i+3] = c.A
		}
	}
	s.tiles.MarkRect(changed)
	s.dirty = true
	s.commits++
	return nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.height
}

// IsDirty reports whether a commit is waiting for upload.
func (s *Surface) IsDirty() bool {
	return s.dirty
}

// Commits returns the number of buffers committed.
func (s *Surface) Commits() int {
	return s.commits
}

// Pixels returns the RGBA8 bytes of the last commit.
func (s *Surface) Pixels() []byte {
	return s.data
}

// Flush uploads the last commit if dirty and returns the texture.
// Before the first RenderTo the texture is a placeholder.
func (s *Surface) Flush() (any, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	if !s.dirty && s.texture != nil {
		return s.texture, nil
	}

	if s.texture == nil {
		// The texture will be created from the full image.
		s.tiles.Drain()
		s.texture = &pendingTexture{width: s.width, height: s.height, data: s.data}
		s.dirty = false
		return s.texture, nil
	}

	if err := s.upload(); err != nil {
		return nil, err
	}
	s.dirty = false
	return s.texture, nil
}

// upload sends the dirty tiles to the texture, or everything when the
// texture only takes whole-image updates.
func (s *Surface) upload() error {
	rects := s.tiles.Drain()
	switch tex := s.texture.(type) {
	case *pendingTexture:
		tex.data = s.data
	case regionUpdater:
		for i, r := range rects {
			if err := tex.UpdateRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), s.pack(r)); err != nil {
				for _, rest := range rects[i:] {
					s.tiles.MarkRect(rest)
				}
				return fmt.Errorf("texsink: texture update failed: %w", err)
			}
		}
	case gpucontext.TextureUpdater:
		if err := tex.UpdateData(s.data); err != nil {
			s.tiles.MarkAll()
			return fmt.Errorf("texsink: texture update failed: %w", err)
		}
	default:
		if len(rects) > 0 {
			texpaint.Logger().Debug("texsink: texture does not accept updates, dropping dirty tiles",
				"texture", fmt.Sprintf("%T", tex), "tiles", len(rects))
		}
	}
	return nil
}

// pack copies the RGBA8 rows of r into a tight slice.
func (s *Surface) pack(r image.Rectangle) []byte {
	out := make([]byte, 0, r.Dx()*r.Dy()*4)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := (y*s.width + r.Min.X) * 4
		out = append(out, s.data[i:i+r.Dx()*4]...)
	}
	return out
}

// DirtyTiles returns the number of tiles waiting for upload.
func (s *Surface) DirtyTiles() int {
	return s.tiles.Count()
}

// RenderTo draws the surface at (x, y), creating the GPU texture on first use.
func (s *Surface) RenderTo(dc gpucontext.TextureDrawer, x, y float32) error {
	tex, err := s.Flush()
	if err != nil {
		return err
	}

	if pending, isPending := tex.(*pendingTexture); isPending {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		realTex, err := creator.NewTextureFromRGBA(pending.width, pending.height, pending.data)
		if err != nil {
			return fmt.Errorf("texsink: NewTextureFromRGBA failed: %w", err)
		}
		s.texture = realTex
		tex = realTex
	}

	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidDrawContext
	}
	return dc.DrawTexture(gpuTex, x, y)
}

// Close releases the texture. Close is idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if destroyer, ok := s.texture.(textureDestroyer); ok {
		destroyer.Destroy()
	}
	s.texture = nil
	s.provider = nil
	return nil
}

// Provider returns the DeviceProvider, or nil once closed.
func (s *Surface) Provider() gpucontext.DeviceProvider {
	if s.closed {
		return nil
	}
	return s.provider
}

// pendingTexture holds the data for a texture that is created on the next
// RenderTo, when a texture creator is available.
type pendingTexture struct {
	width  int
	height int
	data   []byte
}
