package texpaint

import (
	"image"
)

// Sink receives buffer contents whenever the controller commits a change.
//
// A sink typically uploads the pixels to whatever displays them, such as a
// GPU texture. Commit must not retain buf; it must copy what it needs.
type Sink interface {
	Commit(buf *Buffer) error
}

// RegionSink is a Sink that can take partial updates. The controller calls
// CommitRegion instead of Commit with the rectangle changed since the
// previous commit; pixels outside it are unchanged.
type RegionSink interface {
	Sink
	CommitRegion(buf *Buffer, changed image.Rectangle) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(buf *Buffer) error

// Commit calls f(buf).
func (f SinkFunc) Commit(buf *Buffer) error {
	return f(buf)
}

// nopSink discards commits.
type nopSink struct{}

func (nopSink) Commit(*Buffer) error { return nil }

// ImageSink keeps an 8-bit snapshot of the last committed buffer.
// Channels are clamped to [0, 1] on commit, as a display would.
// The snapshot is updated in place, so hold a copy to compare frames.
type ImageSink struct {
	img     *image.NRGBA
	commits int
}

// NewImageSink creates an empty ImageSink.
func NewImageSink() *ImageSink {
	return &ImageSink{}
}

// Commit implements Sink.
func (s *ImageSink) Commit(buf *Buffer) error {
	s.img = buf.ToImage()
	s.commits++
	return nil
}

// CommitRegion implements RegionSink. Only the changed pixels are
// converted once a snapshot of the same size exists.
func (s *ImageSink) CommitRegion(buf *Buffer, changed image.Rectangle) error {
	if s.img == nil || s.img.Rect != buf.Rect() {
		return s.Commit(buf)
	}
	changed = changed.Intersect(buf.Rect())
	for y := changed.Min.Y; y < changed.Max.Y; y++ {
		for x := changed.Min.X; x < changed.Max.X; x++ {
			s.img.SetNRGBA(x, y, buf.GetPixel(x, y).NRGBA())
		}
	}
	s.commits++
	return nil
}

// Image returns the last committed snapshot, or nil before the first commit.
func (s *ImageSink) Image() *image.NRGBA {
	return s.img
}

// Commits returns the number of commits received.
func (s *ImageSink) Commits() int {
	return s.commits
}
