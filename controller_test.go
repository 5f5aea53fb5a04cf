package texpaint

import (
	"errors"
	"image"
	"math"
	"testing"
)

type sessionSinks struct {
	canvas *ImageSink
	brush  *ImageSink
}

func newTestController(t *testing.T, opts ...Option) (*Controller, sessionSinks) {
	t.Helper()
	s := sessionSinks{canvas: NewImageSink(), brush: NewImageSink()}
	opts = append([]Option{WithCanvasSink(s.canvas), WithBrushSink(s.brush)}, opts...)
	c, err := NewController(DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("NewController() = %v", err)
	}
	return c, s
}

func canvasEvent(u, v float64, erase bool) PaintEvent {
	return PaintEvent{Active: true, Erase: erase, Target: TargetCanvas, UV: UV{U: u, V: v}}
}

func brushEvent(u, v float64) PaintEvent {
	return PaintEvent{Active: true, Target: TargetBrush, UV: UV{U: u, V: v}}
}

func requireAll(t *testing.T, b *Buffer, want RGBA) {
	t.Helper()
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if got := b.GetPixel(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestNewControllerCommitsBothBuffers(t *testing.T) {
	c, s := newTestController(t)

	if s.canvas.Commits() != 1 || s.brush.Commits() != 1 {
		t.Errorf("initial commits = (%d, %d), want (1, 1)", s.canvas.Commits(), s.brush.Commits())
	}
	if b := s.canvas.Image().Bounds(); b != image.Rect(0, 0, 400, 400) {
		t.Errorf("canvas snapshot bounds = %v, want 400x400", b)
	}
	if got := c.BrushOffset(); got != image.Pt(-5, -5) {
		t.Errorf("BrushOffset() = %v, want (-5,-5)", got)
	}
	requireAll(t, c.Canvas(), Black)
	requireAll(t, c.Brush(), Black)
}

func TestNewControllerInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"zero canvas", Config{CanvasWidth: 0, CanvasHeight: 10, BrushWidth: 1, BrushHeight: 1}, ErrInvalidDimensions},
		{"negative brush", Config{CanvasWidth: 10, CanvasHeight: 10, BrushWidth: -1, BrushHeight: 1}, ErrInvalidDimensions},
		{"brush wider than canvas", Config{CanvasWidth: 10, CanvasHeight: 10, BrushWidth: 11, BrushHeight: 1}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewController(tt.cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewController() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaintIgnoresInactiveAndMisses(t *testing.T) {
	c, s := newTestController(t)

	events := []PaintEvent{
		{Active: false, Target: TargetCanvas, UV: UV{U: 0.5, V: 0.5}},
		{Active: false, Target: TargetBrush, UV: UV{U: 0.5, V: 0.5}},
		{Active: true, Target: TargetNone, UV: UV{U: 0.5, V: 0.5}},
		{Active: true, Erase: true, Target: TargetNone},
	}
	for _, ev := range events {
		if err := c.Paint(ev); err != nil {
			t.Fatalf("Paint(%+v) = %v", ev, err)
		}
	}

	if s.canvas.Commits() != 1 || s.brush.Commits() != 1 {
		t.Errorf("commits = (%d, %d), want no new commits", s.canvas.Commits(), s.brush.Commits())
	}
	requireAll(t, c.Canvas(), Black)
	if c.Stats() != (Stats{}) {
		t.Errorf("Stats() = %+v, want zero", c.Stats())
	}
}

func TestPaintBrushEdit(t *testing.T) {
	c, s := newTestController(t)

	if err := c.Paint(brushEvent(0.55, 0.21)); err != nil {
		t.Fatalf("Paint() = %v", err)
	}

	// floor(10*0.55) = 5, floor(10*0.21) = 2
	if got := c.BrushPixel(5, 2); got != Cyan {
		t.Errorf("BrushPixel(5,2) = %v, want %v", got, Cyan)
	}
	if got := c.BrushPixel(4, 2); got != Black {
		t.Errorf("BrushPixel(4,2) = %v, want %v", got, Black)
	}
	if s.brush.Commits() != 2 {
		t.Errorf("brush commits = %d, want 2", s.brush.Commits())
	}
	if s.canvas.Commits() != 1 {
		t.Errorf("canvas commits = %d, want 1", s.canvas.Commits())
	}
	if got := s.brush.Image().NRGBAAt(5, 2); got != Cyan.NRGBA() {
		t.Errorf("brush display (5,2) = %v, want %v", got, Cyan.NRGBA())
	}
}

func TestPaintBrushEditClampsToEdges(t *testing.T) {
	tests := []struct {
		name string
		uv   UV
		want image.Point
	}{
		{"u and v of one", UV{U: 1, V: 1}, image.Pt(9, 9)},
		{"negative", UV{U: -0.5, V: 0}, image.Pt(0, 0)},
		{"far outside", UV{U: 1e9, V: -1e9}, image.Pt(9, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t)
			if err := c.Paint(brushEvent(tt.uv.U, tt.uv.V)); err != nil {
				t.Fatalf("Paint() = %v", err)
			}
			if got := c.BrushPixel(tt.want.X, tt.want.Y); got != Cyan {
				t.Errorf("BrushPixel(%v) = %v, want %v", tt.want, got, Cyan)
			}
		})
	}
}

func TestPaintCanvasStampsCenteredBrush(t *testing.T) {
	c, s := newTestController(t)

	// Brush pixel (5,5) is the center under the offset (-5,-5).
	if err := c.Paint(brushEvent(0.5, 0.5)); err != nil {
		t.Fatalf("Paint(brush) = %v", err)
	}
	if err := c.Paint(canvasEvent(0.25, 0.75, false)); err != nil {
		t.Fatalf("Paint(canvas) = %v", err)
	}

	// at = (100, 300), coords = (95, 295)
	if got, want := c.CanvasPixel(100, 300), Black.Add(Cyan); got != want {
		t.Errorf("CanvasPixel(100,300) = %v, want %v", got, want)
	}
	if got, want := c.CanvasPixel(95, 295), Black.Add(Black); got != want {
		t.Errorf("CanvasPixel(95,295) = %v, want %v", got, want)
	}
	if got := c.CanvasPixel(94, 295); got != Black {
		t.Errorf("CanvasPixel(94,295) = %v, want untouched %v", got, Black)
	}
	if got := c.CanvasPixel(105, 305); got != Black {
		t.Errorf("CanvasPixel(105,305) = %v, want untouched %v", got, Black)
	}

	if s.canvas.Commits() != 2 {
		t.Errorf("canvas commits = %d, want 2", s.canvas.Commits())
	}
	if got := s.canvas.Image().NRGBAAt(100, 300); got != Cyan.NRGBA() {
		t.Errorf("canvas display (100,300) = %v, want %v", got, Cyan.NRGBA())
	}
	if st := c.Stats(); st.Strokes != 1 || st.BrushEdits != 1 || st.Erases != 0 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestPaintEraseRestoresCanvas(t *testing.T) {
	c, _ := newTestController(t)

	for _, uv := range []UV{{0.5, 0.5}, {0.1, 0.9}, {0.3, 0.3}} {
		if err := c.Paint(brushEvent(uv.U, uv.V)); err != nil {
			t.Fatalf("Paint(brush) = %v", err)
		}
	}

	strokes := []UV{{0.5, 0.5}, {0, 0}, {0.999, 0.001}, {1, 1}}
	for _, uv := range strokes {
		if err := c.Paint(canvasEvent(uv.U, uv.V, false)); err != nil {
			t.Fatalf("Paint(draw %v) = %v", uv, err)
		}
	}
	for _, uv := range strokes {
		if err := c.Paint(canvasEvent(uv.U, uv.V, true)); err != nil {
			t.Fatalf("Paint(erase %v) = %v", uv, err)
		}
	}

	requireAll(t, c.Canvas(), Black)
	if st := c.Stats(); st.Strokes != 4 || st.Erases != 4 {
		t.Errorf("Stats() = %+v, want 4 strokes and 4 erases", st)
	}
}

func TestPaintCanvasNearEdgesNeverFails(t *testing.T) {
	c, _ := newTestController(t)
	for _, uv := range []UV{{0, 0}, {1, 1}, {0, 1}, {1, 0}, {-0.2, 0.5}, {0.5, -3}} {
		if err := c.Paint(canvasEvent(uv.U, uv.V, false)); err != nil {
			t.Errorf("Paint(%v) = %v, want nil", uv, err)
		}
	}
}

func TestPaintCanvasInvalidArgument(t *testing.T) {
	tests := []struct {
		name string
		uv   UV
	}{
		{"u past one", UV{U: 1.01, V: 0.5}},
		{"v past one", UV{U: 0.5, V: 2}},
		{"nan", UV{U: math.NaN(), V: 0.5}},
		{"inf", UV{U: math.Inf(1), V: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, s := newTestController(t)
			err := c.Paint(canvasEvent(tt.uv.U, tt.uv.V, false))
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("Paint() error = %v, want %v", err, ErrInvalidArgument)
			}
			if s.canvas.Commits() != 1 {
				t.Errorf("canvas commits = %d, want no commit on error", s.canvas.Commits())
			}
			requireAll(t, c.Canvas(), Black)
		})
	}
}

func TestPaintBrushNaN(t *testing.T) {
	c, _ := newTestController(t)
	if err := c.Paint(brushEvent(0.5, math.NaN())); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Paint() error = %v, want %v", err, ErrInvalidArgument)
	}
}

func TestResetCanvas(t *testing.T) {
	c, s := newTestController(t)

	_ = c.Paint(brushEvent(0.5, 0.5))
	for i := 0; i < 20; i++ {
		_ = c.Paint(canvasEvent(float64(i)/20, 0.5, i%3 == 0))
	}

	c.ResetCanvas()

	requireAll(t, c.Canvas(), Black)
	if got := s.canvas.Image().NRGBAAt(200, 200); got != Black.NRGBA() {
		t.Errorf("canvas display after reset = %v, want %v", got, Black.NRGBA())
	}
	// Brush is untouched by a canvas reset.
	if got := c.BrushPixel(5, 5); got != Cyan {
		t.Errorf("BrushPixel(5,5) = %v, want %v", got, Cyan)
	}
	if c.Stats().Resets != 1 {
		t.Errorf("Stats().Resets = %d, want 1", c.Stats().Resets)
	}
}

func TestResetBrush(t *testing.T) {
	c, s := newTestController(t)
	_ = c.Paint(brushEvent(0.1, 0.1))
	_ = c.Paint(brushEvent(0.9, 0.9))

	commits := s.brush.Commits()
	c.ResetBrush()

	requireAll(t, c.Brush(), Black)
	if s.brush.Commits() != commits+1 {
		t.Errorf("brush commits = %d, want %d", s.brush.Commits(), commits+1)
	}
}

func TestControllerOptions(t *testing.T) {
	bg := RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	c, _ := newTestController(t, WithBackground(bg), WithEditColor(Red))

	requireAll(t, c.Canvas(), bg)
	if err := c.Paint(brushEvent(0, 0)); err != nil {
		t.Fatalf("Paint() = %v", err)
	}
	if got := c.BrushPixel(0, 0); got != Red {
		t.Errorf("BrushPixel(0,0) = %v, want %v", got, Red)
	}

	c.ResetBrush()
	requireAll(t, c.Brush(), bg)
}

func TestControllerCanvasIsCopy(t *testing.T) {
	c, _ := newTestController(t)
	snapshot := c.Canvas()
	snapshot.Fill(White)
	if got := c.CanvasPixel(0, 0); got != Black {
		t.Errorf("modifying Canvas() copy changed the session: %v", got)
	}
}

func TestTargetString(t *testing.T) {
	tests := []struct {
		t    Target
		want string
	}{
		{TargetNone, "none"},
		{TargetCanvas, "canvas"},
		{TargetBrush, "brush"},
		{Target(9), "Target(9)"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("Target(%d).String() = %q, want %q", uint8(tt.t), got, tt.want)
		}
	}
}
