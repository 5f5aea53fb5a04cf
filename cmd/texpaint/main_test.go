package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestComposeScales(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, B: 255, A: 255})

	out := compose(src, 3, "")
	if got := out.Bounds(); got != image.Rect(0, 0, 6, 6) {
		t.Fatalf("bounds = %v, want 6x6", got)
	}
	for _, p := range []image.Point{{3, 0}, {5, 2}, {4, 1}} {
		if got := out.NRGBAAt(p.X, p.Y); got != (color.NRGBA{G: 255, B: 255, A: 255}) {
			t.Errorf("pixel %v = %v, want cyan", p, got)
		}
	}
	if got := out.NRGBAAt(2, 2); got.G != 0 {
		t.Errorf("pixel (2,2) = %v, want untouched", got)
	}
}

func TestComposeCaption(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 20))
	out := compose(src, 1, "hello")

	if got := out.Bounds().Dy(); got != 20+captionHeight {
		t.Fatalf("height = %d, want %d", got, 20+captionHeight)
	}
	var lit int
	for y := 20; y < out.Bounds().Dy(); y++ {
		for x := 0; x < 100; x++ {
			if out.NRGBAAt(x, y).R == 255 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("caption strip has no text pixels")
	}
}

func TestRunDemo(t *testing.T) {
	dir := t.TempDir()
	canvasPath := filepath.Join(dir, "canvas.png")
	brushPath := filepath.Join(dir, "brush.png")

	err := run(options{output: canvasPath, brushOutput: brushPath, scale: 2, label: "demo"})
	if err != nil {
		t.Fatalf("run() = %v", err)
	}

	for path, want := range map[string]image.Rectangle{
		canvasPath: image.Rect(0, 0, 800, 800+captionHeight),
		brushPath:  image.Rect(0, 0, 20, 20),
	} {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Open(%s) = %v", path, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("png.Decode(%s) = %v", path, err)
		}
		if img.Bounds() != want {
			t.Errorf("%s bounds = %v, want %v", filepath.Base(path), img.Bounds(), want)
		}
	}
}

func TestRunMissingScript(t *testing.T) {
	err := run(options{scriptPath: filepath.Join(t.TempDir(), "missing.yaml"), output: filepath.Join(t.TempDir(), "c.png")})
	if err == nil {
		t.Error("run() with missing script = nil, want error")
	}
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "session.toml")
	out := filepath.Join(dir, "small.png")
	cfg := "[session]\ncanvas_width = 64\ncanvas_height = 32\nbrush_width = 4\nbrush_height = 4\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := run(options{configPath: cfgPath, output: out}); err != nil {
		t.Fatalf("run() = %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfgImg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfgImg.Width != 64 || cfgImg.Height != 32 {
		t.Errorf("output size = %dx%d, want 64x32", cfgImg.Width, cfgImg.Height)
	}
}
