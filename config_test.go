package texpaint

import (
	"errors"
	"image"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.CanvasWidth != 400 || cfg.CanvasHeight != 400 {
		t.Errorf("canvas = %dx%d, want 400x400", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.BrushWidth != 10 || cfg.BrushHeight != 10 {
		t.Errorf("brush = %dx%d, want 10x10", cfg.BrushWidth, cfg.BrushHeight)
	}
}

func TestConfigBrushOffset(t *testing.T) {
	tests := []struct {
		bw, bh int
		want   image.Point
	}{
		{10, 10, image.Pt(-5, -5)},
		{9, 9, image.Pt(-4, -4)},
		{1, 1, image.Pt(0, 0)},
		{4, 7, image.Pt(-2, -3)},
	}
	for _, tt := range tests {
		cfg := Config{CanvasWidth: 100, CanvasHeight: 100, BrushWidth: tt.bw, BrushHeight: tt.bh}
		if got := cfg.BrushOffset(); got != tt.want {
			t.Errorf("BrushOffset(%dx%d) = %v, want %v", tt.bw, tt.bh, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"zero canvas height", Config{CanvasWidth: 1, BrushWidth: 1, BrushHeight: 1}, false},
		{"zero brush", Config{CanvasWidth: 1, CanvasHeight: 1}, false},
		{"minimal", Config{CanvasWidth: 1, CanvasHeight: 1, BrushWidth: 1, BrushHeight: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("Validate() = %v, want %v", err, ErrInvalidDimensions)
			}
		})
	}
}
