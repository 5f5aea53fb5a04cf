// Command texpaint replays a stroke script on a painting session and
// writes the canvas and brush as PNG files.
//
// Usage:
//
//	texpaint [-config session.toml] [-script strokes.yaml] [-output canvas.png]
//	         [-brush-output brush.png] [-scale 2] [-label text] [-v]
//
// Without -script a built-in demo is played.
//
// GPU compositing is compiled in by default but only dispatches for brushes
// of at least 64x64 pixels; smaller sessions composite on the CPU. Build
// with -tags nogpu to leave the GPU backend out entirely.
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/texpaint"
	"github.com/gogpu/texpaint/internal/config"
	"github.com/gogpu/texpaint/replay"
)

//go:embed demo.yaml
var demoScript []byte

func main() {
	var (
		configPath  = flag.String("config", "", "session config file (.toml, .yaml)")
		scriptPath  = flag.String("script", "", "stroke script (.yaml); built-in demo if empty")
		output      = flag.String("output", "", "canvas PNG output (overrides config)")
		brushOutput = flag.String("brush-output", "", "brush PNG output (overrides config)")
		scale       = flag.Int("scale", 0, "integer upscale factor (overrides config)")
		label       = flag.String("label", "", "caption drawn on the canvas output")
		interval    = flag.Duration("interval", 0, "delay between script actions")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if err := run(options{
		configPath:  *configPath,
		scriptPath:  *scriptPath,
		output:      *output,
		brushOutput: *brushOutput,
		scale:       *scale,
		label:       *label,
		interval:    *interval,
		verbose:     *verbose,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "texpaint: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	scriptPath  string
	output      string
	brushOutput string
	scale       int
	label       string
	interval    time.Duration
	verbose     bool
}

func run(o options) error {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
	}
	applyOverrides(&cfg, o)

	level := cfg.Level()
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	texpaint.SetLogger(logger)
	defer texpaint.SetLogger(nil)

	script, err := loadScript(o.scriptPath)
	if err != nil {
		return err
	}

	canvasView := texpaint.NewImageSink()
	brushView := texpaint.NewImageSink()
	opts := append(cfg.Options(), texpaint.WithCanvasSink(canvasView), texpaint.WithBrushSink(brushView))
	c, err := texpaint.NewController(cfg.Session, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	player := &replay.Player{Interval: o.interval}
	n, err := player.Run(ctx, script, c)
	if err != nil {
		return err
	}

	if acc := texpaint.Accelerator(); acc != nil {
		logger.Debug("accelerator", "name", acc.Name())
	}
	st := c.Stats()
	logger.Info("script played",
		"script", script.Name,
		"actions", n,
		"strokes", st.Strokes,
		"erases", st.Erases,
		"brush_edits", st.BrushEdits,
		"resets", st.Resets)

	if err := writeSnapshot(cfg.Output.Canvas, canvasView.Image(), cfg.Output.Scale, cfg.Output.Label); err != nil {
		return err
	}
	logger.Info("canvas saved", "path", cfg.Output.Canvas)

	if cfg.Output.Brush != "" {
		if err := writeSnapshot(cfg.Output.Brush, brushView.Image(), cfg.Output.Scale, ""); err != nil {
			return err
		}
		logger.Info("brush saved", "path", cfg.Output.Brush)
	}
	return nil
}

func applyOverrides(cfg *config.File, o options) {
	if o.output != "" {
		cfg.Output.Canvas = o.output
	}
	if o.brushOutput != "" {
		cfg.Output.Brush = o.brushOutput
	}
	if o.scale > 0 {
		cfg.Output.Scale = o.scale
	}
	if o.label != "" {
		cfg.Output.Label = o.label
	}
}

func loadScript(path string) (*replay.Script, error) {
	if path == "" {
		return replay.Parse(demoScript)
	}
	return replay.Load(path)
}
