// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads texpaint session settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/texpaint"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("config: invalid value")

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// File is the on-disk session configuration.
// Zero-valued keys keep the values from Default.
type File struct {
	Session    texpaint.Config `toml:"session" yaml:"session"`
	Background string          `toml:"background" yaml:"background"`
	EditColor  string          `toml:"edit_color" yaml:"edit_color"`
	LogLevel   string          `toml:"log_level" yaml:"log_level"`
	Output     Output          `toml:"output" yaml:"output"`
}

// Output controls the PNG snapshots written by the command line tool.
type Output struct {
	Canvas string `toml:"canvas" yaml:"canvas"`
	Brush  string `toml:"brush" yaml:"brush"`
	Scale  int    `toml:"scale" yaml:"scale"`
	Label  string `toml:"label" yaml:"label"`
}

// Default returns the built-in configuration: a 400x400 black canvas, a
// 10x10 brush edited in cyan, and canvas.png at scale 1.
func Default() File {
	return File{
		Session:    texpaint.DefaultConfig(),
		Background: "#000000",
		EditColor:  "#00ffff",
		LogLevel:   "info",
		Output: Output{
			Canvas: "canvas.png",
			Scale:  1,
		},
	}
}

// Load reads and validates the file at path on top of Default.
func Load(path string) (File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	f, err := Parse(format, data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data on top of Default and validates the result.
func Parse(format Format, data []byte) (File, error) {
	f := Default()
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				row, col := derr.Position()
				return File{}, &ParseError{Line: row, Column: col, Message: derr.Error(), Err: err}
			}
			return File{}, &ParseError{Message: err.Error(), Err: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, &ParseError{Message: err.Error(), Err: err}
		}
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks dimensions, colors, scale and log level.
func (f File) Validate() error {
	if err := f.Session.Validate(); err != nil {
		return err
	}
	if f.Session.BrushWidth > f.Session.CanvasWidth || f.Session.BrushHeight > f.Session.CanvasHeight {
		return fmt.Errorf("%w: brush %dx%d is bigger than canvas %dx%d", ErrInvalid,
			f.Session.BrushWidth, f.Session.BrushHeight, f.Session.CanvasWidth, f.Session.CanvasHeight)
	}
	if _, ok := texpaint.Hex(f.Background); !ok {
		return fmt.Errorf("%w: background %q", ErrInvalid, f.Background)
	}
	if _, ok := texpaint.Hex(f.EditColor); !ok {
		return fmt.Errorf("%w: edit_color %q", ErrInvalid, f.EditColor)
	}
	if f.Output.Scale < 1 {
		return fmt.Errorf("%w: output scale %d", ErrInvalid, f.Output.Scale)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.LogLevel)); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, f.LogLevel)
	}
	return nil
}

// Level returns the configured log level, or slog.LevelInfo if it does not parse.
func (f File) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Options returns the controller options for the configured colors.
// Colors that do not parse are left at the controller defaults.
func (f File) Options() []texpaint.Option {
	var opts []texpaint.Option
	if c, ok := texpaint.Hex(f.Background); ok {
		opts = append(opts, texpaint.WithBackground(c))
	}
	if c, ok := texpaint.Hex(f.EditColor); ok {
		opts = append(opts, texpaint.WithEditColor(c))
	}
	return opts
}

// ParseError reports a syntax or type error in a configuration file.
type ParseError struct {
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return "parse error: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
