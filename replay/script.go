// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package replay drives a texpaint.Controller from a recorded stroke script.
//
// A script is a YAML document listing strokes. Each stroke is expanded
// into one paint event per step, interpolated linearly between its from
// and to coordinates, the way a pointer sampled once per frame would
// report them:
//
//	name: signature
//	strokes:
//	  - kind: brush
//	    from: {u: 0.5, v: 0.5}
//	  - kind: draw
//	    from: {u: 0.1, v: 0.5}
//	    to: {u: 0.9, v: 0.5}
//	    steps: 80
//	  - kind: erase
//	    from: {u: 0.5, v: 0.1}
//	    to: {u: 0.5, v: 0.9}
//	    steps: 40
//	  - kind: reset_brush
package replay

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/texpaint"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScript is returned for scripts that cannot be played.
var ErrInvalidScript = errors.New("replay: invalid script")

// Kind is the action a stroke performs.
type Kind uint8

// Stroke kinds.
const (
	KindDraw        Kind = iota // additive stamps on the canvas
	KindErase                   // subtractive stamps on the canvas
	KindBrush                   // pixel edits on the brush
	KindMiss                    // active input that hits no surface
	KindIdle                    // frames with no button held
	KindResetCanvas             // clear the canvas
	KindResetBrush              // clear the brush
)

var kindNames = [...]string{
	KindDraw:        "draw",
	KindErase:       "erase",
	KindBrush:       "brush",
	KindMiss:        "miss",
	KindIdle:        "idle",
	KindResetCanvas: "reset_canvas",
	KindResetBrush:  "reset_brush",
}

// String returns the script name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind returns the kind with the given script name.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown stroke kind %q", ErrInvalidScript, s)
}

// UnmarshalYAML decodes a kind from its script name.
func (k *Kind) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: stroke kind must be a string", ErrInvalidScript, n.Line)
	}
	parsed, err := ParseKind(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes a kind as its script name.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// Point is a normalized surface coordinate.
type Point struct {
	U float64 `yaml:"u"`
	V float64 `yaml:"v"`
}

// Stroke is one pointer gesture.
type Stroke struct {
	Kind Kind `yaml:"kind"`
	From Point `yaml:"from"`
	// To defaults to From.
	To *Point `yaml:"to,omitempty"`
	// Steps is the number of events; 0 means 1. Resets ignore it.
	Steps int `yaml:"steps,omitempty"`
}

// Script is a named list of strokes.
type Script struct {
	Name    string   `yaml:"name"`
	Strokes []Stroke `yaml:"strokes"`
}

// Load reads a script from a YAML file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		if errors.Is(err, ErrInvalidScript) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks stroke kinds and step counts.
func (s *Script) Validate() error {
	for i, st := range s.Strokes {
		if int(st.Kind) >= len(kindNames) {
			return fmt.Errorf("%w: stroke %d: %v", ErrInvalidScript, i, st.Kind)
		}
		if st.Steps < 0 {
			return fmt.Errorf("%w: stroke %d: negative steps %d", ErrInvalidScript, i, st.Steps)
		}
	}
	return nil
}

// Marshal encodes the script as YAML.
func (s *Script) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Action is one controller call produced by a script.
// Event is unused for reset kinds.
type Action struct {
	Kind  Kind
	Event texpaint.PaintEvent
}

// IsReset reports whether the action is a buffer reset.
func (a Action) IsReset() bool {
	return a.Kind == KindResetCanvas || a.Kind == KindResetBrush
}

// Actions expands the script into controller calls.
func (s *Script) Actions() []Action {
	var out []Action
	for _, st := range s.Strokes {
		out = st.appendActions(out)
	}
	return out
}

func (st Stroke) appendActions(out []Action) []Action {
	switch st.Kind {
	case KindResetCanvas, KindResetBrush:
		return append(out, Action{Kind: st.Kind})
	}

	ev := texpaint.PaintEvent{Active: true}
	switch st.Kind {
	case KindDraw:
		ev.Target = texpaint.TargetCanvas
	case KindErase:
		ev.Target = texpaint.TargetCanvas
		ev.Erase = true
	case KindBrush:
		ev.Target = texpaint.TargetBrush
	case KindMiss:
		ev.Target = texpaint.TargetNone
	case KindIdle:
		ev.Active = false
	}

	to := st.From
	if st.To != nil {
		to = *st.To
	}
	steps := max(st.Steps, 1)
	for i := 0; i < steps; i++ {
		var t float64
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		ev.UV = texpaint.UV{
			U: st.From.U + (to.U-st.From.U)*t,
			V: st.From.V + (to.V-st.From.V)*t,
		}
		out = append(out, Action{Kind: st.Kind, Event: ev})
	}
	return out
}
