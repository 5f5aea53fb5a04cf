// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/texpaint"
)

// Player feeds script actions to a controller.
type Player struct {
	// Interval paces actions like frames. Zero plays as fast as possible.
	Interval time.Duration

	// OnAction, if set, is called after each action is applied.
	OnAction func(i int, a Action)
}

// Run applies every action of s to c in order. It stops at the first
// controller error or when ctx is done, returning the number of actions
// applied.
func (p *Player) Run(ctx context.Context, s *Script, c *texpaint.Controller) (int, error) {
	actions := s.Actions()
	log := texpaint.Logger().With("script", s.Name)
	log.Debug("replay: start", "actions", len(actions))

	var tick <-chan time.Time
	if p.Interval > 0 {
		ticker := time.NewTicker(p.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-tick:
			}
		}

		if err := apply(c, a); err != nil {
			return i, fmt.Errorf("replay: action %d (%v): %w", i, a.Kind, err)
		}
		if p.OnAction != nil {
			p.OnAction(i, a)
		}
	}

	log.Debug("replay: done", "stats", fmt.Sprintf("%+v", c.Stats()))
	return len(actions), nil
}

func apply(c *texpaint.Controller, a Action) error {
	switch a.Kind {
	case KindResetCanvas:
		c.ResetCanvas()
		return nil
	case KindResetBrush:
		c.ResetBrush()
		return nil
	default:
		return c.Paint(a.Event)
	}
}
