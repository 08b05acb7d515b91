// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// flusher is the subset of the dashboard the pump consumes.
type flusher interface {
	Flush() error
}

// pump keeps the display fresh by flushing the dashboard at the UI tick.
// It holds no application state of its own.
type pump struct {
	dash flusher
	log  log.FieldLogger
}

func (p *pump) run(ctx context.Context) error {
	p.log.Info("UI task started")
	ticker := time.NewTicker(uiTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := p.dash.Flush(); err != nil {
			return fmt.Errorf("display flush: %w", err)
		}
	}
}
