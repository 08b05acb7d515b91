// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package app wires the board, the CO2 sensor and the display together and
// runs the two polling tasks until the context is cancelled or a task
// fails. There is no recovery path: the first fault tears the whole
// process down after a single cleanup pass.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/njord-labs/co2monitor/internal/console"
	"github.com/njord-labs/co2monitor/internal/dashboard"
	"github.com/njord-labs/co2monitor/internal/metrics"
	"github.com/njord-labs/co2monitor/internal/scd40"
)

const (
	// Display pump cadence, fast enough for perceived responsiveness.
	uiTick = 20 * time.Millisecond
	// Sensor poll cadence. The sensor itself produces a reading roughly
	// every 5 s in periodic mode; polls in between are skipped.
	sensorPoll = 1000 * time.Millisecond
)

// Options bind the daemon to its environment. The polling cadences are
// compile-time constants, not options.
type Options struct {
	// I2CBus is the i2creg bus name. Empty selects the first available bus.
	I2CBus string
	// Display selects the backend: "console" (default) or "ssd1306".
	Display string
	// MetricsAddr serves Prometheus metrics when non-empty.
	MetricsAddr string
}

// Run boots the monitor and blocks until ctx is cancelled or a task fails.
func Run(ctx context.Context, opts Options) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}

	bus, err := i2creg.Open(opts.I2CBus)
	if err != nil {
		// Most common cause on a fresh board: the I2C peripheral is not
		// enabled. Point at the fix instead of failing opaquely.
		return fmt.Errorf("open i2c bus %q: %w (enable the I2C peripheral in the board config, or update the firmware)", opts.I2CBus, err)
	}
	defer bus.Close()

	drawer, err := newDrawer(opts.Display, bus)
	if err != nil {
		return err
	}
	dash, err := dashboard.New(drawer)
	if err != nil {
		return err
	}
	defer func() {
		if err := dash.Close(); err != nil {
			log.Errorf("display halt: %v", err)
		}
	}()
	dash.SetText(dashboard.Address, localAddr())

	dev, err := scd40.NewI2C(bus, scd40.SensorAddress)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	// Stop any measurement left running from a previous boot; the sensor
	// rejects most commands while sensing.
	if err := dev.StopPeriodicMeasurement(); err != nil {
		return fmt.Errorf("stop periodic measurement: %w", err)
	}
	if sn, err := dev.SerialNumber(); err == nil {
		log.Infof("sensor serial 0x%012x", sn)
	}
	if err := dev.StartPeriodicMeasurement(); err != nil {
		return fmt.Errorf("start periodic measurement: %w", err)
	}
	defer func() { _ = dev.Halt() }()

	g, ctx := errgroup.WithContext(ctx)

	var exp *metrics.Exporter
	if opts.MetricsAddr != "" {
		exp = metrics.New()
		addr := opts.MetricsAddr
		g.Go(func() error { return exp.Serve(ctx, addr) })
	}

	s := &sampler{dev: dev, dash: dash, metrics: exp, log: log.StandardLogger()}
	p := &pump{dash: dash, log: log.StandardLogger()}
	g.Go(func() error { return s.run(ctx) })
	g.Go(func() error { return p.run(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutting down")
	return nil
}

func newDrawer(name string, bus i2c.Bus) (display.Drawer, error) {
	switch name {
	case "", "console":
		return console.New(&console.Opts{}), nil
	case "ssd1306":
		drawer, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
		if err != nil {
			return nil, fmt.Errorf("init ssd1306: %w", err)
		}
		return drawer, nil
	default:
		return nil, fmt.Errorf("unknown display backend %q", name)
	}
}

// localAddr returns the board's first non-loopback IPv4 address for the
// address label, or the unspecified address when the network is down.
func localAddr() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "0.0.0.0"
	}
	for _, a := range addrs {
		ipn, ok := a.(*net.IPNet)
		if !ok || ipn.IP.IsLoopback() {
			continue
		}
		if v4 := ipn.IP.To4(); v4 != nil {
			return v4.String()
		}
	}
	return "0.0.0.0"
}
