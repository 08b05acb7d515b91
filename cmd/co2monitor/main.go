// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// co2monitor polls an SCD40 CO2 sensor over I²C and renders the readings,
// color-coded by air quality level, on a small display.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/njord-labs/co2monitor/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	i2cName := flag.String("i2c", "", "I2C bus name (empty selects the first available bus)")
	displayName := flag.String("display", "console", "display backend: console or ssd1306")
	metricsAddr := flag.String("listen-address", "", "serve Prometheus metrics on this address (empty disables)")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		I2CBus:      *i2cName,
		Display:     *displayName,
		MetricsAddr: *metricsAddr,
	}
	if err := app.Run(ctx, opts); err != nil {
		log.Errorf("co2monitor: %v", err)
		return 1
	}
	return 0
}
