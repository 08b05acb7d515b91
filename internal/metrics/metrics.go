// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package metrics exposes the latest sensor readings as Prometheus gauges.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter holds one gauge per measured quantity.
type Exporter struct {
	reg         *prometheus.Registry
	co2         prometheus.Gauge
	temperature prometheus.Gauge
	humidity    prometheus.Gauge
}

func newGauge(name string, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
}

// New creates an Exporter with its own registry.
func New() *Exporter {
	e := &Exporter{
		reg:         prometheus.NewRegistry(),
		co2:         newGauge("air_co2_ppm", "Air Carbon Dioxide level (units: ppm)"),
		temperature: newGauge("air_temperature_celsius", "Air Temperature (units: degrees Celsius)"),
		humidity:    newGauge("air_humidity_percent", "Humidity (units: % of relative Humidity)"),
	}
	e.reg.MustRegister(e.co2, e.temperature, e.humidity)
	return e
}

// Observe records one sensor reading.
func (e *Exporter) Observe(ppm, temperatureC, humidityPct float64) {
	e.co2.Set(ppm)
	e.temperature.Set(temperatureC)
	e.humidity.Set(humidityPct)
}

// Serve exposes the registered metrics over HTTP until ctx is cancelled.
func (e *Exporter) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.reg, promhttp.HandlerOpts{
		// Opt into OpenMetrics to support exemplars.
		EnableOpenMetrics: true,
	}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
