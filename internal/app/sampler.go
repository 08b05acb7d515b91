// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"

	"github.com/njord-labs/co2monitor/internal/airquality"
	"github.com/njord-labs/co2monitor/internal/dashboard"
	"github.com/njord-labs/co2monitor/internal/metrics"
	"github.com/njord-labs/co2monitor/internal/scd40"
)

// sensor is the subset of the driver the sampler consumes.
type sensor interface {
	Poll() (scd40.Reading, bool, error)
}

// sampler owns the sensor handle and writes readings into the dashboard
// labels. Nothing else touches the sensor once the task is running.
type sampler struct {
	dev     sensor
	dash    *dashboard.Dashboard
	metrics *metrics.Exporter
	log     log.FieldLogger
}

func (s *sampler) run(ctx context.Context) error {
	s.log.Info("CO2 task started")
	ticker := time.NewTicker(sensorPoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := s.poll(); err != nil {
			return err
		}
	}
}

// poll performs one sampling iteration. A not-ready sensor skips the
// iteration silently; a driver fault is returned and terminates the task.
func (s *sampler) poll() error {
	r, ok, err := s.dev.Poll()
	if err != nil {
		return fmt.Errorf("sensor poll: %w", err)
	}
	if !ok {
		return nil
	}

	band, matched := airquality.Classify(float64(r.CO2))
	if !matched {
		s.log.Warnf("unclassifiable reading %d ppm, skipping render", int(r.CO2))
		return nil
	}

	tempC := r.Temperature.Celsius()
	humPct := float64(r.Humidity) / float64(physic.PercentRH)
	s.log.Infof("CO2: %d ppm, Level: %s", int(r.CO2), band.Name)

	s.dash.SetText(dashboard.PPM, fmt.Sprintf("%d ppm", int(r.CO2)))
	s.dash.SetTextColor(dashboard.PPM, band.Color)
	s.dash.SetText(dashboard.Level, band.Name)
	s.dash.SetTextColor(dashboard.Level, band.Color)
	s.dash.SetText(dashboard.Temperature, fmt.Sprintf("%.1f °C", tempC))
	s.dash.SetTextColor(dashboard.Temperature, band.Color)
	s.dash.SetText(dashboard.Humidity, fmt.Sprintf("%.1f %%", humPct))
	s.dash.SetTextColor(dashboard.Humidity, band.Color)

	if s.metrics != nil {
		s.metrics.Observe(float64(r.CO2), tempC, humPct)
	}
	return nil
}
