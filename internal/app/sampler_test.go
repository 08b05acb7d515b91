// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import (
	"errors"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"

	"github.com/njord-labs/co2monitor/internal/console"
	"github.com/njord-labs/co2monitor/internal/dashboard"
	"github.com/njord-labs/co2monitor/internal/scd40"
)

type pollOutcome struct {
	r   scd40.Reading
	ok  bool
	err error
}

// fakeSensor replays scripted poll outcomes, holding the last one forever.
type fakeSensor struct {
	outcomes []pollOutcome
}

func (f *fakeSensor) Poll() (scd40.Reading, bool, error) {
	o := f.outcomes[0]
	if len(f.outcomes) > 1 {
		f.outcomes = f.outcomes[1:]
	}
	return o.r, o.ok, o.err
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func testDashboard(t *testing.T) *dashboard.Dashboard {
	t.Helper()
	dash, err := dashboard.New(console.New(&console.Opts{Writer: io.Discard}))
	if err != nil {
		t.Fatal(err)
	}
	return dash
}

func reading(ppm int, tempC, humPct float64) scd40.Reading {
	return scd40.Reading{
		CO2:         scd40.PPM(ppm),
		Temperature: physic.ZeroCelsius + physic.Temperature(tempC*float64(physic.Celsius)),
		Humidity:    physic.RelativeHumidity(humPct * float64(physic.PercentRH)),
	}
}

func TestSamplerSkipsNotReady(t *testing.T) {
	dash := testDashboard(t)
	s := &sampler{
		dev: &fakeSensor{outcomes: []pollOutcome{
			{ok: false},
			{r: reading(556, 25.4, 30.1), ok: true},
			{r: reading(720, 25.5, 30.0), ok: true},
		}},
		dash: dash,
		log:  quietLogger(),
	}

	// Not ready: no label may change.
	if err := s.poll(); err != nil {
		t.Fatal(err)
	}
	if got := dash.Text(dashboard.PPM); got != "ppm" {
		t.Fatalf("ppm label = %q after not-ready poll, expected placeholder", got)
	}

	// Ready: one consistent write, all labels in the band color.
	if err := s.poll(); err != nil {
		t.Fatal(err)
	}
	if got := dash.Text(dashboard.PPM); got != "556 ppm" {
		t.Errorf("ppm label = %q, expected \"556 ppm\"", got)
	}
	if got := dash.Text(dashboard.Level); got != "Good" {
		t.Errorf("level label = %q, expected Good", got)
	}
	if got := dash.Text(dashboard.Temperature); got != "25.4 °C" {
		t.Errorf("temperature label = %q", got)
	}
	if got := dash.Text(dashboard.Humidity); got != "30.1 %" {
		t.Errorf("humidity label = %q", got)
	}
	green := dash.TextColor(dashboard.PPM)
	for _, id := range []dashboard.LabelID{dashboard.Level, dashboard.Temperature, dashboard.Humidity} {
		if c := dash.TextColor(id); c != green {
			t.Errorf("label %d color %v differs from band color %v", id, c, green)
		}
	}

	// Next band: the color changes with the level.
	if err := s.poll(); err != nil {
		t.Fatal(err)
	}
	if got := dash.Text(dashboard.Level); got != "Acceptable" {
		t.Errorf("level label = %q, expected Acceptable", got)
	}
	if c := dash.TextColor(dashboard.Level); c == green {
		t.Error("Acceptable renders in the same color as Good")
	}
}

func TestSamplerDriverFault(t *testing.T) {
	fault := errors.New("i2c: bus error")
	s := &sampler{
		dev:  &fakeSensor{outcomes: []pollOutcome{{err: fault}}},
		dash: testDashboard(t),
		log:  quietLogger(),
	}
	err := s.poll()
	if !errors.Is(err, fault) {
		t.Fatalf("poll() = %v, expected wrapped driver fault", err)
	}
}

func TestSamplerUnclassifiableReading(t *testing.T) {
	dash := testDashboard(t)
	s := &sampler{
		dev:  &fakeSensor{outcomes: []pollOutcome{{r: reading(-5, 20, 40), ok: true}}},
		dash: dash,
		log:  quietLogger(),
	}
	if err := s.poll(); err != nil {
		t.Fatal(err)
	}
	if got := dash.Text(dashboard.Level); got != "level" {
		t.Errorf("level label = %q after unclassifiable reading, expected placeholder", got)
	}
}
