// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package airquality maps a CO2 concentration to one of five named air
// quality bands. The thresholds follow the commonly cited indoor air
// quality guidance for occupied rooms.
package airquality

import (
	"image/color"
	"math"
)

// Band is a named air quality level covering CO2 concentrations in the
// half-open interval [MinPPM, MaxPPM).
type Band struct {
	Name        string
	MinPPM      float64
	MaxPPM      float64
	Color       color.RGBA
	Description string
}

func rgb(hex uint32) color.RGBA {
	return color.RGBA{
		R: uint8(hex >> 16),
		G: uint8(hex >> 8),
		B: uint8(hex),
		A: 0xff,
	}
}

// Bands lists the air quality levels in ascending ppm order. The table
// partitions [0, +inf): every non-negative reading falls in exactly one
// band. Excellent and Good share the same green on purpose so that the
// display only changes color once the air actually needs attention.
var Bands = [...]Band{
	{
		Name:        "Excellent",
		MinPPM:      0,
		MaxPPM:      500,
		Color:       rgb(0x43c44f),
		Description: "Typical outdoor CO2 levels.",
	},
	{
		Name:        "Good",
		MinPPM:      500,
		MaxPPM:      700,
		Color:       rgb(0x43c44f),
		Description: "Normal indoor air quality.",
	},
	{
		Name:        "Acceptable",
		MinPPM:      700,
		MaxPPM:      1000,
		Color:       rgb(0xd6c831),
		Description: "Acceptable indoor air quality; minor discomfort possible.",
	},
	{
		Name:        "Poor",
		MinPPM:      1000,
		MaxPPM:      1500,
		Color:       rgb(0xd68131),
		Description: "Reduced concentration and drowsiness. Ventilation recommended.",
	},
	{
		Name:        "Bad",
		MinPPM:      1500,
		MaxPPM:      math.Inf(1),
		Color:       rgb(0xd63131),
		Description: "Ventilation required. Headaches, sleepiness, and stale air.",
	},
}

// Classify returns the first band whose interval contains ppm. ok is false
// for readings below zero, which no band covers; callers are expected to
// skip rendering such a reading rather than guess a band for it.
func Classify(ppm float64) (Band, bool) {
	for _, b := range Bands {
		if ppm >= b.MinPPM && ppm < b.MaxPPM {
			return b, true
		}
	}
	return Band{}, false
}
