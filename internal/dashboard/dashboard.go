// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dashboard renders the monitor's fixed label layout to any
// display.Drawer. Labels are rasterized with fogleman/gg using the Go
// Regular face and flushed as one frame; when the backend's bounds differ
// from the 320x240 layout canvas the frame is scaled to fit.
package dashboard

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
)

// Layout canvas size in pixels. Label positions below assume a landscape
// 320x240 panel.
const (
	Width  = 320
	Height = 240
)

// LabelID identifies one of the fixed dashboard labels.
type LabelID int

const (
	// Address shows the board's network address.
	Address LabelID = iota
	// PPM shows the CO2 concentration.
	PPM
	// Level shows the air quality band name.
	Level
	// Temperature shows degrees Celsius.
	Temperature
	// Humidity shows relative humidity.
	Humidity

	labelCount
)

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Fixed position, face size and placeholder for each label.
var layout = [labelCount]struct {
	x, y float64
	size float64
	text string
}{
	Address:     {x: 9, y: 217, size: 14, text: "255.255.255.255"},
	PPM:         {x: 140, y: 106, size: 24, text: "ppm"},
	Level:       {x: 143, y: 132, size: 16, text: "level"},
	Temperature: {x: 140, y: 160, size: 16, text: "temperature"},
	Humidity:    {x: 140, y: 186, size: 16, text: "humidity"},
}

type label struct {
	text  string
	color color.RGBA
	face  font.Face
}

// Dashboard owns the label state and the backend it is flushed to. SetText
// and SetTextColor may be called from a different goroutine than Flush;
// label state is guarded by a mutex.
type Dashboard struct {
	drawer display.Drawer
	dc     *gg.Context

	mu     sync.Mutex
	labels [labelCount]label
	dirty  bool

	halt sync.Once
}

// New builds the label set with placeholder text and binds it to drawer.
// Nothing is written to the backend until the first Flush.
func New(drawer display.Drawer) (*Dashboard, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("dashboard: parse font: %w", err)
	}
	d := &Dashboard{
		drawer: drawer,
		dc:     gg.NewContext(Width, Height),
		dirty:  true,
	}
	for id := range d.labels {
		d.labels[id] = label{
			text:  layout[id].text,
			color: white,
			face:  truetype.NewFace(f, &truetype.Options{Size: layout[id].size}),
		}
	}
	return d, nil
}

// SetText replaces the label's text.
func (d *Dashboard) SetText(id LabelID, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.labels[id].text != text {
		d.labels[id].text = text
		d.dirty = true
	}
}

// SetTextColor replaces the label's text color.
func (d *Dashboard) SetTextColor(id LabelID, c color.RGBA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.labels[id].color != c {
		d.labels[id].color = c
		d.dirty = true
	}
}

// Text returns the label's current text.
func (d *Dashboard) Text(id LabelID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.labels[id].text
}

// TextColor returns the label's current text color.
func (d *Dashboard) TextColor(id LabelID) color.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.labels[id].color
}

// Flush rasterizes the labels on a black background and writes the frame to
// the backend. Frames with no label change since the previous flush are
// skipped so the pump can tick at a high rate without rewriting the panel.
func (d *Dashboard) Flush() error {
	d.mu.Lock()
	if !d.dirty {
		d.mu.Unlock()
		return nil
	}
	labels := d.labels
	d.dirty = false
	d.mu.Unlock()

	d.dc.SetRGB(0, 0, 0)
	d.dc.Clear()
	for id := range labels {
		l := &labels[id]
		d.dc.SetFontFace(l.face)
		d.dc.SetColor(l.color)
		// Layout y coordinates are label tops; gg draws from the baseline.
		d.dc.DrawString(l.text, layout[id].x, layout[id].y+layout[id].size)
	}

	var frame image.Image = d.dc.Image()
	bounds := d.drawer.Bounds()
	if !bounds.Eq(frame.Bounds()) {
		scaled := image.NewRGBA(bounds)
		draw.ApproxBiLinear.Scale(scaled, bounds, frame, frame.Bounds(), draw.Src, nil)
		frame = scaled
	}
	if err := d.drawer.Draw(bounds, frame, image.Point{}); err != nil {
		return fmt.Errorf("dashboard: flush: %w", err)
	}
	return nil
}

// Close halts the backend. Safe to call more than once; only the first call
// reaches the hardware.
func (d *Dashboard) Close() error {
	var err error
	d.halt.Do(func() {
		err = d.drawer.Halt()
	})
	return err
}
