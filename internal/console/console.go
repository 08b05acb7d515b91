// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package console implements a display.Drawer that renders frames to the
// terminal using ANSI color codes.
//
// Useful for running the monitor on a desk machine while the real panel is
// still in the mail: each frame is sampled down to a grid of colored
// character cells.
package console

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// Emulated panel size in pixels. Defaults to 320x240.
	Width  int
	Height int
	// Terminal cell grid the frame is sampled into. Defaults to 80x24.
	Cols int
	Rows int
	// Output writer. Defaults to a colorable stdout.
	Writer  io.Writer
	Palette *ansi256.Palette
}

// Dev is a small panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	width   int
	height  int
	cols    int
	rows    int
	palette ansi256.Palette

	buf   bytes.Buffer
	first bool
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	d := &Dev{
		w:      opts.Writer,
		width:  opts.Width,
		height: opts.Height,
		cols:   opts.Cols,
		rows:   opts.Rows,
		first:  true,
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if d.width == 0 {
		d.width = 320
	}
	if d.height == 0 {
		d.height = 240
	}
	if d.cols == 0 {
		d.cols = 80
	}
	if d.rows == 0 {
		d.rows = 24
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d.palette = *p
	return d
}

func (d *Dev) String() string {
	return "console"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell is not left with a stale
// color state.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Draw implements display.Drawer. The source region is sampled at cell
// centers and emitted as one colored block per terminal cell.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	// This code is designed to minimize the amount of memory allocated per
	// call.
	d.buf.Reset()
	if d.first {
		_, _ = d.buf.WriteString("\033[2J")
		d.first = false
	}
	_, _ = d.buf.WriteString("\033[H\033[0m")
	for row := 0; row < d.rows; row++ {
		sY := sp.Y + r.Min.Y + (2*row+1)*r.Dy()/(2*d.rows)
		for col := 0; col < d.cols; col++ {
			sX := sp.X + r.Min.X + (2*col+1)*r.Dx()/(2*d.cols)
			r16, g16, b16, _ := src.At(sX, sY).RGBA()
			c := color.NRGBA{byte(r16 >> 8), byte(g16 >> 8), byte(b16 >> 8), 255}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
