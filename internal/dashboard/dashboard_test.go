// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dashboard

import (
	"image"
	"image/color"
	"testing"
)

// fakeDrawer records frames pushed to it.
type fakeDrawer struct {
	bounds image.Rectangle
	draws  int
	halts  int
	last   image.Image
}

func (f *fakeDrawer) String() string           { return "fake" }
func (f *fakeDrawer) Halt() error              { f.halts++; return nil }
func (f *fakeDrawer) ColorModel() color.Model  { return color.RGBAModel }
func (f *fakeDrawer) Bounds() image.Rectangle  { return f.bounds }
func (f *fakeDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	f.draws++
	f.last = src
	return nil
}

func newFake() *fakeDrawer {
	return &fakeDrawer{bounds: image.Rect(0, 0, Width, Height)}
}

func TestFlushDirtyTracking(t *testing.T) {
	fake := newFake()
	d, err := New(fake)
	if err != nil {
		t.Fatal(err)
	}

	// A fresh dashboard carries placeholder text and flushes once.
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if fake.draws != 1 {
		t.Fatalf("draws = %d after first flush, expected 1", fake.draws)
	}

	// No label changed: the frame must not be rewritten.
	for i := 0; i < 3; i++ {
		if err := d.Flush(); err != nil {
			t.Fatal(err)
		}
	}
	if fake.draws != 1 {
		t.Errorf("draws = %d after idle flushes, expected 1", fake.draws)
	}

	d.SetText(PPM, "556 ppm")
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if fake.draws != 2 {
		t.Errorf("draws = %d after text change, expected 2", fake.draws)
	}

	// Setting the same text again is not a change.
	d.SetText(PPM, "556 ppm")
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if fake.draws != 2 {
		t.Errorf("draws = %d after no-op set, expected 2", fake.draws)
	}
}

func TestFlushRendersText(t *testing.T) {
	fake := newFake()
	d, err := New(fake)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}

	lit := 0
	b := fake.last.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := fake.last.At(x, y).RGBA()
			if r|g|bl != 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("flushed frame is entirely black, expected rendered label glyphs")
	}
}

func TestFlushScalesToBackend(t *testing.T) {
	fake := &fakeDrawer{bounds: image.Rect(0, 0, 128, 64)}
	d, err := New(fake)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if fake.last == nil {
		t.Fatal("no frame pushed")
	}
	if !fake.last.Bounds().Eq(fake.bounds) {
		t.Errorf("frame bounds %v, expected backend bounds %v", fake.last.Bounds(), fake.bounds)
	}
}

func TestTextState(t *testing.T) {
	d, err := New(newFake())
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Text(Address); got != "255.255.255.255" {
		t.Errorf("initial address text %q", got)
	}
	green := color.RGBA{R: 0x43, G: 0xc4, B: 0x4f, A: 0xff}
	d.SetText(Level, "Good")
	d.SetTextColor(Level, green)
	if got := d.Text(Level); got != "Good" {
		t.Errorf("level text = %q, expected Good", got)
	}
	if got := d.TextColor(Level); got != green {
		t.Errorf("level color = %v, expected %v", got, green)
	}
}

func TestCloseHaltsOnce(t *testing.T) {
	fake := newFake()
	d, err := New(fake)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if fake.halts != 1 {
		t.Errorf("halts = %d, expected exactly 1", fake.halts)
	}
}
