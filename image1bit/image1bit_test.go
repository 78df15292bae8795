// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package image1bit

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestNewVerticalLSB(t *testing.T) {
	img := NewVerticalLSB(image.Rect(0, 0, 128, 64))
	if len(img.Pix) != 1024 {
		t.Fatalf("len(Pix) = %d, want 1024", len(img.Pix))
	}
	if img.Stride != 128 {
		t.Fatalf("Stride = %d, want 128", img.Stride)
	}
	if img.Pages() != 8 {
		t.Fatalf("Pages() = %d, want 8", img.Pages())
	}
	if !bytes.Equal(img.Pix, make([]byte, 1024)) {
		t.Fatal("new image is not blank")
	}
}

func TestNewVerticalLSB_empty(t *testing.T) {
	img := NewVerticalLSB(image.Rectangle{})
	if img.Pix != nil {
		t.Fatal("expected no memory")
	}
	// Operations on an image without memory are ignored.
	img.SetBit(0, 0, On)
	img.Clear()
	if img.BitAt(0, 0) != Off {
		t.Fatal("expected Off")
	}
}

func TestNewVerticalLSB_badHeight(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewVerticalLSB(image.Rect(0, 0, 128, 60))
}

func TestSetBit_layout(t *testing.T) {
	for _, tc := range []struct {
		name  string
		x, y  int
		index int
		mask  byte
		w, h  int
	}{
		{name: "origin", x: 0, y: 0, index: 0, mask: 0x01, w: 128, h: 64},
		{name: "bottom of first page", x: 0, y: 7, index: 0, mask: 0x80, w: 128, h: 64},
		{name: "second page", x: 0, y: 8, index: 128, mask: 0x01, w: 128, h: 64},
		{name: "last pixel", x: 127, y: 63, index: 1023, mask: 0x80, w: 128, h: 64},
		{name: "narrow", x: 3, y: 21, index: 3 + 2*32, mask: 1 << 5, w: 32, h: 32},
	} {
		t.Run(tc.name, func(t *testing.T) {
			img := NewVerticalLSB(image.Rect(0, 0, tc.w, tc.h))
			img.SetBit(tc.x, tc.y, On)
			want := make([]byte, tc.w*tc.h/8)
			want[tc.index] = tc.mask
			if !bytes.Equal(img.Pix, want) {
				t.Fatalf("SetBit(%d, %d) wrote the wrong bit", tc.x, tc.y)
			}
			if img.BitAt(tc.x, tc.y) != On {
				t.Fatalf("BitAt(%d, %d) = Off", tc.x, tc.y)
			}
		})
	}
}

func TestSetBit_samePositionInPage(t *testing.T) {
	img := NewVerticalLSB(image.Rect(0, 0, 128, 64))
	for y := 0; y < 8; y++ {
		i1, m1 := img.PixOffset(5, y)
		for y2 := y + 8; y2 < 64; y2 += 8 {
			i2, m2 := img.PixOffset(5, y2)
			if i1 == i2 {
				t.Fatalf("y=%d and y=%d share byte %d", y, y2, i1)
			}
			if m1 != m2 {
				t.Fatalf("y=%d and y=%d use masks %#x and %#x", y, y2, m1, m2)
			}
		}
	}
}

func TestSetBit_roundTrip(t *testing.T) {
	img := NewVerticalLSB(image.Rect(0, 0, 128, 64))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 37)
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			index, _ := img.PixOffset(x, y)
			before := img.Pix[index]
			prior := img.BitAt(x, y)
			img.SetBit(x, y, On)
			img.SetBit(x, y, Off)
			img.SetBit(x, y, prior)
			if img.Pix[index] != before {
				t.Fatalf("(%d, %d): byte %#x became %#x", x, y, before, img.Pix[index])
			}
		}
	}
	img.Clear()
	img.SetBit(10, 10, On)
	img.SetBit(10, 10, Off)
	if !bytes.Equal(img.Pix, make([]byte, len(img.Pix))) {
		t.Fatal("on then off did not restore the blank byte")
	}
}

func TestSetBit_outOfRange(t *testing.T) {
	img := NewVerticalLSB(image.Rect(0, 0, 128, 64))
	for i := range img.Pix {
		img.Pix[i] = 0xA5
	}
	want := append([]byte(nil), img.Pix...)
	for _, p := range []image.Point{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 128, Y: 0}, {X: 0, Y: 64}, {X: 1000, Y: 1000}, {X: -1000, Y: 5}} {
		img.SetBit(p.X, p.Y, On)
		img.SetBit(p.X, p.Y, Off)
		if img.BitAt(p.X, p.Y) != Off {
			t.Fatalf("BitAt(%v) must be Off", p)
		}
	}
	if !bytes.Equal(img.Pix, want) {
		t.Fatal("out of range writes modified the buffer")
	}
}

func TestClear(t *testing.T) {
	img := NewVerticalLSB(image.Rect(0, 0, 64, 32))
	draw.Src.Draw(img, img.Bounds(), &image.Uniform{C: On}, image.Point{})
	for _, b := range img.Pix {
		if b != 0xFF {
			t.Fatal("fill failed")
		}
	}
	img.Clear()
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			if img.BitAt(x, y) != Off {
				t.Fatalf("(%d, %d) still On", x, y)
			}
		}
	}
}

func TestBitModel(t *testing.T) {
	for _, tc := range []struct {
		name string
		c    color.Color
		want Bit
	}{
		{"bit on", On, On},
		{"bit off", Off, Off},
		{"white", color.White, On},
		{"black", color.Black, Off},
		{"single channel over", color.RGBA{R: 128, A: 255}, On},
		{"single channel at threshold", color.RGBA{G: 127, A: 255}, Off},
		// The channels are ORed, not summed: these would be On with a sum.
		{"dim gray stays off", color.RGBA{R: 100, G: 100, B: 100, A: 255}, Off},
		{"or stays below threshold", color.RGBA{R: 64, G: 64, B: 0x50, A: 255}, Off},
		{"or sets high bit", color.RGBA{R: 0x40, G: 0x81, A: 255}, On},
		{"gray16", color.Gray16{Y: 0x8000}, On},
		{"nrgba", color.NRGBA{B: 200, A: 255}, On},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := BitModel.Convert(tc.c); got != tc.want {
				t.Fatalf("Convert(%v) = %v, want %v", tc.c, got, tc.want)
			}
		})
	}
}

func TestIsOn(t *testing.T) {
	if !IsOn(0xFF, 0, 0) || IsOn(0, 0, 0) || IsOn(127, 127, 127) || !IsOn(0, 0, 128) {
		t.Fatal("unexpected threshold")
	}
}

func TestBitString(t *testing.T) {
	if On.String() != "On" || Off.String() != "Off" {
		t.Fatal("unexpected String()")
	}
}

func TestNonZeroOrigin(t *testing.T) {
	img := NewVerticalLSB(image.Rect(10, 8, 26, 24))
	img.Set(10, 8, color.White)
	img.Set(25, 23, color.White)
	if img.Pix[0] != 0x01 || img.Pix[len(img.Pix)-1] != 0x80 {
		t.Fatalf("unexpected Pix %#v", img.Pix)
	}
	if img.At(10, 8) != On || img.At(9, 8) != Off {
		t.Fatal("unexpected At()")
	}
}
