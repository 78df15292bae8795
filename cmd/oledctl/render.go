// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/GermanBionicSystems/oled/image1bit"
	"github.com/GermanBionicSystems/oled/ssd1306"
)

// tinyLineHeight is the line pitch of proggy.TinySZ8pt7b.
const tinyLineHeight = 10

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

type renderer struct {
	dev  *ssd1306.Dev
	tiny bool
	size float64
	face font.Face
}

// text shows lines centered on the display.
func (r *renderer) text(lines []string) error {
	if r.tiny {
		r.dev.Clear()
		w, h := r.dev.Size()
		y := (h-int16(len(lines)*tinyLineHeight))/2 + tinyLineHeight - 2
		for _, l := range lines {
			_, lw := tinyfont.LineWidth(&proggy.TinySZ8pt7b, l)
			tinyfont.WriteLine(r.dev, &proggy.TinySZ8pt7b, (w-int16(lw))/2, y, l, white)
			y += tinyLineHeight
		}
		return r.dev.Display()
	}
	if r.face == nil {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return err
		}
		r.face = truetype.NewFace(f, &truetype.Options{Size: r.size})
	}
	img := textImage(r.dev.Bounds(), r.face, lines)
	return r.dev.Draw(r.dev.Bounds(), img, image.Point{})
}

// textImage draws lines centered in white on black.
func textImage(b image.Rectangle, face font.Face, lines []string) image.Image {
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(face)
	lh := dc.FontHeight() * 1.2
	top := (float64(b.Dy()) - lh*float64(len(lines))) / 2
	for i, l := range lines {
		dc.DrawStringAnchored(l, float64(b.Dx())/2, top+lh*(float64(i)+0.5), 0.5, 0.5)
	}
	return dc.Image()
}

// pattern returns a one pixel border around an 8x8 checkerboard, to check
// the panel geometry and COM configuration.
func pattern(r image.Rectangle) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			border := x == r.Min.X || y == r.Min.Y || x == r.Max.X-1 || y == r.Max.Y-1
			img.SetBit(x, y, image1bit.Bit(border || (x/8+y/8)%2 == 0))
		}
	}
	return img
}
