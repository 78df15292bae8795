// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image1bit implements the page-packed 1 bit image used as the frame
// store of SSD1306 class OLED controllers.
//
// The memory is organized as horizontal pages of 8 pixel rows. Each byte of a
// page covers one column of 8 vertical pixels, the least significant bit
// being the topmost row. A 128x64 image is 8 pages of 128 bytes.
package image1bit

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// Bit implements a 1 bit color.
type Bit bool

// Possible bitness.
const (
	On  = Bit(true)
	Off = Bit(false)
)

// RGBA returns either all white or all black.
//
// Technically the monochrome display could be colored but this information is
// unavailable here.
func (b Bit) RGBA() (uint32, uint32, uint32, uint32) {
	if b {
		return 65535, 65535, 65535, 65535
	}
	return 0, 0, 0, 65535
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// Threshold is the 8 bit channel value a color must exceed to be On.
const Threshold = 127

// IsOn reports whether an 8 bit RGB triplet maps to a lit pixel.
//
// The channels are combined with a bitwise OR before the comparison, not
// summed and not luminance weighted. This matches the reference drivers for
// these panels, so a dim gray like {100, 100, 100} stays Off while {128, 0, 0}
// is On.
func IsOn(r, g, b uint8) bool {
	return (r | g | b) > Threshold
}

// BitModel is the color Model for 1 bit color.
var BitModel = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	if rgba, ok := c.(color.RGBA); ok {
		return Bit(IsOn(rgba.R, rgba.G, rgba.B))
	}
	r, g, b, _ := c.RGBA()
	return Bit(IsOn(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
}

// VerticalLSB is a 1 bit image where each byte holds 8 vertical pixels, the
// least significant bit being the top pixel.
//
// Height must be a multiple of 8. Pix is len(Stride*Rect.Dy()/8).
type VerticalLSB struct {
	// Pix holds the image's pixels, as vertically LSB-first packed bitmap.
	// The pixel at (x, y) is the bit 1<<((y-Rect.Min.Y)%8) of the byte at
	// Pix[(y-Rect.Min.Y)/8*Stride+(x-Rect.Min.X)].
	Pix []byte
	// Stride is the Pix stride (in bytes) between vertically adjacent 8 pixel
	// pages.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewVerticalLSB returns an initialized VerticalLSB instance, all pixels Off.
//
// It panics if the height is not a multiple of 8.
func NewVerticalLSB(r image.Rectangle) *VerticalLSB {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &VerticalLSB{Rect: r}
	}
	if h&7 != 0 {
		panic("image1bit: height must be a multiple of 8, got " + strconv.Itoa(h))
	}
	return &VerticalLSB{
		Pix:    make([]byte, w*h/8),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (i *VerticalLSB) ColorModel() color.Model {
	return BitModel
}

// Bounds implements image.Image.
func (i *VerticalLSB) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *VerticalLSB) At(x, y int) color.Color {
	return i.BitAt(x, y)
}

// BitAt is the optimized version of At().
func (i *VerticalLSB) BitAt(x, y int) Bit {
	if len(i.Pix) == 0 || !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return Off
	}
	offset, mask := i.PixOffset(x, y)
	return Bit(i.Pix[offset]&mask != 0)
}

// Opaque scans the entire image and reports whether it is fully opaque.
func (i *VerticalLSB) Opaque() bool {
	return true
}

// PixOffset returns the index of the byte holding the pixel at (x, y) and
// the mask selecting it.
func (i *VerticalLSB) PixOffset(x, y int) (int, byte) {
	// Adjust due to non-aligned rectangle.
	x -= i.Rect.Min.X
	y -= i.Rect.Min.Y
	return x + (y/8)*i.Stride, byte(1 << uint(y&7))
}

// Set implements draw.Image.
func (i *VerticalLSB) Set(x, y int, c color.Color) {
	i.SetBit(x, y, convert(c).(Bit))
}

// SetBit is the optimized version of Set().
//
// Writes outside the bounds, or to an image without backing memory, are
// ignored.
func (i *VerticalLSB) SetBit(x, y int, b Bit) {
	if len(i.Pix) == 0 || !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return
	}
	offset, mask := i.PixOffset(x, y)
	if b {
		i.Pix[offset] |= mask
	} else {
		i.Pix[offset] &^= mask
	}
}

// Clear turns every pixel Off.
func (i *VerticalLSB) Clear() {
	for j := range i.Pix {
		i.Pix[j] = 0
	}
}

// Pages returns the number of 8 pixel high pages.
func (i *VerticalLSB) Pages() int {
	return i.Rect.Dy() / 8
}

var _ draw.Image = &VerticalLSB{}
