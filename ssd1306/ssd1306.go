// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

// The SSD1306 and ST7315 are OLED controllers driving 128x64 class panels.
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"

	"github.com/GermanBionicSystems/oled/image1bit"
)

// FrameRate determines scrolling speed.
type FrameRate byte

// Possible frame rates. The value determines the number of refreshes between
// movement. The lower value, the higher speed.
const (
	FrameRate2   FrameRate = 7
	FrameRate3   FrameRate = 4
	FrameRate4   FrameRate = 5
	FrameRate5   FrameRate = 0
	FrameRate25  FrameRate = 6
	FrameRate64  FrameRate = 1
	FrameRate128 FrameRate = 2
	FrameRate256 FrameRate = 3
)

// Orientation is used for scrolling.
type Orientation byte

// Possible orientations for scrolling.
const (
	Left    Orientation = 0x27
	Right   Orientation = 0x26
	UpRight Orientation = 0x29
	UpLeft  Orientation = 0x2A
)

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	W:          128,
	H:          64,
	Controller: &SSD1306,
}

// Opts defines the options for the device.
type Opts struct {
	W int
	// H must be a multiple of 8.
	H int
	// Controller selects the init table and command packing. nil means
	// SSD1306.
	Controller *Controller
	// The I²C address of the display. 0 uses the controller's default.
	Addr uint16
	// MaxTxSize is the largest I²C transaction, mode byte included, the bus
	// can carry. 0 queries the bus via conn.Limits and falls back to
	// DefaultMaxTxSize.
	MaxTxSize int
	// Contrast is the initial contrast. 0 uses the controller's default.
	Contrast byte
	// Sequential corresponds to the Sequential/Alternative COM pin configuration
	// in the OLED panel hardware. Try toggling this if half the rows appear to be
	// missing on your display. Particularly on 32 pixel height displays.
	Sequential bool
	// MirrorVertical corresponds to the COM remap configuration in the OLED panel
	// hardware. Try toggling this if the display is flipped vertically.
	MirrorVertical bool
	// MirrorHorizontal corresponds to the SEG remap configuration in the OLED panel
	// hardware. Try toggling this if the display is flipped horizontally.
	MirrorHorizontal bool
	// SwapTopBottom corresponds to the Left/Right remap COM pin configuration in
	// the OLED panel hardware. Try toggling this if the top and bottom halves of
	// your display are swapped.
	SwapTopBottom bool
}

type state int

const (
	uninitialized state = iota
	active
	off
)

// Dev is a handle to the display controller.
//
// A Dev is not safe for concurrent use.
//
// Until Init has run, every method other than Init is a no-op that returns
// nil. Pixel writes outside the panel are ignored, so text renderers can clip
// by writing past the edges.
type Dev struct {
	// Communication
	c    conn.Conn
	ctrl *Controller
	e    encoder

	opts Opts
	rect image.Rectangle

	// Mutable
	// See page 25 for the GDDRAM pages structure.
	// There is 8 pages, each covering an horizontal band of 8 pixels high (1
	// byte) for 128 bytes.
	// 8*128 = 1024 bytes total for 128x64 display.
	fb       *image1bit.VerticalLSB
	state    state
	scrolled bool
}

// New returns an uninitialized Dev that will talk to a controller over I²C.
//
// The bus is borrowed: closing it stays the caller's responsibility. Call
// Init before use.
func New(bus i2c.Bus, opts *Opts) *Dev {
	o := *opts
	if o.Controller == nil {
		o.Controller = &SSD1306
	}
	if o.Addr == 0 {
		o.Addr = o.Controller.Addr
	}
	c := &i2c.Dev{Bus: bus, Addr: o.Addr}
	return &Dev{
		c:    c,
		ctrl: o.Controller,
		e: encoder{
			c:             c,
			maxTx:         maxTxSize(bus, o.MaxTxSize),
			singleCommand: o.Controller.SingleCommand,
		},
		opts: o,
		rect: image.Rect(0, 0, o.W, o.H),
	}
}

// NewI2C returns a Dev object that communicates over I²C to a SSD1306 or
// ST7315 display controller. The display is initialized and blank.
func NewI2C(bus i2c.Bus, opts *Opts) (*Dev, error) {
	d := New(bus, opts)
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// Init allocates the frame buffer, sends the controller power up sequence,
// turns the display on and clears it.
//
// A Dev that is Halt()ed can be initialized again.
func (d *Dev) Init() error {
	if err := d.validate(); err != nil {
		return err
	}
	if d.fb == nil {
		d.fb = image1bit.NewVerticalLSB(d.rect)
	}
	d.fb.Clear()
	if err := d.e.commandList(d.ctrl.InitCmds(&d.opts)); err != nil {
		return d.wrap(err)
	}
	if err := d.e.command(_DISPLAYON); err != nil {
		return d.wrap(err)
	}
	d.state = active
	d.scrolled = false
	// Wipe whatever the RAM held at power up.
	return d.Flush()
}

func (d *Dev) validate() error {
	w, h := d.opts.W, d.opts.H
	if w < 1 || w > d.ctrl.MaxW {
		return fmt.Errorf("%s: %w: width %d", d.ctrl, ErrInvalidSize, w)
	}
	if h < 8 || h > d.ctrl.MaxH || h&7 != 0 {
		return fmt.Errorf("%s: %w: height %d", d.ctrl, ErrInvalidSize, h)
	}
	if d.e.maxTx < 2 {
		return fmt.Errorf("%s: %w: got %d", d.ctrl, ErrTxSize, d.e.maxTx)
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s.Dev{%s, %s}", d.ctrl, d.c, d.rect.Max)
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Size implements drivers.Displayer.
func (d *Dev) Size() (int16, int16) {
	return int16(d.rect.Dx()), int16(d.rect.Dy())
}

// SetPixel implements drivers.Displayer.
//
// It only modifies the frame buffer; call Display or Flush to show it. The
// pixel is lit according to image1bit.IsOn.
func (d *Dev) SetPixel(x, y int16, c color.RGBA) {
	d.SetBit(int(x), int(y), image1bit.Bit(image1bit.IsOn(c.R, c.G, c.B)))
}

// SetBit turns a pixel on or off in the frame buffer.
func (d *Dev) SetBit(x, y int, b image1bit.Bit) {
	if d.state == uninitialized {
		return
	}
	d.fb.SetBit(x, y, b)
}

// BitAt returns a pixel of the frame buffer.
func (d *Dev) BitAt(x, y int) image1bit.Bit {
	if d.state == uninitialized {
		return image1bit.Off
	}
	return d.fb.BitAt(x, y)
}

// Clear turns off every pixel of the frame buffer.
func (d *Dev) Clear() {
	if d.state == uninitialized {
		return
	}
	d.fb.Clear()
}

// Display implements drivers.Displayer. It is the same as Flush.
func (d *Dev) Display() error {
	return d.Flush()
}

// Flush sends the whole frame buffer to the display.
//
// A bus error aborts the transfer and leaves the display partially updated;
// nothing is retried.
func (d *Dev) Flush() error {
	if d.state == uninitialized {
		return nil
	}
	if d.scrolled {
		// RAM must not be written while scrolling.
		if err := d.e.command(_DEACTIVATE_SCROLL); err != nil {
			return d.wrap(err)
		}
		d.scrolled = false
	}
	if err := d.e.commandList(d.window()); err != nil {
		return d.wrap(err)
	}
	if err := d.e.data(d.fb.Pix); err != nil {
		return d.wrap(err)
	}
	return nil
}

// window returns the addressing window command list covering the whole
// panel.
func (d *Dev) window() []byte {
	return []byte{
		_COLUMNADDR, 0, byte(d.rect.Dx() - 1),
		_PAGEADDR, 0, byte(d.rect.Dy()/8 - 1),
	}
}

// Draw implements display.Drawer.
//
// src is converted into the frame buffer and the full frame is sent. It
// draws synchronously; on a slow I²C bus it may be preferable to defer Draw()
// calls to a background goroutine.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.state == uninitialized {
		return nil
	}
	if img, ok := src.(*image1bit.VerticalLSB); ok && r == d.rect && img.Rect == d.rect && sp.X == 0 && sp.Y == 0 {
		// Exact size, full frame, image1bit encoding: fast path!
		copy(d.fb.Pix, img.Pix)
	} else {
		draw.Src.Draw(d.fb, r, src, sp)
	}
	return d.Flush()
}

// Write writes a buffer of pixels to the display.
//
// The format is unusual as each byte represent 8 vertical pixels at a time.
// The format is horizontal bands of 8 pixels high.
//
// This function accepts the content of image1bit.VerticalLSB.Pix.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.state == uninitialized {
		return 0, nil
	}
	if len(pixels) != len(d.fb.Pix) {
		return 0, fmt.Errorf("%s: %w; expected %d bytes, got %d bytes", d.ctrl, ErrPixelStream, len(d.fb.Pix), len(pixels))
	}
	copy(d.fb.Pix, pixels)
	if err := d.Flush(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Halt turns off the display.
//
// The frame buffer is kept and can still be modified and flushed; use On or
// Init to light the panel again.
func (d *Dev) Halt() error {
	if d.state == uninitialized {
		return nil
	}
	if err := d.e.command(_DISPLAYOFF); err != nil {
		return d.wrap(err)
	}
	d.state = off
	return nil
}

// On turns the display back on after Halt.
func (d *Dev) On() error {
	if d.state == uninitialized {
		return nil
	}
	if err := d.e.command(_DISPLAYON); err != nil {
		return d.wrap(err)
	}
	d.state = active
	return nil
}

// Invert the display (black on white vs white on black).
func (d *Dev) Invert(blackOnWhite bool) error {
	b := byte(_NORMALDISPLAY)
	if blackOnWhite {
		b = _INVERTDISPLAY
	}
	return d.sendCommand(b)
}

// SetContrast changes the screen contrast.
func (d *Dev) SetContrast(level byte) error {
	return d.sendCommand(_SETCONTRAST, level)
}

// SetDisplayStartLine causes the display to start from startLine, effectively
// scrolling the screen to that position.
//
// startLine must be between 0 and 63.
func (d *Dev) SetDisplayStartLine(startLine byte) error {
	if startLine > 63 {
		return fmt.Errorf("%s: invalid startLine %d", d.ctrl, startLine)
	}
	return d.sendCommand(_SETSTARTLINE | startLine)
}

// Scroll scrolls an horizontal band.
//
// Only one scrolling operation can happen at a time. The next Flush stops it.
//
// Both startLine and endLine must be multiples of 8.
//
// Use -1 for endLine to extend to the bottom of the display.
func (d *Dev) Scroll(o Orientation, rate FrameRate, startLine, endLine int) error {
	h := d.rect.Dy()
	if endLine == -1 {
		endLine = h
	}
	if startLine >= endLine {
		return fmt.Errorf("%s: startLine (%d) must be lower than endLine (%d)", d.ctrl, startLine, endLine)
	}
	if startLine&7 != 0 || startLine < 0 || startLine >= h {
		return fmt.Errorf("%s: invalid startLine %d", d.ctrl, startLine)
	}
	if endLine&7 != 0 || endLine < 0 || endLine > h {
		return fmt.Errorf("%s: invalid endLine %d", d.ctrl, endLine)
	}
	if d.state == uninitialized {
		return nil
	}

	startPage := uint8(startLine / 8)
	endPage := uint8(endLine / 8)
	var cmd []byte
	if o == Left || o == Right {
		// page 28
		// <op>, dummy, <start page>, <rate>,  <end page>, <dummy>, <dummy>, <ENABLE>
		cmd = []byte{byte(o), 0x00, startPage, byte(rate), endPage - 1, 0x00, 0xFF, _ACTIVATE_SCROLL}
	} else {
		// page 29
		// <op>, dummy, <start page>, <rate>,  <end page>, <offset>, <ENABLE>
		cmd = []byte{byte(o), 0x00, startPage, byte(rate), endPage - 1, 0x01, _ACTIVATE_SCROLL}
	}
	if err := d.sendCommand(cmd...); err != nil {
		return err
	}
	d.scrolled = true
	return nil
}

// StopScroll stops any scrolling previously set.
func (d *Dev) StopScroll() error {
	if err := d.sendCommand(_DEACTIVATE_SCROLL); err != nil {
		return err
	}
	d.scrolled = false
	return nil
}

// sendCommand sends a command list, ignoring it while uninitialized.
func (d *Dev) sendCommand(c ...byte) error {
	if d.state == uninitialized {
		return nil
	}
	if err := d.e.commandList(c); err != nil {
		return d.wrap(err)
	}
	return nil
}

func (d *Dev) wrap(err error) error {
	return fmt.Errorf("%s: %w", d.ctrl, err)
}

var _ display.Drawer = &Dev{}
var _ drivers.Displayer = &Dev{}
