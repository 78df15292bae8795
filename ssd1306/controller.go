// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

// Command bytes shared by the SSD1306 and ST7315 controllers.
const (
	_CHARGEPUMP          = 0x8D
	_COLUMNADDR          = 0x21
	_COMSCANDEC          = 0xC8
	_COMSCANINC          = 0xC0
	_DEACTIVATE_SCROLL   = 0x2E
	_ACTIVATE_SCROLL     = 0x2F
	_DISPLAYALLON_RESUME = 0xA4
	_DISPLAYOFF          = 0xAE
	_DISPLAYON           = 0xAF
	_INVERTDISPLAY       = 0xA7
	_MEMORYMODE          = 0x20
	_NORMALDISPLAY       = 0xA6
	_PAGEADDR            = 0x22
	_SEGREMAP            = 0xA0
	_SETCOMPINS          = 0xDA
	_SETCONTRAST         = 0x81
	_SETDISPLAYCLOCKDIV  = 0xD5
	_SETDISPLAYOFFSET    = 0xD3
	_SETMULTIPLEX        = 0xA8
	_SETPRECHARGE        = 0xD9
	_SETSEGMENTREMAP     = 0xA1
	_SETSTARTLINE        = 0x40
	_SETVCOMDETECT       = 0xDB
)

// Memory addressing modes for _MEMORYMODE.
const (
	horizontalAddressing = 0x00
)

// Controller describes a display controller variant.
//
// The variants of this family only differ in their power up sequence and in
// how many command bytes they accept per bus transaction, so they are plain
// values instead of separate drivers.
type Controller struct {
	// Name is used as the prefix of errors and by String().
	Name string
	// Addr is the I²C address used when Opts.Addr is 0.
	Addr uint16
	// MaxW and MaxH bound the supported panel geometry.
	MaxW, MaxH int
	// SingleCommand sends every command byte in its own transaction instead
	// of packing command lists. Frame data is always chunked.
	SingleCommand bool
	// InitCmds returns the power up command table, without the final display
	// on command.
	InitCmds func(opts *Opts) []byte
}

func (c *Controller) String() string {
	return c.Name
}

// SSD1306 is the Solomon Systech SSD1306 as driven by the classic Arduino
// driver: one command per transaction.
var SSD1306 = Controller{
	Name:          "SSD1306",
	Addr:          0x3C,
	MaxW:          128,
	MaxH:          64,
	SingleCommand: true,
	InitCmds:      initCmdsSSD1306,
}

// ST7315 is the Sitronix ST7315, an SSD1306 compatible controller fitted to
// newer boards. It accepts packed command lists.
var ST7315 = Controller{
	Name:     "ST7315",
	Addr:     0x3D,
	MaxW:     128,
	MaxH:     64,
	InitCmds: initCmdsST7315,
}

// Controllers lists the known controllers by name.
var Controllers = map[string]*Controller{
	"ssd1306": &SSD1306,
	"st7315":  &ST7315,
}

func initCmdsSSD1306(opts *Opts) []byte {
	segRemap, comScan := scanDirection(opts)
	contrast := byte(0xFF)
	if opts.Contrast != 0 {
		contrast = opts.Contrast
	}
	// Datasheet page 64 has the recommended flow; the ordering follows the
	// Arduino driver.
	return []byte{
		_DISPLAYOFF,
		_SETDISPLAYCLOCKDIV, 0x80, // Power on reset oscillator frequency.
		_SETMULTIPLEX, byte(opts.H - 1),
		_SETDISPLAYOFFSET, 0x00,
		_SETSTARTLINE | 0x00,
		_CHARGEPUMP, 0x14, // Internal DC-DC.
		_MEMORYMODE, horizontalAddressing,
		segRemap,
		comScan,
		_SETCOMPINS, comPins(opts),
		_SETCONTRAST, contrast,
		_SETPRECHARGE, 0xF1,
		_SETVCOMDETECT, 0x40,
		_DISPLAYALLON_RESUME,
		_NORMALDISPLAY,
		_DEACTIVATE_SCROLL,
	}
}

func initCmdsST7315(opts *Opts) []byte {
	segRemap, comScan := scanDirection(opts)
	contrast := byte(0x7F)
	if opts.Contrast != 0 {
		contrast = opts.Contrast
	}
	return []byte{
		_DISPLAYOFF,
		_SETDISPLAYCLOCKDIV, 0x80,
		_SETMULTIPLEX, byte(opts.H - 1),
		_SETDISPLAYOFFSET, 0x00,
		_SETSTARTLINE | 0x00,
		_CHARGEPUMP, 0x14,
		_MEMORYMODE, horizontalAddressing,
		segRemap,
		comScan,
		_SETCOMPINS, comPins(opts),
		_SETCONTRAST, contrast,
		_SETPRECHARGE, 0xF1,
		_SETVCOMDETECT, 0x20, // Lower VCOMH than the SSD1306.
		_DISPLAYALLON_RESUME,
		_NORMALDISPLAY,
		_DEACTIVATE_SCROLL,
	}
}

// scanDirection returns the segment remap and COM scan direction commands.
func scanDirection(opts *Opts) (byte, byte) {
	segRemap := byte(_SETSEGMENTREMAP)
	comScan := byte(_COMSCANDEC)
	if opts.MirrorHorizontal {
		segRemap = _SEGREMAP
	}
	if opts.MirrorVertical {
		comScan = _COMSCANINC
	}
	return segRemap, comScan
}

// comPins returns the COM pins hardware configuration; see page 40.
func comPins(opts *Opts) byte {
	hwLayout := byte(0x02)
	if !opts.Sequential {
		hwLayout |= 0x10
	}
	if opts.SwapTopBottom {
		hwLayout |= 0x20
	}
	return hwLayout
}
