// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oledsim implements an I²C bus with an emulated SSD1306 class OLED
// controller on it.
//
// The emulated controller decodes the command stream the way the silicon
// does and keeps its own display RAM, so a driver can be tested end to end
// without hardware. The panel can be printed to a terminal using ANSI color
// codes.
package oledsim

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/oled/image1bit"
)

// Size of the controller display RAM.
const (
	ramW     = 128
	ramPages = 8
)

var (
	// ErrTxTooLarge is returned when a transaction exceeds the emulated
	// bus buffer.
	ErrTxTooLarge = errors.New("oledsim: transaction too large")
	// ErrNoDevice is returned for transactions to another address, like a
	// NACK on a real bus.
	ErrNoDevice = errors.New("oledsim: no device at address")
	// ErrRead is returned when a transaction tries to read.
	ErrRead = errors.New("oledsim: reads are not supported")
	// ErrUnknownCommand is returned for a command byte outside the command
	// table.
	ErrUnknownCommand = errors.New("oledsim: unknown command")
	// ErrControlByte is returned when a control byte has reserved bits set.
	ErrControlByte = errors.New("oledsim: invalid control byte")
	// ErrScrolling is returned when display RAM is written while scrolling
	// is active, which corrupts the RAM on the real controller.
	ErrScrolling = errors.New("oledsim: RAM write while scrolling")
)

// Opts represents the options of the emulated controller.
type Opts struct {
	// W and H is the panel size. H must be a multiple of 8. Both default to
	// the full display RAM.
	W, H int
	// Addr defaults to 0x3C.
	Addr uint16
	// MaxTxSize defaults to 32.
	MaxTxSize int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette

	_ struct{}
}

// State is a snapshot of the controller registers.
type State struct {
	On         bool
	Inverted   bool
	AllOn      bool
	Scrolling  bool
	ChargePump bool
	Contrast   byte
	// MemoryMode is 0 for horizontal, 1 for vertical and 2 for page
	// addressing.
	MemoryMode   byte
	Multiplex    int
	StartLine    int
	SegmentRemap bool
	COMScanDec   bool
	// Columns and Pages are the inclusive addressing window.
	Columns [2]int
	Pages   [2]int
}

// Dev is an emulated controller, seen through the i2c.Bus it sits on.
//
// It is safe for concurrent use.
type Dev struct {
	addr    uint16
	maxTx   int
	rect    image.Rectangle
	palette ansi256.Palette
	out     io.Writer

	mu       sync.Mutex
	ram      [ramW * ramPages]byte
	st       State
	col      int
	page     int
	cmd      []byte
	need     int
	txs      int
	frames   int
	rendered bool
	buf      bytes.Buffer
}

// New returns an emulated controller in its power on reset state: display
// off and RAM content undefined, here all zeros.
func New(opts *Opts) *Dev {
	o := *opts
	if o.W == 0 {
		o.W = ramW
	}
	if o.H == 0 {
		o.H = 8 * ramPages
	}
	if o.W > ramW || o.H > 8*ramPages || o.H&7 != 0 {
		panic(fmt.Sprintf("oledsim: invalid panel size %dx%d", o.W, o.H))
	}
	if o.Addr == 0 {
		o.Addr = 0x3C
	}
	if o.MaxTxSize == 0 {
		o.MaxTxSize = 32
	}
	p := o.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		addr:    o.Addr,
		maxTx:   o.MaxTxSize,
		rect:    image.Rect(0, 0, o.W, o.H),
		palette: *p,
		st: State{
			Contrast:  0x7F,
			Multiplex: 64,
			Columns:   [2]int{0, ramW - 1},
			Pages:     [2]int{0, ramPages - 1},
		},
	}
}

// NewTerminal returns an emulated controller that prints the panel to the
// console each time a full frame was written or the display is switched on
// or off.
func NewTerminal(opts *Opts) *Dev {
	d := New(opts)
	d.out = colorable.NewColorableStdout()
	return d
}

func (d *Dev) String() string {
	return fmt.Sprintf("oledsim(%#x)", d.addr)
}

// Close implements i2c.BusCloser.
//
// It resets the terminal colors when printing to the console.
func (d *Dev) Close() error {
	if d.out == nil {
		return nil
	}
	_, err := io.WriteString(d.out, "\033[0m\n")
	return err
}

// MaxTxSize implements conn.Limits.
func (d *Dev) MaxTxSize() int {
	return d.maxTx
}

// SetSpeed implements i2c.Bus.
func (d *Dev) SetSpeed(f physic.Frequency) error {
	return nil
}

// Tx implements i2c.Bus.
//
// Each control byte selects whether the bytes after it are commands or
// display RAM data. With the continuation bit set, the control byte covers
// a single byte and another control byte follows.
func (d *Dev) Tx(addr uint16, w, r []byte) error {
	if addr != d.addr {
		return fmt.Errorf("%w %#x", ErrNoDevice, addr)
	}
	if len(r) != 0 {
		return ErrRead
	}
	if len(w) > d.maxTx {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrTxTooLarge, len(w), d.maxTx)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.txs++
	for len(w) > 0 {
		ctrl := w[0]
		w = w[1:]
		if ctrl&^0xC0 != 0 {
			return fmt.Errorf("%w %#x", ErrControlByte, ctrl)
		}
		n := len(w)
		if ctrl&0x80 != 0 {
			n = min(n, 1)
		}
		var err error
		if ctrl&0x40 != 0 {
			err = d.data(w[:n])
		} else {
			err = d.commands(w[:n])
		}
		if err != nil {
			return err
		}
		w = w[n:]
	}
	return nil
}

// State returns a snapshot of the controller registers.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.st
}

// Transactions returns the number of transactions accepted so far.
func (d *Dev) Transactions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.txs
}

// Frames returns how many times the write cursor went through the whole
// addressing window.
func (d *Dev) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Image returns a copy of the part of display RAM visible on the panel.
func (d *Dev) Image() *image1bit.VerticalLSB {
	d.mu.Lock()
	defer d.mu.Unlock()
	img := image1bit.NewVerticalLSB(d.rect)
	w := d.rect.Dx()
	for p := 0; p < d.rect.Dy()/8; p++ {
		copy(img.Pix[p*w:(p+1)*w], d.ram[p*ramW:])
	}
	return img
}

// Render prints the panel as seen by a person looking at it, one colored
// block per pixel.
//
// Segment and COM remapping are not applied.
func (d *Dev) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.Reset()
	d.render(&d.buf)
	_, err := d.buf.WriteTo(w)
	return err
}

func (d *Dev) render(b *bytes.Buffer) {
	lit := d.palette.Block(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	dark := d.palette.Block(color.NRGBA{A: 255})
	for y := 0; y < d.rect.Dy(); y++ {
		_, _ = b.WriteString("\033[0m")
		row := (y + d.st.StartLine) % (8 * ramPages)
		for x := 0; x < d.rect.Dx(); x++ {
			on := d.ram[x+(row/8)*ramW]&(1<<(row&7)) != 0
			switch {
			case !d.st.On:
				on = false
			case d.st.AllOn:
				on = true
			case d.st.Inverted:
				on = !on
			}
			if on {
				_, _ = b.WriteString(lit)
			} else {
				_, _ = b.WriteString(dark)
			}
		}
		_, _ = b.WriteString("\033[0m\n")
	}
}

// refresh prints the panel in place when printing to the console.
func (d *Dev) refresh() {
	if d.out == nil {
		return
	}
	d.buf.Reset()
	if d.rendered {
		// Move the cursor back to the top of the previous rendering.
		fmt.Fprintf(&d.buf, "\033[%dA", d.rect.Dy())
	}
	d.render(&d.buf)
	_, _ = d.buf.WriteTo(d.out)
	d.rendered = true
}

// commands feeds the command decoder. Arguments may span transactions.
func (d *Dev) commands(p []byte) error {
	for _, c := range p {
		if d.need == 0 {
			n, ok := argCount(c)
			if !ok {
				return fmt.Errorf("%w %#x", ErrUnknownCommand, c)
			}
			d.cmd = append(d.cmd[:0], c)
			d.need = n
		} else {
			d.cmd = append(d.cmd, c)
			d.need--
		}
		if d.need == 0 {
			d.exec(d.cmd[0], d.cmd[1:])
		}
	}
	return nil
}

// argCount returns the number of argument bytes following command c.
func argCount(c byte) (int, bool) {
	switch {
	case c <= 0x1F, c >= 0x40 && c <= 0x7F, c >= 0xB0 && c <= 0xB7:
		return 0, true
	}
	switch c {
	case 0x2E, 0x2F, 0xA0, 0xA1, 0xA4, 0xA5, 0xA6, 0xA7, 0xAE, 0xAF, 0xC0, 0xC8, 0xE3:
		return 0, true
	case 0x20, 0x81, 0x8D, 0xA8, 0xD3, 0xD5, 0xD9, 0xDA, 0xDB:
		return 1, true
	case 0x21, 0x22, 0xA3:
		return 2, true
	case 0x29, 0x2A:
		return 5, true
	case 0x26, 0x27:
		return 6, true
	}
	return 0, false
}

func (d *Dev) exec(c byte, args []byte) {
	switch {
	case c <= 0x0F:
		// Lower column nibble, page addressing.
		d.col = d.col&0xF0 | int(c&0x0F)
	case c <= 0x1F:
		d.col = int(c&0x07)<<4 | d.col&0x0F
	case c >= 0x40 && c <= 0x7F:
		d.st.StartLine = int(c & 0x3F)
	case c >= 0xB0 && c <= 0xB7:
		d.page = int(c & 0x07)
	}
	switch c {
	case 0x20:
		d.st.MemoryMode = args[0] & 0x03
	case 0x21:
		d.st.Columns = [2]int{int(args[0] & 0x7F), int(args[1] & 0x7F)}
		d.col = d.st.Columns[0]
	case 0x22:
		d.st.Pages = [2]int{int(args[0] & 0x07), int(args[1] & 0x07)}
		d.page = d.st.Pages[0]
	case 0x2E:
		d.st.Scrolling = false
	case 0x2F:
		d.st.Scrolling = true
	case 0x81:
		d.st.Contrast = args[0]
	case 0x8D:
		d.st.ChargePump = args[0]&0x04 != 0
	case 0xA0, 0xA1:
		d.st.SegmentRemap = c == 0xA1
	case 0xA4, 0xA5:
		d.st.AllOn = c == 0xA5
	case 0xA6, 0xA7:
		d.st.Inverted = c == 0xA7
	case 0xA8:
		d.st.Multiplex = int(args[0]&0x3F) + 1
	case 0xAE, 0xAF:
		d.st.On = c == 0xAF
		d.refresh()
	case 0xC0, 0xC8:
		d.st.COMScanDec = c == 0xC8
	}
}

// data writes p at the cursor and advances it according to the memory
// addressing mode.
func (d *Dev) data(p []byte) error {
	if len(p) != 0 && d.st.Scrolling {
		return ErrScrolling
	}
	c0, c1 := d.st.Columns[0], d.st.Columns[1]
	p0, p1 := d.st.Pages[0], d.st.Pages[1]
	for _, b := range p {
		d.ram[d.col+d.page*ramW] = b
		switch d.st.MemoryMode {
		case 0:
			if d.col++; d.col > c1 {
				d.col = c0
				if d.page++; d.page > p1 {
					d.page = p0
					d.endFrame()
				}
			}
		case 1:
			if d.page++; d.page > p1 {
				d.page = p0
				if d.col++; d.col > c1 {
					d.col = c0
					d.endFrame()
				}
			}
		default:
			// Page addressing wraps within the page.
			d.col = (d.col + 1) % ramW
		}
	}
	return nil
}

func (d *Dev) endFrame() {
	d.frames++
	d.refresh()
}

var _ i2c.BusCloser = &Dev{}
var _ conn.Limits = &Dev{}
var _ fmt.Stringer = &Dev{}
