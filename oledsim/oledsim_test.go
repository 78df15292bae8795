// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oledsim_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/GermanBionicSystems/oled/image1bit"
	"github.com/GermanBionicSystems/oled/oledsim"
	"github.com/GermanBionicSystems/oled/ssd1306"
)

func TestDriver(t *testing.T) {
	for _, tc := range []struct {
		name string
		ctrl *ssd1306.Controller
		addr uint16
		w, h int
		max  int
	}{
		{"ssd1306", &ssd1306.SSD1306, 0x3C, 128, 64, 32},
		{"st7315", &ssd1306.ST7315, 0x3D, 128, 64, 32},
		{"small transactions", &ssd1306.ST7315, 0x3D, 128, 64, 2},
		{"narrow", &ssd1306.SSD1306, 0x3C, 64, 48, 16},
		{"short", &ssd1306.ST7315, 0x3D, 128, 32, 255},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sim := oledsim.New(&oledsim.Opts{W: tc.w, H: tc.h, Addr: tc.addr, MaxTxSize: tc.max})
			d, err := ssd1306.NewI2C(sim, &ssd1306.Opts{W: tc.w, H: tc.h, Controller: tc.ctrl})
			if err != nil {
				t.Fatal(err)
			}
			st := sim.State()
			want := oledsim.State{
				On:           true,
				ChargePump:   true,
				Contrast:     st.Contrast,
				Multiplex:    tc.h,
				SegmentRemap: true,
				COMScanDec:   true,
				Columns:      [2]int{0, tc.w - 1},
				Pages:        [2]int{0, tc.h/8 - 1},
			}
			if diff := cmp.Diff(st, want); diff != "" {
				t.Fatalf("state difference (-got +want):\n%s", diff)
			}
			if sim.Frames() != 1 {
				t.Fatalf("%d frames after init", sim.Frames())
			}

			for i := 0; i < tc.w && i < tc.h; i++ {
				d.SetBit(i, i, image1bit.On)
				d.SetBit(tc.w-1-i, i, image1bit.On)
			}
			if err := d.Flush(); err != nil {
				t.Fatal(err)
			}
			got := sim.Image()
			for y := 0; y < tc.h; y++ {
				for x := 0; x < tc.w; x++ {
					if got.BitAt(x, y) != d.BitAt(x, y) {
						t.Fatalf("(%d, %d) = %s", x, y, got.BitAt(x, y))
					}
				}
			}
			if sim.Frames() != 2 {
				t.Fatalf("%d frames after flush", sim.Frames())
			}
		})
	}
}

func TestDriver_commands(t *testing.T) {
	sim := oledsim.New(&oledsim.Opts{})
	d, err := ssd1306.NewI2C(sim, &ssd1306.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Invert(true); err != nil {
		t.Fatal(err)
	}
	if err := d.SetContrast(0x20); err != nil {
		t.Fatal(err)
	}
	if err := d.SetDisplayStartLine(8); err != nil {
		t.Fatal(err)
	}
	if err := d.Scroll(ssd1306.Left, ssd1306.FrameRate2, 0, -1); err != nil {
		t.Fatal(err)
	}
	st := sim.State()
	if !st.Inverted || st.Contrast != 0x20 || st.StartLine != 8 || !st.Scrolling {
		t.Fatalf("unexpected state %+v", st)
	}
	// Flush must stop the scroll before touching RAM.
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if sim.State().On {
		t.Fatal("display still on")
	}
}

func TestTx_limits(t *testing.T) {
	sim := oledsim.New(&oledsim.Opts{MaxTxSize: 4})
	if err := sim.Tx(0x3C, []byte{0x00, 0xAF, 0xA6, 0xA4, 0x2E}, nil); !errors.Is(err, oledsim.ErrTxTooLarge) {
		t.Fatalf("got %v", err)
	}
	if err := sim.Tx(0x3D, []byte{0x00, 0xAF}, nil); !errors.Is(err, oledsim.ErrNoDevice) {
		t.Fatalf("got %v", err)
	}
	if err := sim.Tx(0x3C, []byte{0x00}, make([]byte, 1)); !errors.Is(err, oledsim.ErrRead) {
		t.Fatalf("got %v", err)
	}
	if err := sim.Tx(0x3C, []byte{0x01, 0xAF}, nil); !errors.Is(err, oledsim.ErrControlByte) {
		t.Fatalf("got %v", err)
	}
	if err := sim.Tx(0x3C, []byte{0x00, 0xFF}, nil); !errors.Is(err, oledsim.ErrUnknownCommand) {
		t.Fatalf("got %v", err)
	}
	if sim.MaxTxSize() != 4 {
		t.Fatal("MaxTxSize")
	}
	if s := sim.String(); s != "oledsim(0x3c)" {
		t.Fatalf("String() = %q", s)
	}
}

func TestTx_argumentsSpanTransactions(t *testing.T) {
	sim := oledsim.New(&oledsim.Opts{})
	for _, b := range []byte{0x21, 4, 7, 0x22, 2, 3, 0x81} {
		if err := sim.Tx(0x3C, []byte{0x00, b}, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := sim.Tx(0x3C, []byte{0x00, 0x42}, nil); err != nil {
		t.Fatal(err)
	}
	st := sim.State()
	if st.Columns != [2]int{4, 7} || st.Pages != [2]int{2, 3} {
		t.Fatalf("window %v %v", st.Columns, st.Pages)
	}
	// 0x42 is the contrast argument, not a start line command.
	if st.Contrast != 0x42 || st.StartLine != 0 {
		t.Fatalf("contrast %#x, start line %d", st.Contrast, st.StartLine)
	}
	if sim.Transactions() != 8 {
		t.Fatalf("%d transactions", sim.Transactions())
	}
}

func TestTx_window(t *testing.T) {
	sim := oledsim.New(&oledsim.Opts{})
	// Horizontal addressing in a 2x2 window at column 4, page 2.
	w := []byte{0x00, 0x20, 0x00, 0x21, 4, 5, 0x22, 2, 3}
	if err := sim.Tx(0x3C, w, nil); err != nil {
		t.Fatal(err)
	}
	if err := sim.Tx(0x3C, []byte{0x40, 0x01, 0x02, 0x03, 0x04, 0x05}, nil); err != nil {
		t.Fatal(err)
	}
	img := sim.Image()
	for _, c := range []struct {
		x, y int
	}{{4, 16}, {5, 17}, {4, 24}, {4, 25}, {5, 26}} {
		if !img.BitAt(c.x, c.y) {
			t.Fatalf("(%d, %d) is off", c.x, c.y)
		}
	}
	// The fifth byte wrapped to the start of the window.
	if got := img.Pix[4+2*128]; got != 0x05 {
		t.Fatalf("wrapped byte %#x", got)
	}
	if sim.Frames() != 1 {
		t.Fatalf("%d frames", sim.Frames())
	}
}

func TestTx_verticalAndPageAddressing(t *testing.T) {
	sim := oledsim.New(&oledsim.Opts{})
	if err := sim.Tx(0x3C, []byte{0x00, 0x20, 0x01, 0x21, 0, 1, 0x22, 0, 1}, nil); err != nil {
		t.Fatal(err)
	}
	if err := sim.Tx(0x3C, []byte{0x40, 0x01, 0x02, 0x03}, nil); err != nil {
		t.Fatal(err)
	}
	img := sim.Image()
	if img.Pix[0] != 0x01 || img.Pix[128] != 0x02 || img.Pix[1] != 0x03 {
		t.Fatal("vertical addressing")
	}

	// Page addressing: page 5, column 0x12.
	if err := sim.Tx(0x3C, []byte{0x00, 0x20, 0x02, 0xB5, 0x02, 0x11}, nil); err != nil {
		t.Fatal(err)
	}
	if err := sim.Tx(0x3C, []byte{0x40, 0xAA}, nil); err != nil {
		t.Fatal(err)
	}
	if sim.Image().Pix[0x12+5*128] != 0xAA {
		t.Fatal("page addressing")
	}
}

func TestTx_continuation(t *testing.T) {
	sim := oledsim.New(&oledsim.Opts{})
	// Command, then data, each under its own control byte.
	if err := sim.Tx(0x3C, []byte{0x80, 0xAF, 0xC0, 0x7E, 0x40, 0x7F}, nil); err != nil {
		t.Fatal(err)
	}
	if !sim.State().On {
		t.Fatal("display off")
	}
	if p := sim.Image().Pix; p[0] != 0x7E || p[1] != 0x7F {
		t.Fatalf("RAM %#v", p[:2])
	}
}

func TestTx_scrolling(t *testing.T) {
	sim := oledsim.New(&oledsim.Opts{})
	if err := sim.Tx(0x3C, []byte{0x00, 0x2F}, nil); err != nil {
		t.Fatal(err)
	}
	if err := sim.Tx(0x3C, []byte{0x40, 0xFF}, nil); !errors.Is(err, oledsim.ErrScrolling) {
		t.Fatalf("got %v", err)
	}
}

func TestRender(t *testing.T) {
	sim := oledsim.New(&oledsim.Opts{W: 8, H: 8})
	var off bytes.Buffer
	if err := sim.Render(&off); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(off.String(), "\n"); n != 8 {
		t.Fatalf("%d lines", n)
	}
	if err := sim.Tx(0x3C, []byte{0x00, 0xAF, 0x40}, nil); err != nil {
		t.Fatal(err)
	}
	var blank bytes.Buffer
	if err := sim.Render(&blank); err != nil {
		t.Fatal(err)
	}
	if blank.String() != off.String() {
		t.Fatal("a blank panel looks like a panel turned off")
	}
	if err := sim.Tx(0x3C, []byte{0x40, 0xFF}, nil); err != nil {
		t.Fatal(err)
	}
	var lit bytes.Buffer
	if err := sim.Render(&lit); err != nil {
		t.Fatal(err)
	}
	if lit.String() == blank.String() {
		t.Fatal("lit column not rendered")
	}
	// Inverting the lit panel turns the column off and everything else on.
	if err := sim.Tx(0x3C, []byte{0x00, 0xA7}, nil); err != nil {
		t.Fatal(err)
	}
	var inv bytes.Buffer
	if err := sim.Render(&inv); err != nil {
		t.Fatal(err)
	}
	if inv.String() == lit.String() {
		t.Fatal("inversion not rendered")
	}
}

func TestNew_invalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	oledsim.New(&oledsim.Opts{W: 128, H: 12})
}
