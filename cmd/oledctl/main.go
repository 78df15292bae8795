// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oledctl writes text, system statistics or a test pattern to a SSD1306 or
// ST7315 OLED display.
//
// The display can be on a local I²C bus, behind an Arduino running
// StandardFirmata, or emulated in the terminal:
//
//	oledctl -controller st7315 -text "Hello"
//	oledctl -transport firmata -port /dev/ttyACM0 -mode stats
//	oledctl -transport sim -mode pattern
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/oled/firmatabus"
	"github.com/GermanBionicSystems/oled/oledsim"
	"github.com/GermanBionicSystems/oled/ssd1306"
)

func openBus(transport, busName, port string, ctrl *ssd1306.Controller, addr uint16, w, h, maxTx int) (i2c.BusCloser, error) {
	switch transport {
	case "i2c":
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		return i2creg.Open(busName)
	case "firmata":
		return firmatabus.Open(port, &firmatabus.Opts{})
	case "sim":
		if addr == 0 {
			addr = ctrl.Addr
		}
		return oledsim.NewTerminal(&oledsim.Opts{W: w, H: h, Addr: addr, MaxTxSize: maxTx}), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}
}

func mainImpl() error {
	busName := flag.String("bus", "", "I²C bus to use")
	addr := flag.Int("addr", 0, "I²C address, 0 for the controller default")
	ctrlName := flag.String("controller", "ssd1306", "controller: ssd1306 or st7315")
	w := flag.Int("w", 128, "display width")
	h := flag.Int("h", 64, "display height")
	maxTx := flag.Int("maxtx", 0, "largest I²C transaction in bytes, 0 to query the bus")
	transport := flag.String("transport", "i2c", "transport: i2c, firmata or sim")
	port := flag.String("port", "", "Firmata serial port, empty for the first one found")
	mode := flag.String("mode", "text", "mode: text, stats, pattern, clear or off")
	text := flag.String("text", "Hello from periph!", "text to show; \\n starts a new line")
	fontName := flag.String("font", "ttf", "font: ttf or tiny")
	size := flag.Float64("size", 14, "TrueType font size in points")
	interval := flag.Duration("interval", 2*time.Second, "stats refresh interval")
	count := flag.Int("count", 0, "number of stats refreshes, 0 to run forever")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	ctrl, ok := ssd1306.Controllers[strings.ToLower(*ctrlName)]
	if !ok {
		return fmt.Errorf("unknown controller %q", *ctrlName)
	}
	if *addr < 0 || *addr > 0x7F {
		return fmt.Errorf("invalid address %#x", *addr)
	}
	if *fontName != "ttf" && *fontName != "tiny" {
		return fmt.Errorf("unknown font %q", *fontName)
	}

	b, err := openBus(*transport, *busName, *port, ctrl, uint16(*addr), *w, *h, *maxTx)
	if err != nil {
		return err
	}
	defer b.Close()
	log.Printf("bus %s", b)

	opts := ssd1306.Opts{
		W:          *w,
		H:          *h,
		Controller: ctrl,
		Addr:       uint16(*addr),
		MaxTxSize:  *maxTx,
		Sequential: *h == 32,
	}
	dev, err := ssd1306.NewI2C(b, &opts)
	if err != nil {
		return err
	}
	log.Printf("display %s", dev)

	r := renderer{dev: dev, tiny: *fontName == "tiny", size: *size}
	switch *mode {
	case "text":
		return r.text(strings.Split(strings.ReplaceAll(*text, `\n`, "\n"), "\n"))
	case "stats":
		for i := 0; *count == 0 || i < *count; i++ {
			if i != 0 {
				time.Sleep(*interval)
			}
			s, err := readStats()
			if err != nil {
				return err
			}
			log.Printf("%+v", s)
			if err := r.text(s.lines()); err != nil {
				return err
			}
		}
		return nil
	case "pattern":
		return dev.Draw(dev.Bounds(), pattern(dev.Bounds()), image.Point{})
	case "clear":
		dev.Clear()
		return dev.Flush()
	case "off":
		return dev.Halt()
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "oledctl: %s.\n", err)
		os.Exit(1)
	}
}
