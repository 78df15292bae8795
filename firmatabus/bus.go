// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package firmatabus implements a write only I²C bus tunneled through the
// Firmata protocol.
//
// It drives the I²C port of a microcontroller running StandardFirmata,
// typically an Arduino connected over USB, so a display can be driven from a
// host that has no I²C bus of its own.
package firmatabus

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultBaudRate is the serial speed StandardFirmata uses.
const DefaultBaudRate = 57600

// MaxTxSize is the Wire library buffer size on AVR Arduinos.
const MaxTxSize = 32

// Opts represents the options of the Firmata bus.
type Opts struct {
	// BaudRate defaults to DefaultBaudRate.
	BaudRate int
	// ResetDelay is how long Open waits for the board to boot, as opening the
	// port resets most Arduinos. Defaults to 2s.
	ResetDelay time.Duration
	// ReadDelay is the delay in µs the firmware waits between writing a
	// register and reading it back. Only the low 14 bits are used.
	ReadDelay uint16
	// MaxTxSize defaults to MaxTxSize.
	MaxTxSize int

	_ struct{}
}

// Bus is an I²C bus behind a Firmata board.
type Bus struct {
	name  string
	maxTx int

	mu  sync.Mutex
	rwc io.ReadWriteCloser
	buf []byte
}

// Open opens the serial port and configures I²C on the board.
//
// port is a device path like /dev/ttyACM0 or COM3. Specify the empty string
// "" to use the first serial port found.
func Open(port string, opts *Opts) (*Bus, error) {
	if port == "" {
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("firmatabus: %w", err)
		}
		if len(ports) == 0 {
			return nil, ErrNoPort
		}
		port = ports[0]
	}
	o := *opts
	if o.BaudRate == 0 {
		o.BaudRate = DefaultBaudRate
	}
	if o.ResetDelay == 0 {
		o.ResetDelay = 2 * time.Second
	}
	p, err := serial.Open(port, &serial.Mode{
		BaudRate: o.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("firmatabus: %s: %w", port, err)
	}
	time.Sleep(o.ResetDelay)
	// Drop the firmware report sent at boot.
	if err := p.ResetInputBuffer(); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("firmatabus: %s: %w", port, err)
	}
	b, err := newBus(port, p, &o)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return b, nil
}

// New configures I²C on a Firmata board reachable through rwc.
//
// The board must be ready to accept commands. Closing the Bus closes rwc.
func New(rwc io.ReadWriteCloser, opts *Opts) (*Bus, error) {
	return newBus("", rwc, opts)
}

func newBus(name string, rwc io.ReadWriteCloser, opts *Opts) (*Bus, error) {
	b := &Bus{name: name, maxTx: opts.MaxTxSize, rwc: rwc}
	if b.maxTx == 0 {
		b.maxTx = MaxTxSize
	}
	lsb, msb := wordToTwoByte(opts.ReadDelay)
	if _, err := rwc.Write([]byte{startSysEx, sysExI2CConfig, lsb, msb, endSysEx}); err != nil {
		return nil, fmt.Errorf("firmatabus: i2c config: %w", err)
	}
	return b, nil
}

func (b *Bus) String() string {
	if b.name == "" {
		return "firmata"
	}
	return "firmata(" + b.name + ")"
}

// Close implements i2c.BusCloser.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rwc.Close()
}

// Tx implements i2c.Bus.
//
// Each transaction is one I2C_REQUEST message in write mode. Reads are not
// supported.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return fmt.Errorf("%w: 0x%04X", ErrAddressRange, addr)
	}
	if len(r) != 0 {
		return fmt.Errorf("%w: reading", ErrUnsupportedFeature)
	}
	if len(w) > b.maxTx {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrTxTooLarge, len(w), b.maxTx)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf[:0], startSysEx, sysExI2CRequest, byte(addr), i2cModeWrite)
	b.buf = appendTwoByte(b.buf, w)
	b.buf = append(b.buf, endSysEx)
	if _, err := b.rwc.Write(b.buf); err != nil {
		return fmt.Errorf("firmatabus: %w", err)
	}
	return nil
}

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return fmt.Errorf("%w: firmata does not support setting bus frequency", ErrUnsupportedFeature)
}

// MaxTxSize implements conn.Limits.
func (b *Bus) MaxTxSize() int {
	return b.maxTx
}

var _ i2c.BusCloser = &Bus{}
var _ conn.Limits = &Bus{}
