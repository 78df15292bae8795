// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tinygobus exposes a TinyGo I²C bus as a periph i2c.Bus.
//
// This permits running the drivers in this repository on a microcontroller,
// where the bus is a machine.I2C configured by the board support package.
//
// The reverse needs no adapter: any i2c.Bus already implements drivers.I2C.
package tinygobus

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// DefaultMaxTxSize matches the transmit buffer of the smallest TinyGo and
// Arduino I²C implementations.
const DefaultMaxTxSize = 32

// Bus wraps a drivers.I2C.
type Bus struct {
	b     drivers.I2C
	maxTx int
}

// New returns a Bus around b.
//
// maxTx is reported through conn.Limits; 0 means DefaultMaxTxSize.
func New(b drivers.I2C, maxTx int) *Bus {
	if maxTx == 0 {
		maxTx = DefaultMaxTxSize
	}
	return &Bus{b: b, maxTx: maxTx}
}

func (b *Bus) String() string {
	return "tinygo-i2c"
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if err := b.b.Tx(addr, w, r); err != nil {
		return fmt.Errorf("tinygobus: %w", err)
	}
	return nil
}

type baudRateSetter interface {
	SetBaudRate(br uint32) error
}

// SetSpeed implements i2c.Bus.
//
// It is only supported when the underlying bus has a SetBaudRate method, as
// machine.I2C does.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	s, ok := b.b.(baudRateSetter)
	if !ok {
		return errors.New("tinygobus: bus speed cannot be changed")
	}
	if f <= 0 || f > 10*physic.MegaHertz {
		return fmt.Errorf("tinygobus: invalid speed %s", f)
	}
	return s.SetBaudRate(uint32(f / physic.Hertz))
}

// MaxTxSize implements conn.Limits.
func (b *Bus) MaxTxSize() int {
	return b.maxTx
}

var _ i2c.Bus = &Bus{}
var _ conn.Limits = &Bus{}
var _ drivers.I2C = &Bus{}
