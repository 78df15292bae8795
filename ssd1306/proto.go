// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

const (
	i2cCmd  = 0x00 // I²C transaction has stream of command bytes
	i2cData = 0x40 // I²C transaction has stream of data bytes
)

// DefaultMaxTxSize is the transaction size assumed when neither the options
// nor the bus provide one. It is the smallest Wire buffer found on common
// microcontroller cores.
const DefaultMaxTxSize = 32

// encoder turns commands and frame data into bus transactions.
//
// Every transaction starts with the mode marker byte, so at most maxTx-1
// payload bytes fit in each.
type encoder struct {
	c             conn.Conn
	maxTx         int
	singleCommand bool
	buf           []byte
}

// command sends a single command byte in its own transaction.
func (e *encoder) command(c byte) error {
	return e.c.Tx([]byte{i2cCmd, c}, nil)
}

// commandList sends a sequence of command bytes, split across as many
// transactions as needed.
func (e *encoder) commandList(cmds []byte) error {
	if e.singleCommand {
		for _, c := range cmds {
			if err := e.command(c); err != nil {
				return err
			}
		}
		return nil
	}
	return e.stream(i2cCmd, cmds)
}

// data sends display RAM content, split across as many transactions as
// needed.
func (e *encoder) data(pixels []byte) error {
	return e.stream(i2cData, pixels)
}

// stream sends p in transactions of at most maxTx bytes, each one prefixed
// with mode.
//
// A failure aborts the stream; what was already sent stays on the device.
func (e *encoder) stream(mode byte, p []byte) error {
	chunk := e.maxTx - 1
	if cap(e.buf) < e.maxTx {
		e.buf = make([]byte, 0, e.maxTx)
	}
	for len(p) > 0 {
		n := min(len(p), chunk)
		e.buf = append(append(e.buf[:0], mode), p[:n]...)
		if err := e.c.Tx(e.buf, nil); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// maxTxSize returns the largest transaction the bus accepts.
//
// An explicit value wins, then the bus' own limit, then DefaultMaxTxSize.
func maxTxSize(bus i2c.Bus, want int) int {
	if want != 0 {
		return want
	}
	if l, ok := bus.(conn.Limits); ok {
		if n := l.MaxTxSize(); n > 0 {
			return n
		}
	}
	return DefaultMaxTxSize
}
