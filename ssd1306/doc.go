// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1306 controls a 128x64 class monochrome OLED display via a
// SSD1306 or ST7315 controller over I²C.
//
// The driver keeps a full frame buffer in the controller's native layout
// (see package image1bit). Drawing only touches that buffer; Flush, Display,
// Draw and Write send the whole frame: first the addressing window covering
// the panel, then the buffer as data.
//
// Every I²C transaction starts with a mode byte, 0x00 for commands and 0x40
// for display data. Buses limit the size of a single transaction, the
// Arduino Wire buffer being 32 bytes on many boards, so command lists and
// frame data are split into transactions of at most MaxTxSize bytes, each
// one repeating the mode byte. The limit comes from Opts.MaxTxSize, else
// from the bus when it implements conn.Limits, else DefaultMaxTxSize.
//
// The Dev also implements the TinyGo drivers.Displayer interface, so
// tinyfont and tinydraw can render into it.
//
// # Datasheets
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
