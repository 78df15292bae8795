// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import "errors"

var (
	// ErrInvalidSize is returned by Init when the panel geometry cannot be
	// backed by a frame buffer for the controller.
	ErrInvalidSize = errors.New("invalid display size")
	// ErrTxSize is returned by Init when the transaction size cannot carry a
	// mode byte and at least one payload byte.
	ErrTxSize = errors.New("maximum transaction size must be at least 2")
	// ErrPixelStream is returned by Write on a buffer that is not exactly one
	// frame.
	ErrPixelStream = errors.New("invalid pixel stream length")
)
