// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmatabus

import (
	"errors"
)

var (
	ErrAddressRange       = errors.New("firmatabus: only 7-bit addresses are supported")
	ErrUnsupportedFeature = errors.New("firmatabus: unsupported feature")
	ErrTxTooLarge         = errors.New("firmatabus: transaction too large")
	ErrNoPort             = errors.New("firmatabus: no serial port found")
)
