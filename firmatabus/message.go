// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmatabus

// Firmata framing and the I²C feature, see
// https://github.com/firmata/protocol/blob/master/i2c.md
const (
	startSysEx byte = 0xF0
	endSysEx   byte = 0xF7

	sysExI2CRequest byte = 0x76
	sysExI2CConfig  byte = 0x78
)

// I2C_REQUEST mode bits for a 7 bit address write, without restart.
const i2cModeWrite byte = 0b00000000

const sevenBitMask byte = 0b01111111

// byteToTwoByte splits b into the two 7 bit bytes Firmata carries data in.
func byteToTwoByte(b byte) (lsb, msb byte) {
	return b & sevenBitMask, (b >> 7) & sevenBitMask
}

func wordToTwoByte(w uint16) (lsb, msb byte) {
	return byte(w) & sevenBitMask, byte(w>>7) & sevenBitMask
}

// appendTwoByte appends the two byte representation of src to dst.
func appendTwoByte(dst, src []byte) []byte {
	for _, b := range src {
		lsb, msb := byteToTwoByte(b)
		dst = append(dst, lsb, msb)
	}
	return dst
}
