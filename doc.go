// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oled is a container for the SSD1306 class monochrome OLED driver
// and the buses it runs on.
//
// ssd1306 is the driver, image1bit its frame buffer format. oledsim,
// tinygobus and firmatabus are i2c.Bus implementations: an emulated
// controller, a TinyGo machine.I2C and an Arduino running StandardFirmata.
// cmd/oledctl drives a display from the command line.
package oled
