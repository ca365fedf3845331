// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bmp280 controls a Bosch BMP280 pressure and temperature sensor over
// I²C or SPI.
//
// The driver brings the sensor up once (chip id check, soft reset, NVM copy
// wait, fixed measurement profile, calibration load) and then converts each
// pair of raw 20-bit samples with the vendor's 64-bit integer compensation
// formula. No floating point is used on the read path: temperatures are in
// centi-degrees Celsius and pressures in 1/256 Pa.
//
// The measurement profile is fixed: normal mode, temperature oversampling x1,
// pressure oversampling x4, IIR filter coefficient 4, 125ms standby.
//
// # Datasheet
//
// The URLs tend to rot, visit https://www.bosch-sensortec.com if they become
// invalid.
//
// https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bmp280-ds001.pdf
//
// A command line tool is available in cmd/bmp280.
package bmp280
