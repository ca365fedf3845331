// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Reading is one compensated temperature/pressure pair.
type Reading struct {
	// Temperature in 0.01°C. 2508 equals 25.08°C.
	Temperature int64
	// Pressure in Q24.8 Pa. 25767233 equals 25767233/256 = 100653.25 Pa.
	// It is 0 when the calibration does not allow computing a pressure.
	Pressure int64
}

// Pascal returns the pressure truncated to whole Pa.
func (r Reading) Pascal() int64 {
	return r.Pressure / 256
}

// Env converts the reading to periph units. Humidity is left untouched.
func (r Reading) Env(e *physic.Env) {
	e.Temperature = physic.Temperature(r.Temperature)*10*physic.MilliCelsius + physic.ZeroCelsius
	// It has 8 bits of fractional Pascal.
	e.Pressure = physic.Pressure(r.Pressure) * 15625 * physic.MicroPascal / 4
}

func (r Reading) String() string {
	t, sign := r.Temperature, ""
	if t < 0 {
		t, sign = -t, "-"
	}
	return fmt.Sprintf("%s%d.%02d°C %dPa", sign, t/100, t%100, r.Pascal())
}

// Compensate converts a pair of raw 20 bits samples taken together.
//
// The pressure depends on the fine temperature of the same sample pair, so
// the two values cannot be compensated independently.
func Compensate(rawT, rawP uint32, c *Calibration) Reading {
	t, tFine := compensateTemperature(rawT, c)
	p, _ := compensatePressure(rawP, tFine, c)
	return Reading{Temperature: t, Pressure: p}
}

// compensateTemperature returns the temperature in 0.01°C and t_fine.
//
// This is the 64 bits integer formula from section 3.11.3 of the datasheet.
func compensateTemperature(raw uint32, c *Calibration) (int64, int64) {
	adc := int64(raw)
	t1 := int64(c.t1)
	var1 := (((adc >> 3) - (t1 << 1)) * int64(c.t2)) >> 11
	var2 := (((((adc >> 4) - t1) * ((adc >> 4) - t1)) >> 12) * int64(c.t3)) >> 14
	tFine := var1 + var2
	return (tFine*5 + 128) >> 8, tFine
}

// compensatePressure returns the pressure in Q24.8 Pa. ok is false when the
// denominator evaluates to zero, in which case the pressure is 0.
func compensatePressure(raw uint32, tFine int64, c *Calibration) (p int64, ok bool) {
	var1 := tFine - 128000
	var2 := var1 * var1 * int64(c.p6)
	var2 += (var1 * int64(c.p5)) << 17
	var2 += int64(c.p4) << 35
	var1 = ((var1 * var1 * int64(c.p3)) >> 8) + ((var1 * int64(c.p2)) << 12)
	var1 = (((int64(1) << 47) + var1) * int64(c.p1)) >> 33
	if var1 == 0 {
		return 0, false
	}
	p = 1048576 - int64(raw)
	p = (((p << 31) - var2) * 3125) / var1
	var1 = (int64(c.p9) * (p >> 13) * (p >> 13)) >> 25
	var2 = (int64(c.p8) * p) >> 19
	p = ((p + var1 + var2) >> 8) + (int64(c.p7) << 4)
	return p, true
}
