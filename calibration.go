// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import "fmt"

// Calibration holds the factory trim coefficients of one sensor.
//
// The value is immutable; it is read once while the device is attached.
type Calibration struct {
	t1     uint16
	t2, t3 int16
	p1     uint16
	p2, p3 int16
	p4, p5 int16
	p6, p7 int16
	p8, p9 int16
}

// ParseCalibration decodes the 24 bytes NVM image found at registers
// 0x88~0x9F. Each coefficient is stored LSB first.
func ParseCalibration(b []byte) (Calibration, error) {
	if len(b) != calibLen {
		return Calibration{}, fmt.Errorf("bmp280: calibration image is %d bytes, expected %d", len(b), calibLen)
	}
	u := func(i int) uint16 { return uint16(b[i+1])<<8 | uint16(b[i]) }
	s := func(i int) int16 { return int16(u(i)) }
	return Calibration{
		t1: u(0), t2: s(2), t3: s(4),
		p1: u(6), p2: s(8), p3: s(10), p4: s(12), p5: s(14),
		p6: s(16), p7: s(18), p8: s(20), p9: s(22),
	}, nil
}

// readCalibration loads the 12 coefficients one word at a time.
func readCalibration(r Registers) (Calibration, error) {
	var w [12]uint16
	for i := range w {
		v, err := readU16LE(r, regCalib+byte(2*i))
		if err != nil {
			return Calibration{}, err
		}
		w[i] = v
	}
	return Calibration{
		t1: w[0], t2: int16(w[1]), t3: int16(w[2]),
		p1: w[3], p2: int16(w[4]), p3: int16(w[5]), p4: int16(w[6]), p5: int16(w[7]),
		p6: int16(w[8]), p7: int16(w[9]), p8: int16(w[10]), p9: int16(w[11]),
	}, nil
}

func (c Calibration) T1() uint16 { return c.t1 }
func (c Calibration) T2() int16  { return c.t2 }
func (c Calibration) T3() int16  { return c.t3 }
func (c Calibration) P1() uint16 { return c.p1 }
func (c Calibration) P2() int16  { return c.p2 }
func (c Calibration) P3() int16  { return c.p3 }
func (c Calibration) P4() int16  { return c.p4 }
func (c Calibration) P5() int16  { return c.p5 }
func (c Calibration) P6() int16  { return c.p6 }
func (c Calibration) P7() int16  { return c.p7 }
func (c Calibration) P8() int16  { return c.p8 }
func (c Calibration) P9() int16  { return c.p9 }

func (c Calibration) String() string {
	return fmt.Sprintf("T=[%d %d %d] P=[%d %d %d %d %d %d %d %d %d]",
		c.t1, c.t2, c.t3, c.p1, c.p2, c.p3, c.p4, c.p5, c.p6, c.p7, c.p8, c.p9)
}
