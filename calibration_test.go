// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/GermanBionicSystems/bmp280/bmp280test"
)

func TestParseCalibration(t *testing.T) {
	c, err := ParseCalibration(bmp280test.DatasheetCalibration)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(datasheetCal, c, cmp.AllowUnexported(Calibration{})); diff != "" {
		t.Errorf("ParseCalibration() mismatch (-want +got):\n%s", diff)
	}
	if c.T1() != 27504 || c.T3() != -1000 || c.P1() != 36477 || c.P6() != -7 || c.P9() != 6000 {
		t.Errorf("unexpected accessors: %s", c)
	}
	if _, err := ParseCalibration(make([]byte, 23)); err == nil {
		t.Error("expected error on short image")
	}
}

func calibOps(addr uint16, image []byte) []i2ctest.IO {
	ops := make([]i2ctest.IO, 0, 12)
	for i := 0; i < 12; i++ {
		ops = append(ops, i2ctest.IO{Addr: addr, W: []byte{regCalib + byte(2*i)}, R: image[2*i : 2*i+2]})
	}
	return ops
}

func TestReadCalibration(t *testing.T) {
	bus := i2ctest.Playback{Ops: calibOps(DefaultAddress, bmp280test.DatasheetCalibration)}
	c, err := readCalibration(&i2cRegs{d: &i2c.Dev{Bus: &bus, Addr: DefaultAddress}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(datasheetCal, c, cmp.AllowUnexported(Calibration{})); diff != "" {
		t.Errorf("readCalibration() mismatch (-want +got):\n%s", diff)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestReadCalibrationError(t *testing.T) {
	sim := bmp280test.New(DefaultAddress)
	injected := errors.New("bus error")
	sim.FailOn(0x94, injected)
	_, err := readCalibration(&i2cRegs{d: &i2c.Dev{Bus: sim, Addr: DefaultAddress}})
	var te *TransportError
	if !errors.As(err, &te) || te.Reg != 0x94 || te.Op != "read" {
		t.Fatalf("unexpected error %v", err)
	}
	if !errors.Is(err, injected) {
		t.Fatalf("error %v does not wrap %v", err, injected)
	}
	// P4 failed, P5~P9 must not be read.
	if n := len(sim.Ops()); n != 6 {
		t.Errorf("%d transactions, expected 6", n)
	}
}

// A word read at the calibration register is interpreted LSB first and
// reinterpreted as signed for the signed coefficients.
func TestReadCalibrationSigned(t *testing.T) {
	image := make([]byte, 24)
	for i := range image {
		image[i] = 0xFF
	}
	sim := bmp280test.New(DefaultAddress)
	sim.SetCalibration(image)
	c, err := readCalibration(&i2cRegs{d: &i2c.Dev{Bus: sim, Addr: DefaultAddress}})
	if err != nil {
		t.Fatal(err)
	}
	if c.T1() != 0xFFFF || c.P1() != 0xFFFF {
		t.Errorf("unsigned coefficients: %d %d", c.T1(), c.P1())
	}
	if c.T2() != -1 || c.T3() != -1 || c.P2() != -1 || c.P3() != -1 || c.P4() != -1 ||
		c.P5() != -1 || c.P6() != -1 || c.P7() != -1 || c.P8() != -1 || c.P9() != -1 {
		t.Errorf("signed coefficients: %s", c)
	}
}
