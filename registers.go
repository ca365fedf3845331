// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	// I²C addresses, selected by the SDO pin.
	DefaultAddress   uint16 = 0x76
	AlternateAddress uint16 = 0x77

	// ChipID is the content of the id register on a BMP280.
	ChipID byte = 0x58

	regCalib     byte = 0x88
	regChipID    byte = 0xD0
	regSoftReset byte = 0xE0
	regStatus    byte = 0xF3
	regCtrlMeas  byte = 0xF4
	regConfig    byte = 0xF5
	regPressMSB  byte = 0xF7
	regTempMSB   byte = 0xFA

	cmdSoftReset byte = 0xB6

	// statusImUpdate is set while the NVM content is copied to the image
	// registers.
	statusImUpdate byte = 1 << 0

	// osrs_t=001 (x1), osrs_p=011 (x4), mode=11 (normal).
	ctrlMeasNormal byte = 0x2F
	// t_sb=010 (125ms), filter=010 (coefficient 4), spi3w_en=0.
	configStandard byte = 0x48
	ctrlMeasSleep  byte = 0x00

	calibLen = 24
)

// Registers is the register access channel to a single sensor.
//
// ReadReg reads len(b) consecutive registers starting at reg in one
// transaction. Implementations own bus level retries and locking; the driver
// never retries a failed transaction.
type Registers interface {
	ReadReg(reg byte, b []byte) error
	WriteReg(reg, v byte) error
}

// i2cRegs is a Registers on top of a periph I²C device.
type i2cRegs struct {
	d *i2c.Dev
}

func (r *i2cRegs) ReadReg(reg byte, b []byte) error {
	return r.d.Tx([]byte{reg}, b)
}

func (r *i2cRegs) WriteReg(reg, v byte) error {
	return r.d.Tx([]byte{reg, v}, nil)
}

func (r *i2cRegs) String() string {
	return r.d.String()
}

// spiRegs is a Registers on top of a 4-wire SPI connection. Bit 7 of the
// register address is set for reads and cleared for writes.
type spiRegs struct {
	c spi.Conn
}

func newSPIRegs(p spi.Port) (*spiRegs, error) {
	// Mode 3 is used so the clock idles high, the device supports mode 0 and 3.
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode3, 8)
	if err != nil {
		return nil, fmt.Errorf("bmp280: %v", err)
	}
	return &spiRegs{c: c}, nil
}

func (r *spiRegs) ReadReg(reg byte, b []byte) error {
	w := make([]byte, len(b)+1)
	rx := make([]byte, len(b)+1)
	w[0] = reg | 0x80
	if err := r.c.Tx(w, rx); err != nil {
		return err
	}
	copy(b, rx[1:])
	return nil
}

func (r *spiRegs) WriteReg(reg, v byte) error {
	return r.c.Tx([]byte{reg &^ 0x80, v}, nil)
}

func (r *spiRegs) String() string {
	return r.c.String()
}

// readReg is ReadReg with the failure wrapped as a TransportError.
func readReg(r Registers, reg byte, b []byte) error {
	if err := r.ReadReg(reg, b); err != nil {
		return &TransportError{Op: "read", Reg: reg, Err: err}
	}
	return nil
}

func writeReg(r Registers, reg, v byte) error {
	if err := r.WriteReg(reg, v); err != nil {
		return &TransportError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

func readByte(r Registers, reg byte) (byte, error) {
	var b [1]byte
	err := readReg(r, reg, b[:])
	return b[0], err
}

// readU16LE reads the pair at reg (LSB) and reg+1 (MSB) in one burst.
func readU16LE(r Registers, reg byte) (uint16, error) {
	var b [2]byte
	if err := readReg(r, reg, b[:]); err != nil {
		return 0, err
	}
	return uint16(b[1])<<8 | uint16(b[0]), nil
}

// readRaw20 reads a MSB/LSB/XLSB triplet and assembles the 20 bits sample.
// Only the upper nibble of XLSB is significant.
func readRaw20(r Registers, reg byte) (uint32, error) {
	var b [3]byte
	if err := readReg(r, reg, b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0])<<12 | uint32(b[1])<<4 | uint32(b[2])>>4, nil
}
