// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bmp280test is meant to be used to test drivers and tools using a
// BMP280 without real hardware.
//
// Sim models the register file of a BMP280 behind an I²C bus. It implements
// periph's i2c.BusCloser and TinyGo's drivers.I2C.
package bmp280test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

const (
	regCalib     = 0x88
	regChipID    = 0xD0
	regSoftReset = 0xE0
	regStatus    = 0xF3
	regCtrlMeas  = 0xF4
	regConfig    = 0xF5
	regPressMSB  = 0xF7
	regTempMSB   = 0xFA
)

// DatasheetCalibration is the calibration image of the worked example in
// section 3.12 of the datasheet:
// T1=27504 T2=26435 T3=-1000 P1=36477 P2=-10685 P3=3024 P4=2855 P5=140 P6=-7
// P7=15500 P8=-14600 P9=6000.
var DatasheetCalibration = []byte{
	0x70, 0x6b, 0x43, 0x67, 0x18, 0xfc,
	0x7d, 0x8e, 0x43, 0xd6, 0xd0, 0x0b, 0x27, 0x0b, 0x8c, 0x00,
	0xf9, 0xff, 0x8c, 0x3c, 0xf8, 0xc6, 0x70, 0x17,
}

// Raw samples of the same worked example.
const (
	DatasheetRawTemperature uint32 = 519888
	DatasheetRawPressure    uint32 = 415148
)

// ErrNack is returned for a transaction to another address than the Sim's.
var ErrNack = errors.New("bmp280test: no acknowledge")

// Sim is a simulated BMP280 on an I²C bus.
//
// The zero value is not usable, use New.
type Sim struct {
	// Delay is slept at the start of every transaction, without holding
	// any lock, to widen race windows in concurrent tests.
	Delay time.Duration

	addr     uint16
	inflight int32
	overlap  int32

	mu       sync.Mutex
	regs     [256]byte
	busy     int
	busyLeft int
	fail     map[byte]error
	ops      []i2ctest.IO
	closed   bool
}

// New returns a Sim answering at addr, loaded with the datasheet example
// calibration and samples.
func New(addr uint16) *Sim {
	s := &Sim{addr: addr, fail: map[byte]error{}}
	s.regs[regChipID] = 0x58
	copy(s.regs[regCalib:], DatasheetCalibration)
	s.setRaw(DatasheetRawTemperature, DatasheetRawPressure)
	return s
}

// SetChipID changes the value of the id register.
func (s *Sim) SetChipID(id byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[regChipID] = id
}

// SetCalibration replaces the 24 bytes calibration image.
func (s *Sim) SetCalibration(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.regs[regCalib:regCalib+24], b)
}

// SetRaw sets the 20 bits temperature and pressure samples.
func (s *Sim) SetRaw(rawT, rawP uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRaw(rawT, rawP)
}

func (s *Sim) setRaw(rawT, rawP uint32) {
	put := func(reg int, v uint32) {
		s.regs[reg] = byte(v >> 12)
		s.regs[reg+1] = byte(v >> 4)
		s.regs[reg+2] = byte(v<<4) & 0xF0
	}
	put(regTempMSB, rawT)
	put(regPressMSB, rawP)
}

// SetBusy makes the status register report an NVM copy in progress for the
// next n reads following a soft reset. A negative n never clears.
func (s *Sim) SetBusy(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = n
}

// FailOn makes every transaction starting at reg fail with err. A nil err
// removes the failure.
func (s *Sim) FailOn(reg byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, reg)
		return
	}
	s.fail[reg] = err
}

// Reg returns the current content of a register.
func (s *Sim) Reg(reg byte) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[reg]
}

// Ops returns a copy of the successful transactions so far.
func (s *Sim) Ops() []i2ctest.IO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]i2ctest.IO(nil), s.ops...)
}

// ResetOps clears the recorded transactions.
func (s *Sim) ResetOps() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
}

// Overlapped reports whether two transactions were ever in flight at the
// same time.
func (s *Sim) Overlapped() bool {
	return atomic.LoadInt32(&s.overlap) != 0
}

// Tx implements i2c.Bus and drivers.I2C.
//
// A write of more than one byte is a list of register/value pairs. A write of
// a single byte sets the register pointer for the read that follows, which
// auto-increments.
func (s *Sim) Tx(addr uint16, w, r []byte) error {
	if atomic.AddInt32(&s.inflight, 1) > 1 {
		atomic.StoreInt32(&s.overlap, 1)
	}
	defer atomic.AddInt32(&s.inflight, -1)
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("bmp280test: bus closed")
	}
	if addr != s.addr {
		return ErrNack
	}
	if len(w) == 0 {
		return errors.New("bmp280test: missing register address")
	}
	if err := s.fail[w[0]]; err != nil {
		return err
	}
	if len(w) > 1 {
		if len(w)%2 != 0 {
			return fmt.Errorf("bmp280test: odd write length %d", len(w))
		}
		for i := 0; i < len(w); i += 2 {
			s.write(w[i], w[i+1])
		}
	}
	if len(r) != 0 {
		if len(w) != 1 {
			return errors.New("bmp280test: read must follow a single byte write")
		}
		for i := range r {
			r[i] = s.read(w[0] + byte(i))
		}
	}
	s.ops = append(s.ops, i2ctest.IO{
		Addr: addr,
		W:    append([]byte(nil), w...),
		R:    append([]byte(nil), r...),
	})
	return nil
}

func (s *Sim) write(reg, v byte) {
	switch reg {
	case regSoftReset:
		if v == 0xB6 {
			s.regs[regCtrlMeas] = 0
			s.regs[regConfig] = 0
			s.busyLeft = s.busy
		}
	case regCtrlMeas, regConfig:
		s.regs[reg] = v
	}
}

func (s *Sim) read(reg byte) byte {
	if reg == regStatus {
		if s.busyLeft != 0 {
			if s.busyLeft > 0 {
				s.busyLeft--
			}
			return 0x01
		}
		return 0
	}
	return s.regs[reg]
}

// SetSpeed implements i2c.Bus.
func (s *Sim) SetSpeed(f physic.Frequency) error {
	return nil
}

// Close implements i2c.BusCloser.
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Sim) String() string {
	return fmt.Sprintf("bmp280test(0x%02x)", s.addr)
}

var _ i2c.BusCloser = &Sim{}
var _ drivers.I2C = &Sim{}
