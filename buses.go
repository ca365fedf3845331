// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import (
	"fmt"

	"github.com/kidoman/embd"
	"tinygo.org/x/drivers"
)

// tinygoRegs adapts a TinyGo drivers.I2C bus.
type tinygoRegs struct {
	bus  drivers.I2C
	addr uint16
}

func (r *tinygoRegs) ReadReg(reg byte, b []byte) error {
	return r.bus.Tx(r.addr, []byte{reg}, b)
}

func (r *tinygoRegs) WriteReg(reg, v byte) error {
	return r.bus.Tx(r.addr, []byte{reg, v}, nil)
}

func (r *tinygoRegs) String() string {
	return fmt.Sprintf("tinygo-i2c(0x%02x)", r.addr)
}

// embdRegs adapts an embd I²C bus, as used on stratux style hosts.
type embdRegs struct {
	bus  embd.I2CBus
	addr byte
}

func (r *embdRegs) ReadReg(reg byte, b []byte) error {
	return r.bus.ReadFromReg(r.addr, reg, b)
}

func (r *embdRegs) WriteReg(reg, v byte) error {
	return r.bus.WriteByteToReg(r.addr, reg, v)
}

func (r *embdRegs) String() string {
	return fmt.Sprintf("embd-i2c(0x%02x)", r.addr)
}

// NewTinyGo returns a device bound to a TinyGo drivers.I2C bus. The bus must
// already be configured.
func NewTinyGo(bus drivers.I2C, opts *Opts) (*Dev, error) {
	o := opts.withDefaults()
	return New(&tinygoRegs{bus: bus, addr: o.Address}, &o)
}

// NewEmbd returns a device bound to an embd I²C bus.
func NewEmbd(bus embd.I2CBus, opts *Opts) (*Dev, error) {
	o := opts.withDefaults()
	if o.Address > 0x7F {
		return nil, fmt.Errorf("bmp280: invalid I²C address 0x%x", o.Address)
	}
	return New(&embdRegs{bus: bus, addr: byte(o.Address)}, &o)
}
