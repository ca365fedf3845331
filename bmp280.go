// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DebugF is a printf style function receiving driver diagnostics.
type DebugF func(format string, args ...interface{})

// Opts holds the configuration options for the device.
//
// The measurement profile is not configurable.
type Opts struct {
	// Address is the I²C address. It is ignored for SPI and for New. Default
	// is DefaultAddress.
	Address uint16
	// ResetDelay is the wait after the soft reset. Default is 5ms, values
	// below 2ms are raised to 2ms.
	ResetDelay time.Duration
	// PollAttempts bounds the number of status reads while waiting for the
	// NVM copy to complete. Default is 10.
	PollAttempts int
	// PollInterval is the wait between two status reads. Default is 1ms.
	PollInterval time.Duration
	// Sleep is the delay primitive used during initialization. Default is
	// time.Sleep.
	Sleep func(time.Duration)
	// Debug receives diagnostics that do not fail an operation. Default
	// discards them.
	Debug DebugF
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Address:      DefaultAddress,
	ResetDelay:   5 * time.Millisecond,
	PollAttempts: 10,
	PollInterval: time.Millisecond,
}

const (
	minResetDelay = 2 * time.Millisecond
	// The sensor refreshes its data registers every 125ms standby period.
	minSenseInterval = 125 * time.Millisecond
)

func (o *Opts) withDefaults() Opts {
	var r Opts
	if o != nil {
		r = *o
	}
	if r.Address == 0 {
		r.Address = DefaultOpts.Address
	}
	if r.ResetDelay <= 0 {
		r.ResetDelay = DefaultOpts.ResetDelay
	} else if r.ResetDelay < minResetDelay {
		r.ResetDelay = minResetDelay
	}
	if r.PollAttempts <= 0 {
		r.PollAttempts = DefaultOpts.PollAttempts
	}
	if r.PollInterval <= 0 {
		r.PollInterval = DefaultOpts.PollInterval
	}
	if r.Sleep == nil {
		r.Sleep = time.Sleep
	}
	if r.Debug == nil {
		r.Debug = noop
	}
	return r
}

func noop(string, ...interface{}) {}

// Dev is a handle to an initialized BMP280.
type Dev struct {
	r    Registers
	opts Opts
	cal  Calibration

	mu    sync.Mutex
	state State
	stop  chan struct{}
	wg    sync.WaitGroup
}

// New initializes the sensor behind r and returns a ready device. The Opts
// can be nil.
//
// No Dev is returned when any initialization step fails.
func New(r Registers, opts *Opts) (*Dev, error) {
	d := &Dev{r: r, opts: opts.withDefaults()}
	if err := d.attach(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewI2C returns an object that communicates over I²C to a BMP280. The Opts
// can be nil.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	o := opts.withDefaults()
	return New(&i2cRegs{d: &i2c.Dev{Bus: b, Addr: o.Address}}, &o)
}

// NewSPI returns an object that communicates over 4-wire SPI to a BMP280.
// The Opts can be nil.
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	r, err := newSPIRegs(p)
	if err != nil {
		return nil, err
	}
	return New(r, opts)
}

// Read captures one sample pair and compensates it.
//
// The temperature and pressure registers are each read in a single burst and
// concurrent callers are serialized, so a Reading never mixes two samples of
// different callers. ErrNotReady is returned without any bus access if the
// device is not initialized.
func (d *Dev) Read() (Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateReady {
		return Reading{}, ErrNotReady
	}
	rawT, err := readRaw20(d.r, regTempMSB)
	if err != nil {
		return Reading{}, fmt.Errorf("bmp280: temperature: %w", err)
	}
	rawP, err := readRaw20(d.r, regPressMSB)
	if err != nil {
		return Reading{}, fmt.Errorf("bmp280: pressure: %w", err)
	}
	t, tFine := compensateTemperature(rawT, &d.cal)
	p, ok := compensatePressure(rawP, tFine, &d.cal)
	if !ok {
		d.opts.Debug("bmp280: pressure denominator is zero, raw=%d %d", rawT, rawP)
	}
	return Reading{Temperature: t, Pressure: p}, nil
}

// Sense implements physic.SenseEnv. Humidity is not measured by the BMP280.
func (d *Dev) Sense(e *physic.Env) error {
	r, err := d.Read()
	if err != nil {
		return err
	}
	r.Env(e)
	return nil
}

// SenseContinuous implements physic.SenseEnv. It returns a channel that
// receives a measurement every interval. Call Halt to stop it.
//
// The interval cannot be shorter than the 125ms refresh period of the sensor.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < minSenseInterval {
		return nil, fmt.Errorf("bmp280: interval %s is shorter than %s", interval, minSenseInterval)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateReady {
		return nil, ErrNotReady
	}
	if d.stop != nil {
		return nil, errors.New("bmp280: SenseContinuous already running")
	}
	d.stop = make(chan struct{})
	ch := make(chan physic.Env)
	d.wg.Add(1)
	go d.sensePoll(interval, ch, d.stop)
	return ch, nil
}

func (d *Dev) sensePoll(interval time.Duration, ch chan<- physic.Env, stop <-chan struct{}) {
	defer d.wg.Done()
	defer close(ch)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			e := physic.Env{}
			if err := d.Sense(&e); err != nil {
				d.opts.Debug("bmp280: %v", err)
				continue
			}
			select {
			case ch <- e:
			case <-stop:
				return
			}
		}
	}
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 10 * physic.MilliKelvin
	// 1/256 Pa.
	e.Pressure = 15625 * physic.MicroPascal / 4
	e.Humidity = 0
}

// Halt stops a SenseContinuous in progress. Implements conn.Resource.
//
// The sensor keeps sampling, use Detach to put it to sleep.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

// Detach puts the sensor in sleep mode and releases the handle. Further reads
// return ErrNotReady.
//
// Failing to write the sleep mode is reported to Opts.Debug only.
func (d *Dev) Detach() {
	_ = d.Halt()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateReady {
		return
	}
	if err := writeReg(d.r, regCtrlMeas, ctrlMeasSleep); err != nil {
		d.opts.Debug("bmp280: sleep mode: %v", err)
	}
	d.state = StateUnattached
}

// State returns the lifecycle state of the device.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Calibration returns the factory trim coefficients loaded at initialization.
func (d *Dev) Calibration() Calibration {
	return d.cal
}

func (d *Dev) String() string {
	if s, ok := d.r.(fmt.Stringer); ok {
		return fmt.Sprintf("bmp280{%s}", s)
	}
	return "bmp280"
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
