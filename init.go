// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import "fmt"

// State is the lifecycle state of a Dev.
type State int

const (
	StateUnattached State = iota
	StateIdentityChecked
	StateReset
	StateReady
	// StateFailed is terminal. A new Dev must be created.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnattached:
		return "Unattached"
	case StateIdentityChecked:
		return "IdentityChecked"
	case StateReset:
		return "Reset"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// attach runs the bring-up sequence. It must be called once, before the Dev
// is shared.
func (d *Dev) attach() error {
	d.state = StateUnattached

	id, err := readByte(d.r, regChipID)
	if err != nil {
		return d.fail("chip id", err)
	}
	if id != ChipID {
		d.state = StateFailed
		return &IdentityError{Got: id, Want: ChipID}
	}
	d.state = StateIdentityChecked

	if err := writeReg(d.r, regSoftReset, cmdSoftReset); err != nil {
		return d.fail("reset", err)
	}
	// No register may be accessed until the power-on sequence is done.
	d.opts.Sleep(d.opts.ResetDelay)
	d.state = StateReset

	if err := d.waitImageUpdate(); err != nil {
		return d.fail("status", err)
	}

	// Writes to config may be ignored in normal mode, so it goes first.
	if err := writeReg(d.r, regConfig, configStandard); err != nil {
		return d.fail("config", err)
	}
	if err := writeReg(d.r, regCtrlMeas, ctrlMeasNormal); err != nil {
		return d.fail("ctrl_meas", err)
	}

	c, err := readCalibration(d.r)
	if err != nil {
		return d.fail("calibration", err)
	}
	d.cal = c
	d.state = StateReady
	d.opts.Debug("bmp280: ready, calibration %s", c)
	return nil
}

// waitImageUpdate polls the status register until the NVM data has been
// copied to the image registers. Running out of attempts is not an error;
// the calibration is read anyway.
func (d *Dev) waitImageUpdate() error {
	for i := 0; i < d.opts.PollAttempts; i++ {
		s, err := readByte(d.r, regStatus)
		if err != nil {
			return err
		}
		if s&statusImUpdate == 0 {
			return nil
		}
		d.opts.Sleep(d.opts.PollInterval)
	}
	d.opts.Debug("bmp280: im_update still set after %d polls", d.opts.PollAttempts)
	return nil
}

func (d *Dev) fail(step string, err error) error {
	d.state = StateFailed
	return fmt.Errorf("bmp280: %s: %w", step, err)
}
