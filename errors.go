// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by Read when the device did not complete
// initialization or was detached.
var ErrNotReady = errors.New("bmp280: device not ready")

// IdentityError is returned when the chip id register does not hold the
// BMP280 identifier.
type IdentityError struct {
	Got  byte
	Want byte
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("bmp280: unexpected chip id 0x%02x, expected 0x%02x", e.Got, e.Want)
}

// TransportError wraps a failed register transaction.
type TransportError struct {
	// Op is "read" or "write".
	Op  string
	Reg byte
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s register 0x%02x: %v", e.Op, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
