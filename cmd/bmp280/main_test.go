// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/GermanBionicSystems/bmp280"
)

func TestParseFlags(t *testing.T) {
	c, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.addr != 0x76 || c.n != 1 || c.interval != time.Second || c.sim {
		t.Fatalf("unexpected defaults %#v", c)
	}
	data := [][]string{
		{"-n", "-1"},
		{"-n", "2", "-interval", "10ms"},
		{"-sim", "-spi", "/dev/spidev0.0"},
		{"extra"},
	}
	for _, args := range data {
		if _, err := parseFlags(args); err == nil {
			t.Errorf("parseFlags(%q) expected error", args)
		}
	}
}

func TestRunSim(t *testing.T) {
	c, err := parseFlags([]string{"-sim", "-n", "2", "-interval", "125ms"})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := run(c, &buf, nil); err != nil {
		t.Fatal(err)
	}
	expected := "bmp280: 25.08°C 100.65 kPa\nbmp280: 25.08°C 100.65 kPa\n"
	if s := buf.String(); s != expected {
		t.Fatalf("got %q; expected %q", s, expected)
	}
}

func TestRunStop(t *testing.T) {
	c, err := parseFlags([]string{"-sim", "-n", "0", "-interval", "1h"})
	if err != nil {
		t.Fatal(err)
	}
	stop := make(chan os.Signal, 1)
	stop <- os.Interrupt
	var buf bytes.Buffer
	if err := run(c, &buf, stop); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Fatalf("%d readings before stop, expected 1", n)
	}
}

func TestRunColor(t *testing.T) {
	c, err := parseFlags([]string{"-sim", "-color"})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := run(c, &buf, nil); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected reading and bar, got %q", buf.String())
	}
	if !strings.HasSuffix(lines[1], "\033[0m 25.08°C") {
		t.Fatalf("unexpected bar %q", lines[1])
	}
}

func TestRunPNG(t *testing.T) {
	p := filepath.Join(t.TempDir(), "card.png")
	c, err := parseFlags([]string{"-sim", "-png", p})
	if err != nil {
		t.Fatal(err)
	}
	if err := run(c, &bytes.Buffer{}, nil); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 250 || b.Dy() != 122 {
		t.Fatalf("unexpected bounds %s", b)
	}
}

func TestTemperatureString(t *testing.T) {
	data := []struct {
		t        int64
		expected string
	}{
		{2508, "25.08°C"},
		{-5, "-0.05°C"},
		{-14088, "-140.88°C"},
		{0, "0.00°C"},
	}
	for _, line := range data {
		if s := temperatureString(line.t); s != line.expected {
			t.Errorf("temperatureString(%d) = %q; expected %q", line.t, s, line.expected)
		}
	}
}

func TestTemperatureBar(t *testing.T) {
	// Below and above the range.
	if a, b := temperatureBar(-10000, 10), temperatureBar(-4000, 10); strings.TrimSuffix(a, "-100.00°C") != strings.TrimSuffix(b, "-40.00°C") {
		t.Error("temperatures below range must render an empty bar")
	}
	if a, b := temperatureBar(20000, 10), temperatureBar(8500, 10); strings.TrimSuffix(a, "200.00°C") != strings.TrimSuffix(b, "85.00°C") {
		t.Error("temperatures above range must render a full bar")
	}
	if c := tempColor(-4000); c.R != 0 || c.B != 255 {
		t.Errorf("cold color %v", c)
	}
	if c := tempColor(8500); c.R != 255 || c.B != 0 {
		t.Errorf("hot color %v", c)
	}
}

func TestMetrics(t *testing.T) {
	m := newMetrics()
	m.observe(bmp280.Reading{Temperature: 2508, Pressure: 25767233}, nil)
	m.observe(bmp280.Reading{}, errors.New("bus error"))
	if v := testutil.ToFloat64(m.temperature); v != 25.08 {
		t.Errorf("temperature %g", v)
	}
	if v := testutil.ToFloat64(m.pressure); v != 25767233./256 {
		t.Errorf("pressure %g", v)
	}
	if v := testutil.ToFloat64(m.reads.With(prometheus.Labels{"result": "ok"})); v != 1 {
		t.Errorf("ok %g", v)
	}
	if v := testutil.ToFloat64(m.reads.With(prometheus.Labels{"result": "error"})); v != 1 {
		t.Errorf("error %g", v)
	}
}

func TestMetricsServe(t *testing.T) {
	m := newMetrics()
	srv, err := m.serve("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Close(); err != nil {
		t.Fatal(err)
	}
}
