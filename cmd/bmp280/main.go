// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// bmp280 reads temperature and pressure from a BMP280 sensor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/bmp280"
	"github.com/GermanBionicSystems/bmp280/bmp280test"
)

type config struct {
	bus      string
	addr     uint
	spi      string
	sim      bool
	n        int
	interval time.Duration
	verbose  bool
	color    bool
	png      string
	metrics  string
}

func parseFlags(args []string) (*config, error) {
	c := &config{}
	fs := flag.NewFlagSet("bmp280", flag.ContinueOnError)
	fs.StringVar(&c.bus, "bus", "", "I²C bus to use")
	fs.UintVar(&c.addr, "addr", uint(bmp280.DefaultAddress), "I²C address, 0x76 or 0x77")
	fs.StringVar(&c.spi, "spi", "", "SPI port to use instead of I²C")
	fs.BoolVar(&c.sim, "sim", false, "use a simulated sensor")
	fs.IntVar(&c.n, "n", 1, "number of readings, 0 for infinite")
	fs.DurationVar(&c.interval, "interval", time.Second, "delay between readings")
	fs.BoolVar(&c.verbose, "v", false, "verbose mode")
	fs.BoolVar(&c.color, "color", false, "print a colored temperature bar")
	fs.StringVar(&c.png, "png", "", "render the last reading into this PNG file")
	fs.StringVar(&c.metrics, "metrics", "", "serve prometheus metrics on this address, e.g. :9280")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, errors.New("unexpected argument, try -help")
	}
	if c.n < 0 {
		return nil, errors.New("-n must be positive")
	}
	if c.n != 1 && c.interval < 125*time.Millisecond {
		return nil, errors.New("-interval must be at least 125ms")
	}
	if c.sim && c.spi != "" {
		return nil, errors.New("-sim and -spi are mutually exclusive")
	}
	return c, nil
}

// open returns the device and a function to release the underlying bus.
func open(c *config, opts *bmp280.Opts) (*bmp280.Dev, func() error, *bmp280test.Sim, error) {
	if c.sim {
		s := bmp280test.New(opts.Address)
		d, err := bmp280.NewI2C(s, opts)
		return d, s.Close, s, err
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, nil, err
	}
	if c.spi != "" {
		p, err := spireg.Open(c.spi)
		if err != nil {
			return nil, nil, nil, err
		}
		d, err := bmp280.NewSPI(p, opts)
		if err != nil {
			p.Close()
			return nil, nil, nil, err
		}
		return d, p.Close, nil, nil
	}
	b, err := i2creg.Open(c.bus)
	if err != nil {
		return nil, nil, nil, err
	}
	d, err := bmp280.NewI2C(b, opts)
	if err != nil {
		b.Close()
		return nil, nil, nil, err
	}
	return d, b.Close, nil, nil
}

func formatReading(r bmp280.Reading) string {
	return fmt.Sprintf("bmp280: %s %s", temperatureString(r.Temperature), humanize.SIWithDigits(float64(r.Pressure)/256, 2, "Pa"))
}

// temperatureString formats hundredths of °C.
func temperatureString(t int64) string {
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	return fmt.Sprintf("%s%d.%02d°C", sign, t/100, t%100)
}

func run(c *config, w io.Writer, stop <-chan os.Signal) error {
	opts := bmp280.DefaultOpts
	opts.Address = uint16(c.addr)
	if c.verbose {
		opts.Debug = log.Printf
	}
	d, closeBus, sim, err := open(c, &opts)
	if err != nil {
		return err
	}
	defer closeBus()
	defer d.Detach()
	if c.verbose {
		log.Printf("%s: %s", d, d.Calibration())
	}

	var m *metrics
	if c.metrics != "" {
		m = newMetrics()
		srv, err := m.serve(c.metrics)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	var last bmp280.Reading
	var t *time.Ticker
	for i := 0; c.n == 0 || i < c.n; i++ {
		if i != 0 {
			if t == nil {
				t = time.NewTicker(c.interval)
				defer t.Stop()
			}
			select {
			case <-stop:
				return finish(c, last)
			case <-t.C:
			}
		}
		r, err := d.Read()
		if m != nil {
			m.observe(r, err)
		}
		if err != nil {
			return err
		}
		if sim != nil {
			sim.ResetOps()
		}
		last = r
		if _, err := fmt.Fprintln(w, formatReading(r)); err != nil {
			return err
		}
		if c.color {
			if _, err := io.WriteString(w, temperatureBar(r.Temperature, 40)+"\n"); err != nil {
				return err
			}
		}
	}
	return finish(c, last)
}

func finish(c *config, last bmp280.Reading) error {
	if c.png == "" {
		return nil
	}
	return renderCard(last, c.png)
}

func mainImpl() error {
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	if !c.verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	var w io.Writer = os.Stdout
	if c.color {
		w = colorable.NewColorableStdout()
	}
	return run(c, w, stop)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "bmp280: %s.\n", err)
		os.Exit(1)
	}
}
