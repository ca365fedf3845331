// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"log"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GermanBionicSystems/bmp280"
)

type metrics struct {
	reg         *prometheus.Registry
	temperature prometheus.Gauge
	pressure    prometheus.Gauge
	reads       *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bmp280_temperature_celsius",
			Help: "Last compensated temperature.",
		}),
		pressure: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bmp280_pressure_pascal",
			Help: "Last compensated pressure.",
		}),
		reads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bmp280_reads_total",
				Help: "Readings attempted, by result.",
			},
			[]string{"result"},
		),
	}
	m.reg.MustRegister(m.temperature, m.pressure, m.reads)
	return m
}

func (m *metrics) observe(r bmp280.Reading, err error) {
	if err != nil {
		m.reads.With(prometheus.Labels{"result": "error"}).Inc()
		return
	}
	m.reads.With(prometheus.Labels{"result": "ok"}).Inc()
	m.temperature.Set(float64(r.Temperature) / 100)
	m.pressure.Set(float64(r.Pressure) / 256)
}

// serve starts the HTTP endpoint in the background. The listener is bound
// before returning so address errors are reported synchronously.
func (m *metrics) serve(addr string) (*http.Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics: %v", err)
		}
	}()
	return srv, nil
}
