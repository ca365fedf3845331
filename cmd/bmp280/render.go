// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image/color"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/maruel/ansi256"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/bmp280"
)

// Range of the bar, in hundredths of °C.
const (
	barMin = -4000
	barMax = 8500
)

// tempColor maps a temperature to a blue to red gradient.
func tempColor(t int64) color.NRGBA {
	if t < barMin {
		t = barMin
	} else if t > barMax {
		t = barMax
	}
	f := (t - barMin) * 255 / (barMax - barMin)
	return color.NRGBA{byte(f), 0, byte(255 - f), 255}
}

// temperatureBar returns an ANSI colored bar of width cells filled
// proportionally to t over the sensor operating range.
func temperatureBar(t int64, width int) string {
	filled := 0
	if t > barMin {
		filled = int((t - barMin) * int64(width) / (barMax - barMin))
	}
	if filled > width {
		filled = width
	}
	var b strings.Builder
	b.WriteString("\r\033[0m")
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString(ansi256.Default.Block(tempColor(barMin + int64(i)*(barMax-barMin)/int64(width))))
		} else {
			b.WriteString(ansi256.Default.Block(color.NRGBA{0, 0, 0, 255}))
		}
	}
	b.WriteString("\033[0m ")
	b.WriteString(temperatureString(t))
	return b.String()
}

// drawCard renders a reading into a 250x122 image, the size of the small
// e-paper panels.
func drawCard(r bmp280.Reading) (*gg.Context, error) {
	const w, h = 250, 122
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 28}))
	dc.SetColor(tempColor(r.Temperature))
	dc.DrawStringAnchored(temperatureString(r.Temperature), w/2, h/3, 0.5, 0.5)
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 20}))
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(humanize.SIWithDigits(float64(r.Pressure)/256, 2, "Pa"), w/2, 2*h/3, 0.5, 0.5)
	padding := 4.0
	dc.DrawRoundedRectangle(padding, padding, w-2*padding, h-2*padding, 10)
	dc.Stroke()
	return dc, nil
}

func renderCard(r bmp280.Reading, path string) error {
	dc, err := drawCard(r)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}
