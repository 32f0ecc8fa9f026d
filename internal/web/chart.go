package web

import (
	"fmt"
	"math"
	"strings"

	"cob-tracker/internal/stats"
)

// Chart geometry is computed here so the templates only place shapes.
const (
	chartW   = 720
	chartH   = 240
	chartPad = 32
)

type Bar struct {
	X, Y, W, H float64
	Label      string
	Hours      float64
}

type Tick struct {
	Y     float64
	Label string
}

type Chart struct {
	Width, Height int
	Bars          []Bar
	// Line is a polyline points attribute tracing the end hour of each shift.
	Line  string
	Ticks []Tick
	Empty bool
}

func buildChart(points []stats.Point) Chart {
	c := Chart{Width: chartW, Height: chartH, Empty: len(points) == 0}
	if c.Empty {
		return c
	}

	top := 0.0
	for _, p := range points {
		top = math.Max(top, math.Max(p.DurationHours, p.EndHours))
	}
	top = math.Max(4, math.Ceil(top/4)*4)

	plotW := float64(chartW - 2*chartPad)
	plotH := float64(chartH - 2*chartPad)
	slot := plotW / float64(len(points))
	scale := plotH / top
	base := float64(chartH - chartPad)

	var line []string
	for i, p := range points {
		h := p.DurationHours * scale
		x := float64(chartPad) + float64(i)*slot
		c.Bars = append(c.Bars, Bar{
			X:     round1(x + slot*0.15),
			Y:     round1(base - h),
			W:     round1(slot * 0.7),
			H:     round1(h),
			Label: p.Date,
			Hours: p.DurationHours,
		})
		line = append(line, fmt.Sprintf("%.1f,%.1f", x+slot/2, base-p.EndHours*scale))
	}
	c.Line = strings.Join(line, " ")

	for v := 0.0; v <= top; v += top / 4 {
		c.Ticks = append(c.Ticks, Tick{Y: round1(base - v*scale), Label: fmt.Sprintf("%gh", v)})
	}
	return c
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
