// Package colormap maps temperature values to colors with a normalised,
// linearly segmented gradient.
package colormap

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Named colors used by the year wheel.
const (
	Blue            = "#0000ff"
	MediumSlateBlue = "#7b68ee"
	Red             = "#ff0000"
	Silver          = "#c0c0c0"
)

// Stop is a gradient key point at a normalised position in [0, 1].
type Stop struct {
	Pos   float64
	Color colorful.Color
	Hex   string
}

// Colormap normalises values linearly between Min and Max and blends the
// neighbouring stops in RGB. Values outside the range take the end colors.
type Colormap struct {
	Min   float64
	Max   float64
	stops []Stop
}

// New builds a colormap with one stop per (value, hex color) pair. Stop
// values are normalised against [minV, maxV] and clamped to [0, 1].
func New(minV, maxV float64, values []float64, hexColors []string) (*Colormap, error) {
	if len(values) != len(hexColors) {
		return nil, fmt.Errorf("colormap: %d values for %d colors", len(values), len(hexColors))
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("colormap: need at least 2 stops, got %d", len(values))
	}

	c := &Colormap{Min: minV, Max: maxV}
	prev := 0.0
	for i, v := range values {
		col, err := colorful.Hex(hexColors[i])
		if err != nil {
			return nil, fmt.Errorf("colormap: stop %d: %w", i, err)
		}
		pos := math.Min(1, math.Max(0, c.Normalize(v)))
		// Keep stops ordered even when a middle value falls outside the range.
		pos = math.Max(pos, prev)
		prev = pos
		c.stops = append(c.stops, Stop{Pos: pos, Color: col, Hex: hexColors[i]})
	}
	return c, nil
}

// stopValues places the low stop at minV, the middle stop at half the
// span and the high stop at maxV.
func stopValues(minV, maxV float64) []float64 {
	return []float64{minV, (maxV - minV) / 2, maxV}
}

// Temperature returns the blue → mediumslateblue → red gradient.
func Temperature(minV, maxV float64) *Colormap {
	c, err := New(minV, maxV, stopValues(minV, maxV), []string{Blue, MediumSlateBlue, Red})
	if err != nil {
		panic(err) // constant stops
	}
	return c
}

// Muted returns a single-tone silver map used to de-emphasise prior years.
func Muted(minV, maxV float64) *Colormap {
	c, err := New(minV, maxV, stopValues(minV, maxV), []string{Silver, Silver, Silver})
	if err != nil {
		panic(err) // constant stops
	}
	return c
}

// Normalize maps v to [0, 1] for values inside the range. A zero-width
// range maps everything to 0.
func (c *Colormap) Normalize(v float64) float64 {
	span := c.Max - c.Min
	if span == 0 {
		return 0
	}
	return (v - c.Min) / span
}

// Color returns the blended color for value v.
func (c *Colormap) Color(v float64) colorful.Color {
	t := c.Normalize(v)
	if t <= c.stops[0].Pos || math.IsNaN(t) {
		return c.stops[0].Color
	}
	last := c.stops[len(c.stops)-1]
	if t >= last.Pos {
		return last.Color
	}
	for i := 0; i < len(c.stops)-1; i++ {
		lo, hi := c.stops[i], c.stops[i+1]
		if t < lo.Pos || t > hi.Pos {
			continue
		}
		if hi.Pos == lo.Pos {
			return hi.Color
		}
		return lo.Color.BlendRgb(hi.Color, (t-lo.Pos)/(hi.Pos-lo.Pos))
	}
	return last.Color
}

// At returns the color for v with the given opacity in [0, 1].
func (c *Colormap) At(v, alpha float64) color.Color {
	r, g, b := c.Color(v).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))}
}

// Colors maps each value with At.
func (c *Colormap) Colors(values []float64, alpha float64) []color.Color {
	out := make([]color.Color, len(values))
	for i, v := range values {
		out[i] = c.At(v, alpha)
	}
	return out
}

// Stops returns a copy of the gradient key points.
func (c *Colormap) Stops() []Stop {
	return append([]Stop(nil), c.stops...)
}

// HexColors returns the stop colors in order, for chart libraries that
// take CSS colors.
func (c *Colormap) HexColors() []string {
	out := make([]string, len(c.stops))
	for i, s := range c.stops {
		out[i] = s.Hex
	}
	return out
}
