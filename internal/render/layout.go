// Package render draws year-wheel frames with gonum/plot.
//
// A frame is composed from two layers: a base layer holding the grid,
// labels and every completed year, which only changes when a year is
// flushed, and an overlay with the current year, the marker and the date.
// The base layer is cached between flushes.
package render

import (
	"math"

	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

// MonthStarts are the day-of-year offsets of the first of each month in a
// common year.
var MonthStarts = [12]float64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// MonthNames labels MonthStarts.
var MonthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Layout holds the radial scale derived from the data range.
type Layout struct {
	Min float64
	Max float64
	// MinRounded is drawn at the center of the wheel; MaxRounded is the
	// outer edge of the plotting disc.
	MinRounded float64
	MaxRounded float64
	// Rings are the values that get a grid circle: Min, each multiple of
	// ten strictly between Min and Max, and Max.
	Rings []float64
}

// round5 rounds to the nearest multiple of 5; halves go to the even
// multiple.
func round5(v float64) float64 {
	return 5 * math.RoundToEven(v/5)
}

// NewLayout derives the scale for values in [minV, maxV].
func NewLayout(minV, maxV float64) Layout {
	l := Layout{
		Min:        minV,
		Max:        maxV,
		MinRounded: round5(minV - 15),
		MaxRounded: round5(maxV + 5),
	}
	l.Rings = append(l.Rings, minV)
	for v := -100.0; v < 150; v += 10 {
		if v > minV && v < maxV {
			l.Rings = append(l.Rings, v)
		}
	}
	l.Rings = append(l.Rings, maxV)
	return l
}

// Origin is the value drawn at the center.
func (l Layout) Origin() float64 { return l.MinRounded }

// Outer is the radius of the plotting disc in value units.
func (l Layout) Outer() float64 { return l.MaxRounded - l.Origin() }

// Radius converts a value to a distance from the center.
func (l Layout) Radius(v float64) float64 { return v - l.Origin() }

// Extent is the half-width of the square data window; it leaves room for
// month labels, captions and annotations around the disc.
func (l Layout) Extent() float64 {
	if o := l.Outer(); o > 0 {
		return o * 1.45
	}
	return 1
}

// HoleRadius is the white disc at the center, just inside the lowest value.
func (l Layout) HoleRadius() float64 {
	return math.Max(0, l.Min-l.MinRounded-1)
}

// OuterTick is the highest decade ring strictly inside the data range, or
// Max when there is none.
func (l Layout) OuterTick() float64 {
	if len(l.Rings) > 2 {
		return l.Rings[len(l.Rings)-2]
	}
	return l.Max
}

// polar converts an angle and value to plot coordinates.
func (l Layout) polar(theta, v float64) (x, y float64) {
	return yearwheel.Point{Theta: theta, R: v}.XY(l.Origin())
}
