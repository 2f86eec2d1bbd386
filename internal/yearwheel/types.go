package yearwheel

import (
	"math"
	"time"
)

// DaysPerTurn is the number of day-units that span a full circle. Leap
// years use the same circle; Feb 29 shares a slot with its neighbours.
const DaysPerTurn = 365

// Angle maps a (possibly fractional) day-of-year index to radians.
func Angle(day float64) float64 {
	return 2.0 * math.Pi * (day / DaysPerTurn)
}

// IsLeapDay reports whether t falls on February 29.
func IsLeapDay(t time.Time) bool {
	return t.Month() == time.February && t.Day() == 29
}

// Sample is one daily observation.
type Sample struct {
	Date  time.Time
	Value float64
}

// Point is a polar coordinate: Theta in radians, R in value units.
type Point struct {
	Theta float64
	R     float64
}

// Segment joins two consecutive points of a path.
type Segment struct {
	From Point
	To   Point
}

// Path is an ordered run of points.
type Path struct {
	points []Point
}

// Len returns the number of points on the path.
func (p *Path) Len() int { return len(p.points) }

// Points returns a copy of the path's points.
func (p *Path) Points() []Point {
	out := make([]Point, len(p.points))
	copy(out, p.points)
	return out
}

// Last returns the most recent point and false if the path is empty.
func (p *Path) Last() (Point, bool) {
	if len(p.points) == 0 {
		return Point{}, false
	}
	return p.points[len(p.points)-1], true
}

func (p *Path) append(pt Point) {
	p.points = append(p.points, pt)
}

func (p *Path) extend(o *Path) {
	p.points = append(p.points, o.points...)
}

func (p *Path) clear() {
	p.points = nil
}

// Batch returns the N-1 segments joining consecutive points and, for each
// segment, the color scalar taken from its later endpoint. Both slices are
// freshly allocated on every call.
func (p *Path) Batch() ([]Segment, []float64) {
	if len(p.points) < 2 {
		return nil, nil
	}
	segs := make([]Segment, len(p.points)-1)
	colors := make([]float64, len(p.points)-1)
	for i := 1; i < len(p.points); i++ {
		segs[i-1] = Segment{From: p.points[i-1], To: p.points[i]}
		colors[i-1] = p.points[i].R
	}
	return segs, colors
}

// Frame is everything a renderer needs for one animation step. The slices
// are never modified after the frame is returned.
type Frame struct {
	// Index counts steps since the last Reset, pause steps included.
	Index int
	// Date of the sample that produced the frame (the last sample for
	// paused frames).
	Date time.Time

	Current          []Segment
	CurrentColors    []float64
	Background       []Segment
	BackgroundColors []float64

	Marker    Point
	HasMarker bool

	// Flushed is set on the first frame of a new year when the previous
	// year was moved into the background.
	Flushed bool
	Paused  bool
}

// XY converts p to plot coordinates with the wheel's orientation: zero
// angle at the top, angles growing clockwise, radius measured from origin.
func (p Point) XY(origin float64) (x, y float64) {
	r := p.R - origin
	return r * math.Sin(p.Theta), r * math.Cos(p.Theta)
}
