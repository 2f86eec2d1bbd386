package yearwheel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_XY(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		p      Point
		origin float64
		x, y   float64
	}{
		{"jan 1 at top", Point{Theta: 0, R: 60}, 10, 0, 50},
		{"quarter turn to the right", Point{Theta: math.Pi / 2, R: 30}, 10, 20, 0},
		{"half turn at bottom", Point{Theta: math.Pi, R: 25}, 5, 0, -20},
		{"value at origin collapses", Point{Theta: 1.3, R: 7}, 7, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y := tc.p.XY(tc.origin)
			assert.InDelta(t, tc.x, x, 1e-9)
			assert.InDelta(t, tc.y, y, 1e-9)
		})
	}
}

func TestPath_Batch(t *testing.T) {
	t.Parallel()

	var p Path
	segs, colors := p.Batch()
	assert.Nil(t, segs)
	assert.Nil(t, colors)

	p.append(Point{Theta: 0, R: 1})
	segs, _ = p.Batch()
	assert.Nil(t, segs)
	_, ok := p.Last()
	assert.True(t, ok)

	p.append(Point{Theta: 0.1, R: 2})
	p.append(Point{Theta: 0.2, R: 3})
	segs, colors = p.Batch()
	assert.Len(t, segs, 2)
	assert.Equal(t, []float64{2, 3}, colors)

	// Batches are independent copies.
	segs[0].From.R = 100
	again, _ := p.Batch()
	assert.Equal(t, 1.0, again[0].From.R)

	pts := p.Points()
	pts[0].R = -1
	assert.Equal(t, 1.0, p.Points()[0].R)
}
