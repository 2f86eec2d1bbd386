package render

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/yearwheel/internal/testutil"
	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

func TestRound5(t *testing.T) {
	t.Parallel()

	cases := map[float64]float64{
		0:    0,
		2:    0,
		3:    5,
		12.5: 10,
		17.5: 20,
		-7:   -5,
		101:  100,
	}
	for in, want := range cases {
		assert.Equal(t, want, round5(in), "round5(%v)", in)
	}
}

func TestNewLayout(t *testing.T) {
	t.Parallel()

	l := NewLayout(20, 100)
	assert.Equal(t, 5.0, l.MinRounded)
	assert.Equal(t, 105.0, l.MaxRounded)
	assert.Equal(t, 5.0, l.Origin())
	assert.Equal(t, 100.0, l.Outer())
	assert.Equal(t, 15.0, l.Radius(20))
	assert.InDelta(t, 145.0, l.Extent(), 1e-9)
	assert.Equal(t, 14.0, l.HoleRadius())
	assert.Equal(t, 90.0, l.OuterTick())

	want := []float64{20, 30, 40, 50, 60, 70, 80, 90, 100}
	if diff := cmp.Diff(want, l.Rings); diff != "" {
		t.Errorf("rings mismatch (-want +got):\n%s", diff)
	}
}

func TestNewLayoutNarrowRange(t *testing.T) {
	t.Parallel()

	l := NewLayout(61, 68)
	assert.Equal(t, []float64{61, 68}, l.Rings)
	assert.Equal(t, 68.0, l.OuterTick())
	assert.Greater(t, l.Extent(), 0.0)
}

func TestLayoutPolar(t *testing.T) {
	t.Parallel()

	l := NewLayout(20, 100)
	x, y := l.polar(0, 105)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 100, y, 1e-9)

	x, y = l.polar(math.Pi/2, 55)
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}

func testOptions() Options {
	o := DefaultOptions()
	o.Width = 2 * vg.Inch
	o.Height = 2 * vg.Inch
	o.DPI = 50
	o.MinValue = 20
	o.MaxValue = 100
	return o
}

func TestNewRejectsBadOptions(t *testing.T) {
	t.Parallel()

	bad := []func(*Options){
		func(o *Options) { o.Width = 0 },
		func(o *Options) { o.Height = -1 },
		func(o *Options) { o.DPI = 0 },
		func(o *Options) { o.MinValue, o.MaxValue = 10, 5 },
		func(o *Options) { o.MinValue = math.NaN() },
	}
	for i, mutate := range bad {
		o := testOptions()
		mutate(&o)
		_, err := New(o)
		assert.Error(t, err, "case %d", i)
	}
}

func TestNewDefaultsStyle(t *testing.T) {
	t.Parallel()

	o := testOptions()
	o.LineWidth = 0
	o.Alpha = 3
	r, err := New(o)
	require.NoError(t, err)
	assert.Equal(t, vg.Points(2.5), r.opts.LineWidth)
	assert.Equal(t, 0.75, r.opts.Alpha)
}

func TestRenderSize(t *testing.T) {
	t.Parallel()

	r, err := New(testOptions())
	require.NoError(t, err)

	seq := yearwheel.NewSequencer()
	img, err := r.Render(seq.Next(yearwheel.Sample{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Value: 50}))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
	assert.Same(t, img, r.Last())

	// Nothing is drawn in the bottom right corner.
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(99, 99))
}

func TestRenderCachesBaseUntilFlush(t *testing.T) {
	t.Parallel()

	r, err := New(testOptions())
	require.NoError(t, err)

	seq := yearwheel.NewSequencer()
	for _, s := range testutil.DailySamples(testutil.Date(2019, time.December, 20), 30, nil) {
		_, err := r.Render(seq.Next(s))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, seq.FlushCount())
	assert.Equal(t, 2, r.BaseDraws())
}

func TestRenderLeavesBaseUntouched(t *testing.T) {
	t.Parallel()

	r, err := New(testOptions())
	require.NoError(t, err)

	seq := yearwheel.NewSequencer()
	var first, last yearwheel.Frame
	for i, s := range testutil.DailySamples(testutil.Date(2021, time.March, 1), 60, nil) {
		f := seq.Next(s)
		if i == 0 {
			first = f
		}
		last = f
	}

	_, err = r.Render(first)
	require.NoError(t, err)
	base := append([]uint8(nil), r.base.Pix...)

	img, err := r.Render(last)
	require.NoError(t, err)
	assert.Equal(t, base, r.base.Pix)
	assert.NotEqual(t, base, img.Pix, "overlay should draw the current year")
	assert.Equal(t, 1, r.BaseDraws())
}

func TestRenderRejectsMismatchedBackground(t *testing.T) {
	t.Parallel()

	r, err := New(testOptions())
	require.NoError(t, err)

	_, err = r.Render(yearwheel.Frame{
		Background: []yearwheel.Segment{{}, {}},
	})
	assert.Error(t, err)
}

func TestForegroundColors(t *testing.T) {
	t.Parallel()

	o := testOptions()
	o.GrayOutBackground = false
	r, err := New(o)
	require.NoError(t, err)
	assert.Same(t, r.fg, r.bg)
	assert.Same(t, r.fg, r.ForegroundColors())
	assert.Equal(t, 20.0, r.Layout().Min)
}
