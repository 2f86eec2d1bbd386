package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	"math"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/yearwheel/internal/colormap"
	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

// DefaultCredit is the source line printed under the caption.
const DefaultCredit = "Source: https://www.ncdc.noaa.gov/"

// Options configures the renderer.
type Options struct {
	Caption string
	// Credit is printed under the caption; newlines start new lines.
	Credit string
	Unit   string

	Width  vg.Length
	Height vg.Length
	DPI    int

	// MinValue and MaxValue are the data range; they drive the radial
	// scale and the color maps.
	MinValue float64
	MaxValue float64

	// GrayOutBackground draws completed years in a single muted tone
	// instead of the temperature gradient.
	GrayOutBackground bool

	LineWidth vg.Length
	Alpha     float64
}

// DefaultOptions returns a 9x9 inch, 100 dpi frame.
func DefaultOptions() Options {
	return Options{
		Caption:           "Daily High Temperatures",
		Credit:            DefaultCredit,
		Unit:              "°F",
		Width:             9 * vg.Inch,
		Height:            9 * vg.Inch,
		DPI:               100,
		GrayOutBackground: true,
		LineWidth:         vg.Points(2.5),
		Alpha:             0.75,
	}
}

// Renderer turns frames into images. It caches the base layer between
// flushes and is not safe for concurrent use.
type Renderer struct {
	opts   Options
	layout Layout
	fg     *colormap.Colormap
	bg     *colormap.Colormap

	baseKey   int
	baseValid bool
	base      *image.RGBA
	last      *image.RGBA
	baseDraws int
}

// New validates opts and returns a renderer.
func New(opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("render: size must be positive, got %vx%v", opts.Width, opts.Height)
	}
	if opts.DPI <= 0 {
		return nil, fmt.Errorf("render: dpi must be positive, got %d", opts.DPI)
	}
	if math.IsNaN(opts.MinValue) || math.IsNaN(opts.MaxValue) || opts.MaxValue < opts.MinValue {
		return nil, fmt.Errorf("render: invalid value range [%v, %v]", opts.MinValue, opts.MaxValue)
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = vg.Points(2.5)
	}
	if opts.Alpha <= 0 || opts.Alpha > 1 {
		opts.Alpha = 0.75
	}

	r := &Renderer{
		opts:   opts,
		layout: NewLayout(opts.MinValue, opts.MaxValue),
		fg:     colormap.Temperature(opts.MinValue, opts.MaxValue),
	}
	if opts.GrayOutBackground {
		r.bg = colormap.Muted(opts.MinValue, opts.MaxValue)
	} else {
		r.bg = r.fg
	}
	return r, nil
}

// Layout returns the radial scale in use.
func (r *Renderer) Layout() Layout { return r.layout }

// ForegroundColors returns the color map used for the current year.
func (r *Renderer) ForegroundColors() *colormap.Colormap { return r.fg }

// BaseDraws counts how often the base layer was rebuilt.
func (r *Renderer) BaseDraws() int { return r.baseDraws }

// Render draws f. The returned image is owned by the caller.
func (r *Renderer) Render(f yearwheel.Frame) (*image.RGBA, error) {
	if !r.baseValid || len(f.Background) != r.baseKey {
		base, err := r.drawBase(f.Background, f.BackgroundColors)
		if err != nil {
			return nil, err
		}
		r.base, r.baseKey, r.baseValid = base, len(f.Background), true
		r.baseDraws++
	}

	img := image.NewRGBA(r.base.Bounds())
	copy(img.Pix, r.base.Pix)

	p := r.newPlot()
	p.BackgroundColor = color.Transparent
	if len(f.Current) > 0 {
		p.Add(&segments{
			layout: r.layout,
			segs:   f.Current,
			colors: r.fg.Colors(f.CurrentColors, r.opts.Alpha),
			width:  r.opts.LineWidth,
		})
	}
	if f.HasMarker {
		p.Add(&marker{
			layout: r.layout,
			pt:     f.Marker,
			style:  draw.GlyphStyle{Color: color.Black, Radius: vg.Points(2.5), Shape: draw.CircleGlyph{}},
		})
	}
	if !f.Date.IsZero() {
		e := r.layout.Extent()
		p.Add(&labels{items: []label{{
			X: -0.97 * e, Y: -0.97 * e,
			Text:  f.Date.Format(time.DateOnly),
			Style: textStyle(vg.Points(20), text.XLeft, text.YBottom),
		}}})
	}

	c := vgimg.NewWith(vgimg.UseDPI(r.opts.DPI), vgimg.UseImage(img))
	p.Draw(draw.New(c))

	r.last = toRGBA(c.Image())
	return r.last, nil
}

// Last returns the most recently rendered image, or nil.
func (r *Renderer) Last() *image.RGBA { return r.last }

func (r *Renderer) newPlot() *plot.Plot {
	p := plot.New()
	p.HideAxes()
	e := r.layout.Extent()
	p.X.Min, p.X.Max = -e, e
	p.Y.Min, p.Y.Max = -e, e
	return p
}

func (r *Renderer) drawBase(bg []yearwheel.Segment, bgColors []float64) (*image.RGBA, error) {
	p := r.newPlot()
	p.BackgroundColor = color.White

	p.Add(&grid{
		layout: r.layout,
		face:   color.RGBA{R: 0xe5, G: 0xe5, B: 0xe5, A: 0xff},
		line:   color.White,
		width:  vg.Points(1),
	})
	if len(bg) > 0 {
		if len(bgColors) != len(bg) {
			return nil, errors.New("render: background colors do not match segments")
		}
		p.Add(&segments{
			layout: r.layout,
			segs:   bg,
			colors: r.bg.Colors(bgColors, r.opts.Alpha),
			width:  r.opts.LineWidth,
		})
	}
	p.Add(&labels{
		items: r.staticLabels(),
		arrow: draw.LineStyle{Color: color.Black, Width: vg.Points(1)},
	})

	c := vgimg.NewWith(vgimg.UseWH(r.opts.Width, r.opts.Height), vgimg.UseDPI(r.opts.DPI))
	p.Draw(draw.New(c))

	return toRGBA(c.Image()), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	stddraw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, stddraw.Src)
	return rgba
}

// staticLabels returns month names, captions and the value annotations.
func (r *Renderer) staticLabels() []label {
	l := r.layout
	e := l.Extent()
	var out []label

	for i, d := range MonthStarts {
		x, y := l.polar(yearwheel.Angle(d), l.MaxRounded+0.12*l.Outer())
		out = append(out, label{X: x, Y: y, Text: MonthNames[i], Style: textStyle(vg.Points(18), text.XCenter, text.YCenter)})
	}

	if r.opts.Caption != "" {
		out = append(out, label{X: -0.97 * e, Y: 0.97 * e, Text: r.opts.Caption, Style: textStyle(vg.Points(20), text.XLeft, text.YTop)})
	}
	if r.opts.Credit != "" {
		for i, line := range strings.Split(r.opts.Credit, "\n") {
			out = append(out, label{X: -0.97 * e, Y: (0.86 - 0.05*float64(i)) * e, Text: line, Style: textStyle(vg.Points(10), text.XLeft, text.YTop)})
		}
	}

	// Value annotations sit on the 135 degree ray, the outer tick on 103.
	annotate := func(deg, v, textR float64) label {
		theta := 2 * math.Pi * deg / 360
		ax, ay := l.polar(theta, v)
		tx, ty := l.polar(theta, textR)
		return label{
			X: tx, Y: ty, AX: ax, AY: ay, Arrow: true,
			Text:  fmt.Sprintf("%d%s", int(v), r.opts.Unit),
			Style: textStyle(vg.Points(15), text.XCenter, text.YCenter),
		}
	}
	out = append(out,
		annotate(135, l.Max, l.MaxRounded+15),
		annotate(103, l.OuterTick(), l.MaxRounded+15),
	)
	minLabel := annotate(135, l.Min, l.Origin())
	minLabel.X, minLabel.Y = 0, 0
	out = append(out, minLabel)
	return out
}
