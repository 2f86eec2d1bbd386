package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

// The plotters below work in plot data coordinates (the XY of the wheel)
// and never report a data range, so the fixed axis window set by newPlot
// is the same for the base layer and the overlay.

// segments strokes each segment with its own color.
type segments struct {
	layout Layout
	segs   []yearwheel.Segment
	colors []color.Color
	width  vg.Length
}

func (s *segments) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	origin := s.layout.Origin()
	for i, seg := range s.segs {
		x0, y0 := seg.From.XY(origin)
		x1, y1 := seg.To.XY(origin)
		sty := draw.LineStyle{Color: s.colors[i], Width: s.width}
		c.StrokeLine2(sty, trX(x0), trY(y0), trX(x1), trY(y1))
	}
}

// grid draws the shaded disc, value rings, month spokes and the hole.
type grid struct {
	layout Layout
	face   color.Color
	line   color.Color
	width  vg.Length
}

const circleSteps = 180

func (g *grid) circle(trX, trY func(float64) vg.Length, r float64) []vg.Point {
	pts := make([]vg.Point, 0, circleSteps+1)
	for i := 0; i <= circleSteps; i++ {
		a := 2 * math.Pi * float64(i) / circleSteps
		pts = append(pts, vg.Point{X: trX(r * math.Sin(a)), Y: trY(r * math.Cos(a))})
	}
	return pts
}

func (g *grid) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	l := g.layout
	sty := draw.LineStyle{Color: g.line, Width: g.width}

	c.FillPolygon(g.face, g.circle(trX, trY, l.Outer()))
	for _, v := range l.Rings {
		c.StrokeLines(sty, g.circle(trX, trY, l.Radius(v)))
	}
	for _, d := range MonthStarts {
		x, y := l.polar(yearwheel.Angle(d), l.MaxRounded)
		c.StrokeLine2(sty, trX(0), trY(0), trX(x), trY(y))
	}
	if h := l.HoleRadius(); h > 0 {
		c.FillPolygon(color.White, g.circle(trX, trY, h))
	}
}

// label is a piece of text anchored at a data coordinate, optionally with
// an arrow line to a second point.
type label struct {
	X, Y   float64
	Text   string
	Style  text.Style
	Arrow  bool
	AX, AY float64
}

type labels struct {
	items []label
	arrow draw.LineStyle
}

func (ls *labels) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, it := range ls.items {
		if it.Arrow {
			c.StrokeLine2(ls.arrow, trX(it.X), trY(it.Y), trX(it.AX), trY(it.AY))
			c.DrawGlyph(draw.GlyphStyle{Color: ls.arrow.Color, Radius: vg.Points(2), Shape: draw.CircleGlyph{}},
				vg.Point{X: trX(it.AX), Y: trY(it.AY)})
		}
		c.FillText(it.Style, vg.Point{X: trX(it.X), Y: trY(it.Y)}, it.Text)
	}
}

// marker is the moving dot at the most recent point.
type marker struct {
	layout Layout
	pt     yearwheel.Point
	style  draw.GlyphStyle
}

func (m *marker) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	x, y := m.pt.XY(m.layout.Origin())
	c.DrawGlyph(m.style, vg.Point{X: trX(x), Y: trY(y)})
}

func textStyle(size vg.Length, xa text.XAlignment, ya text.YAlignment) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, size),
		XAlign:  xa,
		YAlign:  ya,
		Handler: plot.DefaultTextHandler,
	}
}
