package encode

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

// OverlayOptions configures the HTML overlay chart.
type OverlayOptions struct {
	Title    string
	Subtitle string
	// Origin is the value drawn at the center of the wheel.
	Origin float64
	// MinValue and MaxValue bound the color scale.
	MinValue float64
	MaxValue float64
	// Colors is the low-to-high gradient for the visual map.
	Colors []string
}

// WriteOverlayHTML renders every year of samples as its own scatter series
// on a polar->XY chart, so single years can be toggled from the legend.
func WriteOverlayHTML(w io.Writer, samples []yearwheel.Sample, o OverlayOptions) error {
	if len(samples) == 0 {
		return fmt.Errorf("overlay: no samples")
	}

	type series struct {
		year int
		data []opts.ScatterData
	}
	var years []series
	maxAbs := 0.0

	seq := yearwheel.NewSequencer()
	for f := range seq.Sequence(samples, 0) {
		y := f.Date.Year()
		if len(years) == 0 || years[len(years)-1].year != y {
			years = append(years, series{year: y})
		}
		x, yy := f.Marker.XY(o.Origin)
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(x), math.Abs(yy)))
		cur := &years[len(years)-1]
		cur.data = append(cur.data, opts.ScatterData{
			Name:  f.Date.Format(time.DateOnly),
			Value: []interface{}{x, yy, f.Marker.R},
		})
	}

	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}
	colors := o.Colors
	if len(colors) == 0 {
		colors = []string{"#0000ff", "#7b68ee", "#ff0000"}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: o.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Show: opts.Bool(false)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(o.MinValue),
			Max:        float32(o.MaxValue),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: colors},
		}),
	)
	for _, s := range years {
		scatter.AddSeries(strconv.Itoa(s.year), s.data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render overlay: %w", err)
	}
	return nil
}
