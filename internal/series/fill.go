package series

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/interp"

	"github.com/banshee-data/yearwheel/internal/monitoring"
	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

// Fill sorts observations by date, drops repeated dates (first row wins)
// and returns one sample per calendar day from the first to the last date.
// Missing days and missing values are linearly interpolated between the
// nearest valid neighbours; days before the first or after the last valid
// value take that value.
func Fill(obs []Observation) ([]yearwheel.Sample, error) {
	if len(obs) == 0 {
		return nil, ErrNoSamples
	}

	sorted, dups := Dedup(obs)
	if dups > 0 {
		monitoring.Logf("series: dropped %d duplicate dates", dups)
	}

	first := sorted[0].Date
	var xs, ys []float64
	lastDay := dayNumber(first, sorted[len(sorted)-1].Date)
	for _, o := range sorted {
		if o.Valid {
			xs = append(xs, float64(dayNumber(first, o.Date)))
			ys = append(ys, o.Value)
		}
	}
	if len(xs) == 0 {
		return nil, ErrNoSamples
	}

	predict := func(float64) float64 { return ys[0] }
	if len(xs) > 1 {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("interpolate: %w", err)
		}
		predict = pl.Predict
	}

	days := lastDay + 1
	out := make([]yearwheel.Sample, days)
	for d := 0; d < days; d++ {
		out[d] = yearwheel.Sample{
			Date:  first.AddDate(0, 0, d),
			Value: predict(float64(d)),
		}
	}
	if filled := days - len(xs); filled > 0 {
		monitoring.Logf("series: interpolated %d of %d days", filled, days)
	}
	return out, nil
}

// Dedup returns a copy of obs stably sorted by date with repeated dates
// removed, keeping the first row seen for each date, and the number of rows
// dropped.
func Dedup(obs []Observation) ([]Observation, int) {
	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := sorted[:0]
	for i, o := range sorted {
		if i > 0 && dayNumber(out[len(out)-1].Date, o.Date) == 0 {
			continue
		}
		out = append(out, o)
	}
	return out, len(sorted) - len(out)
}

// dayNumber counts calendar days from first to t. Both are UTC midnights.
func dayNumber(first, t time.Time) int {
	return int(t.Sub(first).Round(time.Hour).Hours() / 24)
}
