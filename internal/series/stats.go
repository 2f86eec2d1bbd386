package series

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

// Stats summarises a sample series.
type Stats struct {
	Count int
	First time.Time
	Last  time.Time
	Min   float64
	Max   float64
	Mean  float64
	Years int
}

// Values returns the sample values in order.
func Values(samples []yearwheel.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

// Summarize computes Stats. samples must be non-empty and date ordered.
func Summarize(samples []yearwheel.Sample) (Stats, error) {
	if len(samples) == 0 {
		return Stats{}, ErrNoSamples
	}
	vals := Values(samples)
	first, last := samples[0].Date, samples[len(samples)-1].Date
	return Stats{
		Count: len(samples),
		First: first,
		Last:  last,
		Min:   floats.Min(vals),
		Max:   floats.Max(vals),
		Mean:  stat.Mean(vals, nil),
		Years: last.Year() - first.Year() + 1,
	}, nil
}
