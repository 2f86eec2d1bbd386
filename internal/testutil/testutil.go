// Package testutil provides shared sample fixtures for tests.
package testutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

// Date returns midnight UTC on the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailySamples returns n consecutive daily samples starting at start.
// value receives the sample's offset and date; nil gives a seasonal curve.
func DailySamples(start time.Time, n int, value func(i int, d time.Time) float64) []yearwheel.Sample {
	if value == nil {
		value = Seasonal
	}
	out := make([]yearwheel.Sample, n)
	for i := range out {
		d := start.AddDate(0, 0, i)
		out[i] = yearwheel.Sample{Date: d, Value: value(i, d)}
	}
	return out
}

// Seasonal is a smooth yearly curve between 40 and 80, warmest in July.
func Seasonal(_ int, d time.Time) float64 {
	return 60 - 20*math.Cos(2*math.Pi*float64(d.YearDay()-15)/365)
}

// Constant returns a value function that always yields v.
func Constant(v float64) func(int, time.Time) float64 {
	return func(int, time.Time) float64 { return v }
}

// CSV renders samples in the NOAA daily summary layout. Values are
// rounded to whole degrees the way the summaries publish them.
func CSV(station string, samples []yearwheel.Sample) string {
	var b strings.Builder
	b.WriteString("STATION,DATE,TMAX\n")
	for _, s := range samples {
		fmt.Fprintf(&b, "%s,%s,%d\n", station, s.Date.Format(time.DateOnly), int(math.Round(s.Value)))
	}
	return b.String()
}
