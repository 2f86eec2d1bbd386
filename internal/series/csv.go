// Package series loads daily observations and turns them into the gap-free,
// date-ordered samples the year wheel expects.
package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/yearwheel/internal/fsutil"
	"github.com/banshee-data/yearwheel/internal/monitoring"
	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

var (
	// ErrNoSamples is returned when the input holds no usable values.
	ErrNoSamples = errors.New("no samples")
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing column")
)

// Default column names match NOAA GHCN daily summaries.
const (
	DefaultDateColumn  = "DATE"
	DefaultValueColumn = "TMAX"
	DefaultDateLayout  = time.DateOnly
)

// Options selects the columns to read.
type Options struct {
	DateColumn  string
	ValueColumn string
	DateLayout  string
}

func (o Options) withDefaults() Options {
	if o.DateColumn == "" {
		o.DateColumn = DefaultDateColumn
	}
	if o.ValueColumn == "" {
		o.ValueColumn = DefaultValueColumn
	}
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	return o
}

// Observation is one input row. Valid is false when the value cell was
// empty or not a number.
type Observation struct {
	Date  time.Time
	Value float64
	Valid bool
}

// ReadCSV parses rows from r. Header matching is case-insensitive and
// ignores surrounding whitespace; other columns are skipped.
func ReadCSV(r io.Reader, o Options) ([]Observation, error) {
	o = o.withDefaults()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoSamples
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx, valueIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(h, o.DateColumn):
			dateIdx = i
		case strings.EqualFold(h, o.ValueColumn):
			valueIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, o.DateColumn)
	}
	if valueIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, o.ValueColumn)
	}

	var out []Observation
	bad := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if dateIdx >= len(rec) {
			return nil, fmt.Errorf("line %d: no %s field", line, o.DateColumn)
		}
		d, err := ParseDate(rec[dateIdx], o.DateLayout)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		obs := Observation{Date: d, Value: math.NaN()}
		if valueIdx < len(rec) {
			if s := strings.TrimSpace(rec[valueIdx]); s != "" {
				v, err := strconv.ParseFloat(s, 64)
				if err != nil {
					bad++
				} else if !math.IsNaN(v) {
					obs.Value, obs.Valid = v, true
				}
			}
		}
		out = append(out, obs)
	}
	if bad > 0 {
		monitoring.Logf("series: %d unparseable %s values treated as missing", bad, o.ValueColumn)
	}
	return out, nil
}

// ParseDate parses s with layout and truncates it to a UTC calendar day.
func ParseDate(s, layout string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// LoadCSV reads path from fsys and returns gap-filled daily samples.
func LoadCSV(fsys fsutil.FileSystem, path string, o Options) ([]yearwheel.Sample, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	obs, err := ReadCSV(f, o)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Fill(obs)
}
