package yearwheel

import (
	"iter"
	"time"
)

// State is the sequencer's coarse state. The flush on a year change happens
// inside a single Next call, so it never shows up as a resting state.
type State int

const (
	// StateAccumulating consumes samples for the tracked year.
	StateAccumulating State = iota
	// StatePaused re-emits the last frame until Reset.
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Sequencer accumulates per-year paths from daily samples. It is owned by
// a single run and is not safe for concurrent use.
type Sequencer struct {
	state   State
	started bool
	year    int
	day     int

	current    Path
	background Path

	// Background batch is rebuilt only on flush and handed out as-is
	// until the next flush replaces it.
	bgSegments []Segment
	bgColors   []float64

	last    Frame
	steps   int
	flushes int
}

// NewSequencer returns a sequencer ready for its first sample.
func NewSequencer() *Sequencer {
	s := &Sequencer{}
	s.Reset()
	return s
}

// Reset discards all accumulated state.
func (s *Sequencer) Reset() {
	*s = Sequencer{state: StateAccumulating}
}

// Next consumes one sample and returns the resulting frame.
//
// A sample whose year differs from the tracked year starts a new year: the
// day counter goes back to 0 and a non-empty current path is flushed into
// the background. Feb 29 is drawn half a day before the counter and does
// not advance it, so Mar 1 lands on the slot a common year would give it.
//
// Once paused, Next behaves like Hold; call Reset to start over.
func (s *Sequencer) Next(sample Sample) Frame {
	if s.state == StatePaused {
		return s.Hold()
	}

	flushed := false
	if y := sample.Date.Year(); !s.started || y != s.year {
		s.started = true
		s.year = y
		s.day = 0
		flushed = s.flush()
	}

	var theta float64
	if IsLeapDay(sample.Date) {
		theta = Angle(float64(s.day) - 0.5)
		s.day--
	} else {
		theta = Angle(float64(s.day))
	}
	s.day++

	pt := Point{Theta: theta, R: sample.Value}
	s.current.append(pt)

	segs, colors := s.current.Batch()
	s.last = Frame{
		Index:            s.steps,
		Date:             sample.Date,
		Current:          segs,
		CurrentColors:    colors,
		Background:       s.bgSegments,
		BackgroundColors: s.bgColors,
		Marker:           pt,
		HasMarker:        true,
		Flushed:          flushed,
	}
	s.steps++
	return s.last
}

// Hold moves the sequencer into the paused state and re-emits the last
// frame with a fresh index.
func (s *Sequencer) Hold() Frame {
	s.state = StatePaused
	f := s.last
	f.Index = s.steps
	f.Paused = true
	f.Flushed = false
	s.steps++
	return f
}

// flush moves the current path into the background. It reports whether
// anything was moved.
func (s *Sequencer) flush() bool {
	if s.current.Len() == 0 {
		return false
	}
	s.background.extend(&s.current)
	s.bgSegments, s.bgColors = s.background.Batch()
	s.current.clear()
	s.flushes++
	return true
}

// Sequence resets the sequencer and yields one frame per sample followed
// by pauseFrames held frames.
func (s *Sequencer) Sequence(samples []Sample, pauseFrames int) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		s.Reset()
		for _, sample := range samples {
			if !yield(s.Next(sample)) {
				return
			}
		}
		for i := 0; i < pauseFrames; i++ {
			if !yield(s.Hold()) {
				return
			}
		}
	}
}

// State returns the current state.
func (s *Sequencer) State() State { return s.state }

// Year returns the tracked calendar year, or 0 before the first sample.
func (s *Sequencer) Year() int { return s.year }

// DayIndex returns the day counter the next sample of the tracked year
// would be drawn at.
func (s *Sequencer) DayIndex() int { return s.day }

// FlushCount returns how many years have been moved into the background.
func (s *Sequencer) FlushCount() int { return s.flushes }

// Steps returns the number of frames emitted since Reset.
func (s *Sequencer) Steps() int { return s.steps }

// CurrentPath returns a copy of the in-progress year's points.
func (s *Sequencer) CurrentPath() []Point { return s.current.Points() }

// BackgroundPath returns a copy of all completed years' points.
func (s *Sequencer) BackgroundPath() []Point { return s.background.Points() }

// LastDate returns the date of the most recent sample.
func (s *Sequencer) LastDate() time.Time { return s.last.Date }
