package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/yearwheel/internal/encode"
)

const (
	// DefaultFPS is used for GIF output and whenever no target duration
	// is set.
	DefaultFPS = 60
	// DefaultPauseSeconds is how long the finished wheel is held.
	DefaultPauseSeconds = 5.0
)

// ErrTiming is returned when a target duration leaves no time for the
// animated part.
var ErrTiming = errors.New("target duration must be longer than the pause")

// Timing holds the user's time budget. A zero Duration means no target.
type Timing struct {
	Duration float64
	Pause    float64
}

// Validate rejects negative values and a duration that does not exceed
// the pause.
func (t Timing) Validate() error {
	if t.Pause < 0 || math.IsNaN(t.Pause) {
		return fmt.Errorf("pause must be non-negative, got %v", t.Pause)
	}
	if t.Duration < 0 || math.IsNaN(t.Duration) {
		return fmt.Errorf("duration must be non-negative, got %v", t.Duration)
	}
	if t.Duration > 0 && t.Duration <= t.Pause {
		return fmt.Errorf("%w: duration %vs, pause %vs", ErrTiming, t.Duration, t.Pause)
	}
	return nil
}

// FrameRate picks frames per second for samples frames of animation.
// MP4 output stretches or squeezes the animation to fit the target
// duration; GIF frame delays are too coarse for that and stay at
// DefaultFPS.
func FrameRate(samples int, format encode.Format, t Timing) (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if t.Duration == 0 || format != encode.FormatMP4 {
		return DefaultFPS, nil
	}
	fps := int(float64(samples) / (t.Duration - t.Pause))
	return max(fps, 1), nil
}

// PauseFrames is the number of held frames for pause seconds at fps.
func PauseFrames(fps int, pause float64) int {
	if pause <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Round(pause * float64(fps)))
}

// Plan bundles the frame rate and pause for a render.
type Plan struct {
	FPS         int
	PauseFrames int
	Samples     int
}

// Frames is the total number of frames the animation will contain.
func (p Plan) Frames() int { return p.Samples + p.PauseFrames }

// Seconds is the playing time of the animation.
func (p Plan) Seconds() float64 {
	if p.FPS == 0 {
		return 0
	}
	return float64(p.Frames()) / float64(p.FPS)
}

// NewPlan applies FrameRate and PauseFrames.
func NewPlan(samples int, format encode.Format, t Timing) (Plan, error) {
	fps, err := FrameRate(samples, format, t)
	if err != nil {
		return Plan{}, err
	}
	return Plan{FPS: fps, PauseFrames: PauseFrames(fps, t.Pause), Samples: samples}, nil
}
