package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/banshee-data/yearwheel/internal/encode"
	"github.com/banshee-data/yearwheel/internal/fsutil"
	"github.com/banshee-data/yearwheel/internal/monitoring"
	"github.com/banshee-data/yearwheel/internal/timeutil"
	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

// Renderer draws one frame into an image. *render.Renderer satisfies it.
type Renderer interface {
	Render(f yearwheel.Frame) (*image.RGBA, error)
}

// Options configures Run.
type Options struct {
	Plan Plan
	// ProgressEvery logs a progress line every N frames; zero disables
	// the periodic lines.
	ProgressEvery int
	Clock         timeutil.Clock

	// Snapshot is where the last frame is saved as PNG. Empty disables it.
	Snapshot string
	FS       fsutil.FileSystem
}

// Result summarises a finished run.
type Result struct {
	Frames   int
	Flushes  int
	LastDate time.Time
	Elapsed  time.Duration
	Snapshot string
}

// Run sequences samples, renders every frame and writes it to w, then
// holds the final frame for the planned pause. w is closed before Run
// returns. Cancelling ctx stops the run between frames.
func Run(ctx context.Context, samples []yearwheel.Sample, r Renderer, w encode.FrameWriter, o Options) (res Result, err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	if len(samples) == 0 {
		return res, errors.New("no samples to render")
	}
	if o.Plan.Samples == 0 {
		o.Plan.Samples = len(samples)
	}
	if o.FS == nil {
		o.FS = fsutil.OSFileSystem{}
	}

	seq := yearwheel.NewSequencer()
	progress := monitoring.NewProgress(len(samples)+o.Plan.PauseFrames, o.ProgressEvery, o.Clock)

	var last *image.RGBA
	for f := range seq.Sequence(samples, o.Plan.PauseFrames) {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("render stopped at frame %d: %w", f.Index, err)
		}

		desc := "Finalizing..."
		img := last
		if !f.Paused || last == nil {
			desc = f.Date.Format(time.DateOnly)
			if img, err = r.Render(f); err != nil {
				return res, fmt.Errorf("render frame %d (%s): %w", f.Index, desc, err)
			}
		}
		if err := w.WriteFrame(img); err != nil {
			return res, fmt.Errorf("write frame %d: %w", f.Index, err)
		}
		last = img
		res.Frames++
		progress.Update(desc)
	}

	res.Flushes = seq.FlushCount()
	res.LastDate = seq.LastDate()
	res.Elapsed = progress.Finish()

	if o.Snapshot != "" && last != nil {
		if err := encode.WritePNG(o.FS, o.Snapshot, last); err != nil {
			return res, err
		}
		res.Snapshot = o.Snapshot
		monitoring.Logf("Saved snapshot %s", o.Snapshot)
	}
	return res, nil
}
