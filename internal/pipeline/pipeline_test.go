package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/yearwheel/internal/encode"
	"github.com/banshee-data/yearwheel/internal/fsutil"
	"github.com/banshee-data/yearwheel/internal/monitoring"
	"github.com/banshee-data/yearwheel/internal/testutil"
	"github.com/banshee-data/yearwheel/internal/timeutil"
	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

func TestFrameRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		samples int
		format  encode.Format
		timing  Timing
		want    int
	}{
		{"mp4 no target", 1000, encode.FormatMP4, Timing{Pause: 5}, 60},
		{"gif no target", 1000, encode.FormatGIF, Timing{Pause: 5}, 60},
		{"mp4 target", 3650, encode.FormatMP4, Timing{Duration: 65, Pause: 5}, 60},
		{"mp4 target truncates", 1000, encode.FormatMP4, Timing{Duration: 35, Pause: 5}, 33},
		{"mp4 target floor of one", 10, encode.FormatMP4, Timing{Duration: 100, Pause: 5}, 1},
		{"gif ignores target", 10, encode.FormatGIF, Timing{Duration: 100, Pause: 5}, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FrameRate(tt.samples, tt.format, tt.timing)
			if err != nil {
				t.Fatalf("FrameRate(%d, %s) error: %v", tt.samples, tt.format, err)
			}
			if got != tt.want {
				t.Errorf("FrameRate(%d, %s) = %d, want %d", tt.samples, tt.format, got, tt.want)
			}
		})
	}
}

func TestFrameRateRejectsShortDuration(t *testing.T) {
	t.Parallel()

	_, err := FrameRate(100, encode.FormatMP4, Timing{Duration: 5, Pause: 5})
	assert.ErrorIs(t, err, ErrTiming)

	_, err = FrameRate(100, encode.FormatGIF, Timing{Duration: 3, Pause: 5})
	assert.ErrorIs(t, err, ErrTiming)

	_, err = FrameRate(100, encode.FormatMP4, Timing{Pause: -1})
	assert.Error(t, err)
}

func TestPlan(t *testing.T) {
	t.Parallel()

	p, err := NewPlan(3650, encode.FormatMP4, Timing{Duration: 65, Pause: 5})
	require.NoError(t, err)
	assert.Equal(t, Plan{FPS: 60, PauseFrames: 300, Samples: 3650}, p)
	assert.Equal(t, 3950, p.Frames())
	assert.InDelta(t, 65.83, p.Seconds(), 0.01)

	assert.Equal(t, 0, PauseFrames(60, 0))
	assert.Equal(t, 30, PauseFrames(60, 0.5))
	assert.Equal(t, 0.0, Plan{}.Seconds())
}

type fakeRenderer struct {
	frames []yearwheel.Frame
	failAt int
}

func (r *fakeRenderer) Render(f yearwheel.Frame) (*image.RGBA, error) {
	r.frames = append(r.frames, f)
	if r.failAt > 0 && len(r.frames) == r.failAt {
		return nil, errors.New("boom")
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: uint8(len(r.frames)), A: 0xff})
	return img, nil
}

type fakeWriter struct {
	images []image.Image
	closed int
}

func (w *fakeWriter) WriteFrame(img image.Image) error {
	w.images = append(w.images, img)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed++
	return nil
}

func dailySamples(start time.Time, n int) []yearwheel.Sample {
	return testutil.DailySamples(start, n, nil)
}

func TestRun(t *testing.T) {
	t.Parallel()

	samples := dailySamples(time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC), 62)
	r := &fakeRenderer{}
	w := &fakeWriter{}
	fsys := fsutil.NewMemoryFileSystem()

	res, err := Run(context.Background(), samples, r, w, Options{
		Plan:     Plan{FPS: 2, PauseFrames: 4},
		Clock:    timeutil.NewMockClock(time.Unix(0, 0)),
		Snapshot: "out/output.mp4.png",
		FS:       fsys,
	})
	require.NoError(t, err)

	assert.Equal(t, 66, res.Frames)
	assert.Equal(t, 1, res.Flushes)
	assert.Equal(t, samples[61].Date, res.LastDate)
	assert.Equal(t, "out/output.mp4.png", res.Snapshot)

	// Paused frames reuse the last rendered image.
	assert.Len(t, r.frames, 62)
	require.Len(t, w.images, 66)
	for _, img := range w.images[62:] {
		assert.Same(t, w.images[61], img)
	}
	assert.Equal(t, 1, w.closed)

	data, err := fsys.ReadFile("out/output.mp4.png")
	require.NoError(t, err)
	snap, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), snap.Bounds())
}

func TestRunNoSnapshot(t *testing.T) {
	t.Parallel()

	fsys := fsutil.NewMemoryFileSystem()
	w := &fakeWriter{}
	res, err := Run(context.Background(), dailySamples(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 3), &fakeRenderer{}, w, Options{FS: fsys})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Frames)
	assert.Empty(t, res.Snapshot)
	assert.Empty(t, fsys.Files())
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	_, err := Run(context.Background(), nil, &fakeRenderer{}, w, Options{})
	assert.Error(t, err)
	assert.Equal(t, 1, w.closed)

	w = &fakeWriter{}
	_, err = Run(context.Background(), dailySamples(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 10), &fakeRenderer{failAt: 3}, w, Options{})
	assert.ErrorContains(t, err, "boom")
	assert.Len(t, w.images, 2)
	assert.Equal(t, 1, w.closed)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &fakeWriter{}
	_, err := Run(ctx, dailySamples(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 10), &fakeRenderer{}, w, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.images)
	assert.Equal(t, 1, w.closed)
}

type failingCloser struct{ fakeWriter }

func (w *failingCloser) Close() error { return errors.New("disk full") }

func TestRunReportsCloseError(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), dailySamples(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 2), &fakeRenderer{}, &failingCloser{}, Options{})
	assert.ErrorContains(t, err, "disk full")
}

// Not parallel: swaps the package logger.
func TestRunLogsProgress(t *testing.T) {
	rec := &monitoring.Recorder{}
	prev := monitoring.SetLogger(rec.Logf)
	t.Cleanup(func() { monitoring.SetLogger(prev) })

	_, err := Run(context.Background(), dailySamples(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 4), &fakeRenderer{}, &fakeWriter{}, Options{
		Plan:          Plan{PauseFrames: 2},
		ProgressEvery: 2,
		Clock:         timeutil.NewMockClock(time.Unix(0, 0)),
	})
	require.NoError(t, err)
	lines := rec.Lines()
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "[2/6] 2020-01-02")
	assert.Contains(t, lines[1], "[4/6] 2020-01-04")
	assert.Contains(t, lines[2], "[6/6] Finalizing...")
	assert.Contains(t, lines[3], "Done: 6 frames")
}
