package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"time"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/yearwheel/internal/colormap"
	"github.com/banshee-data/yearwheel/internal/config"
	"github.com/banshee-data/yearwheel/internal/encode"
	"github.com/banshee-data/yearwheel/internal/fsutil"
	"github.com/banshee-data/yearwheel/internal/monitoring"
	"github.com/banshee-data/yearwheel/internal/pipeline"
	"github.com/banshee-data/yearwheel/internal/render"
	"github.com/banshee-data/yearwheel/internal/series"
	"github.com/banshee-data/yearwheel/internal/store"
	"github.com/banshee-data/yearwheel/internal/timeutil"
	"github.com/banshee-data/yearwheel/internal/units"
	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

// env holds the side-effecting collaborators so tests can swap them.
type env struct {
	fs    fsutil.FileSystem
	clock timeutil.Clock
	// newMP4 opens the MP4 encoder; nil means ffmpeg.
	newMP4 func(ctx context.Context, path string, opts encode.MP4Options) (encode.FrameWriter, error)
}

func osEnv() env {
	return env{fs: fsutil.OSFileSystem{}, clock: timeutil.RealClock{}}
}

type result struct {
	Output   string
	Snapshot string
	Overlay  string
	Frames   int
	Years    int
}

func loadSamples(ctx context.Context, cfg *config.RenderConfig, fsys fsutil.FileSystem) ([]yearwheel.Sample, error) {
	if db := cfg.GetDatabase(); db != "" {
		st, err := store.Open(db)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.LoadSamples(ctx, cfg.GetStation())
	}
	return series.LoadCSV(fsys, cfg.InputPath(), series.Options{
		DateColumn:  cfg.GetDateColumn(),
		ValueColumn: cfg.GetValueColumn(),
		DateLayout:  cfg.GetDateLayout(),
	})
}

// convertUnits rewrites sample values from the input unit to the display
// unit in place.
func convertUnits(samples []yearwheel.Sample, from, to string) error {
	if from == to {
		return nil
	}
	for i := range samples {
		v, err := units.Convert(samples[i].Value, from, to)
		if err != nil {
			return err
		}
		samples[i].Value = v
	}
	return nil
}

func renderOptions(cfg *config.RenderConfig, stats series.Stats) render.Options {
	o := render.DefaultOptions()
	o.Caption = cfg.GetCaption()
	o.Credit = cfg.GetCredit()
	o.Unit = units.Suffix(cfg.GetUnit())
	o.Width = vg.Length(cfg.GetWidthInches()) * vg.Inch
	o.Height = vg.Length(cfg.GetHeightInches()) * vg.Inch
	o.DPI = cfg.GetDPI()
	o.GrayOutBackground = cfg.GetGrayOutBackground()
	o.MinValue = stats.Min
	o.MaxValue = stats.Max
	return o
}

// gifWarnBytes is the estimated frame buffer size above which a GIF render
// logs a warning suggesting MP4.
const gifWarnBytes = 2 << 30

// gifMemoryBytes estimates the memory GIFWriter holds for frames frames:
// one byte per pixel of each paletted frame, kept until Close.
func gifMemoryBytes(frames int, cfg *config.RenderConfig) int64 {
	w := int64(math.Round(cfg.GetWidthInches() * float64(cfg.GetDPI())))
	h := int64(math.Round(cfg.GetHeightInches() * float64(cfg.GetDPI())))
	return int64(frames) * w * h
}

func openWriter(ctx context.Context, e env, format encode.Format, path string, cfg *config.RenderConfig, fps int) (encode.FrameWriter, error) {
	switch format {
	case encode.FormatGIF:
		f, err := e.fs.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		return encode.NewGIFWriter(f, fps), nil
	case encode.FormatMP4:
		opts := encode.MP4Options{Binary: cfg.GetFFmpeg(), FPS: fps}
		if e.newMP4 != nil {
			return e.newMP4(ctx, path, opts)
		}
		w, err := encode.NewMP4Writer(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("%w: %s", encode.ErrUnsupportedFormat, format)
	}
}

func writeOverlay(e env, path string, samples []yearwheel.Sample, cfg *config.RenderConfig, layout render.Layout, stats series.Stats) error {
	f, err := e.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	werr := encode.WriteOverlayHTML(f, samples, encode.OverlayOptions{
		Title:    cfg.GetCaption(),
		Subtitle: fmt.Sprintf("%s to %s", stats.First.Format(time.DateOnly), stats.Last.Format(time.DateOnly)),
		Origin:   layout.Origin(),
		MinValue: stats.Min,
		MaxValue: stats.Max,
		Colors:   colormap.Temperature(stats.Min, stats.Max).HexColors(),
	})
	return closeAfter(f, werr)
}

func closeAfter(c io.Closer, err error) error {
	cerr := c.Close()
	if err != nil {
		return err
	}
	return cerr
}

// run renders the animation described by cfg. cfg must be valid.
func run(ctx context.Context, cfg *config.RenderConfig, e env) (result, error) {
	var res result

	format, err := encode.FormatFromPath(cfg.GetOutputFile())
	if err != nil {
		return res, err
	}

	samples, err := loadSamples(ctx, cfg, e.fs)
	if err != nil {
		return res, err
	}
	if err := convertUnits(samples, cfg.GetInputUnit(), cfg.GetUnit()); err != nil {
		return res, err
	}
	stats, err := series.Summarize(samples)
	if err != nil {
		return res, err
	}
	monitoring.Logf("Loaded %d days from %s to %s (min %.1f, max %.1f, mean %.1f)",
		stats.Count, stats.First.Format(time.DateOnly), stats.Last.Format(time.DateOnly), stats.Min, stats.Max, stats.Mean)

	plan, err := pipeline.NewPlan(len(samples), format, cfg.Timing())
	if err != nil {
		return res, err
	}
	monitoring.Logf("Rendering %d frames at %d fps (%.1fs, %d pause frames)", plan.Frames(), plan.FPS, plan.Seconds(), plan.PauseFrames)
	if format == encode.FormatGIF {
		if n := gifMemoryBytes(plan.Frames(), cfg); n > gifWarnBytes {
			monitoring.Logf("Warning: GIF output buffers every frame in memory (about %.1f GiB); use .mp4 for long ranges", float64(n)/(1<<30))
		}
	}

	r, err := render.New(renderOptions(cfg, stats))
	if err != nil {
		return res, err
	}

	if err := e.fs.MkdirAll(cfg.GetOutputDir(), 0755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}
	out := cfg.OutputPath()
	w, err := openWriter(ctx, e, format, out, cfg, plan.FPS)
	if err != nil {
		return res, err
	}

	pr, err := pipeline.Run(ctx, samples, r, w, pipeline.Options{
		Plan:          plan,
		ProgressEvery: cfg.GetProgressEvery(),
		Clock:         e.clock,
		Snapshot:      encode.SnapshotPath(out),
		FS:            e.fs,
	})
	if err != nil {
		return res, err
	}
	res = result{Output: out, Snapshot: pr.Snapshot, Frames: pr.Frames, Years: stats.Years}

	if path := cfg.OverlayPath(); path != "" {
		if err := writeOverlay(e, path, samples, cfg, r.Layout(), stats); err != nil {
			return res, err
		}
		res.Overlay = path
		monitoring.Logf("Saved overlay %s", filepath.Base(path))
	}
	return res, nil
}
