// Command yearwheel renders a daily temperature series as an animated
// polar plot, one turn of the wheel per year.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/yearwheel/internal/config"
	"github.com/banshee-data/yearwheel/internal/version"
)

func main() {
	var (
		configPath  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to a JSON render config")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")

	overrides := &config.RenderConfig{}
	registerFlags(flag.CommandLine, overrides)
	flag.Parse()

	if showVersion {
		fmt.Println(version.String("yearwheel"))
		return
	}

	cfg := &config.RenderConfig{}
	if configPath != "" {
		var err error
		if cfg, err = config.LoadRenderConfig(configPath); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	applyFlags(flag.CommandLine, cfg, overrides)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, cfg, osEnv())
	if err != nil {
		log.Fatalf("yearwheel: %v", err)
	}
	log.Printf("wrote %s (%d frames, %d years)", res.Output, res.Frames, res.Years)
}

// registerFlags binds a flag for every config field to dst. Only flags
// the user actually sets are copied over the loaded config.
func registerFlags(fs *flag.FlagSet, dst *config.RenderConfig) {
	def := config.DefaultRenderConfig()
	str := func(p **string, name, usage string, d *string) {
		v := ""
		if d != nil {
			v = *d
		}
		*p = &v
		fs.StringVar(*p, name, v, usage)
	}
	str(&dst.Caption, "caption", "caption printed top left", def.Caption)
	str(&dst.Credit, "credit", "source credit under the caption", def.Credit)
	str(&dst.Unit, "unit", "display unit (F or C)", def.Unit)
	str(&dst.InputUnit, "input-unit", "unit of the input values (F or C)", def.InputUnit)
	str(&dst.DataDir, "data-dir", "directory holding the input file", def.DataDir)
	str(&dst.InputFile, "input", "input CSV file name", def.InputFile)
	str(&dst.DateColumn, "date-column", "CSV date column (default DATE)", nil)
	str(&dst.ValueColumn, "value-column", "CSV value column (default TMAX)", nil)
	str(&dst.Database, "db", "read samples from this SQLite store instead of CSV", nil)
	str(&dst.Station, "station", "station to read from -db", nil)
	str(&dst.OutputDir, "output-dir", "directory for output files", def.OutputDir)
	str(&dst.OutputFile, "output", "output file name (.mp4 or .gif)", def.OutputFile)
	str(&dst.OverlayHTML, "overlay", "also write an interactive HTML chart with this name", nil)
	str(&dst.FFmpeg, "ffmpeg", "ffmpeg binary (default from PATH)", nil)

	dst.DurationSeconds = new(float64)
	fs.Float64Var(dst.DurationSeconds, "duration", 0, "target video length in seconds (0 = 60 fps)")
	dst.PauseSeconds = new(float64)
	fs.Float64Var(dst.PauseSeconds, "pause", *def.PauseSeconds, "seconds to hold the final frame")
	dst.GrayOutBackground = new(bool)
	fs.BoolVar(dst.GrayOutBackground, "gray", *def.GrayOutBackground, "draw finished years in gray")
	dst.DPI = new(int)
	fs.IntVar(dst.DPI, "dpi", *def.DPI, "output resolution")
	dst.WidthInches = new(float64)
	fs.Float64Var(dst.WidthInches, "width", *def.WidthInches, "frame width in inches")
	dst.HeightInches = new(float64)
	fs.Float64Var(dst.HeightInches, "height", *def.HeightInches, "frame height in inches")
	dst.ProgressEvery = new(int)
	fs.IntVar(dst.ProgressEvery, "progress", *def.ProgressEvery, "log progress every N frames (0 = off)")
}

// applyFlags copies explicitly set flags from src into cfg.
func applyFlags(fs *flag.FlagSet, cfg, src *config.RenderConfig) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "caption":
			cfg.Caption = src.Caption
		case "credit":
			cfg.Credit = src.Credit
		case "unit":
			cfg.Unit = src.Unit
		case "input-unit":
			cfg.InputUnit = src.InputUnit
		case "data-dir":
			cfg.DataDir = src.DataDir
		case "input":
			cfg.InputFile = src.InputFile
		case "date-column":
			cfg.DateColumn = src.DateColumn
		case "value-column":
			cfg.ValueColumn = src.ValueColumn
		case "db":
			cfg.Database = src.Database
		case "station":
			cfg.Station = src.Station
		case "output-dir":
			cfg.OutputDir = src.OutputDir
		case "output":
			cfg.OutputFile = src.OutputFile
		case "overlay":
			cfg.OverlayHTML = src.OverlayHTML
		case "ffmpeg":
			cfg.FFmpeg = src.FFmpeg
		case "duration":
			cfg.DurationSeconds = src.DurationSeconds
		case "pause":
			cfg.PauseSeconds = src.PauseSeconds
		case "gray":
			cfg.GrayOutBackground = src.GrayOutBackground
		case "dpi":
			cfg.DPI = src.DPI
		case "width":
			cfg.WidthInches = src.WidthInches
		case "height":
			cfg.HeightInches = src.HeightInches
		case "progress":
			cfg.ProgressEvery = src.ProgressEvery
		}
	})
}
