// Package config loads the JSON render configuration.
//
// Every field is optional. Get* accessors return the built-in default for
// fields the file leaves out, so partial files are safe and the zero
// RenderConfig describes the stock animation.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/yearwheel/internal/encode"
	"github.com/banshee-data/yearwheel/internal/pipeline"
	"github.com/banshee-data/yearwheel/internal/security"
	"github.com/banshee-data/yearwheel/internal/units"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Defaults.
const (
	DefaultCaption    = "Daily High Temperatures"
	DefaultCredit     = "Source: https://www.ncdc.noaa.gov/"
	DefaultDataDir    = "data"
	DefaultInputFile  = "seatac.csv"
	DefaultOutputDir  = "output"
	DefaultOutputFile = "output.mp4"
	DefaultSizeInches = 9.0
	DefaultDPI        = 100
	DefaultUnit       = units.Fahrenheit
	DefaultProgress   = 100
)

// RenderConfig is the on-disk configuration.
type RenderConfig struct {
	Caption *string `json:"caption,omitempty"`
	Credit  *string `json:"credit,omitempty"`

	// Unit is the display unit; InputUnit is the unit of the source
	// values. Both are "F" or "C".
	Unit      *string `json:"unit,omitempty"`
	InputUnit *string `json:"input_unit,omitempty"`

	// Input
	DataDir     *string `json:"data_dir,omitempty"`
	InputFile   *string `json:"input_file,omitempty"`
	DateColumn  *string `json:"date_column,omitempty"`
	ValueColumn *string `json:"value_column,omitempty"`
	DateLayout  *string `json:"date_layout,omitempty"`

	// Database switches the input to a SQLite store; Station selects the
	// series in it.
	Database *string `json:"database,omitempty"`
	Station  *string `json:"station,omitempty"`

	// Output
	OutputDir   *string `json:"output_dir,omitempty"`
	OutputFile  *string `json:"output_file,omitempty"`
	OverlayHTML *string `json:"overlay_html,omitempty"`
	FFmpeg      *string `json:"ffmpeg,omitempty"`

	// Timing
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	PauseSeconds    *float64 `json:"pause_seconds,omitempty"`

	// Look
	GrayOutBackground *bool    `json:"gray_out_background,omitempty"`
	WidthInches       *float64 `json:"width_inches,omitempty"`
	HeightInches      *float64 `json:"height_inches,omitempty"`
	DPI               *int     `json:"dpi,omitempty"`

	ProgressEvery *int `json:"progress_every,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultRenderConfig returns a config with every field set to its
// default.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		Caption:           ptrString(DefaultCaption),
		Credit:            ptrString(DefaultCredit),
		Unit:              ptrString(DefaultUnit),
		InputUnit:         ptrString(DefaultUnit),
		DataDir:           ptrString(DefaultDataDir),
		InputFile:         ptrString(DefaultInputFile),
		OutputDir:         ptrString(DefaultOutputDir),
		OutputFile:        ptrString(DefaultOutputFile),
		PauseSeconds:      ptrFloat64(pipeline.DefaultPauseSeconds),
		GrayOutBackground: ptrBool(true),
		WidthInches:       ptrFloat64(DefaultSizeInches),
		HeightInches:      ptrFloat64(DefaultSizeInches),
		DPI:               ptrInt(DefaultDPI),
		ProgressEvery:     ptrInt(DefaultProgress),
	}
}

// LoadRenderConfig loads a RenderConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadRenderConfig(path string) (*RenderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &RenderConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks that the configuration values are usable.
func (c *RenderConfig) Validate() error {
	if err := security.ValidateLocalName(c.GetOutputFile()); err != nil {
		return fmt.Errorf("%w: output_file: %w", ErrInvalid, err)
	}
	if _, err := encode.FormatFromPath(c.GetOutputFile()); err != nil {
		return fmt.Errorf("%w: output_file: %w", ErrInvalid, err)
	}
	for _, u := range []string{c.GetUnit(), c.GetInputUnit()} {
		if !units.IsValid(u) {
			return invalid("unit %q must be one of %s", u, units.GetValidUnitsString())
		}
	}
	if err := c.Timing().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if w := c.GetWidthInches(); w <= 0 || math.IsNaN(w) {
		return invalid("width_inches must be positive, got %v", w)
	}
	if h := c.GetHeightInches(); h <= 0 || math.IsNaN(h) {
		return invalid("height_inches must be positive, got %v", h)
	}
	if d := c.GetDPI(); d <= 0 || d > 1200 {
		return invalid("dpi must be between 1 and 1200, got %d", d)
	}
	if c.GetProgressEvery() < 0 {
		return invalid("progress_every must be non-negative, got %d", c.GetProgressEvery())
	}
	if c.GetInputFile() == "" && c.GetDatabase() == "" {
		return invalid("input_file or database is required")
	}
	if c.GetDatabase() != "" && c.GetStation() == "" {
		return invalid("station is required with database")
	}
	if o := c.GetOverlayHTML(); o != "" {
		if err := security.ValidateLocalName(o); err != nil {
			return fmt.Errorf("%w: overlay_html: %w", ErrInvalid, err)
		}
		if !strings.EqualFold(filepath.Ext(o), ".html") {
			return invalid("overlay_html must end in .html, got %q", o)
		}
	}
	return nil
}

func getString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// GetCaption returns the caption or the default.
func (c *RenderConfig) GetCaption() string { return getString(c.Caption, DefaultCaption) }

// GetCredit returns the source credit or the default.
func (c *RenderConfig) GetCredit() string { return getString(c.Credit, DefaultCredit) }

// GetUnit returns the display unit.
func (c *RenderConfig) GetUnit() string { return getString(c.Unit, DefaultUnit) }

// GetInputUnit returns the unit of the source values.
func (c *RenderConfig) GetInputUnit() string { return getString(c.InputUnit, DefaultUnit) }

func (c *RenderConfig) GetDataDir() string     { return getString(c.DataDir, DefaultDataDir) }
func (c *RenderConfig) GetInputFile() string   { return getString(c.InputFile, DefaultInputFile) }
func (c *RenderConfig) GetDateColumn() string  { return getString(c.DateColumn, "") }
func (c *RenderConfig) GetValueColumn() string { return getString(c.ValueColumn, "") }
func (c *RenderConfig) GetDateLayout() string  { return getString(c.DateLayout, "") }
func (c *RenderConfig) GetDatabase() string    { return getString(c.Database, "") }
func (c *RenderConfig) GetStation() string     { return getString(c.Station, "") }
func (c *RenderConfig) GetOutputDir() string   { return getString(c.OutputDir, DefaultOutputDir) }
func (c *RenderConfig) GetOutputFile() string  { return getString(c.OutputFile, DefaultOutputFile) }
func (c *RenderConfig) GetOverlayHTML() string { return getString(c.OverlayHTML, "") }
func (c *RenderConfig) GetFFmpeg() string      { return getString(c.FFmpeg, "") }

// GetDurationSeconds returns the target duration; zero means none.
func (c *RenderConfig) GetDurationSeconds() float64 {
	if c.DurationSeconds == nil {
		return 0
	}
	return *c.DurationSeconds
}

// GetPauseSeconds returns the hold time at the end.
func (c *RenderConfig) GetPauseSeconds() float64 {
	if c.PauseSeconds == nil {
		return pipeline.DefaultPauseSeconds
	}
	return *c.PauseSeconds
}

// GetGrayOutBackground reports whether finished years are drawn muted.
func (c *RenderConfig) GetGrayOutBackground() bool {
	if c.GrayOutBackground == nil {
		return true
	}
	return *c.GrayOutBackground
}

func (c *RenderConfig) GetWidthInches() float64 {
	if c.WidthInches == nil {
		return DefaultSizeInches
	}
	return *c.WidthInches
}

func (c *RenderConfig) GetHeightInches() float64 {
	if c.HeightInches == nil {
		return DefaultSizeInches
	}
	return *c.HeightInches
}

func (c *RenderConfig) GetDPI() int {
	if c.DPI == nil {
		return DefaultDPI
	}
	return *c.DPI
}

func (c *RenderConfig) GetProgressEvery() int {
	if c.ProgressEvery == nil {
		return DefaultProgress
	}
	return *c.ProgressEvery
}

// Timing returns the duration and pause as a pipeline.Timing.
func (c *RenderConfig) Timing() pipeline.Timing {
	return pipeline.Timing{Duration: c.GetDurationSeconds(), Pause: c.GetPauseSeconds()}
}

// InputPath joins the data dir and input file.
func (c *RenderConfig) InputPath() string {
	return filepath.Join(c.GetDataDir(), c.GetInputFile())
}

// OutputPath joins the output dir and output file.
func (c *RenderConfig) OutputPath() string {
	return filepath.Join(c.GetOutputDir(), c.GetOutputFile())
}

// OverlayPath is where the HTML overlay goes, or "" when disabled.
func (c *RenderConfig) OverlayPath() string {
	if o := c.GetOverlayHTML(); o != "" {
		return filepath.Join(c.GetOutputDir(), o)
	}
	return ""
}
