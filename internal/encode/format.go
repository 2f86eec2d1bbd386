// Package encode writes rendered frames to animation files (GIF, MP4 via
// ffmpeg), still PNG snapshots, and an interactive HTML overlay chart.
package encode

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for output names whose extension has no
// writer.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format identifies an animation container.
type Format int

const (
	FormatMP4 Format = iota + 1
	FormatGIF
)

func (f Format) String() string {
	switch f {
	case FormatMP4:
		return "mp4"
	case FormatGIF:
		return "gif"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the container from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp4":
		return FormatMP4, nil
	case ".gif":
		return FormatGIF, nil
	default:
		return 0, fmt.Errorf("%w: %q (want .mp4 or .gif)", ErrUnsupportedFormat, ext)
	}
}

// FrameWriter receives frames in display order. Close flushes the
// container; the writer must not be used afterwards.
type FrameWriter interface {
	WriteFrame(img image.Image) error
	Close() error
}
