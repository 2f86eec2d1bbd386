package encode

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
)

// GIFWriter quantises frames to the Plan 9 palette and writes an animated
// GIF on Close. image/gif encodes the whole animation at once, so frames
// are kept in memory until then.
type GIFWriter struct {
	w      io.WriteCloser
	delay  int
	frames []*image.Paletted
	delays []int
}

// NewGIFWriter writes to w at the given frame rate. GIF delays are whole
// hundredths of a second, so the effective rate is rounded.
func NewGIFWriter(w io.WriteCloser, fps int) *GIFWriter {
	return &GIFWriter{w: w, delay: gifDelay(fps)}
}

func gifDelay(fps int) int {
	if fps <= 0 {
		return 100
	}
	return max(1, int(math.Round(100/float64(fps))))
}

// WriteFrame queues img.
func (g *GIFWriter) WriteFrame(img image.Image) error {
	b := img.Bounds()
	pm := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(pm, b, img, b.Min)
	g.frames = append(g.frames, pm)
	g.delays = append(g.delays, g.delay)
	return nil
}

// Frames returns the number of queued frames.
func (g *GIFWriter) Frames() int { return len(g.frames) }

// Close encodes all queued frames and closes the underlying writer.
func (g *GIFWriter) Close() error {
	anim := &gif.GIF{
		Image: g.frames,
		Delay: g.delays,
		// Play once, the final frame is held by the pause frames.
		LoopCount: -1,
	}
	encErr := gif.EncodeAll(g.w, anim)
	closeErr := g.w.Close()
	if encErr != nil {
		return fmt.Errorf("encode gif: %w", encErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close gif: %w", closeErr)
	}
	return nil
}
