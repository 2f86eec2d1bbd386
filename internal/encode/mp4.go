package encode

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"strconv"
	"sync"
)

// ErrFFmpegNotFound is returned when the ffmpeg binary is not on PATH.
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// MP4Writer pipes PNG-encoded frames into an ffmpeg process that encodes
// H.264 video.
type MP4Writer struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	buf    *bufio.Writer
	stderr syncBuffer
	enc    png.Encoder
}

// syncBuffer collects ffmpeg's stderr. exec copies into it from its own
// goroutine while frames are still being written.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// MP4Options configures the ffmpeg invocation.
type MP4Options struct {
	// Binary defaults to "ffmpeg".
	Binary string
	FPS    int
}

// ffmpegArgs builds the argument list for encoding an image2pipe stream.
// The pad filter rounds odd frame sizes up, which yuv420p requires.
func ffmpegArgs(fps int, output string) []string {
	return []string{
		"-y",
		"-loglevel", "error",
		"-f", "image2pipe",
		"-framerate", strconv.Itoa(fps),
		"-c:v", "png",
		"-i", "-",
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		output,
	}
}

// NewMP4Writer starts ffmpeg writing to output. Cancelling ctx kills the
// process.
func NewMP4Writer(ctx context.Context, output string, opts MP4Options) (*MP4Writer, error) {
	bin := opts.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 1
	}

	m := &MP4Writer{enc: png.Encoder{CompressionLevel: png.BestSpeed}}
	m.cmd = exec.CommandContext(ctx, path, ffmpegArgs(fps, output)...)
	m.cmd.Stderr = &m.stderr
	m.stdin, err = m.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	if err := m.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	m.buf = bufio.NewWriterSize(m.stdin, 1<<20)
	return m, nil
}

// WriteFrame encodes img as PNG onto ffmpeg's stdin.
func (m *MP4Writer) WriteFrame(img image.Image) error {
	if err := m.enc.Encode(m.buf, img); err != nil {
		return fmt.Errorf("write frame to ffmpeg: %w (%s)", err, m.stderr.String())
	}
	return nil
}

// Close flushes the pipe and waits for ffmpeg to finish.
func (m *MP4Writer) Close() error {
	flushErr := m.buf.Flush()
	closeErr := m.stdin.Close()
	waitErr := m.cmd.Wait()
	switch {
	case waitErr != nil:
		return fmt.Errorf("ffmpeg: %w (%s)", waitErr, m.stderr.String())
	case flushErr != nil:
		return fmt.Errorf("flush ffmpeg stdin: %w", flushErr)
	case closeErr != nil:
		return fmt.Errorf("close ffmpeg stdin: %w", closeErr)
	}
	return nil
}
