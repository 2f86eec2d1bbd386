package encode

import (
	"fmt"
	"image"
	"image/png"

	"github.com/banshee-data/yearwheel/internal/fsutil"
)

// WritePNG saves img as a PNG file.
func WritePNG(fsys fsutil.FileSystem, path string, img image.Image) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}

// SnapshotPath names the still image written next to an animation.
func SnapshotPath(output string) string {
	return output + ".png"
}
