package verify

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"
	"os"

	"github.com/ecoquest-app/ecoquest/internal/domain"
)

// FileMetaReader reads pixel dimensions from image files on disk. It only
// decodes headers, never full pixel data.
type FileMetaReader struct{}

// ReadMeta returns the dimensions of the image at path.
func (FileMetaReader) ReadMeta(path string) (domain.ImageMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ImageMeta{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return domain.ImageMeta{}, fmt.Errorf("decode image header: %w", err)
	}
	return domain.ImageMeta{Width: cfg.Width, Height: cfg.Height}, nil
}

// StaticMetaReader serves fixed dimensions keyed by image reference.
// Unknown references fail, mirroring an unreadable file.
type StaticMetaReader map[string]domain.ImageMeta

// ReadMeta returns the fixed dimensions for the reference.
func (r StaticMetaReader) ReadMeta(ref string) (domain.ImageMeta, error) {
	meta, ok := r[ref]
	if !ok {
		return domain.ImageMeta{}, fmt.Errorf("no metadata for %q", ref)
	}
	return meta, nil
}
