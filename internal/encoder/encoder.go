// Package encoder re-encodes raster images into the container the upload
// arrived in.
package encoder

import (
	"image"

	"github.com/AnyUserName/picpack/internal/codec"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the container this encoder produces.
	Format() codec.Format

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)
}
