package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/AnyUserName/picpack/internal/codec"
)

// PNGEncoder encodes images to lossless PNG.
type PNGEncoder struct {
	// Level defaults to png.DefaultCompression.
	Level png.CompressionLevel
}

func (e *PNGEncoder) Format() codec.Format { return codec.PNG }

func (e *PNGEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(16 * 1024)

	enc := &png.Encoder{CompressionLevel: e.Level}
	err := enc.Encode(&buf, img)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
