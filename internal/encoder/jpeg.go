package encoder

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/AnyUserName/picpack/internal/codec"
	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when a caller passes a quality outside 1-100.
const DefaultJPEGQuality = 90

// JPEGEncoder encodes images to baseline JPEG.  Alpha is discarded, not
// composited: every pixel keeps its RGB and becomes opaque.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() codec.Format { return codec.JPEG }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	buf.Grow(64 * 1024)

	err := jpeg.Encode(&buf, dropAlpha(img), &jpeg.Options{Quality: quality})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dropAlpha returns an opaque copy of img with unpremultiplied RGB kept.
func dropAlpha(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
