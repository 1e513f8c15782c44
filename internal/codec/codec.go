// Package codec decodes raster uploads and identifies their container format.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is a short container name ("png", "jpeg", "gif", ...).
type Format string

const (
	Unknown Format = ""
	PNG     Format = "png"
	JPEG    Format = "jpeg"
)

// ErrUnknownFormat is returned by Sniff when the bytes are not a known image.
var ErrUnknownFormat = errors.New("codec: unknown image format")

// ErrEmpty is returned by Decode for a zero-length payload.
var ErrEmpty = errors.New("codec: empty payload")

// ErrTooLarge is returned by Decode when the header declares more pixels
// than allowed.
var ErrTooLarge = errors.New("codec: image dimensions exceed limit")

// MIMEType returns the IANA media type of f.
func (f Format) MIMEType() string {
	if f == Unknown {
		return "application/octet-stream"
	}
	return "image/" + string(f)
}

// Supported reports whether the pipeline can re-encode f.
func (f Format) Supported() bool {
	return f == PNG || f == JPEG
}

func (f Format) String() string {
	if f == Unknown {
		return "unknown"
	}
	return string(f)
}

// Sniff identifies the image container from its magic bytes.  Decodable
// formats other than PNG and JPEG are returned as-is so callers can reject
// them by name.
func Sniff(data []byte) (Format, error) {
	if len(data) == 0 {
		return Unknown, ErrUnknownFormat
	}
	m := mimetype.Detect(data)
	for ; m != nil; m = m.Parent() {
		if name, ok := strings.CutPrefix(m.String(), "image/"); ok {
			return normalize(name), nil
		}
	}
	return Unknown, fmt.Errorf("%w: %s", ErrUnknownFormat, mimetype.Detect(data).String())
}

func normalize(name string) Format {
	switch name {
	case "jpg", "pjpeg":
		return JPEG
	case "vnd.mozilla.apng":
		return PNG
	case "x-ms-bmp":
		return "bmp"
	}
	return Format(name)
}

// Decode parses data into an image.  A positive maxPixels rejects images
// whose header declares more than maxPixels pixels before any pixel data
// is read.  EXIF orientation is not applied.
func Decode(data []byte, maxPixels int) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
			return nil, fmt.Errorf("%w: %dx%d, max %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
		}
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}
