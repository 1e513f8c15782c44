package pipeline

import (
	"encoding/base64"
	"fmt"

	"github.com/AnyUserName/picpack/internal/codec"
	"github.com/AnyUserName/picpack/internal/colorhex"
	"github.com/AnyUserName/picpack/internal/fit"
	"github.com/AnyUserName/picpack/internal/resize"
	"github.com/AnyUserName/picpack/internal/thumbhash"
	"go.uber.org/zap"
)

// Metadata describes the original upload.
type Metadata struct {
	Width  int
	Height int
	// Format is the MIME type of the upload.
	Format string
}

// Placeholder is a blurred preview of an image plus its average colour.
type Placeholder struct {
	// Average is "#rrggbbaa".
	Average string
	// DataURI is "data:<mime>;base64,<payload>" with unpadded base64.
	DataURI  string
	Metadata Metadata
	// Hash is the raw ThumbHash the preview was rebuilt from.
	Hash []byte
}

// Placeholder decodes data, hashes a shrunk copy and re-encodes the
// reconstructed preview in the upload's own format.
func (g *Generator) Placeholder(data []byte) (*Placeholder, error) {
	img, err := codec.Decode(data, g.cfg.MaxInputPixels)
	if err != nil {
		return nil, NewError(KindDecode, MsgDecode, err)
	}
	b := img.Bounds()
	meta := Metadata{Width: b.Dx(), Height: b.Dy()}

	// Checked after hashing; see the encode step below.
	format, sniffErr := codec.Sniff(data)

	shrunk := resize.Resize(img, fit.Request{
		Width:  g.cfg.ShrinkWidth,
		Height: g.cfg.ShrinkHeight,
		Fit:    fit.Cover,
	})
	g.log.Debug("shrunk",
		zap.String("stage", "resize"),
		zap.Int("width", shrunk.Width),
		zap.Int("height", shrunk.Height))

	hash, err := thumbhash.Encode(shrunk.Image)
	if err != nil {
		g.log.Error("thumbhash encode", zap.Error(err))
		return nil, NewError(KindInternal, MsgPlaceholderEncode, err)
	}

	avg, err := thumbhash.AverageRGBA(hash)
	if err != nil {
		return nil, NewError(KindAverageColor, MsgAverageColor, err)
	}
	average, err := colorhex.FromUnit(avg.R, avg.G, avg.B, avg.A)
	if err != nil {
		return nil, NewError(KindAverageColor, MsgAverageColor, err)
	}

	preview, err := thumbhash.Decode(hash)
	if err != nil {
		panic(fmt.Sprintf("pipeline: freshly encoded thumbhash failed to decode: %v", err))
	}

	if sniffErr != nil || !format.Supported() {
		return nil, NewError(KindUnsupportedFormat, MsgPlaceholderFormat,
			fmt.Errorf("format %s: %w", format, errOrUnsupported(sniffErr)))
	}
	enc := g.registry.Get(format)
	if enc == nil {
		return nil, NewError(KindUnsupportedFormat, MsgPlaceholderFormat,
			fmt.Errorf("no encoder for %s", format))
	}
	out, err := enc.Encode(preview, g.cfg.JPEGQuality)
	if err != nil {
		g.log.Error("preview encode", zap.String("format", format.String()), zap.Error(err))
		return nil, NewError(KindInternal, MsgPlaceholderEncode, err)
	}

	meta.Format = format.MIMEType()
	g.log.Debug("placeholder",
		zap.String("stage", "package"),
		zap.String("format", meta.Format),
		zap.Int("hash_bytes", len(hash)),
		zap.Int("preview_bytes", len(out)))

	return &Placeholder{
		Average:  average,
		DataURI:  DataURI(meta.Format, out),
		Metadata: meta,
		Hash:     hash,
	}, nil
}

// DataURI wraps payload as an unpadded base64 data URI.
func DataURI(mime string, payload []byte) string {
	return "data:" + mime + ";base64," + base64.RawStdEncoding.EncodeToString(payload)
}

func errOrUnsupported(err error) error {
	if err != nil {
		return err
	}
	return codec.ErrUnknownFormat
}
