package pipeline

import (
	"fmt"

	"github.com/AnyUserName/picpack/internal/codec"
	"github.com/AnyUserName/picpack/internal/fit"
	"github.com/AnyUserName/picpack/internal/resize"
	"go.uber.org/zap"
)

// Options is a resize request.  Zero Width or Height means unset.
type Options struct {
	Width  int
	Height int
	Fit    fit.Mode
}

func (o Options) request() fit.Request {
	return fit.Request{Width: o.Width, Height: o.Height, Fit: o.Fit}
}

// Resized is an encoded image in the upload's own format.
type Resized struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// Resize decodes data, resizes it per opts and re-encodes it in the
// upload's format.
func (g *Generator) Resize(data []byte, opts Options) (*Resized, error) {
	img, err := codec.Decode(data, g.cfg.MaxInputPixels)
	if err != nil {
		return nil, NewError(KindDecode, MsgDecode, err)
	}

	b := img.Bounds()
	w, h := fit.Dimensions(b.Dx(), b.Dy(), opts.request())
	if int64(w)*int64(h) > int64(g.cfg.MaxOutputPixels) {
		return nil, NewError(KindOptions, MsgOptions,
			fmt.Errorf("output %dx%d exceeds %d pixels", w, h, g.cfg.MaxOutputPixels))
	}

	res := resize.Resize(img, opts.request())
	g.log.Debug("resized",
		zap.String("stage", "resize"),
		zap.String("fit", opts.Fit.String()),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))

	format, err := codec.Sniff(data)
	if err != nil {
		return nil, NewError(KindUnsupportedFormat, MsgResizeFormat, err)
	}
	enc := g.registry.Get(format)
	if enc == nil {
		return nil, NewError(KindUnsupportedFormat, MsgResizeFormat,
			fmt.Errorf("%w: %s", codec.ErrUnknownFormat, format))
	}

	out, err := enc.Encode(res.Image, g.cfg.JPEGQuality)
	if err != nil {
		g.log.Error("resize encode", zap.String("format", format.String()), zap.Error(err))
		return nil, NewError(KindInternal, MsgResizeEncode, err)
	}
	return &Resized{
		Data:     out,
		MIMEType: format.MIMEType(),
		Width:    res.Width,
		Height:   res.Height,
	}, nil
}
