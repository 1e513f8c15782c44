package api

import (
	"bytes"
	"fmt"

	"github.com/AnyUserName/picpack/internal/fit"
	"github.com/AnyUserName/picpack/internal/pipeline"
)

// MaxDimension bounds requested output sides.
const MaxDimension = 16384

// ResizeOptions is the wire shape of resize options.  Every field is
// optional; unknown fields are ignored.
type ResizeOptions struct {
	Width  *uint32 `json:"width" form:"width" binding:"omitempty,max=16384"`
	Height *uint32 `json:"height" form:"height" binding:"omitempty,max=16384"`
	Fit    *string `json:"fit" form:"fit"`
}

// ParseResizeOptions decodes the JSON options record.  Empty input and
// null are a no-op request.  Failures are *pipeline.Error of KindOptions.
func ParseResizeOptions(raw []byte) (pipeline.Options, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return pipeline.Options{}, nil
	}
	var o *ResizeOptions
	if err := json.Unmarshal(raw, &o); err != nil {
		return pipeline.Options{}, pipeline.NewError(pipeline.KindOptions, pipeline.MsgOptions, err)
	}
	if o == nil {
		return pipeline.Options{}, nil
	}
	return o.Options()
}

// Options validates o and converts it to pipeline options.
func (o ResizeOptions) Options() (pipeline.Options, error) {
	var opts pipeline.Options
	if o.Width != nil {
		if *o.Width > MaxDimension {
			return opts, optionsErr("width %d exceeds %d", *o.Width, MaxDimension)
		}
		opts.Width = int(*o.Width)
	}
	if o.Height != nil {
		if *o.Height > MaxDimension {
			return opts, optionsErr("height %d exceeds %d", *o.Height, MaxDimension)
		}
		opts.Height = int(*o.Height)
	}
	if o.Fit != nil {
		opts.Fit = fit.Parse(*o.Fit)
	}
	return opts, nil
}

func optionsErr(format string, args ...any) error {
	return pipeline.NewError(pipeline.KindOptions, pipeline.MsgOptions, fmt.Errorf(format, args...))
}
