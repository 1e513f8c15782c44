package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures.
type Kind int

const (
	KindUnknown Kind = iota
	// KindDecode: the input bytes are not a decodable image.
	KindDecode
	// KindUnsupportedFormat: decodable, but not PNG or JPEG.
	KindUnsupportedFormat
	// KindAverageColor: the hash carried no usable average colour.
	KindAverageColor
	// KindOptions: resize options could not be interpreted.
	KindOptions
	// KindInternal: a stage failed on input a previous stage accepted.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindAverageColor:
		return "average_color"
	case KindOptions:
		return "options"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Caller-facing messages.  Existing clients match on these strings.
const (
	MsgDecode            = "Unable to read input image bytes."
	MsgAverageColor      = "Unable to determine image average rgba hex value."
	MsgPlaceholderFormat = "Image format not currently supported."
	MsgResizeFormat      = "Unsupported image format"
	MsgOptions           = "Unable to read input image bytes"
	MsgPlaceholderEncode = "Error generating image base64"
	MsgResizeEncode      = "Error generating image bytes"
)

// Error is returned by every Generator operation.  Msg is safe to show to
// callers; Err carries the cause for logs.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// NewError builds an Error.  Exported for the binding layer, which
// reports options failures with the same type.
func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
}

// Message returns the caller-facing text.
func (e *Error) Message() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// MessageOf returns the caller-facing text of err.  Errors from outside
// the pipeline map to the internal-failure text.
func MessageOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Msg
	}
	return MsgPlaceholderEncode
}
