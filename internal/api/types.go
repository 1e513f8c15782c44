// Package api defines the JSON records exchanged with callers of the CLI
// and HTTP surfaces.
package api

import "github.com/AnyUserName/picpack/internal/pipeline"

// PlaceholderRecord is the result of a placeholder request.  Exactly one
// of the success fields group or Error is populated.
type PlaceholderRecord struct {
	Average  string    `json:"average,omitempty"` // #rrggbbaa
	Base64   string    `json:"base64,omitempty"`  // data URI
	Metadata *Metadata `json:"metadata,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Metadata describes the original upload.
type Metadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"` // MIME type
}

// ResizeRecord is the JSON form of a resize result.  ImageBytes is
// base64 encoded by the JSON codec.
type ResizeRecord struct {
	ImageBytes []byte `json:"image_bytes,omitempty"`
	MIMEType   string `json:"mime_type,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// FingerprintRecord carries a content fingerprint.
type FingerprintRecord struct {
	Fingerprint string `json:"fingerprint"`
	Size        int    `json:"size"`
}

// NewPlaceholderRecord converts a pipeline result.  A non-nil err wins.
func NewPlaceholderRecord(p *pipeline.Placeholder, err error) PlaceholderRecord {
	if err != nil {
		return PlaceholderRecord{Error: pipeline.MessageOf(err)}
	}
	return PlaceholderRecord{
		Average: p.Average,
		Base64:  p.DataURI,
		Metadata: &Metadata{
			Width:  p.Metadata.Width,
			Height: p.Metadata.Height,
			Format: p.Metadata.Format,
		},
	}
}

// NewResizeRecord converts a pipeline result.  A non-nil err wins.
func NewResizeRecord(r *pipeline.Resized, err error) ResizeRecord {
	if err != nil {
		return ResizeRecord{Error: pipeline.MessageOf(err)}
	}
	return ResizeRecord{
		ImageBytes: r.Data,
		MIMEType:   r.MIMEType,
		Width:      r.Width,
		Height:     r.Height,
	}
}

// OK reports whether the record holds a successful result.
func (r PlaceholderRecord) OK() bool { return r.Error == "" }

// OK reports whether the record holds a successful result.
func (r ResizeRecord) OK() bool { return r.Error == "" }
