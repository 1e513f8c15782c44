package api

import (
	"bytes"
	"errors"
	"testing"

	"github.com/AnyUserName/picpack/internal/fit"
	"github.com/AnyUserName/picpack/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResizeOptions(t *testing.T) {
	tests := []struct {
		raw  string
		want pipeline.Options
	}{
		{``, pipeline.Options{}},
		{`null`, pipeline.Options{}},
		{`{}`, pipeline.Options{}},
		{`{"width": 50}`, pipeline.Options{Width: 50}},
		{`{"width": 50, "height": null}`, pipeline.Options{Width: 50}},
		{`{"width": 40, "height": 30, "fit": "contain"}`, pipeline.Options{Width: 40, Height: 30, Fit: fit.Contain}},
		{`{"width": 40, "height": 30, "fit": "clip"}`, pipeline.Options{Width: 40, Height: 30, Fit: fit.Cover}},
		{`{"fit": "sideways", "height": 9}`, pipeline.Options{Height: 9, Fit: fit.Unset}},
		{`{"width": 10, "quality": 12, "extra": {"a": 1}}`, pipeline.Options{Width: 10}},
	}
	for _, tt := range tests {
		got, err := ParseResizeOptions([]byte(tt.raw))
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}

func TestParseResizeOptions_Invalid(t *testing.T) {
	for _, raw := range []string{
		`{"width": -1}`,
		`{"width": 1.5}`,
		`{"width": "50"}`,
		`{"fit": 3}`,
		`[50, 25]`,
		`"cover"`,
		`{"width": 50`,
		`{"height": 20000}`,
	} {
		_, err := ParseResizeOptions([]byte(raw))
		require.Error(t, err, "raw %q", raw)
		assert.Equal(t, pipeline.KindOptions, pipeline.KindOf(err), "raw %q", raw)
		assert.Equal(t, "Unable to read input image bytes", pipeline.MessageOf(err))
	}
}

func TestNewPlaceholderRecord(t *testing.T) {
	ok := NewPlaceholderRecord(&pipeline.Placeholder{
		Average:  "#85817fff",
		DataURI:  "data:image/png;base64,AAAA",
		Metadata: pipeline.Metadata{Width: 100, Height: 75, Format: "image/png"},
	}, nil)
	assert.True(t, ok.OK())
	data, err := Marshal(ok)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"average": "#85817fff",
		"base64": "data:image/png;base64,AAAA",
		"metadata": {"width": 100, "height": 75, "format": "image/png"}
	}`, string(data))

	failed := NewPlaceholderRecord(nil, pipeline.NewError(pipeline.KindDecode, pipeline.MsgDecode, errors.New("eof")))
	assert.False(t, failed.OK())
	data, err = Marshal(failed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Unable to read input image bytes."}`, string(data))
}

func TestNewResizeRecord(t *testing.T) {
	rec := NewResizeRecord(&pipeline.Resized{Data: []byte{1, 2, 3}, MIMEType: "image/jpeg", Width: 5, Height: 4}, nil)
	data, err := Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"image_bytes": "AQID", "mime_type": "image/jpeg", "width": 5, "height": 4}`, string(data))

	var back ResizeRecord
	require.NoError(t, Unmarshal(data, &back))
	assert.Equal(t, rec, back)

	failed := NewResizeRecord(&pipeline.Resized{Data: []byte{1}}, pipeline.NewError(pipeline.KindUnsupportedFormat, pipeline.MsgResizeFormat, nil))
	assert.Equal(t, ResizeRecord{Error: "Unsupported image format"}, failed)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, FingerprintRecord{Fingerprint: "2d06800538d3", Size: 0}))
	assert.Equal(t, "{\n  \"fingerprint\": \"2d06800538d3\",\n  \"size\": 0\n}\n", buf.String())
}
