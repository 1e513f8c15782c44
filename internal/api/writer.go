package api

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal serializes a record compactly.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal parses a record.
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// WriteJSON writes v to w as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
