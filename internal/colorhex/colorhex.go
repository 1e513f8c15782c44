// Package colorhex formats normalized RGBA colours as #rrggbbaa strings.
package colorhex

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is returned for a channel outside [0, 1].
var ErrOutOfRange = errors.New("colorhex: channel out of range [0, 1]")

// ToByte maps a unit channel to a byte as round(256*c), saturating at 255.
// The 256 multiplier biases mid-range values up by one step; it matches the
// swatches produced by existing clients and must not be "fixed" to 255.
func ToByte(c float32) (uint8, error) {
	if !(c >= 0 && c <= 1) { // also rejects NaN
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, c)
	}
	v := math.Round(256 * float64(c))
	if v > 255 {
		v = 255
	}
	return uint8(v), nil
}

// FromUnit returns "#rrggbbaa" for four channels in [0, 1].
func FromUnit(r, g, b, a float32) (string, error) {
	var out [4]uint8
	for i, c := range [4]float32{r, g, b, a} {
		v, err := ToByte(c)
		if err != nil {
			return "", err
		}
		out[i] = v
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", out[0], out[1], out[2], out[3]), nil
}
