// Package fit maps an input image size and an optional target box to the
// concrete output dimensions of a resize.
package fit

import (
	"math"
	"strings"
)

// Mode is a resize policy for fitting an image into a target box.
type Mode int

const (
	// Unset behaves like Cover when both target dimensions are given.
	Unset Mode = iota
	// Cover fills the box exactly; the resize stage crops the overflow.
	Cover
	// Contain scales the image to fit inside the box, keeping aspect ratio.
	Contain
	// Fill stretches the image to the box, ignoring aspect ratio.
	Fill
	// ScaleDown is Contain without upscaling past the native size.
	ScaleDown
)

// Parse maps a fit token to a Mode. Unknown or empty tokens yield Unset.
func Parse(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cover", "clip":
		return Cover
	case "contain":
		return Contain
	case "fill":
		return Fill
	case "scale-down", "scaledown", "scale_down":
		return ScaleDown
	default:
		return Unset
	}
}

func (m Mode) String() string {
	switch m {
	case Cover:
		return "cover"
	case Contain:
		return "contain"
	case Fill:
		return "fill"
	case ScaleDown:
		return "scale-down"
	default:
		return "unset"
	}
}

// Resolve returns the mode actually applied when both target dimensions
// are set.
func (m Mode) Resolve() Mode {
	if m == Unset {
		return Cover
	}
	return m
}

// Request is a dimension request. A zero Width or Height means unset.
type Request struct {
	Width  int
	Height int
	Fit    Mode
}

// IsZero reports whether the request asks for no resize at all.
func (r Request) IsZero() bool {
	return r.Width <= 0 && r.Height <= 0
}

// Dimensions computes the output size for an input of inW x inH.
// Never returns a dimension below 1.
func Dimensions(inW, inH int, req Request) (int, int) {
	tw, th := req.Width, req.Height
	if tw < 0 {
		tw = 0
	}
	if th < 0 {
		th = 0
	}

	if inW <= 0 || inH <= 0 {
		return degenerate(inW, inH, tw, th)
	}

	switch {
	case tw == 0 && th == 0:
		return inW, inH
	case th == 0:
		return tw, max1(roundDiv(tw, inH, inW))
	case tw == 0:
		return max1(roundDiv(th, inW, inH)), th
	}

	switch req.Fit.Resolve() {
	case Contain:
		return contain(inW, inH, tw, th)
	case ScaleDown:
		if inW <= tw && inH <= th {
			return inW, inH
		}
		return contain(inW, inH, tw, th)
	default: // Cover, Fill
		return tw, th
	}
}

// degenerate handles inputs without an aspect ratio.
func degenerate(inW, inH, tw, th int) (int, int) {
	switch {
	case tw == 0 && th == 0:
		return max1(inW), max1(inH)
	case tw == 0:
		return th, th
	case th == 0:
		return tw, tw
	}
	return tw, th
}

func contain(inW, inH, tw, th int) (int, int) {
	scale := math.Min(float64(tw)/float64(inW), float64(th)/float64(inH))
	w := max1(int(math.Round(float64(inW) * scale)))
	h := max1(int(math.Round(float64(inH) * scale)))
	if w > tw {
		w = tw
	}
	if h > th {
		h = th
	}
	return w, h
}

// roundDiv returns round(target * num / den).
func roundDiv(target, num, den int) int {
	return int(math.Round(float64(target) * float64(num) / float64(den)))
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
