// Package resize applies a fit.Request to an image with Lanczos resampling.
package resize

import (
	"image"
	"math"

	"github.com/AnyUserName/picpack/internal/fit"
	"github.com/disintegration/imaging"
)

// Result is a resized image and its dimensions.
type Result struct {
	Width  int
	Height int
	Image  *image.NRGBA
}

// Resize returns a new image sized per fit.Dimensions.  The source is not
// modified.  Cover requests are center-cropped to the box's aspect ratio
// and then scaled; everything else is resampled to the computed size
// directly. Every resample uses imaging.Lanczos.
func Resize(img image.Image, req fit.Request) Result {
	b := img.Bounds()
	w, h := fit.Dimensions(b.Dx(), b.Dy(), req)

	var out *image.NRGBA
	switch {
	case b.Empty():
		out = image.NewNRGBA(image.Rect(0, 0, w, h))
	case w == b.Dx() && h == b.Dy():
		out = imaging.Clone(img)
	case req.Width > 0 && req.Height > 0 && req.Fit.Resolve() == fit.Cover:
		out = cover(img, w, h)
	default:
		out = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	return Result{Width: w, Height: h, Image: out}
}

// cover crops first so no intermediate is larger than the source or the
// output.
func cover(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	cropW, cropH := srcW, srcH
	if int64(srcW)*int64(h) > int64(srcH)*int64(w) {
		cropW = clampSide(float64(srcH)*float64(w)/float64(h), srcW)
	} else {
		cropH = clampSide(float64(srcW)*float64(h)/float64(w), srcH)
	}
	cropped := imaging.CropCenter(img, cropW, cropH)
	if cropW == w && cropH == h {
		return cropped
	}
	return imaging.Resize(cropped, w, h, imaging.Lanczos)
}

func clampSide(v float64, limit int) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	if n > limit {
		return limit
	}
	return n
}
