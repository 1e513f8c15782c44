package thumbhash

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrShortHash is returned when a hash is truncated or its header is
// inconsistent with its length.
var ErrShortHash = errors.New("thumbhash: malformed hash")

// PreviewSize is the longer side of a decoded preview in pixels.
const PreviewSize = 32

// RGBA is a non-premultiplied colour with channels in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// header is the decoded fixed-size prefix of a hash.
type header struct {
	lDC, pDC, qDC, aDC     float64
	lScale, pScale, qScale float64
	aScale                 float64
	hasAlpha, isLandscape  bool
	lx, ly                 int // coefficient grid of the luminance channel
	rawLX, rawLY           int // before clamping to 3, used for the aspect ratio
	acStart                int
}

func readHeader(hash []byte) (header, error) {
	var hd header
	if len(hash) < 5 {
		return hd, fmt.Errorf("%w: %d bytes", ErrShortHash, len(hash))
	}
	header24 := uint32(hash[0]) | uint32(hash[1])<<8 | uint32(hash[2])<<16
	header16 := uint32(hash[3]) | uint32(hash[4])<<8

	hd.lDC = float64(header24&63) / 63
	hd.pDC = float64((header24>>6)&63)/31.5 - 1
	hd.qDC = float64((header24>>12)&63)/31.5 - 1
	hd.lScale = float64((header24>>18)&31) / 31
	hd.hasAlpha = header24>>23 != 0
	hd.pScale = float64((header16>>3)&63) / 63
	hd.qScale = float64((header16>>9)&63) / 63
	hd.isLandscape = header16>>15 != 0

	long := 7
	if hd.hasAlpha {
		long = 5
	}
	short := int(header16 & 7)
	if hd.isLandscape {
		hd.rawLX, hd.rawLY = long, short
	} else {
		hd.rawLX, hd.rawLY = short, long
	}
	if hd.rawLX == 0 || hd.rawLY == 0 {
		return hd, fmt.Errorf("%w: zero coefficient grid", ErrShortHash)
	}
	hd.lx, hd.ly = imax(3, hd.rawLX), imax(3, hd.rawLY)

	hd.aDC = 1
	hd.acStart = 5
	if hd.hasAlpha {
		if len(hash) < 6 {
			return hd, fmt.Errorf("%w: alpha byte missing", ErrShortHash)
		}
		hd.aDC = float64(hash[5]&15) / 15
		hd.aScale = float64(hash[5]>>4) / 15
		hd.acStart = 6
	}

	acCount := acTerms(hd.lx, hd.ly) + 2*acTerms(3, 3)
	if hd.hasAlpha {
		acCount += acTerms(5, 5)
	}
	if need := hd.acStart + (acCount+1)/2; len(hash) < need {
		return hd, fmt.Errorf("%w: %d bytes, want %d", ErrShortHash, len(hash), need)
	}
	return hd, nil
}

// acTerms counts the AC coefficients of an nx×ny triangular grid.
func acTerms(nx, ny int) int {
	n := 0
	for cy := 0; cy < ny; cy++ {
		for cx := 0; cx*ny < nx*(ny-cy); cx++ {
			n++
		}
	}
	return n - 1
}

// unpackAC reads n nibbles starting at nibble index idx, scaled to [-scale, scale].
func unpackAC(hash []byte, start, idx, n int, scale float64) ([]float64, int) {
	ac := make([]float64, n)
	for i := range ac {
		nib := hash[start+idx>>1] >> ((idx & 1) << 2) & 15
		ac[i] = (float64(nib)/7.5 - 1) * scale
		idx++
	}
	return ac, idx
}

// AverageRGBA returns the average colour stored in the DC terms.
func AverageRGBA(hash []byte) (RGBA, error) {
	hd, err := readHeader(hash)
	if err != nil {
		return RGBA{}, err
	}
	r, g, b := lpqToRGB(hd.lDC, hd.pDC, hd.qDC)
	return RGBA{
		R: float32(clamp01(r)),
		G: float32(clamp01(g)),
		B: float32(clamp01(b)),
		A: float32(hd.aDC),
	}, nil
}

// Decode renders the hash as a preview whose longer side is PreviewSize.
func Decode(hash []byte) (*image.NRGBA, error) {
	hd, err := readHeader(hash)
	if err != nil {
		return nil, err
	}

	// Saturation is boosted by 1.25 to compensate for quantization.
	idx := 0
	var lAC, pAC, qAC, aAC []float64
	lAC, idx = unpackAC(hash, hd.acStart, idx, acTerms(hd.lx, hd.ly), hd.lScale)
	pAC, idx = unpackAC(hash, hd.acStart, idx, acTerms(3, 3), hd.pScale*1.25)
	qAC, idx = unpackAC(hash, hd.acStart, idx, acTerms(3, 3), hd.qScale*1.25)
	if hd.hasAlpha {
		aAC, _ = unpackAC(hash, hd.acStart, idx, acTerms(5, 5), hd.aScale)
	}

	ratio := float64(hd.rawLX) / float64(hd.rawLY)
	w, h := PreviewSize, PreviewSize
	if ratio > 1 {
		h = roundF(PreviewSize / ratio)
	} else {
		w = roundF(PreviewSize * ratio)
	}
	w, h = max1(w), max1(h)

	cxStop, cyStop := hd.lx, hd.ly
	if hd.hasAlpha {
		cxStop, cyStop = imax(cxStop, 5), imax(cyStop, 5)
	}
	fx := make([]float64, cxStop*w)
	for x := 0; x < w; x++ {
		for cx := 0; cx < cxStop; cx++ {
			fx[x*cxStop+cx] = math.Cos(math.Pi / float64(w) * (float64(x) + 0.5) * float64(cx))
		}
	}
	fy := make([]float64, cyStop*h)
	for y := 0; y < h; y++ {
		for cy := 0; cy < cyStop; cy++ {
			fy[y*cyStop+cy] = math.Cos(math.Pi / float64(h) * (float64(y) + 0.5) * float64(cy))
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		fyRow := fy[y*cyStop : (y+1)*cyStop]
		for x := 0; x < w; x++ {
			fxRow := fx[x*cxStop : (x+1)*cxStop]
			l, p, q, a := hd.lDC, hd.pDC, hd.qDC, hd.aDC

			for cy, j := 0, 0; cy < hd.ly; cy++ {
				fy2 := fyRow[cy] * 2
				cx := 0
				if cy == 0 {
					cx = 1
				}
				for ; cx*hd.ly < hd.lx*(hd.ly-cy); cx, j = cx+1, j+1 {
					l += lAC[j] * fxRow[cx] * fy2
				}
			}
			for cy, j := 0, 0; cy < 3; cy++ {
				fy2 := fyRow[cy] * 2
				cx := 0
				if cy == 0 {
					cx = 1
				}
				for ; cx < 3-cy; cx, j = cx+1, j+1 {
					f := fxRow[cx] * fy2
					p += pAC[j] * f
					q += qAC[j] * f
				}
			}
			if hd.hasAlpha {
				for cy, j := 0, 0; cy < 5; cy++ {
					fy2 := fyRow[cy] * 2
					cx := 0
					if cy == 0 {
						cx = 1
					}
					for ; cx < 5-cy; cx, j = cx+1, j+1 {
						a += aAC[j] * fxRow[cx] * fy2
					}
				}
			}

			r, g, b := lpqToRGB(l, p, q)
			o := img.PixOffset(x, y)
			img.Pix[o] = toByte(r)
			img.Pix[o+1] = toByte(g)
			img.Pix[o+2] = toByte(b)
			img.Pix[o+3] = toByte(a)
		}
	}
	return img, nil
}

func lpqToRGB(l, p, q float64) (r, g, b float64) {
	b = l - 2.0/3.0*p
	r = (3*l - b + q) / 2
	g = r - q
	return r, g, b
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// toByte truncates, so 0.999 maps to 254.
func toByte(v float64) byte {
	return byte(math.Max(0, 255*math.Min(1, v)))
}
