// Package thumbhash implements the ThumbHash algorithm for compact image
// placeholders.  Based on Evan Wallace's reference implementation; the
// byte layout is the reference one, so hashes decode with any conforming
// ThumbHash decoder.
//
// Performance design:
//   - float32 channel planes with float64 DCT accumulation
//   - sync.Pool for the ~160 KB workBuf → 1 alloc/op (only the returned hash)
//   - Cosine tables computed once per call, pure multiply-add DCT
//   - Deterministic: identical input → identical output regardless of parallelism
package thumbhash

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
)

// MaxDim is the largest width or height accepted by the encoder.
const MaxDim = 100

var (
	// ErrTooLarge is returned for inputs wider or taller than MaxDim.
	ErrTooLarge = errors.New("thumbhash: image larger than 100x100")
	// ErrEmpty is returned for zero-sized inputs.
	ErrEmpty = errors.New("thumbhash: empty image")
	// ErrBufferSize is returned when the pixel buffer is not w*h*4 bytes.
	ErrBufferSize = errors.New("thumbhash: rgba buffer size mismatch")
)

// maxCoeffs bounds nx/ny of any channel (luminance uses at most 7).
const maxCoeffs = 7

// ─── work buffer + pool ──────────────────────────────────────
type workBuf struct {
	l, p, q, a [MaxDim * MaxDim]float32          // 4 × 40 KB
	cosX       [maxCoeffs * MaxDim]float64       // 5.6 KB
	cosY       [maxCoeffs * MaxDim]float64       // 5.6 KB
	ac         [4][maxCoeffs * maxCoeffs]float32 // per-channel AC terms
}

var wbPool = sync.Pool{New: func() any { return new(workBuf) }}

// ─── public API ────────────────────────────────────────────────

// Encode generates a ThumbHash from an NRGBA image of at most 100x100.
func Encode(img *image.NRGBA) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmpty
	}
	if w > MaxDim || h > MaxDim {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}
	return EncodeRGBA(w, h, tightPix(img))
}

// EncodeRGBA generates a ThumbHash from w*h non-premultiplied RGBA8 pixels,
// row by row.  Output: 5–25 bytes.  Deterministic for identical input.
func EncodeRGBA(w, h int, rgba []byte) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrEmpty
	}
	if w > MaxDim || h > MaxDim {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}
	if len(rgba) != w*h*4 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBufferSize, len(rgba), w*h*4)
	}

	wb := wbPool.Get().(*workBuf)
	defer wbPool.Put(wb)
	return assembleHash(w, h, rgba, wb), nil
}

// tightPix returns the pixels of img without row padding.
func tightPix(img *image.NRGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rowLen := w * 4
	off := img.PixOffset(b.Min.X, b.Min.Y)
	if img.Stride == rowLen {
		return img.Pix[off : off+rowLen*h]
	}
	out := make([]byte, rowLen*h)
	for y := 0; y < h; y++ {
		copy(out[y*rowLen:(y+1)*rowLen], img.Pix[off+y*img.Stride:])
	}
	return out
}

// ─── DCT hash encoding ─────────────────────────────────────────

func assembleHash(w, h int, rgba []byte, wb *workBuf) []byte {
	count := w * h

	// Average colour weighted by alpha.
	var avgR, avgG, avgB, avgA float32
	for i, j := 0, 0; i < count; i, j = i+1, j+4 {
		alpha := float32(rgba[j+3]) / 255
		avgR += alpha / 255 * float32(rgba[j])
		avgG += alpha / 255 * float32(rgba[j+1])
		avgB += alpha / 255 * float32(rgba[j+2])
		avgA += alpha
	}
	if avgA > 0 {
		avgR /= avgA
		avgG /= avgA
		avgB /= avgA
	}

	hasAlpha := avgA < float32(count)
	lLimit := 7
	if hasAlpha {
		lLimit = 5 // fewer luminance bits when alpha is present
	}
	maxWH := imax(w, h)
	lx := max1(roundF(float64(lLimit*w) / float64(maxWH)))
	ly := max1(roundF(float64(lLimit*h) / float64(maxWH)))

	// RGBA → LPQA, composited atop the average colour.
	l, p, q, a := wb.l[:count], wb.p[:count], wb.q[:count], wb.a[:count]
	for i, j := 0, 0; i < count; i, j = i+1, j+4 {
		alpha := float32(rgba[j+3]) / 255
		r := avgR*(1-alpha) + alpha/255*float32(rgba[j])
		g := avgG*(1-alpha) + alpha/255*float32(rgba[j+1])
		b := avgB*(1-alpha) + alpha/255*float32(rgba[j+2])
		l[i] = (r + g + b) / 3
		p[i] = (r+g)/2 - b
		q[i] = r - g
		a[i] = alpha
	}

	// Pre-compute cosine tables shared by all channels.
	cosX := wb.cosX[:maxCoeffs*w]
	for cx := 0; cx < maxCoeffs; cx++ {
		for x := 0; x < w; x++ {
			cosX[cx*w+x] = math.Cos(math.Pi / float64(w) * float64(cx) * (float64(x) + 0.5))
		}
	}
	cosY := wb.cosY[:maxCoeffs*h]
	for cy := 0; cy < maxCoeffs; cy++ {
		for y := 0; y < h; y++ {
			cosY[cy*h+y] = math.Cos(math.Pi / float64(h) * float64(cy) * (float64(y) + 0.5))
		}
	}

	lCh := encodeChan(l, w, h, imax(3, lx), imax(3, ly), cosX, cosY, wb.ac[0][:])
	pCh := encodeChan(p, w, h, 3, 3, cosX, cosY, wb.ac[1][:])
	qCh := encodeChan(q, w, h, 3, 3, cosX, cosY, wb.ac[2][:])
	var aCh channel
	if hasAlpha {
		aCh = encodeChan(a, w, h, 5, 5, cosX, cosY, wb.ac[3][:])
	}

	// ── ThumbHash binary layout ──
	//
	// Bytes 0–2: header24 (little-endian)
	//   bits  0– 5: lDC    = round(63 * lDC)
	//   bits  6–11: pDC    = round(31.5 + 31.5 * pDC)   → decode: val/31.5 - 1
	//   bits 12–17: qDC    = round(31.5 + 31.5 * qDC)
	//   bits 18–22: lScale = round(31 * lScale)
	//   bit  23:    hasAlpha
	// Bytes 3–4: header16 (little-endian)
	//   bits  0– 2: isLandscape ? ly : lx
	//   bits  3– 8: pScale = round(63 * pScale)
	//   bits  9–14: qScale = round(63 * qScale)
	//   bit  15:    isLandscape
	// Byte 5 (only if hasAlpha): aDC (low nibble), aScale (high nibble)
	// Remaining bytes: AC terms as 4-bit nibbles, low nibble first,
	//   order lAC, pAC, qAC [, aAC].
	isLandscape := w > h
	header24 := uint32(math.Round(63*lCh.dc)) |
		uint32(math.Round(31.5+31.5*pCh.dc))<<6 |
		uint32(math.Round(31.5+31.5*qCh.dc))<<12 |
		uint32(math.Round(31*lCh.scale))<<18 |
		boolU32(hasAlpha)<<23
	dimFlag := lx
	if isLandscape {
		dimFlag = ly
	}
	header16 := uint32(dimFlag) |
		uint32(math.Round(63*pCh.scale))<<3 |
		uint32(math.Round(63*qCh.scale))<<9 |
		boolU32(isLandscape)<<15

	acStart := 5
	acCount := len(lCh.ac) + len(pCh.ac) + len(qCh.ac)
	if hasAlpha {
		acStart = 6
		acCount += len(aCh.ac)
	}

	// Sole heap allocation.
	hash := make([]byte, acStart+(acCount+1)/2)
	hash[0] = byte(header24)
	hash[1] = byte(header24 >> 8)
	hash[2] = byte(header24 >> 16)
	hash[3] = byte(header16)
	hash[4] = byte(header16 >> 8)
	if hasAlpha {
		hash[5] = byte(math.Round(15*aCh.dc)) | byte(math.Round(15*aCh.scale))<<4
	}

	idx := 0
	pack := func(ac []float32) {
		for _, f := range ac {
			hash[acStart+idx>>1] |= byte(math.Round(15*float64(f))) << ((idx & 1) << 2)
			idx++
		}
	}
	pack(lCh.ac)
	pack(pCh.ac)
	pack(qCh.ac)
	if hasAlpha {
		pack(aCh.ac)
	}
	return hash
}

// channel holds the DCT of one LPQA plane. ac values are normalized to [0, 1].
type channel struct {
	dc    float64
	scale float64
	ac    []float32
}

// encodeChan computes the triangular DCT coefficient set of one plane into dst.
func encodeChan(data []float32, w, h, nx, ny int, cosX, cosY []float64, dst []float32) channel {
	var ch channel
	n := 0
	wh := float64(w * h)

	for cy := 0; cy < ny; cy++ {
		for cx := 0; cx*ny < nx*(ny-cy); cx++ {
			fxRow := cosX[cx*w : cx*w+w]
			var f float64
			for y := 0; y < h; y++ {
				row := data[y*w : y*w+w]
				var s float64
				for x, v := range row {
					s += float64(v) * fxRow[x]
				}
				f += s * cosY[cy*h+y]
			}
			f /= wh

			if cx == 0 && cy == 0 {
				ch.dc = f
				continue
			}
			dst[n] = float32(f)
			n++
			ch.scale = math.Max(ch.scale, math.Abs(f))
		}
	}

	ch.ac = dst[:n]
	if ch.scale > 0 {
		for i := range ch.ac {
			ch.ac[i] = float32(0.5 + 0.5/ch.scale*float64(ch.ac[i]))
		}
	}
	return ch
}

// ─── helpers ──────────────────────────────────────────────────

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func roundF(v float64) int {
	return int(math.Round(v))
}
