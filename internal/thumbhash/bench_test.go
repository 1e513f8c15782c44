package thumbhash

import (
	"bytes"
	"image"
	"image/color"
	"runtime"
	"sync"
	"testing"
)

// ─── test image generators ───────────────────────────────────

func makeNRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 251) % 256),
				G: uint8((y * 179) % 256),
				B: uint8(((x + y) * 113) % 256),
				A: 255,
			})
		}
	}
	return img
}

func makeNRGBAAlpha(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 200, G: 100, B: 50,
				A: uint8((x * 3) % 256),
			})
		}
	}
	return img
}

// ─── benchmarks: input-size scaling ──────────────────────────

func BenchmarkEncode_32(b *testing.B) {
	img := makeNRGBA(32, 32)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(img)
	}
}

func BenchmarkEncode_100x75(b *testing.B) {
	img := makeNRGBA(100, 75)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(img)
	}
}

func BenchmarkEncode_Alpha_100(b *testing.B) {
	img := makeNRGBAAlpha(100, 100)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(img)
	}
}

func BenchmarkDecode(b *testing.B) {
	hash, _ := Encode(makeNRGBA(100, 100))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(hash)
	}
}

// ─── determinism: concurrent ─────────────────────────────────

func TestDeterminism_Concurrent(t *testing.T) {
	img := makeNRGBA(100, 100)
	reference, err := Encode(img)
	if err != nil {
		t.Fatal(err)
	}

	const workers = 32
	const iterations = 50
	var wg sync.WaitGroup
	errCh := make(chan string, workers*iterations)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				result, _ := Encode(img)
				if !bytes.Equal(result, reference) {
					errCh <- "mismatch"
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)

	mismatches := 0
	for range errCh {
		mismatches++
	}
	if mismatches > 0 {
		t.Fatalf("determinism failed: %d/%d mismatches across %d workers",
			mismatches, workers*iterations, workers)
	}
}

func TestDeterminism_OrderIndependent(t *testing.T) {
	images := make([]*image.NRGBA, 20)
	for i := range images {
		images[i] = makeNRGBA(10+i*4, 5+i*3)
	}

	pass1 := make([][]byte, len(images))
	for i, img := range images {
		pass1[i], _ = Encode(img)
	}

	pass2 := make([][]byte, len(images))
	for i := len(images) - 1; i >= 0; i-- {
		pass2[i], _ = Encode(images[i])
	}

	pass3 := make([][]byte, len(images))
	var wg sync.WaitGroup
	for i, img := range images {
		wg.Add(1)
		go func(idx int, im *image.NRGBA) {
			defer wg.Done()
			pass3[idx], _ = Encode(im)
		}(i, img)
	}
	wg.Wait()

	for i := range images {
		if !bytes.Equal(pass1[i], pass2[i]) {
			t.Errorf("image %d: pass1 != pass2 (order-dependent)", i)
		}
		if !bytes.Equal(pass1[i], pass3[i]) {
			t.Errorf("image %d: pass1 != pass3 (concurrency-dependent)", i)
		}
	}
}

// ─── correctness: no panic on odd/edge sizes ─────────────────

func TestNoPanic_OddSizes(t *testing.T) {
	sizes := [][2]int{
		{1, 1}, {1, 2}, {2, 1}, {3, 3},
		{7, 13}, {13, 7}, {99, 1}, {1, 99},
		{100, 100}, {100, 1}, {1, 100},
	}

	for _, s := range sizes {
		w, h := s[0], s[1]
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("panic at %dx%d: %v", w, h, r)
				}
			}()
			for _, img := range []*image.NRGBA{makeNRGBA(w, h), makeNRGBAAlpha(w, h)} {
				hash, err := Encode(img)
				if err != nil {
					t.Errorf("%dx%d: %v", w, h, err)
					return
				}
				if _, err := Decode(hash); err != nil {
					t.Errorf("%dx%d: decode: %v", w, h, err)
				}
			}
		}()
	}
}

// ─── memory: no leak ─────────────────────────────────────────

func TestMemoryStability_Batch(t *testing.T) {
	img := makeNRGBA(100, 100)

	// Warmup pool.
	for i := 0; i < 10; i++ {
		_, _ = Encode(img)
	}

	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	const n = 500
	for i := 0; i < n; i++ {
		_, _ = Encode(img)
	}

	runtime.GC()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	heapGrowth := int64(after.HeapAlloc) - int64(before.HeapAlloc)
	totalAlloc := after.TotalAlloc - before.TotalAlloc
	t.Logf("batch %d images: heap growth %d KB, %.1f KB/image", n, heapGrowth/1024, float64(totalAlloc)/1024/n)

	if heapGrowth > 5*1024*1024 {
		t.Errorf("heap grew by %d MB, possible leak", heapGrowth/(1024*1024))
	}
}
