package hasher

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_KnownValues(t *testing.T) {
	// XXH3-64("") = 2d06800538d394c2, XXH3-64("a") = e6c632b61e964e1f.
	assert.Equal(t, "2d06800538d3", Fingerprint(nil))
	assert.Equal(t, "2d06800538d3", Fingerprint([]byte{}))
	assert.Equal(t, "e6c632b61e96", Fingerprint([]byte("a")))
	assert.Equal(t, "d447b1ea40e6", Fingerprint([]byte("hello world")))
}

func TestFingerprint_Deterministic(t *testing.T) {
	data := bytes.Repeat([]byte{0x89, 'P', 'N', 'G'}, 4096)
	assert.Equal(t, Fingerprint(data), Fingerprint(append([]byte(nil), data...)))
}

func TestFingerprint_SingleByteFlips(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i * 31)
	}
	base := Fingerprint(data)
	seen := map[string]bool{base: true}
	for i := 0; i < len(data); i++ {
		mut := append([]byte(nil), data...)
		mut[i] ^= 0x01
		fp := Fingerprint(mut)
		assert.False(t, seen[fp], "collision after flipping byte %d", i)
		seen[fp] = true
	}
}

func TestFingerprintReader(t *testing.T) {
	// Large enough to cross the streaming hasher's internal block size.
	data := bytes.Repeat([]byte("picpack"), 10000)
	got, err := FingerprintReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(data), got)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestFingerprintReader_Error(t *testing.T) {
	_, err := FingerprintReader(failingReader{})
	assert.ErrorContains(t, err, "boom")
}

func TestContentHash(t *testing.T) {
	// xxHash64("") = ef46db3751d8e999.
	assert.Equal(t, "ef46db3751d8e999", ContentHash(nil, 0))
	assert.Equal(t, "ef46db37", ContentHash(nil, 8))
	assert.Equal(t, "ef46db3751d8e999", ContentHash(nil, 64))
	assert.NotEqual(t, Fingerprint(nil), ContentHash(nil, 12))
}
