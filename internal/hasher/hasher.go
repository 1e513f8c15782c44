package hasher

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// FingerprintShift is the number of low bits dropped from the 64-bit
// XXH3 hash before rendering a fingerprint.
const FingerprintShift = 16

// Fingerprint returns the cache-key token for raw upload bytes:
// XXH3-64 shifted right by FingerprintShift, as lowercase hex without zero
// padding.  Browser and wasm clients compute the same token.
// Not a security mechanism.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%x", xxh3.Hash(data)>>FingerprintShift)
}

// FingerprintReader computes Fingerprint from a reader, streaming.
func FingerprintReader(r io.Reader) (string, error) {
	h := xxh3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum64()>>FingerprintShift), nil
}

// ContentHash returns the xxHash64 of data as 16 zero-padded hex digits,
// truncated to hexLen when 0 < hexLen < 16.  Used for output ETags.
func ContentHash(data []byte, hexLen int) string {
	full := fmt.Sprintf("%016x", xxhash.Sum64(data))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
