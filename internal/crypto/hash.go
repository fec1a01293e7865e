package crypto

import (
	"golang.org/x/crypto/blake2s"
)

// Hash returns the BLAKE2s-256 digest of the concatenated parts.
func Hash(parts ...[]byte) [32]byte {
	h, _ := blake2s.New256(nil)
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// MixHash absorbs data into a running transcript: h = HASH(h ∥ data).
func MixHash(h *[32]byte, data []byte) {
	d, _ := blake2s.New256(nil)
	d.Write(h[:])
	d.Write(data)
	d.Sum(h[:0])
}

// MAC returns the 16-byte keyed BLAKE2s MAC used to authenticate handshake
// messages (mac1/mac2).
func MAC(key [32]byte, data []byte) [16]byte {
	var out [16]byte
	m, err := blake2s.New128(key[:])
	if err != nil {
		// Only reachable with an oversized key, which the fixed-size
		// parameter rules out.
		return out
	}
	m.Write(data)
	m.Sum(out[:0])
	return out
}
