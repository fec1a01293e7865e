package crypto

import (
	"hash"
	"io"

	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/hkdf"
)

// The chaining-key mix is HKDF over BLAKE2s with empty info:
// Extract with the current chaining key as salt, then Expand for up to three
// 32-byte outputs. The first output always becomes the new chaining key.

func blake2sNew() hash.Hash {
	h, _ := blake2s.New256(nil)
	return h
}

// KDF1 mixes input into the chaining key.
func KDF1(ck [32]byte, input []byte) (newCK [32]byte) {
	r := hkdf.Expand(blake2sNew, hkdf.Extract(blake2sNew, input, ck[:]), nil)
	_, _ = io.ReadFull(r, newCK[:])
	return
}

// KDF2 mixes input into the chaining key and yields one extra output key.
// With nil input it performs the final transport-key derivation.
func KDF2(ck [32]byte, input []byte) (newCK, key [32]byte) {
	r := hkdf.Expand(blake2sNew, hkdf.Extract(blake2sNew, input, ck[:]), nil)
	_, _ = io.ReadFull(r, newCK[:])
	_, _ = io.ReadFull(r, key[:])
	return
}

// KDF3 mixes input into the chaining key and yields two extra outputs; the
// handshake uses it for the preshared-key step (tau, then the AEAD key).
func KDF3(ck [32]byte, input []byte) (newCK, tau, key [32]byte) {
	r := hkdf.Expand(blake2sNew, hkdf.Extract(blake2sNew, input, ck[:]), nil)
	_, _ = io.ReadFull(r, newCK[:])
	_, _ = io.ReadFull(r, tau[:])
	_, _ = io.ReadFull(r, key[:])
	return
}
