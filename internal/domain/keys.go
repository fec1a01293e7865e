package domain

import "crypto/subtle"

// X25519Private is a clamped Curve25519 private scalar.
type X25519Private [32]byte

// X25519Public is a Curve25519 public point.
type X25519Public [32]byte

// PresharedKey is an optional symmetric value mixed into the handshake.
// The all-zero value means "no preshared key".
type PresharedKey [32]byte

func (k X25519Private) Slice() []byte { return k[:] }
func (k X25519Public) Slice() []byte  { return k[:] }
func (k PresharedKey) Slice() []byte  { return k[:] }

// IsZero reports whether the public point is all zeros, in constant time.
func (k X25519Public) IsZero() bool {
	var zero X25519Public
	return subtle.ConstantTimeCompare(k[:], zero[:]) == 1
}

// Fingerprint is a short printable digest of a public key.
type Fingerprint string

// Identity holds the long-term static keypair. The private half is owned by
// the keystore and must never appear in logs, exports, or wire messages.
type Identity struct {
	Private X25519Private `json:"private"`
	Public  X25519Public  `json:"public"`
}
