package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"wirechat/internal/domain"
)

// GenerateX25519 returns a fresh Curve25519 key pair.
// The private key is clamped per RFC 7748.
func GenerateX25519() (priv domain.X25519Private, pub domain.X25519Public, err error) {
	if _, err = rand.Read(priv[:]); err != nil {
		return
	}
	clamp(&priv)
	pub, err = PublicOf(priv)
	return
}

// PublicOf derives the public point for a private scalar.
func PublicOf(priv domain.X25519Private) (domain.X25519Public, error) {
	var pub domain.X25519Public
	pb, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	if err != nil {
		return pub, fmt.Errorf("derive public key: %w", err)
	}
	copy(pub[:], pb)
	return pub, nil
}

// SharedSecret computes X25519 Diffie-Hellman. An all-zero result marks a
// degenerate (low-order) peer point; the handshake step that requested the
// operation must abort rather than continue with a known value.
func SharedSecret(priv domain.X25519Private, pub domain.X25519Public) ([32]byte, error) {
	var out [32]byte
	secret, err := curve25519.X25519(priv.Slice(), pub.Slice())
	if err != nil {
		return out, domain.ErrLowOrderPoint
	}
	copy(out[:], secret)
	return out, nil
}

func clamp(k *domain.X25519Private) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
