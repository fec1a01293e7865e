package crypto

import (
	"encoding/base64"
	"fmt"

	"wirechat/internal/domain"
)

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// ParsePublicKey decodes a base64 public key as exchanged between peers.
func ParsePublicKey(s string) (domain.X25519Public, error) {
	var pub domain.X25519Public
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return pub, fmt.Errorf("decode public key: %w", err)
	}
	if len(b) != len(pub) {
		return pub, fmt.Errorf("public key: want %d bytes, got %d", len(pub), len(b))
	}
	copy(pub[:], b)
	return pub, nil
}

// ParsePresharedKey decodes a base64 preshared key.
func ParsePresharedKey(s string) (domain.PresharedKey, error) {
	var psk domain.PresharedKey
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return psk, fmt.Errorf("decode preshared key: %w", err)
	}
	if len(b) != len(psk) {
		return psk, fmt.Errorf("preshared key: want %d bytes, got %d", len(psk), len(b))
	}
	copy(psk[:], b)
	return psk, nil
}
