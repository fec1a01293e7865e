package crypto

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20poly1305"

	"wirechat/internal/domain"
)

// AEADTagSize is the Poly1305 tag appended to every sealed field.
const AEADTagSize = chacha20poly1305.Overhead

// counterNonce builds the 12-byte nonce: 4 zero bytes followed by the
// little-endian counter. Counters are never reused under one key.
func counterNonce(counter uint64) [chacha20poly1305.NonceSize]byte {
	var nonce [chacha20poly1305.NonceSize]byte
	binary.LittleEndian.PutUint64(nonce[4:], counter)
	return nonce
}

// AEADSeal encrypts and authenticates plaintext under key with the counter
// nonce, binding ad without encrypting it.
func AEADSeal(key [32]byte, counter uint64, plaintext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	nonce := counterNonce(counter)
	return aead.Seal(nil, nonce[:], plaintext, ad), nil
}

// AEADOpen verifies and decrypts a sealed field. A failed tag comes back as
// ErrAuthenticationFailure so callers can drop the message silently.
func AEADOpen(key [32]byte, counter uint64, ciphertext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	nonce := counterNonce(counter)
	pt, err := aead.Open(nil, nonce[:], ciphertext, ad)
	if err != nil {
		return nil, domain.ErrAuthenticationFailure
	}
	return pt, nil
}
