package crypto

import (
	"encoding/hex"

	"wirechat/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a public key for display.
//
// It hashes with BLAKE2s and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub domain.X25519Public) domain.Fingerprint {
	sum := Hash(pub[:])
	return domain.Fingerprint(hex.EncodeToString(sum[:10]))
}
