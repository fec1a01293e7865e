package crypto

import (
	"wirechat/internal/domain"
)

// KeyStore owns the long-term static keypair. The private scalar never
// leaves it: handshake code asks the store for Diffie-Hellman results
// instead of reading the key.
type KeyStore struct {
	private domain.X25519Private
	public  domain.X25519Public
}

// NewKeyStore wraps a loaded identity.
func NewKeyStore(id domain.Identity) *KeyStore {
	return &KeyStore{private: id.Private, public: id.Public}
}

// PublicKey returns the static public point.
func (k *KeyStore) PublicKey() domain.X25519Public { return k.public }

// SharedSecret computes DH(static private, peer public). It fails with
// ErrLowOrderPoint on a degenerate peer point, which must abort the
// handshake step that requested it.
func (k *KeyStore) SharedSecret(peer domain.X25519Public) ([32]byte, error) {
	return SharedSecret(k.private, peer)
}
