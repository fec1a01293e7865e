package domain

// IdentityStore persists the long-term identity keypair, in a location
// separate from all other application state.
type IdentityStore interface {
	SaveIdentity(id Identity) error
	LoadIdentity() (Identity, error)
}

// PeerStore is the durable peer directory.
type PeerStore interface {
	UpsertPeer(p Peer) error
	Peer(pub X25519Public) (Peer, bool, error)
	Peers() ([]Peer, error)

	// SetLastHandshake raises the greatest accepted handshake timestamp for
	// the peer. Implementations must never lower it.
	SetLastHandshake(pub X25519Public, ts Timestamp) error
}
