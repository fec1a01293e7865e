package domain

// Timestamp is a 12-byte TAI64N label: 8-byte big-endian seconds followed by
// 4-byte big-endian nanoseconds.
type Timestamp [12]byte

// Peer is the durable record for a known remote identity. It outlives any
// single session: LastHandshake is the greatest handshake timestamp ever
// accepted from this peer and blocks initiation replay across restarts.
type Peer struct {
	PublicKey    X25519Public `json:"public_key"`
	PresharedKey PresharedKey `json:"preshared_key"`

	LastHandshake Timestamp `json:"last_handshake"`
}
