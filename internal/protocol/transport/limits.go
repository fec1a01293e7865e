package transport

import "time"

// Key lifetime limits. Crossing a rekey threshold asks the session manager
// for a fresh handshake; crossing a reject threshold makes the session
// refuse further traffic outright.
const (
	RekeyAfterMessages  = uint64(1) << 60
	RejectAfterMessages = uint64(1) << 63
	RekeyAfterTime      = 120 * time.Second
	RejectAfterTime     = 180 * time.Second
	RekeyTimeout        = 5 * time.Second
)

// MaxPayloadSize bounds a single plaintext payload.
const MaxPayloadSize = 65535
