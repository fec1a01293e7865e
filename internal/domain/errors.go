package domain

import "errors"

// Protocol-level rejections are sentinel values so callers can enforce the
// drop-silently contract with errors.Is instead of string matching. None of
// these may ever be surfaced to a remote peer.
var (
	// ErrAuthenticationFailure covers bad AEAD tags and bad handshake MACs.
	// The offending message is dropped without a reply.
	ErrAuthenticationFailure = errors.New("authentication failure")

	// ErrReplayDetected covers stale handshake timestamps and transport
	// counters that fall inside the replay window. Dropped without a reply.
	ErrReplayDetected = errors.New("replay detected")

	// ErrProtocolViolation covers malformed lengths, unknown message types,
	// and messages arriving in an unexpected state.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrLowOrderPoint is returned when a Diffie-Hellman result is the
	// all-zero point. The handshake step that asked for it must abort.
	ErrLowOrderPoint = errors.New("low-order public key point")

	// ErrKeyExhaustion means the session hit its message or age ceiling and
	// refuses to seal more traffic until a fresh handshake completes.
	ErrKeyExhaustion = errors.New("session keys exhausted, rehandshake required")

	// ErrHandshakeTimeout means a pending attempt outlived its deadline and
	// was discarded. Recovery is a new attempt with fresh ephemeral keys.
	ErrHandshakeTimeout = errors.New("handshake attempt timed out")

	// ErrUnknownPeer means a handshake decrypted to a static key that is not
	// in the peer directory.
	ErrUnknownPeer = errors.New("unknown peer")

	// ErrNoSession means no established session exists for the peer or
	// session index.
	ErrNoSession = errors.New("no established session")
)
