// Package noise implements the two-message authenticated handshake
// (Noise IKpsk2 over X25519, ChaCha20-Poly1305 and BLAKE2s) that
// establishes forward-secure transport keys between two chat peers.
//
// A Handshake value is a single-use state machine:
//
//	initiator: Idle -> InitiationSent -> Established
//	responder: Idle -> AwaitingCompletion -> Established
//
// with Failed as a parallel terminal. Nothing transitions out of
// Established; a rehandshake always starts a fresh Handshake with fresh
// ephemeral keys. Every reject path returns one of the sentinel errors from
// internal/domain and leaves the machine's committed state untouched, so an
// unauthenticated message can never corrupt an attempt in flight.
//
// The package is pure computation over byte buffers. Sending, receiving,
// timeouts and the session table belong to internal/services/session.
package noise
