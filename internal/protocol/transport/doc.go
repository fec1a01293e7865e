// Package transport frames and protects application payloads for an
// established session. Each direction has its own ChaCha20-Poly1305 key and
// a 64-bit counter that doubles as the nonce, so a ciphertext can never be
// produced twice under the same key. Inbound counters pass through a
// sliding-window replay filter before any decryption is attempted, and the
// window only advances after a payload authenticates.
//
// Session values are safe for concurrent use. The session manager in
// internal/services/session owns their lifecycle.
package transport
