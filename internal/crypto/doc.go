// Package crypto exposes the primitives the handshake and transport layers
// are built from.
//
// Contents
//
//   - X25519 key generation, clamping and Diffie-Hellman (GenerateX25519,
//     PublicOf, SharedSecret)
//   - BLAKE2s transcript hashing and the 16-byte keyed MAC used for message
//     authentication (Hash, MixHash, MAC)
//   - The Noise chaining-key mix as HKDF over BLAKE2s (KDF1, KDF2, KDF3)
//   - ChaCha20-Poly1305 sealing under the counter nonce convention
//     (AEADSeal, AEADOpen)
//   - KeyStore, the sole owner of the static private scalar
//
// All functions take and return the fixed-size array types defined in
// internal/domain to avoid accidental reallocation of secrets. Callers
// should wipe transient copies with internal/util/memzero when practical.
package crypto
