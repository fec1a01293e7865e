// Package store provides file-based persistence for wirechat's durable
// state, implementing the domain storage interfaces with JSON on disk. All
// methods are concurrency-safe via internal locking, and every write goes
// through a temp file plus rename so a crash never leaves a torn file.
//
// Two stores live here:
//   - Identity keys (IdentityFileStore), optionally sealed under a
//     passphrase-derived key
//   - The peer directory (PeerFileStore), including the last accepted
//     handshake timestamp per peer
package store
