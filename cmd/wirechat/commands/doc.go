// Package commands defines the wirechat CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init         Create the local identity keypair
//   - fingerprint  Print the identity fingerprint
//   - pubkey       Print the identity public key for sharing
//   - peer add     Add or update a peer by public key
//   - peer list    List known peers
//
// # Implementation
//
// The root command builds the dependency graph (stores, config directory)
// before any subcommand runs, so handlers share one app context.
package commands
