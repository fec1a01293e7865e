// Package session owns the live security state of the process: pending
// handshake attempts, established transport sessions, and the index tables
// that route inbound messages to them. It glues the pure handshake machine
// in internal/protocol/noise to the framed transport in
// internal/protocol/transport, and persists accepted handshake timestamps
// through the peer store so initiation replay stays blocked across
// restarts.
//
// The manager never sends or receives bytes itself. Callers hand it inbound
// messages and deliver whatever it returns; how those bytes travel is the
// application's business.
package session
