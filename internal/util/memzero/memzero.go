// Package memzero erases key material once it is no longer needed, keeping
// the lifetime of secrets in memory as short as practical.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros. Going through subtle keeps the compiler
// from eliding the writes as dead stores.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}

// Wipe zeroes every buffer in turn, for call sites that retire several
// secrets at once.
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		Zero(b)
	}
}
