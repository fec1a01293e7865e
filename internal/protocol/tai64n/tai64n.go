// Package tai64n implements the 12-byte TAI64N timestamps carried inside
// handshake initiations. A peer accepts an initiation only when its
// timestamp is strictly greater than the last one accepted from that peer,
// which is what blocks initiation replay.
package tai64n

import (
	"bytes"
	"encoding/binary"
	"time"

	"wirechat/internal/domain"
)

// Size is the encoded timestamp length: 8-byte big-endian seconds followed
// by 4-byte big-endian nanoseconds.
const Size = 12

// base is the TAI64 label offset for the Unix epoch plus the ten leap
// seconds accumulated before it.
const base = (1 << 62) + 10

// Now returns the current time as a TAI64N label.
func Now() domain.Timestamp {
	return At(time.Now())
}

// At encodes an arbitrary time. The encoding is exact and lossless.
func At(t time.Time) domain.Timestamp {
	var ts domain.Timestamp
	binary.BigEndian.PutUint64(ts[0:8], base+uint64(t.Unix()))
	binary.BigEndian.PutUint32(ts[8:12], uint32(t.Nanosecond()))
	return ts
}

// Time decodes a label back to a time.Time.
func Time(ts domain.Timestamp) time.Time {
	secs := binary.BigEndian.Uint64(ts[0:8]) - base
	nanos := binary.BigEndian.Uint32(ts[8:12])
	return time.Unix(int64(secs), int64(nanos))
}

// After reports whether a is strictly greater than b. Big-endian encoding
// makes lexicographic byte order agree with time order.
func After(a, b domain.Timestamp) bool {
	return bytes.Compare(a[:], b[:]) > 0
}
