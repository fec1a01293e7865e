package transport

import (
	"encoding/binary"
	"fmt"

	"wirechat/internal/domain"
	"wirechat/internal/protocol/noise"
)

// FrameHeaderSize is the fixed transport header:
// type(1) reserved(3) receiver(4) counter(8), integers little-endian.
const FrameHeaderSize = 16

// FrameReceiver peeks the receiver index of an encoded transport frame so
// the session manager can route it before any cryptographic work.
func FrameReceiver(b []byte) (uint32, error) {
	if len(b) < FrameHeaderSize || b[0] != noise.MessageTypeTransport {
		return 0, fmt.Errorf("%w: not a transport frame", domain.ErrProtocolViolation)
	}
	return binary.LittleEndian.Uint32(b[4:8]), nil
}

// parseFrame splits a frame into its counter and ciphertext. The ciphertext
// must at least hold an authentication tag.
func parseFrame(b []byte) (counter uint64, ciphertext []byte, err error) {
	if len(b) < FrameHeaderSize || b[0] != noise.MessageTypeTransport {
		return 0, nil, fmt.Errorf("%w: not a transport frame", domain.ErrProtocolViolation)
	}
	return binary.LittleEndian.Uint64(b[8:16]), b[16:], nil
}

func appendHeader(dst []byte, receiver uint32, counter uint64) []byte {
	var hdr [FrameHeaderSize]byte
	hdr[0] = noise.MessageTypeTransport
	binary.LittleEndian.PutUint32(hdr[4:8], receiver)
	binary.LittleEndian.PutUint64(hdr[8:16], counter)
	return append(dst, hdr[:]...)
}
