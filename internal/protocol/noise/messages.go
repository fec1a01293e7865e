package noise

import (
	"encoding/binary"
	"fmt"

	"wirechat/internal/domain"
)

// Protocol-fixed constants. Changing any of these is a wire break.
const (
	Construction = "Noise_IKpsk2_25519_ChaChaPoly_BLAKE2s"
	Identifier   = "WireGuard v1 zx2c4 Jason@zx2c4.com"
	LabelMAC1    = "mac1----"
	LabelCookie  = "cookie--"
)

// Message type bytes. Type 3 is reserved for a cookie reply, which this
// implementation does not emit.
const (
	MessageTypeInitiation byte = 1
	MessageTypeResponse   byte = 2
	MessageTypeTransport  byte = 4
)

const (
	// InitiationSize is the fixed initiation length:
	// type(1) reserved(3) sender(4) ephemeral(32) static(32+16)
	// timestamp(12+16) mac1(16) mac2(16).
	InitiationSize = 148

	// ResponseSize is the fixed response length:
	// type(1) reserved(3) sender(4) receiver(4) ephemeral(32) empty(0+16)
	// mac1(16) mac2(16).
	ResponseSize = 92

	macOffsetInitiation = InitiationSize - 32
	macOffsetResponse   = ResponseSize - 32
)

// MessageInitiation is the first handshake message. The static key and
// timestamp fields are sealed under keys derived while the message is
// built, so their order is load-bearing.
type MessageInitiation struct {
	Sender             uint32
	Ephemeral          domain.X25519Public
	EncryptedStatic    [32 + 16]byte
	EncryptedTimestamp [12 + 16]byte
	MAC1               [16]byte
	MAC2               [16]byte
}

// MessageResponse is the second handshake message. The empty field proves
// the responder derived the same keys.
type MessageResponse struct {
	Sender    uint32
	Receiver  uint32
	Ephemeral domain.X25519Public
	Empty     [16]byte
	MAC1      [16]byte
	MAC2      [16]byte
}

// Marshal encodes the initiation in wire order, integers little-endian.
func (m *MessageInitiation) Marshal() []byte {
	b := make([]byte, InitiationSize)
	b[0] = MessageTypeInitiation
	binary.LittleEndian.PutUint32(b[4:8], m.Sender)
	copy(b[8:40], m.Ephemeral[:])
	copy(b[40:88], m.EncryptedStatic[:])
	copy(b[88:116], m.EncryptedTimestamp[:])
	copy(b[116:132], m.MAC1[:])
	copy(b[132:148], m.MAC2[:])
	return b
}

// Unmarshal decodes an initiation, rejecting wrong lengths and types.
func (m *MessageInitiation) Unmarshal(b []byte) error {
	if len(b) != InitiationSize {
		return fmt.Errorf("%w: initiation length %d", domain.ErrProtocolViolation, len(b))
	}
	if b[0] != MessageTypeInitiation {
		return fmt.Errorf("%w: initiation type %d", domain.ErrProtocolViolation, b[0])
	}
	m.Sender = binary.LittleEndian.Uint32(b[4:8])
	copy(m.Ephemeral[:], b[8:40])
	copy(m.EncryptedStatic[:], b[40:88])
	copy(m.EncryptedTimestamp[:], b[88:116])
	copy(m.MAC1[:], b[116:132])
	copy(m.MAC2[:], b[132:148])
	return nil
}

// Marshal encodes the response in wire order.
func (m *MessageResponse) Marshal() []byte {
	b := make([]byte, ResponseSize)
	b[0] = MessageTypeResponse
	binary.LittleEndian.PutUint32(b[4:8], m.Sender)
	binary.LittleEndian.PutUint32(b[8:12], m.Receiver)
	copy(b[12:44], m.Ephemeral[:])
	copy(b[44:60], m.Empty[:])
	copy(b[60:76], m.MAC1[:])
	copy(b[76:92], m.MAC2[:])
	return b
}

// Unmarshal decodes a response, rejecting wrong lengths and types.
func (m *MessageResponse) Unmarshal(b []byte) error {
	if len(b) != ResponseSize {
		return fmt.Errorf("%w: response length %d", domain.ErrProtocolViolation, len(b))
	}
	if b[0] != MessageTypeResponse {
		return fmt.Errorf("%w: response type %d", domain.ErrProtocolViolation, b[0])
	}
	m.Sender = binary.LittleEndian.Uint32(b[4:8])
	m.Receiver = binary.LittleEndian.Uint32(b[8:12])
	copy(m.Ephemeral[:], b[12:44])
	copy(m.Empty[:], b[44:60])
	copy(m.MAC1[:], b[60:76])
	copy(m.MAC2[:], b[76:92])
	return nil
}

// ResponseReceiver peeks the receiver index of an encoded response so the
// session manager can route it to the pending attempt before any
// cryptographic work.
func ResponseReceiver(b []byte) (uint32, error) {
	if len(b) != ResponseSize || b[0] != MessageTypeResponse {
		return 0, fmt.Errorf("%w: not a handshake response", domain.ErrProtocolViolation)
	}
	return binary.LittleEndian.Uint32(b[8:12]), nil
}
