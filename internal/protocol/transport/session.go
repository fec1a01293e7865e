package transport

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
	"wirechat/internal/util/memzero"
)

// Session holds one established key pair and its counters. The local index
// is how inbound frames are routed to us; the remote index is what we stamp
// on outbound frames so the peer can route them.
type Session struct {
	mu sync.Mutex

	LocalIndex  uint32
	RemoteIndex uint32
	Peer        domain.X25519Public
	CreatedAt   time.Time

	sendKey     [32]byte
	recvKey     [32]byte
	sendCounter uint64
	recv        window
	stale       bool
}

// NewSession binds freshly derived directional keys to a pair of indices.
// Both counters start at zero.
func NewSession(local, remote uint32, peer domain.X25519Public, sendKey, recvKey [32]byte) *Session {
	return &Session{
		LocalIndex:  local,
		RemoteIndex: remote,
		Peer:        peer,
		CreatedAt:   time.Now(),
		sendKey:     sendKey,
		recvKey:     recvKey,
	}
}

// Seal encrypts plaintext into a complete transport frame. The frame binds
// the sender's own index as associated data, which on the peer's side is
// the remote index of the matching session.
func (s *Session) Seal(plaintext []byte) ([]byte, error) {
	if len(plaintext) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload of %d bytes", domain.ErrProtocolViolation, len(plaintext))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stale {
		return nil, domain.ErrNoSession
	}
	if s.sendCounter >= RejectAfterMessages || time.Since(s.CreatedAt) >= RejectAfterTime {
		return nil, domain.ErrKeyExhaustion
	}

	counter := s.sendCounter
	s.sendCounter++

	var ad [4]byte
	binary.LittleEndian.PutUint32(ad[:], s.LocalIndex)
	ct, err := crypto.AEADSeal(s.sendKey, counter, plaintext, ad[:])
	if err != nil {
		return nil, err
	}
	return append(appendHeader(make([]byte, 0, FrameHeaderSize+len(ct)), s.RemoteIndex, counter), ct...), nil
}

// Open authenticates and decrypts a transport frame previously routed to
// this session by its receiver index. The replay window is consulted before
// and advanced only after the tag verifies, so a forgery cannot burn a
// counter.
func (s *Session) Open(frame []byte) ([]byte, error) {
	counter, ct, err := parseFrame(frame)
	if err != nil {
		return nil, err
	}
	if len(ct) < crypto.AEADTagSize {
		return nil, fmt.Errorf("%w: short transport frame", domain.ErrProtocolViolation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stale {
		return nil, domain.ErrNoSession
	}
	if counter >= RejectAfterMessages || time.Since(s.CreatedAt) >= RejectAfterTime {
		return nil, domain.ErrKeyExhaustion
	}
	if s.recv.seen(counter) {
		return nil, domain.ErrReplayDetected
	}

	var ad [4]byte
	binary.LittleEndian.PutUint32(ad[:], s.RemoteIndex)
	pt, err := crypto.AEADOpen(s.recvKey, counter, ct, ad[:])
	if err != nil {
		return nil, err
	}
	s.recv.mark(counter)
	return pt, nil
}

// ShouldRekey reports whether the session is old or worn enough that the
// manager ought to start a fresh handshake while this one still works.
func (s *Session) ShouldRekey(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendCounter >= RekeyAfterMessages || now.Sub(s.CreatedAt) >= RekeyAfterTime
}

// Expired reports whether the session has passed its hard lifetime and must
// be reaped.
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) >= RejectAfterTime
}

// MarkStale retires the session and wipes its keys. Any later Seal or Open
// fails with ErrNoSession.
func (s *Session) MarkStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
	memzero.Zero(s.sendKey[:])
	memzero.Zero(s.recvKey[:])
}
