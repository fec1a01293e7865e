package session

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
	"wirechat/internal/protocol/noise"
	"wirechat/internal/protocol/transport"
)

// HandshakeResult is what processing an inbound handshake message yields.
// Response carries the bytes to send back, if any. Established reports
// whether a transport session now exists with Peer.
type HandshakeResult struct {
	Response    []byte
	Peer        domain.X25519Public
	Established bool
}

type attempt struct {
	hs       *noise.Handshake
	peer     domain.X25519Public
	deadline time.Time
}

// Manager tracks handshake attempts and established sessions for one local
// identity. All methods are safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	keystore *crypto.KeyStore
	peers    domain.PeerStore

	sessions map[uint32]*transport.Session
	byPeer   map[domain.X25519Public]uint32
	attempts map[uint32]*attempt
}

// NewManager builds a manager around a loaded identity and peer directory.
func NewManager(ks *crypto.KeyStore, peers domain.PeerStore) *Manager {
	return &Manager{
		keystore: ks,
		peers:    peers,
		sessions: make(map[uint32]*transport.Session),
		byPeer:   make(map[domain.X25519Public]uint32),
		attempts: make(map[uint32]*attempt),
	}
}

// StartHandshake begins a fresh attempt toward a known peer and returns the
// encoded initiation. Any existing session with the peer keeps working
// until the new handshake completes and supersedes it.
func (m *Manager) StartHandshake(peerPub domain.X25519Public) ([]byte, error) {
	peer, ok, err := m.peers.Peer(peerPub)
	if err != nil {
		return nil, fmt.Errorf("look up peer: %w", err)
	}
	if !ok {
		return nil, domain.ErrUnknownPeer
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.allocateIndexLocked()
	if err != nil {
		return nil, err
	}
	hs := noise.NewInitiator(m.keystore, peer, idx)
	msg, err := hs.CreateInitiation()
	if err != nil {
		return nil, err
	}
	m.attempts[idx] = &attempt{
		hs:       hs,
		peer:     peerPub,
		deadline: time.Now().Add(transport.RekeyTimeout),
	}
	return msg.Marshal(), nil
}

// ProcessHandshakeMessage consumes an inbound handshake message of either
// type. Every returned error means the message was dropped; nothing is ever
// sent in reply to a message that failed validation.
func (m *Manager) ProcessHandshakeMessage(b []byte) (*HandshakeResult, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty message", domain.ErrProtocolViolation)
	}
	switch b[0] {
	case noise.MessageTypeInitiation:
		return m.processInitiation(b)
	case noise.MessageTypeResponse:
		return m.processResponse(b)
	default:
		return nil, fmt.Errorf("%w: message type %d", domain.ErrProtocolViolation, b[0])
	}
}

func (m *Manager) processInitiation(b []byte) (*HandshakeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.allocateIndexLocked()
	if err != nil {
		return nil, err
	}
	hs, err := noise.ConsumeInitiation(m.keystore, b, idx, func(pub domain.X25519Public) (domain.Peer, bool) {
		p, ok, lookupErr := m.peers.Peer(pub)
		if lookupErr != nil || !ok {
			return domain.Peer{}, false
		}
		return p, true
	})
	if err != nil {
		return nil, err
	}

	msg, err := hs.CreateResponse()
	if err != nil {
		return nil, err
	}
	send, recv, err := hs.SessionKeys()
	if err != nil {
		return nil, err
	}

	peerPub := hs.PeerPublic()
	sess := transport.NewSession(hs.LocalIndex(), hs.RemoteIndex(), peerPub, send, recv)
	m.installSessionLocked(sess)

	// Persist before replying so a crash cannot reopen the replay window.
	if err := m.peers.SetLastHandshake(peerPub, hs.Timestamp()); err != nil {
		return nil, fmt.Errorf("persist handshake timestamp: %w", err)
	}

	return &HandshakeResult{
		Response:    msg.Marshal(),
		Peer:        peerPub,
		Established: true,
	}, nil
}

func (m *Manager) processResponse(b []byte) (*HandshakeResult, error) {
	receiver, err := noise.ResponseReceiver(b)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.attempts[receiver]
	if !ok {
		return nil, fmt.Errorf("%w: no pending attempt for index %d", domain.ErrProtocolViolation, receiver)
	}
	if time.Now().After(a.deadline) {
		a.hs.Fail()
		delete(m.attempts, receiver)
		return nil, domain.ErrHandshakeTimeout
	}
	if err := a.hs.ConsumeResponse(b); err != nil {
		// The attempt stays pending; a genuine response can still land.
		return nil, err
	}

	send, recv, err := a.hs.SessionKeys()
	if err != nil {
		return nil, err
	}
	delete(m.attempts, receiver)

	sess := transport.NewSession(a.hs.LocalIndex(), a.hs.RemoteIndex(), a.peer, send, recv)
	m.installSessionLocked(sess)

	return &HandshakeResult{Peer: a.peer, Established: true}, nil
}

// Encrypt seals a payload for the peer's current session.
func (m *Manager) Encrypt(peerPub domain.X25519Public, plaintext []byte) ([]byte, error) {
	m.mu.Lock()
	sess, ok := m.sessionForPeerLocked(peerPub)
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrNoSession
	}
	return sess.Seal(plaintext)
}

// Decrypt routes a transport frame by its receiver index and opens it,
// reporting which peer it authenticated from.
func (m *Manager) Decrypt(frame []byte) (domain.X25519Public, []byte, error) {
	receiver, err := transport.FrameReceiver(frame)
	if err != nil {
		return domain.X25519Public{}, nil, err
	}

	m.mu.Lock()
	sess, ok := m.sessions[receiver]
	m.mu.Unlock()
	if !ok {
		return domain.X25519Public{}, nil, domain.ErrNoSession
	}
	pt, err := sess.Open(frame)
	if err != nil {
		return domain.X25519Public{}, nil, err
	}
	return sess.Peer, pt, nil
}

// ShouldRekey reports whether the peer's session is close enough to its
// limits that the caller should StartHandshake again.
func (m *Manager) ShouldRekey(peerPub domain.X25519Public, now time.Time) bool {
	m.mu.Lock()
	sess, ok := m.sessionForPeerLocked(peerPub)
	m.mu.Unlock()
	return ok && sess.ShouldRekey(now)
}

// TearDown retires the peer's session, wiping its keys. Pending attempts
// toward the peer are discarded too.
func (m *Manager) TearDown(peerPub domain.X25519Public) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.byPeer[peerPub]; ok {
		if sess, live := m.sessions[idx]; live {
			sess.MarkStale()
			delete(m.sessions, idx)
		}
		delete(m.byPeer, peerPub)
	}
	for idx, a := range m.attempts {
		if a.peer == peerPub {
			a.hs.Fail()
			delete(m.attempts, idx)
		}
	}
}

// Reap discards attempts past their deadline and sessions past their hard
// lifetime. Callers run it periodically.
func (m *Manager) Reap(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for idx, a := range m.attempts {
		if now.After(a.deadline) {
			a.hs.Fail()
			delete(m.attempts, idx)
		}
	}
	for idx, sess := range m.sessions {
		if sess.Expired(now) {
			sess.MarkStale()
			delete(m.sessions, idx)
			if m.byPeer[sess.Peer] == idx {
				delete(m.byPeer, sess.Peer)
			}
		}
	}
}

// installSessionLocked makes sess the peer's current session, retiring any
// session it supersedes.
func (m *Manager) installSessionLocked(sess *transport.Session) {
	if old, ok := m.byPeer[sess.Peer]; ok {
		if prev, live := m.sessions[old]; live {
			prev.MarkStale()
			delete(m.sessions, old)
		}
	}
	m.sessions[sess.LocalIndex] = sess
	m.byPeer[sess.Peer] = sess.LocalIndex
}

func (m *Manager) sessionForPeerLocked(peerPub domain.X25519Public) (*transport.Session, bool) {
	idx, ok := m.byPeer[peerPub]
	if !ok {
		return nil, false
	}
	sess, ok := m.sessions[idx]
	return sess, ok
}

// allocateIndexLocked draws a random nonzero session index not already in
// use by a live session or pending attempt.
func (m *Manager) allocateIndexLocked() (uint32, error) {
	var buf [4]byte
	for i := 0; i < 32; i++ {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("allocate session index: %w", err)
		}
		idx := binary.LittleEndian.Uint32(buf[:])
		if idx == 0 {
			continue
		}
		if _, taken := m.sessions[idx]; taken {
			continue
		}
		if _, taken := m.attempts[idx]; taken {
			continue
		}
		return idx, nil
	}
	return 0, fmt.Errorf("allocate session index: space exhausted")
}
