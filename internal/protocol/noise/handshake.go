package noise

import (
	"crypto/hmac"
	"fmt"
	"time"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
	"wirechat/internal/protocol/tai64n"
	"wirechat/internal/util/memzero"
)

// Role says which side of the handshake this machine plays.
type Role uint8

const (
	RoleInitiator Role = iota + 1
	RoleResponder
)

// State is the handshake machine state. There is no transition out of
// Established or Failed.
type State uint8

const (
	StateIdle State = iota
	StateInitiationSent
	StateAwaitingCompletion
	StateEstablished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitiationSent:
		return "initiation-sent"
	case StateAwaitingCompletion:
		return "awaiting-completion"
	case StateEstablished:
		return "established"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Initial transcript values, fixed by the protocol constants.
var (
	initialChainKey [32]byte
	initialHash     [32]byte
)

func init() {
	initialChainKey = crypto.Hash([]byte(Construction))
	initialHash = crypto.Hash(initialChainKey[:], []byte(Identifier))
}

// PeerLookup resolves a static public key decrypted from an initiation to a
// known peer record. Returning false drops the message with no reply.
type PeerLookup func(domain.X25519Public) (domain.Peer, bool)

// Handshake is a single-use state machine for one handshake attempt.
// A failed or timed-out attempt is discarded, never resumed: fresh ephemeral
// keys are the only recovery path.
type Handshake struct {
	role  Role
	state State

	keystore   *crypto.KeyStore
	peerStatic domain.X25519Public
	preshared  domain.PresharedKey

	hash        [32]byte
	chainingKey [32]byte

	localIndex  uint32
	remoteIndex uint32

	ephemeralPrivate domain.X25519Private
	ephemeralPublic  domain.X25519Public
	remoteEphemeral  domain.X25519Public

	// timestamp is the decrypted initiation timestamp (responder only);
	// the session manager persists it after installing the session.
	timestamp domain.Timestamp

	createdAt   time.Time
	keysDerived bool
}

// NewInitiator prepares an outgoing attempt toward peer. localIndex must be
// unique among the caller's live sessions and attempts.
func NewInitiator(ks *crypto.KeyStore, peer domain.Peer, localIndex uint32) *Handshake {
	return &Handshake{
		role:       RoleInitiator,
		state:      StateIdle,
		keystore:   ks,
		peerStatic: peer.PublicKey,
		preshared:  peer.PresharedKey,
		localIndex: localIndex,
		createdAt:  time.Now(),
	}
}

func (h *Handshake) Role() Role                      { return h.role }
func (h *Handshake) State() State                    { return h.state }
func (h *Handshake) LocalIndex() uint32              { return h.localIndex }
func (h *Handshake) RemoteIndex() uint32             { return h.remoteIndex }
func (h *Handshake) PeerPublic() domain.X25519Public { return h.peerStatic }
func (h *Handshake) Timestamp() domain.Timestamp     { return h.timestamp }
func (h *Handshake) CreatedAt() time.Time            { return h.createdAt }

// Fail moves the machine to its terminal failure state and wipes secrets.
// The session manager calls it when an attempt outlives its deadline.
func (h *Handshake) Fail() {
	h.state = StateFailed
	h.wipe()
}

func (h *Handshake) wipe() {
	memzero.Wipe(h.ephemeralPrivate[:], h.chainingKey[:], h.preshared[:])
}

// CreateInitiation builds message 1 and moves Idle -> InitiationSent.
func (h *Handshake) CreateInitiation() (*MessageInitiation, error) {
	if h.role != RoleInitiator || h.state != StateIdle {
		return nil, fmt.Errorf("%w: create initiation in state %s", domain.ErrProtocolViolation, h.state)
	}

	ck := initialChainKey
	hs := initialHash
	crypto.MixHash(&hs, h.peerStatic[:])

	ephPriv, ephPub, err := crypto.GenerateX25519()
	if err != nil {
		h.Fail()
		return nil, err
	}
	h.ephemeralPrivate = ephPriv
	h.ephemeralPublic = ephPub

	ck = crypto.KDF1(ck, ephPub[:])
	crypto.MixHash(&hs, ephPub[:])

	ss, err := crypto.SharedSecret(ephPriv, h.peerStatic)
	if err != nil {
		h.Fail()
		return nil, err
	}
	var k1 [32]byte
	ck, k1 = crypto.KDF2(ck, ss[:])
	memzero.Zero(ss[:])

	ourStatic := h.keystore.PublicKey()
	encStatic, err := crypto.AEADSeal(k1, 0, ourStatic[:], hs[:])
	if err != nil {
		h.Fail()
		return nil, err
	}
	crypto.MixHash(&hs, encStatic)

	ss2, err := h.keystore.SharedSecret(h.peerStatic)
	if err != nil {
		h.Fail()
		return nil, err
	}
	var k2 [32]byte
	ck, k2 = crypto.KDF2(ck, ss2[:])
	memzero.Zero(ss2[:])

	ts := tai64n.Now()
	encTS, err := crypto.AEADSeal(k2, 0, ts[:], hs[:])
	if err != nil {
		h.Fail()
		return nil, err
	}
	crypto.MixHash(&hs, encTS)

	msg := &MessageInitiation{
		Sender:    h.localIndex,
		Ephemeral: ephPub,
	}
	copy(msg.EncryptedStatic[:], encStatic)
	copy(msg.EncryptedTimestamp[:], encTS)
	applyInitiationMACs(msg, h.peerStatic)

	h.chainingKey = ck
	h.hash = hs
	h.state = StateInitiationSent
	return msg, nil
}

// ConsumeInitiation validates message 1 on the responder side and, on
// success, returns a machine in AwaitingCompletion ready for
// CreateResponse. Every reject path drops silently: bad MACs and bad tags
// are ErrAuthenticationFailure, an unknown static key is ErrUnknownPeer,
// and a non-fresh timestamp is ErrReplayDetected.
func ConsumeInitiation(ks *crypto.KeyStore, b []byte, localIndex uint32, lookup PeerLookup) (*Handshake, error) {
	var msg MessageInitiation
	if err := msg.Unmarshal(b); err != nil {
		return nil, err
	}
	ourStatic := ks.PublicKey()
	if err := verifyMACs(b, macOffsetInitiation, ourStatic, msg.MAC1, msg.MAC2); err != nil {
		return nil, err
	}

	ck := initialChainKey
	hs := initialHash
	crypto.MixHash(&hs, ourStatic[:])

	ck = crypto.KDF1(ck, msg.Ephemeral[:])
	crypto.MixHash(&hs, msg.Ephemeral[:])

	ss, err := ks.SharedSecret(msg.Ephemeral)
	if err != nil {
		return nil, err
	}
	var k1 [32]byte
	ck, k1 = crypto.KDF2(ck, ss[:])
	memzero.Zero(ss[:])

	staticBytes, err := crypto.AEADOpen(k1, 0, msg.EncryptedStatic[:], hs[:])
	if err != nil {
		return nil, err
	}
	var peerStatic domain.X25519Public
	copy(peerStatic[:], staticBytes)
	crypto.MixHash(&hs, msg.EncryptedStatic[:])

	peer, known := lookup(peerStatic)
	if !known {
		return nil, domain.ErrUnknownPeer
	}

	ss2, err := ks.SharedSecret(peerStatic)
	if err != nil {
		return nil, err
	}
	var k2 [32]byte
	ck, k2 = crypto.KDF2(ck, ss2[:])
	memzero.Zero(ss2[:])

	tsBytes, err := crypto.AEADOpen(k2, 0, msg.EncryptedTimestamp[:], hs[:])
	if err != nil {
		return nil, err
	}
	var ts domain.Timestamp
	copy(ts[:], tsBytes)
	if !tai64n.After(ts, peer.LastHandshake) {
		return nil, domain.ErrReplayDetected
	}
	crypto.MixHash(&hs, msg.EncryptedTimestamp[:])

	return &Handshake{
		role:            RoleResponder,
		state:           StateAwaitingCompletion,
		keystore:        ks,
		peerStatic:      peerStatic,
		preshared:       peer.PresharedKey,
		hash:            hs,
		chainingKey:     ck,
		localIndex:      localIndex,
		remoteIndex:     msg.Sender,
		remoteEphemeral: msg.Ephemeral,
		timestamp:       ts,
		createdAt:       time.Now(),
	}, nil
}

// CreateResponse builds message 2 and moves AwaitingCompletion ->
// Established. After it returns, SessionKeys yields the transport keys.
func (h *Handshake) CreateResponse() (*MessageResponse, error) {
	if h.role != RoleResponder || h.state != StateAwaitingCompletion {
		return nil, fmt.Errorf("%w: create response in state %s", domain.ErrProtocolViolation, h.state)
	}

	ephPriv, ephPub, err := crypto.GenerateX25519()
	if err != nil {
		h.Fail()
		return nil, err
	}

	ck := h.chainingKey
	hs := h.hash

	crypto.MixHash(&hs, ephPub[:])
	ck = crypto.KDF1(ck, ephPub[:])

	ssEE, err := crypto.SharedSecret(ephPriv, h.remoteEphemeral)
	if err != nil {
		h.Fail()
		return nil, err
	}
	ck = crypto.KDF1(ck, ssEE[:])
	memzero.Zero(ssEE[:])

	ssES, err := crypto.SharedSecret(ephPriv, h.peerStatic)
	if err != nil {
		h.Fail()
		return nil, err
	}
	ck = crypto.KDF1(ck, ssES[:])
	memzero.Zero(ssES[:])
	memzero.Zero(ephPriv[:])

	var tau, k [32]byte
	ck, tau, k = crypto.KDF3(ck, h.preshared[:])
	crypto.MixHash(&hs, tau[:])

	encEmpty, err := crypto.AEADSeal(k, 0, nil, hs[:])
	if err != nil {
		h.Fail()
		return nil, err
	}
	crypto.MixHash(&hs, encEmpty)

	msg := &MessageResponse{
		Sender:    h.localIndex,
		Receiver:  h.remoteIndex,
		Ephemeral: ephPub,
	}
	copy(msg.Empty[:], encEmpty)
	applyResponseMACs(msg, h.peerStatic)

	h.chainingKey = ck
	h.hash = hs
	h.state = StateEstablished
	return msg, nil
}

// ConsumeResponse validates message 2 on the initiator side and moves
// InitiationSent -> Established. On any failure the message is dropped and
// the machine keeps waiting in InitiationSent with its committed transcript
// intact, so a later genuine response still completes.
func (h *Handshake) ConsumeResponse(b []byte) error {
	if h.role != RoleInitiator || h.state != StateInitiationSent {
		return fmt.Errorf("%w: consume response in state %s", domain.ErrProtocolViolation, h.state)
	}
	var msg MessageResponse
	if err := msg.Unmarshal(b); err != nil {
		return err
	}
	if msg.Receiver != h.localIndex {
		return fmt.Errorf("%w: response receiver index mismatch", domain.ErrProtocolViolation)
	}
	if err := verifyMACs(b, macOffsetResponse, h.keystore.PublicKey(), msg.MAC1, msg.MAC2); err != nil {
		return err
	}

	// Work on copies; commit only after the empty field authenticates.
	ck := h.chainingKey
	hs := h.hash

	crypto.MixHash(&hs, msg.Ephemeral[:])
	ck = crypto.KDF1(ck, msg.Ephemeral[:])

	ssEE, err := crypto.SharedSecret(h.ephemeralPrivate, msg.Ephemeral)
	if err != nil {
		return err
	}
	ck = crypto.KDF1(ck, ssEE[:])
	memzero.Zero(ssEE[:])

	ssSE, err := h.keystore.SharedSecret(msg.Ephemeral)
	if err != nil {
		return err
	}
	ck = crypto.KDF1(ck, ssSE[:])
	memzero.Zero(ssSE[:])

	var tau, k [32]byte
	ck, tau, k = crypto.KDF3(ck, h.preshared[:])
	crypto.MixHash(&hs, tau[:])

	empty, err := crypto.AEADOpen(k, 0, msg.Empty[:], hs[:])
	if err != nil {
		return err
	}
	if len(empty) != 0 {
		return domain.ErrAuthenticationFailure
	}
	crypto.MixHash(&hs, msg.Empty[:])

	h.chainingKey = ck
	h.hash = hs
	h.remoteIndex = msg.Sender
	h.state = StateEstablished
	return nil
}

// SessionKeys derives the two directional transport keys from the final
// chaining key. The initiator's send key equals the responder's receive key
// and vice versa. It works exactly once: deriving wipes the chaining key
// and ephemeral secret to preserve forward secrecy.
func (h *Handshake) SessionKeys() (send, recv [32]byte, err error) {
	if h.state != StateEstablished {
		return send, recv, fmt.Errorf("%w: session keys in state %s", domain.ErrProtocolViolation, h.state)
	}
	if h.keysDerived {
		return send, recv, fmt.Errorf("%w: session keys already derived", domain.ErrProtocolViolation)
	}
	first, second := crypto.KDF2(h.chainingKey, nil)
	if h.role == RoleInitiator {
		send, recv = first, second
	} else {
		send, recv = second, first
	}
	h.keysDerived = true
	h.wipe()
	return send, recv, nil
}

// mac1 is keyed by HASH(label ∥ receiver static public) over everything
// before the MAC fields. mac2 stays all-zero until a cookie mechanism is
// carried; a non-zero mac2 is rejected.
func applyInitiationMACs(msg *MessageInitiation, receiverStatic domain.X25519Public) {
	macKey := crypto.Hash([]byte(LabelMAC1), receiverStatic[:])
	b := msg.Marshal()
	msg.MAC1 = crypto.MAC(macKey, b[:macOffsetInitiation])
}

func applyResponseMACs(msg *MessageResponse, receiverStatic domain.X25519Public) {
	macKey := crypto.Hash([]byte(LabelMAC1), receiverStatic[:])
	b := msg.Marshal()
	msg.MAC1 = crypto.MAC(macKey, b[:macOffsetResponse])
}

func verifyMACs(b []byte, macOffset int, ourStatic domain.X25519Public, mac1, mac2 [16]byte) error {
	macKey := crypto.Hash([]byte(LabelMAC1), ourStatic[:])
	want := crypto.MAC(macKey, b[:macOffset])
	if !hmac.Equal(want[:], mac1[:]) {
		return domain.ErrAuthenticationFailure
	}
	var zero [16]byte
	if !hmac.Equal(zero[:], mac2[:]) {
		return domain.ErrAuthenticationFailure
	}
	return nil
}
