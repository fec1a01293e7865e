package noise_test

import (
	"errors"
	"testing"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
	"wirechat/internal/protocol/noise"
)

type party struct {
	ks  *crypto.KeyStore
	pub domain.X25519Public
}

func newParty(t *testing.T) party {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	return party{ks: crypto.NewKeyStore(domain.Identity{Private: priv, Public: pub}), pub: pub}
}

func lookupOne(p domain.Peer) noise.PeerLookup {
	return func(pub domain.X25519Public) (domain.Peer, bool) {
		if pub == p.PublicKey {
			return p, true
		}
		return domain.Peer{}, false
	}
}

// runHandshake drives a full exchange and returns both completed machines.
func runHandshake(t *testing.T, psk domain.PresharedKey) (*noise.Handshake, *noise.Handshake) {
	t.Helper()
	alice, bob := newParty(t), newParty(t)

	init := noise.NewInitiator(alice.ks, domain.Peer{PublicKey: bob.pub, PresharedKey: psk}, 11)
	msg1, err := init.CreateInitiation()
	if err != nil {
		t.Fatalf("create initiation: %v", err)
	}

	resp, err := noise.ConsumeInitiation(bob.ks, msg1.Marshal(), 22,
		lookupOne(domain.Peer{PublicKey: alice.pub, PresharedKey: psk}))
	if err != nil {
		t.Fatalf("consume initiation: %v", err)
	}
	msg2, err := resp.CreateResponse()
	if err != nil {
		t.Fatalf("create response: %v", err)
	}
	if err := init.ConsumeResponse(msg2.Marshal()); err != nil {
		t.Fatalf("consume response: %v", err)
	}
	return init, resp
}

func TestHandshake_DerivesMatchingKeys(t *testing.T) {
	psk := domain.PresharedKey{9, 9, 9}
	init, resp := runHandshake(t, psk)

	if init.State() != noise.StateEstablished || resp.State() != noise.StateEstablished {
		t.Fatalf("states: %s / %s", init.State(), resp.State())
	}
	if init.RemoteIndex() != resp.LocalIndex() || resp.RemoteIndex() != init.LocalIndex() {
		t.Fatal("session indices not exchanged")
	}

	iSend, iRecv, err := init.SessionKeys()
	if err != nil {
		t.Fatalf("initiator keys: %v", err)
	}
	rSend, rRecv, err := resp.SessionKeys()
	if err != nil {
		t.Fatalf("responder keys: %v", err)
	}
	if iSend != rRecv || iRecv != rSend {
		t.Fatal("directional keys do not cross-match")
	}
	if iSend == iRecv {
		t.Fatal("send and receive keys are identical")
	}
}

func TestHandshake_NoPresharedKey(t *testing.T) {
	runHandshake(t, domain.PresharedKey{})
}

func TestSessionKeys_SingleUse(t *testing.T) {
	init, _ := runHandshake(t, domain.PresharedKey{})
	if _, _, err := init.SessionKeys(); err != nil {
		t.Fatalf("first derivation: %v", err)
	}
	if _, _, err := init.SessionKeys(); !errors.Is(err, domain.ErrProtocolViolation) {
		t.Fatalf("second derivation: want ErrProtocolViolation, got %v", err)
	}
}

func TestConsumeInitiation_RejectsEveryBitFlip(t *testing.T) {
	alice, bob := newParty(t), newParty(t)
	lookup := lookupOne(domain.Peer{PublicKey: alice.pub})

	init := noise.NewInitiator(alice.ks, domain.Peer{PublicKey: bob.pub}, 11)
	msg1, err := init.CreateInitiation()
	if err != nil {
		t.Fatalf("create initiation: %v", err)
	}
	wire := msg1.Marshal()

	for i := range wire {
		mutated := append([]byte(nil), wire...)
		mutated[i] ^= 1
		if _, err := noise.ConsumeInitiation(bob.ks, mutated, 22, lookup); err == nil {
			t.Fatalf("bit flip at byte %d was accepted", i)
		}
	}
	// The untouched message still passes.
	if _, err := noise.ConsumeInitiation(bob.ks, wire, 22, lookup); err != nil {
		t.Fatalf("genuine initiation rejected: %v", err)
	}
}

func TestConsumeResponse_RejectsEveryBitFlipAndRecovers(t *testing.T) {
	alice, bob := newParty(t), newParty(t)

	init := noise.NewInitiator(alice.ks, domain.Peer{PublicKey: bob.pub}, 11)
	msg1, err := init.CreateInitiation()
	if err != nil {
		t.Fatalf("create initiation: %v", err)
	}
	resp, err := noise.ConsumeInitiation(bob.ks, msg1.Marshal(), 22,
		lookupOne(domain.Peer{PublicKey: alice.pub}))
	if err != nil {
		t.Fatalf("consume initiation: %v", err)
	}
	msg2, err := resp.CreateResponse()
	if err != nil {
		t.Fatalf("create response: %v", err)
	}
	wire := msg2.Marshal()

	for i := range wire {
		mutated := append([]byte(nil), wire...)
		mutated[i] ^= 1
		if err := init.ConsumeResponse(mutated); err == nil {
			t.Fatalf("bit flip at byte %d was accepted", i)
		}
		if init.State() != noise.StateInitiationSent {
			t.Fatalf("state corrupted by rejected message: %s", init.State())
		}
	}
	// A forged response must not prevent the genuine one from landing.
	if err := init.ConsumeResponse(wire); err != nil {
		t.Fatalf("genuine response rejected after forgeries: %v", err)
	}
}

func TestConsumeInitiation_UnknownPeer(t *testing.T) {
	alice, bob := newParty(t), newParty(t)

	init := noise.NewInitiator(alice.ks, domain.Peer{PublicKey: bob.pub}, 11)
	msg1, err := init.CreateInitiation()
	if err != nil {
		t.Fatalf("create initiation: %v", err)
	}
	_, err = noise.ConsumeInitiation(bob.ks, msg1.Marshal(), 22,
		func(domain.X25519Public) (domain.Peer, bool) { return domain.Peer{}, false })
	if !errors.Is(err, domain.ErrUnknownPeer) {
		t.Fatalf("want ErrUnknownPeer, got %v", err)
	}
}

func TestConsumeInitiation_ReplayedTimestamp(t *testing.T) {
	alice, bob := newParty(t), newParty(t)

	init := noise.NewInitiator(alice.ks, domain.Peer{PublicKey: bob.pub}, 11)
	msg1, err := init.CreateInitiation()
	if err != nil {
		t.Fatalf("create initiation: %v", err)
	}
	wire := msg1.Marshal()

	first, err := noise.ConsumeInitiation(bob.ks, wire, 22, lookupOne(domain.Peer{PublicKey: alice.pub}))
	if err != nil {
		t.Fatalf("first consume: %v", err)
	}

	// A directory that recorded the accepted timestamp blocks the replay.
	seen := domain.Peer{PublicKey: alice.pub, LastHandshake: first.Timestamp()}
	if _, err := noise.ConsumeInitiation(bob.ks, wire, 33, lookupOne(seen)); !errors.Is(err, domain.ErrReplayDetected) {
		t.Fatalf("want ErrReplayDetected, got %v", err)
	}
}

func TestHandshake_PresharedKeyMismatch(t *testing.T) {
	alice, bob := newParty(t), newParty(t)

	init := noise.NewInitiator(alice.ks,
		domain.Peer{PublicKey: bob.pub, PresharedKey: domain.PresharedKey{1}}, 11)
	msg1, err := init.CreateInitiation()
	if err != nil {
		t.Fatalf("create initiation: %v", err)
	}
	resp, err := noise.ConsumeInitiation(bob.ks, msg1.Marshal(), 22,
		lookupOne(domain.Peer{PublicKey: alice.pub, PresharedKey: domain.PresharedKey{2}}))
	if err != nil {
		t.Fatalf("consume initiation: %v", err)
	}
	msg2, err := resp.CreateResponse()
	if err != nil {
		t.Fatalf("create response: %v", err)
	}
	if err := init.ConsumeResponse(msg2.Marshal()); !errors.Is(err, domain.ErrAuthenticationFailure) {
		t.Fatalf("want ErrAuthenticationFailure, got %v", err)
	}
}

func TestHandshake_WrongStateOperations(t *testing.T) {
	alice, bob := newParty(t), newParty(t)

	init := noise.NewInitiator(alice.ks, domain.Peer{PublicKey: bob.pub}, 11)
	if _, _, err := init.SessionKeys(); !errors.Is(err, domain.ErrProtocolViolation) {
		t.Fatalf("keys before handshake: want ErrProtocolViolation, got %v", err)
	}
	if _, err := init.CreateInitiation(); err != nil {
		t.Fatalf("create initiation: %v", err)
	}
	if _, err := init.CreateInitiation(); !errors.Is(err, domain.ErrProtocolViolation) {
		t.Fatalf("second initiation: want ErrProtocolViolation, got %v", err)
	}
}
