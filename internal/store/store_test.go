package store_test

import (
	"errors"
	"testing"
	"time"

	"wirechat/internal/domain"
	"wirechat/internal/protocol/tai64n"
	"wirechat/internal/store"
)

func TestIdentity_SaveLoad_Plain(t *testing.T) {
	home := t.TempDir()
	var ids domain.IdentityStore = store.NewIdentityFileStore(home, "")

	id := domain.Identity{Private: domain.X25519Private{1}, Public: domain.X25519Public{2}}
	if err := ids.SaveIdentity(id); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	got, err := ids.LoadIdentity()
	if err != nil {
		t.Fatalf("load identity: %v", err)
	}
	if got != id {
		t.Fatal("mismatch after load")
	}
}

func TestIdentity_SaveLoad_Encrypted(t *testing.T) {
	home := t.TempDir()
	var ids domain.IdentityStore = store.NewIdentityFileStore(home, "pass")

	id := domain.Identity{Private: domain.X25519Private{1}, Public: domain.X25519Public{2}}
	if err := ids.SaveIdentity(id); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	got, err := ids.LoadIdentity()
	if err != nil {
		t.Fatalf("load identity: %v", err)
	}
	if got != id {
		t.Fatal("mismatch after load")
	}
}

func TestIdentity_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()

	correct := store.NewIdentityFileStore(home, "correct")
	id := domain.Identity{Private: domain.X25519Private{1}, Public: domain.X25519Public{2}}
	if err := correct.SaveIdentity(id); err != nil {
		t.Fatalf("save identity: %v", err)
	}

	wrong := store.NewIdentityFileStore(home, "wrong")
	if _, err := wrong.LoadIdentity(); err == nil {
		t.Fatal("expected error with wrong passphrase")
	}
}

func TestIdentity_LoadBeforeInit_Fails(t *testing.T) {
	ids := store.NewIdentityFileStore(t.TempDir(), "")
	if _, err := ids.LoadIdentity(); err == nil {
		t.Fatal("expected error when no identity exists")
	}
}

func TestPeers_UpsertLookupList(t *testing.T) {
	var peers domain.PeerStore = store.NewPeerFileStore(t.TempDir())

	p1 := domain.Peer{PublicKey: domain.X25519Public{1}, PresharedKey: domain.PresharedKey{9}}
	p2 := domain.Peer{PublicKey: domain.X25519Public{2}}
	if err := peers.UpsertPeer(p1); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := peers.UpsertPeer(p2); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, ok, err := peers.Peer(p1.PublicKey)
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if got.PresharedKey != p1.PresharedKey {
		t.Fatal("preshared key lost")
	}

	if _, ok, err := peers.Peer(domain.X25519Public{3}); err != nil || ok {
		t.Fatalf("missing peer: ok=%v err=%v", ok, err)
	}

	all, err := peers.Peers()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("listed %d peers, want 2", len(all))
	}

	// Upsert replaces, never duplicates.
	if err := peers.UpsertPeer(p1); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	if all, err = peers.Peers(); err != nil || len(all) != 2 {
		t.Fatalf("after re-upsert: %d peers, %v", len(all), err)
	}
}

func TestPeers_SetLastHandshakeMonotone(t *testing.T) {
	dir := t.TempDir()
	peers := store.NewPeerFileStore(dir)

	pub := domain.X25519Public{1}
	if err := peers.UpsertPeer(domain.Peer{PublicKey: pub}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	earlier := tai64n.Now()
	later := tai64n.At(tai64n.Time(earlier).Add(time.Second))
	if err := peers.SetLastHandshake(pub, later); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Lowering attempts are ignored.
	if err := peers.SetLastHandshake(pub, earlier); err != nil {
		t.Fatalf("set earlier: %v", err)
	}

	got, _, err := peers.Peer(pub)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.LastHandshake != later {
		t.Fatal("timestamp was lowered")
	}

	// A second store over the same directory sees the persisted value.
	reopened := store.NewPeerFileStore(dir)
	got, _, err = reopened.Peer(pub)
	if err != nil {
		t.Fatalf("reopened lookup: %v", err)
	}
	if got.LastHandshake != later {
		t.Fatal("timestamp lost across reopen")
	}
}

func TestPeers_SetLastHandshakeUnknownPeer(t *testing.T) {
	peers := store.NewPeerFileStore(t.TempDir())
	err := peers.SetLastHandshake(domain.X25519Public{1}, tai64n.Now())
	if !errors.Is(err, domain.ErrUnknownPeer) {
		t.Fatalf("want ErrUnknownPeer, got %v", err)
	}
}
