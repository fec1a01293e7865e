package store

import (
	"encoding/base64"
	"path/filepath"
	"sort"
	"sync"

	"wirechat/internal/domain"
	"wirechat/internal/protocol/tai64n"
)

const peersFilename = "peers.json"

// PeerFileStore is the durable peer directory, one JSON file keyed by the
// base64 public key.
type PeerFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewPeerFileStore returns a PeerFileStore rooted at dir.
func NewPeerFileStore(dir string) *PeerFileStore {
	return &PeerFileStore{dir: dir}
}

func (s *PeerFileStore) path() string {
	return filepath.Join(s.dir, peersFilename)
}

func (s *PeerFileStore) load() (map[string]domain.Peer, error) {
	peers := make(map[string]domain.Peer)
	if err := readJSON(s.path(), &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

func peerKey(pub domain.X25519Public) string {
	return base64.StdEncoding.EncodeToString(pub[:])
}

// UpsertPeer inserts or replaces the peer record.
func (s *PeerFileStore) UpsertPeer(p domain.Peer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	peers, err := s.load()
	if err != nil {
		return err
	}
	peers[peerKey(p.PublicKey)] = p
	return writeJSON(s.path(), peers, 0o600)
}

// Peer looks up a peer by public key.
func (s *PeerFileStore) Peer(pub domain.X25519Public) (domain.Peer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peers, err := s.load()
	if err != nil {
		return domain.Peer{}, false, err
	}
	p, ok := peers[peerKey(pub)]
	return p, ok, nil
}

// Peers lists all known peers in a stable order.
func (s *PeerFileStore) Peers() ([]domain.Peer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peers, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(peers))
	for k := range peers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]domain.Peer, 0, len(peers))
	for _, k := range keys {
		out = append(out, peers[k])
	}
	return out, nil
}

// SetLastHandshake raises the peer's greatest accepted handshake timestamp.
// A timestamp that does not move forward is ignored, so the record is
// monotone even under races.
func (s *PeerFileStore) SetLastHandshake(pub domain.X25519Public, ts domain.Timestamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	peers, err := s.load()
	if err != nil {
		return err
	}
	key := peerKey(pub)
	p, ok := peers[key]
	if !ok {
		return domain.ErrUnknownPeer
	}
	if !tai64n.After(ts, p.LastHandshake) {
		return nil
	}
	p.LastHandshake = ts
	peers[key] = p
	return writeJSON(s.path(), peers, 0o600)
}

// Compile-time assertion that PeerFileStore implements domain.PeerStore.
var _ domain.PeerStore = (*PeerFileStore)(nil)
