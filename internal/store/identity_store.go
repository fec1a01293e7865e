package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"wirechat/internal/domain"
)

const (
	idFilename          = "identity.json"
	idFilenameEncrypted = "identity.json.enc"
)

// IdentityFileStore persists the local identity to disk. With a passphrase
// the keypair is sealed in an scrypt envelope; without one it is written as
// plain JSON with owner-only permissions.
type IdentityFileStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir. An empty
// passphrase selects the plaintext format.
func NewIdentityFileStore(dir, passphrase string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir, passphrase: passphrase}
}

// SaveIdentity writes the identity to disk.
func (s *IdentityFileStore) SaveIdentity(id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	if s.passphrase == "" {
		return writeFile(filepath.Join(s.dir, idFilename), raw, 0o600)
	}

	N, r, p := scryptParamsDefault()
	ct, err := seal(s.passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, idFilenameEncrypted), ct, 0o600)
}

// LoadIdentity reads the identity back, decrypting when a passphrase was
// configured.
func (s *IdentityFileStore) LoadIdentity() (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := idFilename
	if s.passphrase != "" {
		name = idFilenameEncrypted
	}
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("no identity found, run init first: %w", err)
	}
	if s.passphrase != "" {
		if b, err = open(s.passphrase, b); err != nil {
			return domain.Identity{}, err
		}
	}
	var id domain.Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
