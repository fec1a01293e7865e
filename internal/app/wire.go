package app

import (
	"os"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
	sessionsvc "wirechat/internal/services/session"
	"wirechat/internal/store"
)

// Wire bundles the stores and services for the CLI.
type Wire struct {
	Identity domain.IdentityStore
	Peers    domain.PeerStore

	cfg Config
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}
	return &Wire{
		Identity: store.NewIdentityFileStore(cfg.Home, cfg.Passphrase),
		Peers:    store.NewPeerFileStore(cfg.Home),
		cfg:      cfg,
	}, nil
}

// SessionManager loads the identity and builds a session manager around it.
// It fails when no identity has been initialised yet.
func (w *Wire) SessionManager() (*sessionsvc.Manager, error) {
	id, err := w.Identity.LoadIdentity()
	if err != nil {
		return nil, err
	}
	return sessionsvc.NewManager(crypto.NewKeyStore(id), w.Peers), nil
}
