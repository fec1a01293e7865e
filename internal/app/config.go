package app

// Config holds runtime wiring options for building the app.
type Config struct {
	Home       string // config directory, e.g. $HOME/.wirechat
	Passphrase string // optional; seals the identity file when set
}
