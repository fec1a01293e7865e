// Package domain defines the core data models and interfaces shared across
// the secure-session layer. It contains plain types (keys, peer records,
// timestamps) and contracts (store interfaces, error taxonomy) only.
package domain
