package domain

import "time"

type AccountID string

// Account is the locally stored record of a game-platform identity.
type Account struct {
	ID     AccountID
	Handle string
	// PublicKey holds the PEM-encoded public key exactly as stored.
	PublicKey       []byte
	ProfileImageURL string
	// ProfileURL is the external, human-facing profile page.
	ProfileURL string
	CreatedAt  time.Time
}
