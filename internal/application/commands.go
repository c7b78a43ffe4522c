package application

import (
	"time"

	"github.com/bnema/garm/internal/domain"
)

type AddAccountCommand struct {
	ID              domain.AccountID
	Handle          string
	PublicKeyPEM    []byte
	ProfileImageURL string
	ProfileURL      string
	// CreatedAt defaults to the service clock when zero.
	CreatedAt time.Time
}
