package application

import "github.com/bnema/garm/internal/domain"

// Resolution is the outcome of resolving an inbound identifier. A miss is
// reported with Found false, not as an error.
type Resolution struct {
	Account domain.Account
	Found   bool
	// Canonical is true when the identifier was the account handle. Lookups
	// by internal id are not canonical and must be redirected to the handle.
	Canonical bool
}
