package ports

import (
	"context"

	"github.com/bnema/garm/internal/domain"
)

// AccountRepository returns domain.ErrAccountNotFound when no account
// matches a lookup.
type AccountRepository interface {
	FindByHandle(ctx context.Context, handle string) (domain.Account, error)
	FindByID(ctx context.Context, id domain.AccountID) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Save(ctx context.Context, account domain.Account) error
}
