package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/garm/internal/domain"
	"github.com/bnema/garm/internal/ports"
)

var ErrInvalidAccount = errors.New("invalid account")

type Service struct {
	repo    ports.AccountRepository
	clock   ports.Clock
	options domain.ActorOptions
}

func NewService(repo ports.AccountRepository, clock ports.Clock, options domain.ActorOptions) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Service{
		repo:    repo,
		clock:   clock,
		options: options,
	}
}

// Resolve looks identifier up as a handle first and as an internal id second.
// Handle lookups dominate traffic and never pay for the fallback.
func (s *Service) Resolve(ctx context.Context, identifier string) (Resolution, error) {
	if strings.TrimSpace(identifier) == "" {
		return Resolution{}, nil
	}

	account, err := s.repo.FindByHandle(ctx, identifier)
	if err == nil {
		return Resolution{Account: account, Found: true, Canonical: true}, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return Resolution{}, fmt.Errorf("find account by handle: %w", err)
	}

	account, err = s.repo.FindByID(ctx, domain.AccountID(identifier))
	if err == nil {
		return Resolution{Account: account, Found: true, Canonical: false}, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return Resolution{}, fmt.Errorf("find account by id: %w", err)
	}

	return Resolution{}, nil
}

// Document builds the actor document for account as seen from origin, the
// externally visible base endpoint of this server.
func (s *Service) Document(account domain.Account, origin string) (domain.ContextualActor, error) {
	builder, err := domain.NewURLBuilder(origin)
	if err != nil {
		return domain.ContextualActor{}, fmt.Errorf("derive actor urls: %w", err)
	}

	urls := builder.Actor(account.Handle)
	key, err := domain.NewKeyDescriptor(urls.Identity, account.PublicKey)
	if err != nil {
		return domain.ContextualActor{}, fmt.Errorf("assemble key descriptor for account %s: %w", account.ID, err)
	}

	doc, err := domain.BuildActor(account, urls, key, s.options)
	if err != nil {
		return domain.ContextualActor{}, fmt.Errorf("build actor document: %w", err)
	}

	return domain.WithContext(doc), nil
}

func (s *Service) AddAccount(ctx context.Context, cmd AddAccountCommand) (domain.Account, error) {
	id := domain.AccountID(strings.TrimSpace(string(cmd.ID)))
	handle := strings.TrimSpace(cmd.Handle)
	if id == "" {
		return domain.Account{}, fmt.Errorf("%w: id is required", ErrInvalidAccount)
	}
	if strings.ContainsAny(string(id), `/\`) || id == "." || id == ".." {
		return domain.Account{}, fmt.Errorf("%w: id %q must not contain path separators", ErrInvalidAccount, id)
	}
	if handle == "" {
		return domain.Account{}, fmt.Errorf("%w: handle is required", ErrInvalidAccount)
	}

	if _, err := domain.ValidatePublicKeyPEM(cmd.PublicKeyPEM); err != nil {
		return domain.Account{}, err
	}

	existing, err := s.repo.FindByHandle(ctx, handle)
	switch {
	case err == nil && existing.ID != id:
		return domain.Account{}, fmt.Errorf("%w: %q belongs to account %s", domain.ErrHandleTaken, handle, existing.ID)
	case err != nil && !errors.Is(err, domain.ErrAccountNotFound):
		return domain.Account{}, fmt.Errorf("find account by handle: %w", err)
	}

	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}

	account := domain.Account{
		ID:              id,
		Handle:          handle,
		PublicKey:       cmd.PublicKeyPEM,
		ProfileImageURL: cmd.ProfileImageURL,
		ProfileURL:      cmd.ProfileURL,
		CreatedAt:       createdAt.UTC(),
	}

	if err := s.repo.Save(ctx, account); err != nil {
		return domain.Account{}, fmt.Errorf("save account: %w", err)
	}

	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, nil
}
