// Package service provides account lifecycle logic.
package service

import (
	"context"
	"errors"

	"leadpilot_backend/internal/accounts/repository"
	"leadpilot_backend/internal/config"
	"leadpilot_backend/platform/apperr"

	"github.com/google/uuid"
)

// AccountStore is the persistence surface the service needs.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Account, error)
	Ensure(ctx context.Context, id uuid.UUID, email string, fullName *string, defaultLimit int) (repository.Account, error)
}

type Service struct {
	store AccountStore
}

func New(store AccountStore) *Service {
	return &Service{store: store}
}

// Bootstrap creates the account on first authenticated contact. Existing
// accounts are returned unchanged, so the call is idempotent.
func (s *Service) Bootstrap(ctx context.Context, userID uuid.UUID, email string, fullName *string) (repository.Account, error) {
	if email == "" {
		return repository.Account{}, apperr.Validation("email claim required")
	}
	return s.store.Ensure(ctx, userID, email, fullName, config.PlanLimits[config.PlanStarter])
}

// Get loads the caller's own account.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (repository.Account, error) {
	account, err := s.store.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Account{}, apperr.NotFound("Account not found")
	}
	return account, err
}
