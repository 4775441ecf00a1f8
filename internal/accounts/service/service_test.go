package service

import (
	"context"
	"testing"

	"leadpilot_backend/internal/accounts/repository"
	"leadpilot_backend/internal/config"
	"leadpilot_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeStore struct {
	accounts map[uuid.UUID]repository.Account

	ensuredLimit int
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[uuid.UUID]repository.Account{}}
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return repository.Account{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) Ensure(_ context.Context, id uuid.UUID, email string, fullName *string, defaultLimit int) (repository.Account, error) {
	f.ensuredLimit = defaultLimit
	if existing, ok := f.accounts[id]; ok {
		return existing, nil
	}
	a := repository.Account{
		ID:         id,
		Email:      email,
		FullName:   fullName,
		Plan:       config.PlanStarter,
		LeadsLimit: defaultLimit,
	}
	f.accounts[id] = a
	return a, nil
}

func TestBootstrapRequiresEmail(t *testing.T) {
	svc := New(newFakeStore())

	_, err := svc.Bootstrap(context.Background(), uuid.New(), "", nil)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBootstrapCreatesStarterAccount(t *testing.T) {
	store := newFakeStore()
	svc := New(store)

	account, err := svc.Bootstrap(context.Background(), uuid.New(), "user@example.com", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.Plan != config.PlanStarter {
		t.Fatalf("expected starter plan, got %q", account.Plan)
	}
	if store.ensuredLimit != config.PlanLimits[config.PlanStarter] {
		t.Fatalf("expected starter limit %d, got %d", config.PlanLimits[config.PlanStarter], store.ensuredLimit)
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := New(store)
	userID := uuid.New()

	first, err := svc.Bootstrap(context.Background(), userID, "user@example.com", nil)
	if err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}

	// Pretend the operator upgraded the plan between calls.
	upgraded := store.accounts[userID]
	upgraded.Plan = config.PlanPro
	upgraded.LeadsLimit = config.PlanLimits[config.PlanPro]
	store.accounts[userID] = upgraded

	second, err := svc.Bootstrap(context.Background(), userID, "user@example.com", nil)
	if err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}

	if second.Plan != config.PlanPro {
		t.Fatal("bootstrap must not reset an existing account")
	}
	if first.ID != second.ID {
		t.Fatal("expected the same account")
	}
}

func TestGetUnknownAccount(t *testing.T) {
	svc := New(newFakeStore())

	_, err := svc.Get(context.Background(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
