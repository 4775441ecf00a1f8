// Package service implements operator account administration.
package service

import (
	"context"
	"errors"
	"strings"

	accountsrepo "leadpilot_backend/internal/accounts/repository"
	"leadpilot_backend/internal/admin/transport"
	"leadpilot_backend/internal/config"
	"leadpilot_backend/internal/events"
	"leadpilot_backend/platform/apperr"
	"leadpilot_backend/platform/logger"

	"github.com/google/uuid"
)

// AccountStore is the account administration surface the service needs.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (accountsrepo.Account, error)
	List(ctx context.Context, limit int) ([]accountsrepo.Account, error)
	SetPlan(ctx context.Context, id uuid.UUID, plan string, limit int) error
	SetSuspended(ctx context.Context, id uuid.UUID, suspended bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SearchPurger removes an account's search data during account deletion.
type SearchPurger interface {
	DeleteByAccount(ctx context.Context, table string, accountID uuid.UUID) error
}

const (
	defaultListLimit = 200
	maxListLimit     = 1000
)

type Service struct {
	cfg      *config.Config
	accounts AccountStore
	searches SearchPurger
	bus      events.Bus
	log      *logger.Logger
}

func New(cfg *config.Config, accounts AccountStore, searches SearchPurger, bus events.Bus, log *logger.Logger) *Service {
	return &Service{cfg: cfg, accounts: accounts, searches: searches, bus: bus, log: log}
}

// Execute dispatches one operator action. Every call re-checks the caller
// against the operator allow-list; there is no cached admin session state.
func (s *Service) Execute(ctx context.Context, callerID uuid.UUID, callerEmail string, req transport.ActionRequest) (any, error) {
	if !strings.EqualFold(callerEmail, s.cfg.OperatorEmail) {
		return nil, apperr.Forbidden("Operator access required")
	}

	switch req.Action {
	case transport.ActionListUsers:
		return s.listUsers(ctx, req)
	case transport.ActionSetPlan:
		return s.setPlan(ctx, req)
	case transport.ActionSuspendUser:
		return s.setSuspended(ctx, callerID, req, true)
	case transport.ActionRestoreUser:
		return s.setSuspended(ctx, callerID, req, false)
	case transport.ActionDeleteUser:
		return s.deleteUser(ctx, callerID, req)
	default:
		return nil, apperr.Validation("Unknown action")
	}
}

func (s *Service) listUsers(ctx context.Context, req transport.ActionRequest) (transport.ListUsersResult, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	accounts, err := s.accounts.List(ctx, limit)
	if err != nil {
		return transport.ListUsersResult{}, err
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))

	users := make([]transport.UserSummary, 0, len(accounts))
	for _, account := range accounts {
		if query != "" && !matchesQuery(account, query) {
			continue
		}
		users = append(users, transport.UserSummary{
			ID:          account.ID.String(),
			Email:       account.Email,
			FullName:    account.FullName,
			Plan:        account.Plan,
			LeadsUsed:   account.LeadsUsed,
			LeadsLimit:  account.LeadsLimit,
			IsSuspended: account.IsSuspended,
			SuspendedAt: account.SuspendedAt,
			CreatedAt:   account.CreatedAt,
		})
	}
	return transport.ListUsersResult{Users: users}, nil
}

func matchesQuery(account accountsrepo.Account, query string) bool {
	if strings.Contains(strings.ToLower(account.Email), query) {
		return true
	}
	return account.FullName != nil && strings.Contains(strings.ToLower(*account.FullName), query)
}

func (s *Service) setPlan(ctx context.Context, req transport.ActionRequest) (transport.ActionResult, error) {
	targetID, err := s.targetID(ctx, req)
	if err != nil {
		return transport.ActionResult{}, err
	}
	if !config.ValidPlan(req.Plan) {
		return transport.ActionResult{}, apperr.Validation("Invalid plan")
	}

	if err := s.accounts.SetPlan(ctx, targetID, req.Plan, config.PlanLimits[req.Plan]); err != nil {
		return transport.ActionResult{}, err
	}

	s.log.Info("account plan changed", "account_id", targetID.String(), "plan", req.Plan)
	if s.bus != nil {
		s.bus.Publish(context.Background(), events.AccountPlanChanged{
			BaseEvent: events.NewBaseEvent(),
			AccountID: targetID,
			Plan:      req.Plan,
		})
	}
	return transport.ActionResult{Success: true}, nil
}

func (s *Service) setSuspended(ctx context.Context, callerID uuid.UUID, req transport.ActionRequest, suspended bool) (transport.ActionResult, error) {
	targetID, err := s.targetID(ctx, req)
	if err != nil {
		return transport.ActionResult{}, err
	}
	if suspended && targetID == callerID {
		return transport.ActionResult{}, apperr.Validation("Cannot suspend own account")
	}

	if err := s.accounts.SetSuspended(ctx, targetID, suspended); err != nil {
		return transport.ActionResult{}, err
	}

	s.log.Info("account suspension changed", "account_id", targetID.String(), "suspended", suspended)
	return transport.ActionResult{Success: true}, nil
}

// deleteUser removes the account and everything it owns. Lead and search
// rows go first in bounded rounds, then the account row itself.
func (s *Service) deleteUser(ctx context.Context, callerID uuid.UUID, req transport.ActionRequest) (transport.ActionResult, error) {
	targetID, err := s.targetID(ctx, req)
	if err != nil {
		return transport.ActionResult{}, err
	}
	if targetID == callerID {
		return transport.ActionResult{}, apperr.Validation("Cannot delete own account")
	}

	if err := s.searches.DeleteByAccount(ctx, "leads", targetID); err != nil {
		return transport.ActionResult{}, err
	}
	if err := s.searches.DeleteByAccount(ctx, "searches", targetID); err != nil {
		return transport.ActionResult{}, err
	}
	if err := s.accounts.Delete(ctx, targetID); err != nil {
		return transport.ActionResult{}, err
	}

	s.log.Info("account deleted", "account_id", targetID.String())
	return transport.ActionResult{Success: true}, nil
}

// targetID parses the target user id and confirms the account exists.
func (s *Service) targetID(ctx context.Context, req transport.ActionRequest) (uuid.UUID, error) {
	if req.UserID == "" {
		return uuid.Nil, apperr.Validation("user_id is required")
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		return uuid.Nil, apperr.Validation("user_id is required")
	}

	if _, err := s.accounts.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, accountsrepo.ErrNotFound) {
			return uuid.Nil, apperr.NotFound("User not found")
		}
		return uuid.Nil, err
	}
	return targetID, nil
}
