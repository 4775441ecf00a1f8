// Package service runs search jobs: gate, provider invocation, normalization,
// batched persistence, and best-effort enrichment.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	accountsrepo "leadpilot_backend/internal/accounts/repository"
	"leadpilot_backend/internal/config"
	"leadpilot_backend/internal/events"
	"leadpilot_backend/internal/searches/provider"
	"leadpilot_backend/internal/searches/repository"
	"leadpilot_backend/internal/searches/transport"
	"leadpilot_backend/platform/apperr"
	"leadpilot_backend/platform/logger"

	"github.com/google/uuid"
)

// Run modes reported back to the caller.
const (
	ModeDemo = "demo"
	ModeLive = "live"
)

// SearchStore is the search persistence surface the service needs.
type SearchStore interface {
	Create(ctx context.Context, s repository.Search) (repository.Search, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Search, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]repository.Search, error)
	ListLeads(ctx context.Context, searchID, accountID uuid.UUID) ([]repository.Lead, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
	MarkCompleted(ctx context.Context, id uuid.UUID, totalResults int) error
	SetProviderRunID(ctx context.Context, id uuid.UUID, runID string) error
	InsertLeadsAndFinalize(ctx context.Context, accountID, searchID uuid.UUID, leads []repository.Lead, preLeadsUsed int) error
}

// AccountStore is the account lookup surface the service needs.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (accountsrepo.Account, error)
}

// RunProvider starts scraping runs and fetches their results. A nil provider
// means demo mode.
type RunProvider interface {
	StartRun(ctx context.Context, query string, maxResults int) (provider.Run, error)
	FetchDataset(ctx context.Context, datasetID string) ([]map[string]any, error)
}

// EmailEnricher augments persisted leads with contact emails, best-effort.
type EmailEnricher interface {
	Enrich(ctx context.Context, searchID uuid.UUID, leads []repository.Lead)
}

type Service struct {
	cfg      *config.Config
	searches SearchStore
	accounts AccountStore
	provider RunProvider
	enricher EmailEnricher
	bus      events.Bus
	log      *logger.Logger
}

func New(cfg *config.Config, searches SearchStore, accounts AccountStore, runProvider RunProvider, enricher EmailEnricher, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		cfg:      cfg,
		searches: searches,
		accounts: accounts,
		provider: runProvider,
		enricher: enricher,
		bus:      bus,
		log:      log,
	}
}

// Create records a new queued search owned by the caller.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateSearchRequest) (repository.Search, error) {
	return s.searches.Create(ctx, repository.Search{
		ID:         uuid.New(),
		AccountID:  userID,
		Keyword:    strings.TrimSpace(req.Keyword),
		City:       strings.TrimSpace(req.City),
		Country:    strings.TrimSpace(req.Country),
		MaxResults: req.MaxResults,
	})
}

// List returns the caller's searches, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]repository.Search, error) {
	return s.searches.ListByAccount(ctx, userID, 100)
}

// Leads returns the leads of one of the caller's searches. Ownership is
// enforced by the query itself.
func (s *Service) Leads(ctx context.Context, userID, searchID uuid.UUID) ([]repository.Lead, error) {
	if _, err := s.ownedSearch(ctx, userID, searchID); err != nil {
		return nil, err
	}
	return s.searches.ListLeads(ctx, searchID, userID)
}

// Run executes the search job end to end. Any failure past the identity
// checks also records the failed state on the search before returning.
func (s *Service) Run(ctx context.Context, userID uuid.UUID, userEmail string, searchID uuid.UUID) (transport.RunResult, error) {
	if strings.EqualFold(userEmail, s.cfg.OperatorEmail) {
		return transport.RunResult{}, apperr.Forbidden("Operator accounts cannot run searches")
	}

	log := s.log.WithSearch(searchID.String(), userID.String())

	result, err := s.run(ctx, userID, searchID, log)
	if err != nil {
		message := err.Error()
		if typed, ok := err.(*apperr.Error); ok {
			message = typed.Message
		}
		// Best-effort terminal state; the update no-ops when the search
		// row does not exist.
		_ = s.searches.MarkFailed(ctx, searchID, message)
		log.Error("search run failed", "error", message)
		s.publish(events.SearchFailed{
			BaseEvent: events.NewBaseEvent(),
			SearchID:  searchID,
			AccountID: userID,
			Reason:    message,
		})
		if _, ok := err.(*apperr.Error); ok {
			return transport.RunResult{}, err
		}
		return transport.RunResult{}, apperr.Wrap(apperr.KindInternal, message, err)
	}

	log.Info("search run completed", "mode", result.Mode, "leads", result.Leads)
	s.publish(events.SearchCompleted{
		BaseEvent: events.NewBaseEvent(),
		SearchID:  searchID,
		AccountID: userID,
		Mode:      result.Mode,
		Leads:     result.Leads,
	})
	return result, nil
}

func (s *Service) run(ctx context.Context, userID, searchID uuid.UUID, log *logger.Logger) (transport.RunResult, error) {
	search, err := s.ownedSearch(ctx, userID, searchID)
	if err != nil {
		return transport.RunResult{}, err
	}

	account, err := s.accounts.GetByID(ctx, userID)
	if errors.Is(err, accountsrepo.ErrNotFound) {
		return transport.RunResult{}, apperr.FailedPrecondition("Account not found")
	}
	if err != nil {
		return transport.RunResult{}, err
	}

	if account.IsSuspended {
		// The rejection reason is recorded on the search before the gate
		// rejects, so the state is visible even to callers that drop the
		// error response.
		_ = s.searches.MarkFailed(ctx, searchID, "Account suspended")
		return transport.RunResult{}, apperr.Forbidden("Account suspended")
	}

	// Read-then-write: two overlapping runs can both pass this check and
	// together overshoot the quota by one run's worth of leads. Accepted;
	// the next gate check catches up.
	if account.LeadsUsed >= account.LeadsLimit {
		_ = s.searches.MarkFailed(ctx, searchID, "Leads quota exceeded")
		return transport.RunResult{}, apperr.ResourceExhausted("Leads quota exceeded")
	}

	if err := s.searches.MarkRunning(ctx, searchID); err != nil {
		return transport.RunResult{}, err
	}

	if s.provider == nil {
		return s.runDemo(ctx, account, search, log)
	}
	return s.runLive(ctx, account, search, log)
}

func (s *Service) runDemo(ctx context.Context, account accountsrepo.Account, search repository.Search, log *logger.Logger) (transport.RunResult, error) {
	leads := demoLeads(search)
	log.Info("demo run synthesized leads", "leads", len(leads))

	if err := s.searches.InsertLeadsAndFinalize(ctx, account.ID, search.ID, leads, account.LeadsUsed); err != nil {
		return transport.RunResult{}, err
	}
	return transport.RunResult{Success: true, Mode: ModeDemo, Leads: len(leads)}, nil
}

func (s *Service) runLive(ctx context.Context, account accountsrepo.Account, search repository.Search, log *logger.Logger) (transport.RunResult, error) {
	query := fmt.Sprintf("%s in %s, %s", search.Keyword, search.City, search.Country)

	run, err := s.provider.StartRun(ctx, query, search.MaxResults)
	if err != nil {
		var statusErr *provider.StatusError
		if errors.As(err, &statusErr) {
			return transport.RunResult{}, apperr.Internal(statusErr.Error())
		}
		return transport.RunResult{}, err
	}

	if run.ID != "" {
		if err := s.searches.SetProviderRunID(ctx, search.ID, run.ID); err != nil {
			return transport.RunResult{}, err
		}
	}

	if run.DatasetID == "" {
		if err := s.searches.MarkCompleted(ctx, search.ID, 0); err != nil {
			return transport.RunResult{}, err
		}
		return transport.RunResult{Success: true, Mode: ModeLive, Leads: 0}, nil
	}

	items, err := s.provider.FetchDataset(ctx, run.DatasetID)
	if err != nil {
		var statusErr *provider.StatusError
		if errors.As(err, &statusErr) {
			return transport.RunResult{}, apperr.Internal(statusErr.Error())
		}
		return transport.RunResult{}, err
	}

	leads := normalizeLeads(items)
	if err := s.searches.InsertLeadsAndFinalize(ctx, account.ID, search.ID, leads, account.LeadsUsed); err != nil {
		return transport.RunResult{}, err
	}

	if s.enricher != nil && config.PlanAllowsEnrichment(account.Plan) {
		s.enricher.Enrich(ctx, search.ID, leads)
	}

	return transport.RunResult{Success: true, Mode: ModeLive, Leads: len(leads)}, nil
}

// ownedSearch loads the search and verifies ownership. A search owned by a
// different account reads as not found, never as forbidden, so ownership
// probing reveals nothing.
func (s *Service) ownedSearch(ctx context.Context, userID, searchID uuid.UUID) (repository.Search, error) {
	search, err := s.searches.GetByID(ctx, searchID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Search{}, apperr.NotFound("Search not found")
	}
	if err != nil {
		return repository.Search{}, err
	}
	if search.AccountID != userID {
		return repository.Search{}, apperr.NotFound("Search not found")
	}
	return search, nil
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(context.Background(), event)
}
