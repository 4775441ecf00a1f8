// Package searches provides the search job bounded context module.
package searches

import (
	accountsrepo "leadpilot_backend/internal/accounts/repository"
	"leadpilot_backend/internal/config"
	"leadpilot_backend/internal/events"
	apphttp "leadpilot_backend/internal/http"
	"leadpilot_backend/internal/searches/handler"
	"leadpilot_backend/internal/searches/provider"
	"leadpilot_backend/internal/searches/repository"
	"leadpilot_backend/internal/searches/service"
	"leadpilot_backend/platform/logger"
	"leadpilot_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	repo    *repository.Repository
	service *service.Service
	handler *handler.Handler
}

// NewModule wires the search runner. Without a provider token the runner
// stays in demo mode: no provider client is constructed and runs synthesize
// their results.
func NewModule(cfg *config.Config, pool *pgxpool.Pool, accounts *accountsrepo.Repository, val *validator.Validator, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)

	var runProvider service.RunProvider
	if !cfg.DemoMode() {
		runProvider = provider.New(cfg.ProviderBaseURL, cfg.ProviderToken, cfg.ProviderActorID, cfg.ProviderWaitSeconds, log)
	}

	enricher := service.NewEnricher(repo, log)
	svc := service.New(cfg, repo, accounts, runProvider, enricher, bus, log)
	h := handler.New(svc, val)

	return &Module{repo: repo, service: svc, handler: h}
}

func (m *Module) Name() string {
	return "searches"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/searches")
	m.handler.RegisterRoutes(group)
}

// Repository exposes the search store for other modules.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

var _ apphttp.Module = (*Module)(nil)
