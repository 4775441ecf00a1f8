// Package accounts provides the account bounded context module.
package accounts

import (
	"leadpilot_backend/internal/accounts/handler"
	"leadpilot_backend/internal/accounts/repository"
	"leadpilot_backend/internal/accounts/service"
	apphttp "leadpilot_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	repo    *repository.Repository
	service *service.Service
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)

	return &Module{repo: repo, service: svc, handler: h}
}

func (m *Module) Name() string {
	return "accounts"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/accounts")
	m.handler.RegisterRoutes(group)
}

// Repository exposes the account store for other modules.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

var _ apphttp.Module = (*Module)(nil)
