// Package admin provides the operator administration module.
package admin

import (
	accountsrepo "leadpilot_backend/internal/accounts/repository"
	"leadpilot_backend/internal/admin/handler"
	"leadpilot_backend/internal/admin/service"
	"leadpilot_backend/internal/config"
	"leadpilot_backend/internal/events"
	apphttp "leadpilot_backend/internal/http"
	searchesrepo "leadpilot_backend/internal/searches/repository"
	"leadpilot_backend/platform/logger"
	"leadpilot_backend/platform/validator"
)

type Module struct {
	service *service.Service
	handler *handler.Handler
}

func NewModule(cfg *config.Config, accounts *accountsrepo.Repository, searches *searchesrepo.Repository, val *validator.Validator, bus events.Bus, log *logger.Logger) *Module {
	svc := service.New(cfg, accounts, searches, bus, log)
	h := handler.New(svc, val)

	return &Module{service: svc, handler: h}
}

func (m *Module) Name() string {
	return "admin"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/admin")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
