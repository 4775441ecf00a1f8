package handler

import (
	"net/http"

	"leadpilot_backend/internal/accounts/repository"
	"leadpilot_backend/internal/accounts/service"
	"leadpilot_backend/internal/accounts/transport"
	"leadpilot_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bootstrap", h.Bootstrap)
	rg.GET("/me", h.Me)
}

// Bootstrap ensures the caller's account row exists after first login.
func (h *Handler) Bootstrap(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.BootstrapRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	account, err := h.svc.Bootstrap(c.Request.Context(), id.UserID(), id.Email(), req.FullName)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(account))
}

// Me returns the caller's account.
func (h *Handler) Me(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	account, err := h.svc.Get(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(account))
}

func toResponse(a repository.Account) transport.AccountResponse {
	return transport.AccountResponse{
		ID:          a.ID.String(),
		Email:       a.Email,
		FullName:    a.FullName,
		Plan:        a.Plan,
		LeadsUsed:   a.LeadsUsed,
		LeadsLimit:  a.LeadsLimit,
		IsSuspended: a.IsSuspended,
		SuspendedAt: a.SuspendedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
