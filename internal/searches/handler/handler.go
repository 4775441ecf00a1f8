package handler

import (
	"net/http"

	"leadpilot_backend/internal/searches/repository"
	"leadpilot_backend/internal/searches/service"
	"leadpilot_backend/internal/searches/transport"
	"leadpilot_backend/platform/httpkit"
	"leadpilot_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.POST("/:id/run", h.Run)
	rg.GET("/:id/leads", h.Leads)
}

// Create records a new queued search.
func (h *Handler) Create(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.CreateSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	search, err := h.svc.Create(c.Request.Context(), id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, toSearchResponse(search))
}

// List returns the caller's searches.
func (h *Handler) List(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	searches, err := h.svc.List(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.SearchResponse, 0, len(searches))
	for _, search := range searches {
		responses = append(responses, toSearchResponse(search))
	}
	httpkit.OK(c, responses)
}

// Run executes the search job synchronously and reports the outcome.
func (h *Handler) Run(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	searchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "search id is required", nil)
		return
	}

	result, err := h.svc.Run(c.Request.Context(), id.UserID(), id.Email(), searchID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Leads returns the persisted leads of one of the caller's searches.
func (h *Handler) Leads(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	searchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "search id is required", nil)
		return
	}

	leads, err := h.svc.Leads(c.Request.Context(), id.UserID(), searchID)
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, toLeadResponse(lead))
	}
	httpkit.OK(c, responses)
}

func toSearchResponse(s repository.Search) transport.SearchResponse {
	return transport.SearchResponse{
		ID:            s.ID.String(),
		Keyword:       s.Keyword,
		City:          s.City,
		Country:       s.Country,
		MaxResults:    s.MaxResults,
		Status:        s.Status,
		TotalResults:  s.TotalResults,
		ErrorMessage:  s.ErrorMessage,
		ProviderRunID: s.ProviderRunID,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toLeadResponse(l repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:           l.ID.String(),
		BusinessName: l.BusinessName,
		Address:      l.Address,
		Phone:        l.Phone,
		Website:      l.Website,
		Email:        l.Email,
		Category:     l.Category,
		Rating:       l.Rating,
		ReviewsCount: l.ReviewsCount,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
	}
}
