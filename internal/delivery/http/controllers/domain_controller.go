package controllers

import (
	"log/slog"
	"net/http"

	"societyattendance/internal/delivery/http/helpers"
	"societyattendance/internal/delivery/http/middleware"
	"societyattendance/internal/domain"
)

// DomainController serves domain management endpoints.
type DomainController struct {
	Logger  *slog.Logger
	Service domain.DomainService
}

func NewDomainController(logger *slog.Logger, svc domain.DomainService) *DomainController {
	return &DomainController{Logger: logger, Service: svc}
}

// CreateDomainRequest is the request body for POST /domains.
type CreateDomainRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (r CreateDomainRequest) Validate() []string {
	if r.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

// DomainListResponse wraps the domain listing.
type DomainListResponse struct {
	Domains []*domain.Domain `json:"domains"`
}

// List godoc
// @Summary List domains
// @Tags domains
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.DomainListResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /domains [get]
func (c *DomainController) List(w http.ResponseWriter, r *http.Request) {
	domains, err := c.Service.List(r.Context())
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, DomainListResponse{Domains: domains})
}

// Create godoc
// @Summary Create a domain
// @Tags domains
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateDomainRequest true "Domain name"
// @Success 201 {object} domain.Domain
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /domains [post]
func (c *DomainController) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req CreateDomainRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	dom, err := c.Service.Create(r.Context(), actor, req.Name)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dom)
}

// Get godoc
// @Summary Get a domain with users, events, and stats
// @Tags domains
// @Produce json
// @Security BearerAuth
// @Param id path string true "Domain ID"
// @Success 200 {object} domain.DomainDetail
// @Failure 404 {object} helpers.ErrorResponse
// @Router /domains/{id} [get]
func (c *DomainController) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := c.Service.GetDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, detail)
}

// Delete godoc
// @Summary Delete an empty domain
// @Description Fails with 409 while the domain still owns users or events.
// @Tags domains
// @Produce json
// @Security BearerAuth
// @Param id path string true "Domain ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /domains/{id} [delete]
func (c *DomainController) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := c.Service.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (c *DomainController) logIfInternal(r *http.Request, err error) {
	if isClientError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
