package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"societyattendance/internal/delivery/http/helpers"
	"societyattendance/internal/delivery/http/middleware"
	"societyattendance/internal/domain"
)

// EventController serves the event lifecycle endpoints.
type EventController struct {
	Logger      *slog.Logger
	Events      domain.EventService
	Attendances domain.AttendanceService
}

func NewEventController(logger *slog.Logger, events domain.EventService, attendances domain.AttendanceService) *EventController {
	return &EventController{Logger: logger, Events: events, Attendances: attendances}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	DomainID *string   `json:"domainId,omitempty"`
}

// Validate implements Validator.
func (r CreateEventRequest) Validate() []string {
	var errs []string
	if r.Title == "" {
		errs = append(errs, "title is required")
	}
	if r.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{id}.
type UpdateEventRequest struct {
	Title    *string    `json:"title,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	DomainID **string   `json:"domainId,omitempty"`
}

// EventListResponse wraps the event listing.
type EventListResponse struct {
	Events []*domain.Event `json:"events"`
}

// List godoc
// @Summary List events visible to the caller
// @Description Members see their domain's events plus organization-wide ones; admins their domain; super admins everything.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (OPEN or CLOSED)"
// @Success 200 {object} controllers.EventListResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var status *domain.EventStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.EventStatus(s)
		if st != domain.EventOpen && st != domain.EventClosed {
			helpers.WriteError(w, http.StatusBadRequest, "status must be OPEN or CLOSED")
			return
		}
		status = &st
	}
	events, err := c.Events.List(r.Context(), actor, status)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventListResponse{Events: events})
}

// Create godoc
// @Summary Create an event
// @Description The event is created OPEN. Admins may only target their own domain; omitting domainId defaults an admin's event into it.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Events.Create(r.Context(), actor, req.Title, req.Date, req.DomainID)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, event)
}

// Get godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /events/{id} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	event, err := c.Events.GetByID(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// Update godoc
// @Summary Update an open event
// @Description Closed events reject field edits with 409.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /events/{id} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Events.Update(r.Context(), actor, r.PathValue("id"), domain.EventUpdate{
		Title:    req.Title,
		Date:     req.Date,
		DomainID: req.DomainID,
	})
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// Close godoc
// @Summary Close an event
// @Description Closing an already-closed event is a 409.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /events/{id}/close [post]
func (c *EventController) Close(w http.ResponseWriter, r *http.Request) {
	c.setStatus(w, r, c.Events.Close)
}

// Open godoc
// @Summary Reopen a closed event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /events/{id}/open [post]
func (c *EventController) Open(w http.ResponseWriter, r *http.Request) {
	c.setStatus(w, r, c.Events.Open)
}

func (c *EventController) setStatus(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor *domain.User, id string) (*domain.Event, error)) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	event, err := op(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// Attendance godoc
// @Summary List an event's attendance with per-status counts
// @Description Members receive only their own record; stats cover the returned rows.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} domain.EventAttendance
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /events/{id}/attendance [get]
func (c *EventController) Attendance(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	got, err := c.Attendances.ForEvent(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, got)
}

func (c *EventController) logIfInternal(r *http.Request, err error) {
	if isClientError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
