package controllers

import (
	"log/slog"
	"net/http"

	"societyattendance/internal/delivery/http/helpers"
	"societyattendance/internal/delivery/http/middleware"
	"societyattendance/internal/domain"
)

// AttendanceController serves the attendance marking and querying endpoints.
type AttendanceController struct {
	Logger  *slog.Logger
	Service domain.AttendanceService
}

func NewAttendanceController(logger *slog.Logger, svc domain.AttendanceService) *AttendanceController {
	return &AttendanceController{Logger: logger, Service: svc}
}

// MarkAttendanceRequest is the request body for POST /attendance. Exactly one
// of (userId, status) or entries must be provided: the former marks a single
// user, the latter a batch.
type MarkAttendanceRequest struct {
	EventID string                 `json:"eventId"`
	UserID  string                 `json:"userId,omitempty"`
	Status  string                 `json:"status,omitempty"`
	Entries []domain.BulkMarkEntry `json:"entries,omitempty"`
}

// Validate implements Validator.
func (r MarkAttendanceRequest) Validate() []string {
	var errs []string
	if r.EventID == "" {
		errs = append(errs, "eventId is required")
	}
	single := r.UserID != "" || r.Status != ""
	if single && len(r.Entries) > 0 {
		errs = append(errs, "provide either userId/status or entries, not both")
	}
	if !single && len(r.Entries) == 0 {
		errs = append(errs, "userId and status, or entries, are required")
	}
	if single {
		if r.UserID == "" {
			errs = append(errs, "userId is required")
		}
		if r.Status == "" {
			errs = append(errs, "status is required")
		}
	}
	return errs
}

// UpdateAttendanceRequest is the request body for PATCH /attendance/{id}.
type UpdateAttendanceRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (r UpdateAttendanceRequest) Validate() []string {
	if r.Status == "" {
		return []string{"status is required"}
	}
	return nil
}

// AttendanceListResponse wraps an attendance listing.
type AttendanceListResponse struct {
	Attendances []*domain.Attendance `json:"attendances"`
}

// Mark godoc
// @Summary Mark attendance for one user or a batch
// @Description Marks are upserts on (eventId, userId). A batch is applied entry by entry; failures are reported per entry and do not roll back the rest.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MarkAttendanceRequest true "Single mark or batch"
// @Success 201 {object} domain.BulkMarkResult "batch form"
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse "event is closed"
// @Router /attendance [post]
func (c *AttendanceController) Mark(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req MarkAttendanceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if len(req.Entries) > 0 {
		result, err := c.Service.BulkMark(r.Context(), actor, req.EventID, req.Entries)
		if err != nil {
			c.logIfInternal(r, err)
			helpers.WriteDomainError(w, err)
			return
		}
		helpers.WriteJSON(w, http.StatusCreated, result)
		return
	}
	att, err := c.Service.Mark(r.Context(), actor, req.EventID, req.UserID, domain.AttendanceStatus(req.Status))
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, att)
}

// List godoc
// @Summary List attendance records in the caller's scope
// @Description Members get their own rows, admins their domain's rows, super admins everything. Optional eventId, userId, status filters.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventId query string false "Filter by event"
// @Param userId query string false "Filter by user"
// @Param status query string false "Filter by status"
// @Success 200 {object} controllers.AttendanceListResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /attendance [get]
func (c *AttendanceController) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var filter domain.AttendanceFilter
	q := r.URL.Query()
	if v := q.Get("eventId"); v != "" {
		filter.EventID = &v
	}
	if v := q.Get("userId"); v != "" {
		filter.UserID = &v
	}
	if v := q.Get("status"); v != "" {
		status := domain.AttendanceStatus(v)
		if !status.Valid() {
			helpers.WriteError(w, http.StatusBadRequest, "unknown attendance status")
			return
		}
		filter.Status = &status
	}
	attendances, err := c.Service.List(r.Context(), actor, filter)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, AttendanceListResponse{Attendances: attendances})
}

// Get godoc
// @Summary Get a single attendance record
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Success 200 {object} domain.Attendance
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /attendance/{id} [get]
func (c *AttendanceController) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	att, err := c.Service.GetByID(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, att)
}

// Update godoc
// @Summary Change a record's status
// @Description Rejected with 409 while the owning event is closed.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Param body body UpdateAttendanceRequest true "New status"
// @Success 200 {object} domain.Attendance
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /attendance/{id} [patch]
func (c *AttendanceController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req UpdateAttendanceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	att, err := c.Service.UpdateStatus(r.Context(), actor, r.PathValue("id"), domain.AttendanceStatus(req.Status))
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, att)
}

// Delete godoc
// @Summary Delete an attendance record
// @Description Rejected with 409 while the owning event is closed.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /attendance/{id} [delete]
func (c *AttendanceController) Delete(w http.ResponseWriter, r *http.Request) {
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

func (c *AttendanceController) logIfInternal(r *http.Request, err error) {
	if isClientError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
