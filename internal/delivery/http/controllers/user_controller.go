package controllers

import (
	"log/slog"
	"net/http"

	"societyattendance/internal/authz"
	"societyattendance/internal/delivery/http/helpers"
	"societyattendance/internal/delivery/http/middleware"
	"societyattendance/internal/domain"
)

// UserController serves the user directory and per-user stats endpoints.
type UserController struct {
	Logger      *slog.Logger
	Users       domain.UserService
	Attendances domain.AttendanceService
	Domains     domain.DomainRepository
}

func NewUserController(logger *slog.Logger, users domain.UserService, attendances domain.AttendanceService, domains domain.DomainRepository) *UserController {
	return &UserController{
		Logger:      logger,
		Users:       users,
		Attendances: attendances,
		Domains:     domains,
	}
}

// CreateUserRequest is the request body for POST /users.
type CreateUserRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	PersonalEmail string  `json:"personalEmail,omitempty"`
	Roll          string  `json:"roll"`
	Password      string  `json:"password"`
	Role          string  `json:"role,omitempty"`
	DomainID      *string `json:"domainId,omitempty"`
}

// Validate implements Validator.
func (r CreateUserRequest) Validate() []string {
	var errs []string
	if r.Name == "" {
		errs = append(errs, "name is required")
	}
	if r.Email == "" {
		errs = append(errs, "email is required")
	}
	if r.Roll == "" {
		errs = append(errs, "roll is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// UpdateUserRequest is the request body for PATCH /users/{id}.
type UpdateUserRequest struct {
	Name     *string  `json:"name,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Roll     *string  `json:"roll,omitempty"`
	Role     *string  `json:"role,omitempty"`
	DomainID **string `json:"domainId,omitempty"`
}

// UserListResponse wraps the user listing.
type UserListResponse struct {
	Users []*domain.User `json:"users"`
}

// List godoc
// @Summary List users in the caller's scope
// @Description Admins are pinned to their own domain. Optional domainId, role, and q (substring) filters.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param domainId query string false "Filter by domain"
// @Param role query string false "Filter by role"
// @Param q query string false "Substring match on name, emails, roll"
// @Success 200 {object} controllers.UserListResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /users [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var filter domain.UserFilter
	q := r.URL.Query()
	if v := q.Get("domainId"); v != "" {
		filter.DomainID = &v
	}
	if v := q.Get("role"); v != "" {
		role := domain.Role(v)
		if !role.Valid() {
			helpers.WriteError(w, http.StatusBadRequest, "unknown role")
			return
		}
		filter.Role = &role
	}
	filter.Query = q.Get("q")

	users, err := c.Users.List(r.Context(), actor, filter)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, UserListResponse{Users: users})
}

// Create godoc
// @Summary Create a user
// @Description Admin-driven creation; bypasses the OTP gate that guards self-signup. Admins may only create members in their own domain.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateUserRequest true "User data"
// @Success 201 {object} controllers.UserResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /users [post]
func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req CreateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Users.Create(r.Context(), actor, domain.CreateUserInput{
		Name:          req.Name,
		Email:         req.Email,
		PersonalEmail: req.PersonalEmail,
		Roll:          req.Roll,
		Password:      req.Password,
		Role:          domain.Role(req.Role),
		DomainID:      req.DomainID,
	})
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, UserResponse{User: user})
}

// Get godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} controllers.UserResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	user, err := c.Users.GetByID(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, UserResponse{User: user})
}

// Update godoc
// @Summary Update a user
// @Description Members may edit their own profile; role changes are super-admin only and a promotion to SUPER_ADMIN forces domainId to null. Disallowed fields are dropped, not rejected.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body UpdateUserRequest true "Fields to change"
// @Success 200 {object} controllers.UserResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /users/{id} [patch]
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req UpdateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	var role *domain.Role
	if req.Role != nil {
		v := domain.Role(*req.Role)
		role = &v
	}
	user, err := c.Users.Update(r.Context(), actor, r.PathValue("id"), domain.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Roll:     req.Roll,
		Role:     role,
		DomainID: req.DomainID,
	})
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, UserResponse{User: user})
}

// Delete godoc
// @Summary Delete a user
// @Description Super admins only, and never their own account.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /users/{id} [delete]
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := c.Users.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Stats godoc
// @Summary Get a user's attendance statistics
// @Description Includes the attendance percentage over applicable events, rounded to two decimals.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} domain.UserAttendanceStats
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /users/{id}/attendance [get]
func (c *UserController) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	stats, err := c.Attendances.StatsForUser(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, stats)
}

// MembersResponse is the response body for GET /members. Exactly one of the
// fields is populated depending on the caller's role.
type MembersResponse struct {
	Domains []*domain.DomainSummary `json:"domains,omitempty"`
	Members []*domain.User          `json:"members,omitempty"`
}

// Members godoc
// @Summary Members dashboard
// @Description Super admins get every domain with its member count; admins get their own domain's member list.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MembersResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Router /members [get]
func (c *UserController) Members(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if d := authz.CanViewMembers(actor); !d.Allowed {
		helpers.WriteError(w, http.StatusForbidden, d.Reason)
		return
	}
	if actor.Role == domain.RoleSuperAdmin {
		domains, err := c.Domains.ListWithMemberCounts(r.Context())
		if err != nil {
			c.logIfInternal(r, err)
			helpers.WriteDomainError(w, err)
			return
		}
		helpers.WriteJSON(w, http.StatusOK, MembersResponse{Domains: domains})
		return
	}
	members, err := c.Users.List(r.Context(), actor, domain.UserFilter{})
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, MembersResponse{Members: members})
}

func (c *UserController) logIfInternal(r *http.Request, err error) {
	if isClientError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
