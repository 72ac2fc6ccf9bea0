package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"societyattendance/internal/delivery/http/helpers"
	"societyattendance/internal/delivery/http/middleware"
	"societyattendance/internal/domain"
	"societyattendance/internal/services"
)

// AuthController serves signup, signin, signout, and the current-user lookup.
type AuthController struct {
	Logger      *slog.Logger
	Service     domain.AuthService
	TokenExpiry time.Duration
	Secure      bool // set the session cookie's Secure flag
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, tokenExpiry time.Duration, secure bool) *AuthController {
	return &AuthController{
		Logger:      logger,
		Service:     svc,
		TokenExpiry: tokenExpiry,
		Secure:      secure,
	}
}

// SignUpRequest is the request body for POST /auth/signup.
type SignUpRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	PersonalEmail string  `json:"personalEmail,omitempty"`
	Roll          string  `json:"roll"`
	Password      string  `json:"password"`
	Role          string  `json:"role,omitempty"`
	DomainID      *string `json:"domainId,omitempty"`
}

// Validate implements Validator.
func (r SignUpRequest) Validate() []string {
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
	if r.Role == string(domain.RoleAdmin) && r.DomainID == nil {
		errs = append(errs, "domainId is required for admin signup")
	}
	return errs
}

// UserResponse wraps a single user.
type UserResponse struct {
	User *domain.User `json:"user"`
}

// SignInResponse is the response body for POST /auth/signin.
type SignInResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// SignUp godoc
// @Summary Sign up
// @Description Creates an account for an email that holds a verified OTP. The code is consumed on success.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Signup data"
// @Success 201 {object} controllers.UserResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SignUp(r.Context(), domain.SignUpInput{
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

// SignInRequest is the request body for POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (r SignInRequest) Validate() []string {
	var errs []string
	if r.Email == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// SignIn godoc
// @Summary Sign in
// @Description Verifies credentials and returns the user with a session token. Also sets an HTTP-only session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignInRequest true "Credentials"
// @Success 200 {object} controllers.SignInResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /auth/signin [post]
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, token, err := c.Service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			helpers.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	helpers.WriteJSON(w, http.StatusOK, SignInResponse{User: user, Token: token})
}

// SignOut godoc
// @Summary Sign out
// @Description Clears the session cookie. Bearer tokens simply expire.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /auth/signout [post]
func (c *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	helpers.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, UserResponse{User: user})
}

func (c *AuthController) logIfInternal(r *http.Request, err error) {
	if isClientError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
