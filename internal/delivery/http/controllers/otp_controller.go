package controllers

import (
	"log/slog"
	"net/http"

	"societyattendance/internal/delivery/http/helpers"
	"societyattendance/internal/domain"
)

// OtpController serves the pre-signup email verification endpoints.
type OtpController struct {
	Logger  *slog.Logger
	Service domain.OtpService
}

func NewOtpController(logger *slog.Logger, svc domain.OtpService) *OtpController {
	return &OtpController{Logger: logger, Service: svc}
}

// SendOtpRequest is the request body for POST /otp/send and /otp/resend.
type SendOtpRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Validate implements Validator.
func (r SendOtpRequest) Validate() []string {
	if r.Email == "" {
		return []string{"email is required"}
	}
	return nil
}

// SendOtpResponse is the response body for POST /otp/send.
type SendOtpResponse struct {
	ExpiresIn int `json:"expiresIn"`
}

// VerifyOtpRequest is the request body for POST /otp/verify.
type VerifyOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

// Validate implements Validator.
func (r VerifyOtpRequest) Validate() []string {
	var errs []string
	if r.Email == "" {
		errs = append(errs, "email is required")
	}
	if r.Otp == "" {
		errs = append(errs, "otp is required")
	}
	return errs
}

// VerifyOtpResponse is the response body for POST /otp/verify.
type VerifyOtpResponse struct {
	Verified bool `json:"verified"`
}

// Send godoc
// @Summary Send a verification code
// @Description Emails a one-time code to an address not yet registered. Replaces any pending code for the address.
// @Tags otp
// @Accept json
// @Produce json
// @Param body body SendOtpRequest true "Recipient"
// @Success 200 {object} controllers.SendOtpResponse "expiresIn is in minutes"
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /otp/send [post]
func (c *OtpController) Send(w http.ResponseWriter, r *http.Request) {
	var req SendOtpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Send(r.Context(), req.Email, req.Name); err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SendOtpResponse{ExpiresIn: 10})
}

// Resend godoc
// @Summary Resend the verification code
// @Description Like send, but rejected with 429 while the previous code is under a minute old.
// @Tags otp
// @Accept json
// @Produce json
// @Param body body SendOtpRequest true "Recipient"
// @Success 200 {object} controllers.SendOtpResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 429 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /otp/resend [post]
func (c *OtpController) Resend(w http.ResponseWriter, r *http.Request) {
	var req SendOtpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Resend(r.Context(), req.Email, req.Name); err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SendOtpResponse{ExpiresIn: 10})
}

// Verify godoc
// @Summary Verify a code
// @Description Marks the matching unverified code as verified, unlocking signup for the email.
// @Tags otp
// @Accept json
// @Produce json
// @Param body body VerifyOtpRequest true "Email and code"
// @Success 200 {object} controllers.VerifyOtpResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /otp/verify [post]
func (c *OtpController) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyOtpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Verify(r.Context(), req.Email, req.Otp); err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, VerifyOtpResponse{Verified: true})
}

func (c *OtpController) logIfInternal(r *http.Request, err error) {
	if isClientError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
