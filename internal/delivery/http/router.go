package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"societyattendance/internal/delivery/http/controllers"
	"societyattendance/internal/delivery/http/middleware"
	"societyattendance/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	verifier domain.TokenVerifier,
	users domain.UserRepository,
	auth *controllers.AuthController,
	otp *controllers.OtpController,
	domains *controllers.DomainController,
	events *controllers.EventController,
	attendance *controllers.AttendanceController,
	user *controllers.UserController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, users)

	// Auth
	mux.HandleFunc("POST /auth/signup", auth.SignUp)
	mux.HandleFunc("POST /auth/signin", auth.SignIn)
	mux.HandleFunc("POST /auth/signout", auth.SignOut)
	mux.HandleFunc("GET /auth/me", requireAuth(auth.Me))

	// OTP (pre-signup, unauthenticated)
	mux.HandleFunc("POST /otp/send", otp.Send)
	mux.HandleFunc("POST /otp/resend", otp.Resend)
	mux.HandleFunc("POST /otp/verify", otp.Verify)

	// Domains
	mux.HandleFunc("GET /domains", requireAuth(domains.List))
	mux.HandleFunc("POST /domains", requireAuth(domains.Create))
	mux.HandleFunc("GET /domains/{id}", requireAuth(domains.Get))
	mux.HandleFunc("DELETE /domains/{id}", requireAuth(domains.Delete))

	// Events
	mux.HandleFunc("GET /events", requireAuth(events.List))
	mux.HandleFunc("POST /events", requireAuth(events.Create))
	mux.HandleFunc("GET /events/{id}", requireAuth(events.Get))
	mux.HandleFunc("PATCH /events/{id}", requireAuth(events.Update))
	mux.HandleFunc("POST /events/{id}/close", requireAuth(events.Close))
	mux.HandleFunc("POST /events/{id}/open", requireAuth(events.Open))
	mux.HandleFunc("GET /events/{id}/attendance", requireAuth(events.Attendance))

	// Attendance
	mux.HandleFunc("POST /attendance", requireAuth(attendance.Mark))
	mux.HandleFunc("GET /attendance", requireAuth(attendance.List))
	mux.HandleFunc("GET /attendance/{id}", requireAuth(attendance.Get))
	mux.HandleFunc("PATCH /attendance/{id}", requireAuth(attendance.Update))
	mux.HandleFunc("DELETE /attendance/{id}", requireAuth(attendance.Delete))

	// Users
	mux.HandleFunc("GET /users", requireAuth(user.List))
	mux.HandleFunc("POST /users", requireAuth(user.Create))
	mux.HandleFunc("GET /users/{id}", requireAuth(user.Get))
	mux.HandleFunc("PATCH /users/{id}", requireAuth(user.Update))
	mux.HandleFunc("DELETE /users/{id}", requireAuth(user.Delete))
	mux.HandleFunc("GET /users/{id}/attendance", requireAuth(user.Stats))
	mux.HandleFunc("GET /members", requireAuth(user.Members))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
