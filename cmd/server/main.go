package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"societyattendance/config"
	_ "societyattendance/docs"
	"societyattendance/internal/adapters/auth"
	"societyattendance/internal/adapters/email"
	httpdelivery "societyattendance/internal/delivery/http"
	"societyattendance/internal/delivery/http/controllers"
	"societyattendance/internal/delivery/http/middleware"
	"societyattendance/internal/repository/postgres"
	"societyattendance/internal/services"
)

// @title Society Attendance API
// @version 1.0
// @description Attendance tracking for society events with domain-scoped roles.
// @BasePath /
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	domainRepo := postgres.NewDomainRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	otpRepo := postgres.NewOtpRepository(db)

	hasher := auth.NewBcryptHasher(auth.DefaultBcryptCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	emailService := services.NewEmailService(mailer, renderer)
	otpService := services.NewOtpService(otpRepo, userRepo, emailService)
	authService := services.NewAuthService(userRepo, otpService, emailService, hasher, tokenIssuer, cfg.JWTExpiry)
	userService := services.NewUserService(userRepo, domainRepo, hasher)
	domainService := services.NewDomainService(domainRepo, userRepo, eventRepo)
	eventService := services.NewEventService(eventRepo, domainRepo)
	attendanceService := services.NewAttendanceService(attendanceRepo, eventRepo, userRepo)

	secureCookies := cfg.Environment == "production"
	authController := controllers.NewAuthController(logger, authService, cfg.JWTExpiry, secureCookies)
	otpController := controllers.NewOtpController(logger, otpService)
	domainController := controllers.NewDomainController(logger, domainService)
	eventController := controllers.NewEventController(logger, eventService, attendanceService)
	attendanceController := controllers.NewAttendanceController(logger, attendanceService)
	userController := controllers.NewUserController(logger, userService, attendanceService, domainRepo)

	mux := httpdelivery.NewRouter(
		tokenVerifier,
		userRepo,
		authController,
		otpController,
		domainController,
		eventController,
		attendanceController,
		userController,
	)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Purge expired OTP rows in the background so abandoned signups
	// don't accumulate.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				n, err := otpService.CleanupExpired(rootCtx)
				if err != nil {
					logger.Error("otp cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Info("purged expired otps", "count", n)
				}
			}
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
