package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/wexxqt/ecatsulta-api/config"
	"github.com/wexxqt/ecatsulta-api/internal/handler"
	appointmentHandler "github.com/wexxqt/ecatsulta-api/internal/handler/appointment"
	authHandler "github.com/wexxqt/ecatsulta-api/internal/handler/auth"
	doctorHandler "github.com/wexxqt/ecatsulta-api/internal/handler/doctor"
	passkeyHandler "github.com/wexxqt/ecatsulta-api/internal/handler/passkey"
	patientHandler "github.com/wexxqt/ecatsulta-api/internal/handler/patient"
	verificationHandler "github.com/wexxqt/ecatsulta-api/internal/handler/verification"
	"github.com/wexxqt/ecatsulta-api/internal/middleware"
	"github.com/wexxqt/ecatsulta-api/internal/repository/postgres"
	"github.com/wexxqt/ecatsulta-api/internal/router"
	appointmentService "github.com/wexxqt/ecatsulta-api/internal/service/appointment"
	doctorService "github.com/wexxqt/ecatsulta-api/internal/service/doctor"
	noteService "github.com/wexxqt/ecatsulta-api/internal/service/note"
	passkeyService "github.com/wexxqt/ecatsulta-api/internal/service/passkey"
	patientService "github.com/wexxqt/ecatsulta-api/internal/service/patient"
	verificationService "github.com/wexxqt/ecatsulta-api/internal/service/verification"
	"github.com/wexxqt/ecatsulta-api/pkg/auth"
	"github.com/wexxqt/ecatsulta-api/pkg/metrics"
	"github.com/wexxqt/ecatsulta-api/pkg/security"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	passkeyRepo := postgres.NewPasskeyRepository(db)
	noteRepo := postgres.NewPatientNoteRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Initialize services
	appMetrics := metrics.NewMetrics("ecatsulta", "api")
	sessionSvc := auth.NewSessionService(auth.Config{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
	})
	patientSvc := patientService.NewService(patientRepo)
	noteSvc := noteService.NewService(noteRepo, patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, outboxRepo)
	doctorSvc := doctorService.NewService(cfg.Doctors, appointmentRepo)
	passkeySvc := passkeyService.NewService(
		passkeyRepo,
		security.NewBcryptHasher(0),
		cfg.RolePasskeys(),
	)
	verificationSvc := verificationService.NewService(appointmentRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionSvc)

	// Initialize handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(passkeySvc, sessionSvc, appMetrics)
	patientH := patientHandler.NewHandler(patientSvc, noteSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, appMetrics)
	verificationH := verificationHandler.NewHandler(verificationSvc, appMetrics)
	doctorH := doctorHandler.NewHandler(doctorSvc)
	passkeyH := passkeyHandler.NewHandler(passkeySvc)

	routerCfg := router.Config{
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "ecatsulta_api",
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerCfg.RateBurst = cfg.RateLimit.Burst
	}

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		authH,
		patientH,
		appointmentH,
		verificationH,
		doctorH,
		passkeyH,
		h,
		routerCfg,
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
