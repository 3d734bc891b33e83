package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/whitenlighten/practice-gateway/internal/adapters/cache"
	"github.com/whitenlighten/practice-gateway/internal/api/handlers"
	"github.com/whitenlighten/practice-gateway/internal/api/middleware"
	"github.com/whitenlighten/practice-gateway/internal/api/routes"
	"github.com/whitenlighten/practice-gateway/internal/application/services"
	"github.com/whitenlighten/practice-gateway/internal/domain/providers"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/redis"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/renderer"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/observability"
	"github.com/whitenlighten/practice-gateway/pkg/config"
	"github.com/whitenlighten/practice-gateway/pkg/retry"
)

func main() {

	// Load configuration

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize the practice API client and probe it before serving traffic.
	// Requests themselves stay single-attempt, only the startup probe retries.
	apiClient := practiceapi.NewClient(&cfg.Upstream)
	if err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		return apiClient.Ping(ctx)
	}); err != nil {
		logger.Warn().Err(err).Msg("Practice API not reachable at startup, continuing anyway")
	} else {
		logger.Info().Str("base_url", cfg.Upstream.BaseURL).Msg("Practice API client initialized successfully")
	}

	// Initialize Redis client
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without caching")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis client initialized successfully")
	}

	// Initialize the renderer client for PDF export
	rendererClient := renderer.NewClient(&cfg.Renderer)

	// Initialize services

	appointmentService := services.NewAppointmentService(apiClient)
	patientService := services.NewPatientService(apiClient)
	userService := services.NewUserService(apiClient)
	noteService := services.NewClinicalNoteService(apiClient, apiClient)
	auditService := services.NewAuditService(apiClient)
	dashboardService := services.NewDashboardService(
		userService,
		patientService,
		appointmentService,
		auditService,
	)
	pdfService := services.NewPDFService(apiClient, rendererClient)

	// Initialize handlers

	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	patientHandler := handlers.NewPatientHandler(patientService)
	userHandler := handlers.NewUserHandler(userService)
	noteHandler := handlers.NewClinicalNoteHandler(noteService)
	auditHandler := handlers.NewAuditHandler(auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	pdfHandler := handlers.NewPDFHandler(pdfService)

	// Initialize middleware

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, []string{
		"/health",
		"/api/public/appointments",
	})

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		logger.Info().Msg("Cache middleware initialized successfully")
	}

	// Set up router

	router := routes.NewRouter(
		appointmentHandler,
		patientHandler,
		userHandler,
		noteHandler,
		auditHandler,
		dashboardHandler,
		pdfHandler,
		authMiddleware,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	logger.Info().Msg("Server stopped")
}
