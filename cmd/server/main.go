package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/micahlt/scratchverifier/internal/config"
	"github.com/micahlt/scratchverifier/internal/database"
	"github.com/micahlt/scratchverifier/internal/handler"
	"github.com/micahlt/scratchverifier/internal/jobs"
	"github.com/micahlt/scratchverifier/internal/middleware"
	"github.com/micahlt/scratchverifier/internal/redis"
	"github.com/micahlt/scratchverifier/internal/scratch"
	"github.com/micahlt/scratchverifier/internal/service"
	"github.com/micahlt/scratchverifier/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	setLogLevel(cfg.LogLevel)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Str("path", cfg.DatabasePath).Msg("database opened")

	scratchClient := scratch.NewClient(cfg.ScratchAPIBaseURL, cfg.ScratchSiteBaseURL)
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		scratchClient = scratchClient.WithCache(redisClient.Client, cfg.ProfileCacheTTL())
		log.Info().Msg("redis profile cache enabled")
	}

	credStore := store.New(db, cfg.SessionTTL(), cfg.VerifyTTL())

	sessionService := service.NewSessionService(credStore)
	challengeService := service.NewChallengeService(credStore)
	clientService := service.NewClientService(credStore, scratchClient)
	verifierService := service.NewVerifierService(challengeService, scratchClient)
	auditService := service.NewAuditService(credStore)

	authMiddleware := middleware.NewAuthMiddleware(clientService)

	verifyHandler := handler.NewVerifyHandler(challengeService, verifierService, scratchClient)
	userHandler := handler.NewUserHandler(sessionService, challengeService, verifierService, scratchClient)
	sessionHandler := handler.NewSessionHandler(sessionService, clientService)
	logsHandler := handler.NewLogsHandler(auditService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/verify", func(r chi.Router) {
		r.Use(authMiddleware.Handler)
		r.Mount("/", verifyHandler.Routes())
	})

	r.Route("/users", func(r chi.Router) {
		r.Mount("/", userHandler.Routes())
	})

	r.Route("/session", func(r chi.Router) {
		r.Mount("/", sessionHandler.Routes())
	})

	r.Route("/usage/logs", func(r chi.Router) {
		r.Mount("/", logsHandler.Routes())
	})

	cleanupJob := jobs.NewCleanupJob(credStore, cfg.CleanupInterval())
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     r,
		ReadTimeout: config.ServerReadTimeout,
		IdleTimeout: config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
