package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/time/rate"

	"github.com/courtside/tournament-api/auth"
	"github.com/courtside/tournament-api/config"
	"github.com/courtside/tournament-api/db"
	"github.com/courtside/tournament-api/handlers"
	"github.com/courtside/tournament-api/live"
	"github.com/courtside/tournament-api/metrics"
	"github.com/courtside/tournament-api/middleware"
	"github.com/courtside/tournament-api/repositories"
	"github.com/courtside/tournament-api/routes"
	"github.com/courtside/tournament-api/services"
	"github.com/courtside/tournament-api/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Error("failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database schema up to date")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live event hub started")

	tokens := auth.NewTokenManager(cfg.AuthTokenSecret, cfg.AccessTokenSecret, cfg.AppName, cfg.Issuer)

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	coachRepo := repositories.NewPostgresCoachRepository(dbConn)
	divisionRepo := repositories.NewPostgresDivisionRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, teamRepo, userRepo, hub, logger)
	teamService := services.NewTeamService(teamRepo, tournamentRepo, divisionRepo, uploader)
	playerService := services.NewPlayerService(playerRepo)
	coachService := services.NewCoachService(coachRepo, teamRepo)
	divisionService := services.NewDivisionService(divisionRepo, tournamentRepo)
	logger.Info("services initialized")

	collector := metrics.NewCollector()
	authGuard := middleware.NewAuth(tokens, userRepo, logger)
	// 5 requests per second with a burst of 10 per client IP on the
	// credential endpoints.
	authLimiter := middleware.NewRateLimiter(rate.Limit(5), 10)
	defer authLimiter.Stop()

	router := routes.InitRoutes(routes.Deps{
		Auth:        authGuard,
		AuthLimiter: authLimiter,
		Collector:   collector,

		AuthHandler:       handlers.NewAuthHandler(authService, tokens),
		TournamentHandler: handlers.NewTournamentHandler(tournamentService),
		TeamHandler:       handlers.NewTeamHandler(teamService),
		PlayerHandler:     handlers.NewPlayerHandler(playerService),
		CoachHandler:      handlers.NewCoachHandler(coachService),
		DivisionHandler:   handlers.NewDivisionHandler(divisionService),
		LiveHandler:       handlers.NewLiveHandler(hub, logger),
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
