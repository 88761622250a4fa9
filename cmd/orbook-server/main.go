package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/orbook/orbook/internal/config"
	"github.com/orbook/orbook/internal/domain/backlog"
	"github.com/orbook/orbook/internal/domain/importer"
	"github.com/orbook/orbook/internal/domain/schedule"
	"github.com/orbook/orbook/internal/platform/auth"
	"github.com/orbook/orbook/internal/platform/db"
	"github.com/orbook/orbook/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbook-server",
		Short: "Operating-room waiting-list and scheduling API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduling API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()
			return db.Migrate(ctx, pool)
		},
	})
	return cmd
}

// backlogSink feeds imported rows into the backlog service.
type backlogSink struct {
	svc *backlog.Service
}

func (s *backlogSink) CreateItem(ctx context.Context, item importer.NewItem) error {
	_, err := s.svc.Create(ctx, backlog.ItemInput{
		PatientName:    item.PatientName,
		MRN:            item.MRN,
		CaseTypeID:     item.CaseTypeID,
		Procedure:      item.Procedure,
		EstDurationMin: item.EstDurationMin,
		SurgeonID:      item.SurgeonID,
	})
	return err
}

// backlogCases resolves waiting-list items for schedule exports.
type backlogCases struct {
	svc *backlog.Service
}

func (r *backlogCases) CaseInfo(ctx context.Context, itemID string) (schedule.CaseInfo, error) {
	item, err := r.svc.Get(ctx, itemID)
	if err != nil {
		return schedule.CaseInfo{}, err
	}
	return schedule.CaseInfo{PatientName: item.PatientName, MaskedMRN: item.MaskedMRN}, nil
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Repositories: in-memory reference store or durable postgres store.
	var (
		backlogRepo  backlog.Repository
		scheduleRepo schedule.Repository
		batchRepo    importer.BatchRepository
		profileRepo  importer.ProfileRepository
	)
	switch cfg.Store {
	case config.StorePostgres:
		ctx := context.Background()
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")
		backlogRepo = backlog.NewPGRepo(pool)
		scheduleRepo = schedule.NewPGRepo(pool)
		batchRepo = importer.NewPGBatchRepo(pool)
		profileRepo = importer.NewPGProfileRepo(pool)
	default:
		logger.Info().Msg("using in-memory store")
		backlogRepo = backlog.NewMemRepo()
		scheduleRepo = schedule.NewMemRepo()
		batchRepo = importer.NewMemBatchRepo()
		profileRepo = importer.NewMemProfileRepo()
	}

	// Services
	backlogSvc := backlog.NewService(backlogRepo)
	scheduleSvc := schedule.NewService(scheduleRepo)
	importSvc := importer.NewService(batchRepo, profileRepo, &backlogSink{svc: backlogSvc})

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() && cfg.JWTSecret == "" {
		logger.Warn().Msg("development mode: all requests are granted the scheduler role")
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
		}))
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Domain routes
	apiV1 := e.Group("/api/v1")
	backlog.NewHandler(backlogSvc).RegisterRoutes(apiV1)
	schedule.NewHandler(scheduleSvc, &backlogCases{svc: backlogSvc}).RegisterRoutes(apiV1)
	importer.NewHandler(importSvc).RegisterRoutes(apiV1)

	// Serve with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}
	return nil
}
