package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/config"
	"github.com/wawa-academy/erp-server/internal/database"
	"github.com/wawa-academy/erp-server/internal/handler"
	"github.com/wawa-academy/erp-server/internal/logger"
	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/notion"
	"github.com/wawa-academy/erp-server/internal/repository"
	"github.com/wawa-academy/erp-server/internal/router"
	"github.com/wawa-academy/erp-server/internal/service"
	"github.com/wawa-academy/erp-server/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting WAWA ERP backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Metrics ───────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	notionMetrics := notion.NewMetrics(registry)

	// ─── Initialize Repositories ───────────────────────────────────────
	workspaceRepo := repository.NewWorkspaceRepository(pool)
	preferenceRepo := repository.NewPreferenceRepository(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	newClient := func(ws *model.Workspace) (*notion.Client, error) {
		return notion.New(ws,
			notion.WithBaseURL(cfg.NotionBaseURL),
			notion.WithVersion(cfg.NotionVersion),
			notion.WithTimeout(cfg.NotionTimeout),
			notion.WithMetrics(notionMetrics),
		)
	}
	workspaceService := service.NewWorkspaceService(workspaceRepo, newClient, log)
	sessions := service.NewSessionController(ctx, preferenceRepo, cfg.JWTExpiry, log)
	defer sessions.Close()

	// Every workspace that becomes current starts a fresh roster fetch and
	// ends whatever session the previous one had.
	workspaceService.OnReady(func(ws *model.Workspace, client *notion.Client) {
		sessions.Bootstrap(service.NewNotionTeacherDirectory(client))
	})

	authService := service.NewAuthService(cfg)
	bus := service.NewMessageBus(rdb)
	studentService := service.NewStudentService(workspaceService)
	scoreService := service.NewScoreService(workspaceService)
	messageService := service.NewMessageService(workspaceService, bus, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Setup:      handler.NewSetupHandler(workspaceService, sessions, cfg.MaxConfigBytes, log),
		Auth:       handler.NewAuthHandler(authService, sessions, log),
		Preference: handler.NewPreferenceHandler(service.NewPreferenceService(preferenceRepo), log),
		Student:    handler.NewStudentHandler(studentService, log),
		Score:      handler.NewScoreHandler(scoreService, log),
		Report:     handler.NewReportHandler(service.NewReportService(studentService, scoreService, log), log),
		Schedule:   handler.NewScheduleHandler(service.NewScheduleService(workspaceService, log), log),
		Makeup:     handler.NewMakeupHandler(service.NewMakeupService(workspaceService), log),
		Message:    handler.NewMessageHandler(messageService, log),
		WS:         handler.NewWSHandler(bus, messageService, sessions, log, cfg.AllowedOrigins),
		Bridge:     handler.NewBridgeHandler(workspaceService, log),
	}

	// ─── Restore Persisted Workspace ──────────────────────────────────
	// A stored document skips the upload screen; the roster fetch starts
	// before the first request arrives.
	if ws, err := workspaceService.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("Workspace restore failed, awaiting upload")
	} else if ws == nil {
		log.Info().Msg("No workspace stored, awaiting upload")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, sessions, workspaceService, handlers, registry, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	ln, err := net.Listen("tcp", "127.0.0.1:"+cfg.ServerPort)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}
	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		addr := ln.Addr().String()
		log.Info().Str("addr", addr).Msg("Server listening")
		// The desktop shell reads this line to find the API.
		fmt.Fprintf(os.Stdout, "LISTENING %s\n", addr)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	// Stops rate limiter sweeps and any roster fetch still in flight.
	cancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
