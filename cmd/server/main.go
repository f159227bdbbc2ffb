package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/samsapp/sams-backend/internal/config"
	"github.com/samsapp/sams-backend/internal/database"
	"github.com/samsapp/sams-backend/internal/handler"
	"github.com/samsapp/sams-backend/internal/logger"
	"github.com/samsapp/sams-backend/internal/repository"
	"github.com/samsapp/sams-backend/internal/router"
	"github.com/samsapp/sams-backend/internal/service"
	"github.com/samsapp/sams-backend/internal/validator"
	"github.com/samsapp/sams-backend/internal/worker"
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
		Msg("Starting SAMS Backend")

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

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	codeRepo := repository.NewCodeRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	userService := service.NewUserService(userRepo, cfg, log)
	codeService := service.NewCodeService(userRepo, codeRepo, cfg, log)
	attendanceService := service.NewAttendanceService(userRepo, codeService, attendanceRepo, log)
	reportService := service.NewReportService(reportRepo, userRepo, rdb, cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(userService),
		Code:       handler.NewCodeHandler(codeService),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		User:       handler.NewUserHandler(userService),
		Report:     handler.NewReportHandler(reportService, cfg),
		System:     handler.NewSystemHandler(pool, rdb),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	// Expiry is enforced on every lookup; the sweep is an optional tidy
	// pass and only runs when EXPIRY_SWEEP_MINUTES is set.
	workerCtx, workerCancel := context.WithCancel(context.Background())

	if cfg.ExpirySweepInterval > 0 {
		expiryWorker := worker.NewExpiryWorker(codeRepo, cfg.ExpirySweepInterval, log)
		go expiryWorker.Start(workerCtx)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
