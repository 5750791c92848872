package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studypals/studypals/internal/api"
	"github.com/studypals/studypals/internal/config"
	"github.com/studypals/studypals/internal/db"
	"github.com/studypals/studypals/internal/jobs"
	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/notify"
	"github.com/studypals/studypals/internal/repository/sqlite"
	"github.com/studypals/studypals/internal/review"
	"github.com/studypals/studypals/internal/services"
	"github.com/studypals/studypals/internal/srs"
	"github.com/studypals/studypals/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyPals Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("reminder_worker_count=%d", cfg.ReminderWorkerCount)
	log.Debug("reminder_queue_size=%d", cfg.ReminderQueueSize)
	log.Debug("reminder_interval=%v", cfg.ReminderInterval)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	userRepo := sqlite.NewUserRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	reviewRepo := sqlite.NewReviewRepository(database.DB)
	taskRepo := sqlite.NewTaskRepository(database.DB)
	petRepo := sqlite.NewPetRepository(database.DB)

	// Services
	userService := services.NewUserService(userRepo)
	deckService := services.NewDeckService(deckRepo, cardRepo)
	petService := services.NewPetService(petRepo)
	taskService := services.NewTaskService(taskRepo, petService)
	reviewService := services.NewReviewService(reviewRepo)
	statsService := services.NewStatsService(deckRepo, reviewRepo)

	sessions := review.NewManager(reviewRepo, cardRepo, func(ctx context.Context, userID int64, grade srs.Grade) {
		if err := petService.RewardReview(ctx, userID, grade); err != nil {
			logger.FromContext(ctx).Warn("failed to reward pet: %v", err)
		}
	})

	// Background reminder pipeline
	reminderPool := worker.NewPool(cfg.ReminderWorkerCount, cfg.ReminderQueueSize)
	notifier := notify.NewLogNotifier()
	jobQueue := jobs.NewWorkerQueue(reminderPool, userService, reviewService, notifier)

	srv := &api.Server{
		UserService:   userService,
		DeckService:   deckService,
		TaskService:   taskService,
		ReviewService: reviewService,
		StatsService:  statsService,
		PetService:    petService,
		Sessions:      sessions,
		Jobs:          jobQueue,
	}

	ctx, cancel := context.WithCancel(context.Background())
	reminderPool.Start(ctx)
	go jobQueue.RunPeriodic(ctx, cfg.ReminderInterval)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping background workers")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping reminder pool")
	reminderPool.Stop()

	log.Info("===========================================")
	log.Info("StudyPals Server Stopped")
	log.Info("===========================================")
}
