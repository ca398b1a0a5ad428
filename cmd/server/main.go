package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/estatedesk/internal/ai"
	"github.com/stwalsh4118/estatedesk/internal/config"
	"github.com/stwalsh4118/estatedesk/internal/handlers"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/repository"
	"github.com/stwalsh4118/estatedesk/internal/services"
	"github.com/stwalsh4118/estatedesk/internal/storage"
)

const (
	shutdownTimeout = 30 * time.Second
	feedLimit       = 100
)

func main() {
	// Load configuration from .env and environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env).WithLevel(cfg.Server.LogLevel)
	log.Info("Starting EstateDesk API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"storage":     cfg.Storage.Driver,
	})

	// Open the key-value store
	ctx := context.Background()
	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open storage", err, map[string]interface{}{
			"driver": cfg.Storage.Driver,
		})
	}
	defer closeStore()

	log.Info("Storage ready", map[string]interface{}{
		"driver": cfg.Storage.Driver,
	})

	loc := cfg.Scheduler.Location()
	now := services.OfficeClock(loc)

	// Initialize repository and service layers
	ids := repository.NewIDGenerator()
	propertyRepo := repository.NewPropertyRepository(store, ids, log)
	clientRepo := repository.NewClientRepository(store, ids, log)
	taskRepo := repository.NewTaskRepository(store, ids, log)
	commissionRepo := repository.NewCommissionRepository(store, ids, log)
	userRepo := repository.NewUserRepository(store, ids, log, now)
	savedSearchRepo := repository.NewSavedSearchRepository(store, ids, log)

	gen := ai.NewGemini(cfg.AI.Timeout, log)
	feed := services.NewNotificationFeed(feedLimit)

	settingsService := services.NewSettingsService(store, gen, services.AIModels{
		Text:  cfg.AI.TextModel,
		Image: cfg.AI.ImageModel,
	}, log)
	propertyService := services.NewPropertyService(propertyRepo, now, log)
	clientService := services.NewClientService(clientRepo, ids, now, log)
	taskService := services.NewTaskService(taskRepo, feed, loc, log)
	commissionService := services.NewCommissionService(commissionRepo, log)
	userService := services.NewUserService(userRepo, now, log)
	savedSearchService := services.NewSavedSearchService(savedSearchRepo, log)
	backupService := services.NewBackupService(store, log)
	assistantService := services.NewAssistantService(gen, settingsService, propertyRepo, clientRepo, userRepo, log)
	dashboardService := services.NewDashboardService(
		propertyService,
		clientService,
		taskService,
		commissionService,
		userService,
		savedSearchService,
		settingsService,
		feed,
		now,
		log,
	)

	// Start the reminder due-check loop
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	scheduler := services.NewReminderScheduler(taskRepo, clientRepo, settingsService, feed, cfg.Scheduler.Interval, loc, now, log)
	go scheduler.Run(schedulerCtx)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(log, handlers.RouterConfig{
		CORSOrigins:  cfg.CORS.Origins,
		ActiveUserID: cfg.Office.ActiveUserID,
	}, handlers.Handlers{
		Health:        handlers.NewHealthHandler(store, cfg.Storage.Driver, cfg.Server.Env),
		Properties:    handlers.NewPropertyHandler(propertyService, assistantService),
		Clients:       handlers.NewClientHandler(clientService),
		Tasks:         handlers.NewTaskHandler(taskService, assistantService, now),
		Commissions:   handlers.NewCommissionHandler(commissionService),
		Users:         handlers.NewUserHandler(userService),
		SavedSearches: handlers.NewSavedSearchHandler(savedSearchService),
		Settings:      handlers.NewSettingsHandler(settingsService),
		Assistant:     handlers.NewAssistantHandler(assistantService),
		Dashboard:     handlers.NewDashboardHandler(dashboardService, feed),
		Calendar:      handlers.NewCalendarHandler(now),
		Backup:        handlers.NewBackupHandler(backupService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
