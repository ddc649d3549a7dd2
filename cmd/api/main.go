package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jason-govender/salesflow-api/internal/auth"
	"github.com/jason-govender/salesflow-api/internal/config"
	"github.com/jason-govender/salesflow-api/internal/database"
	"github.com/jason-govender/salesflow-api/internal/directory"
	"github.com/jason-govender/salesflow-api/internal/http/handler"
	"github.com/jason-govender/salesflow-api/internal/http/middleware"
	"github.com/jason-govender/salesflow-api/internal/http/router"
	"github.com/jason-govender/salesflow-api/internal/jobs"
	"github.com/jason-govender/salesflow-api/internal/logger"
	"github.com/jason-govender/salesflow-api/internal/repository"
	"github.com/jason-govender/salesflow-api/internal/service"
	"github.com/jason-govender/salesflow-api/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Full configuration with secrets. Development reads environment
	// variables; staging and production resolve Azure Key Vault.
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Directory connection is optional; the app runs without it and users
	// simply stop syncing.
	var dirClient *directory.Client
	if cfg.Directory.Enabled {
		dirClient, err = directory.NewClient(&cfg.Directory, log)
		if err != nil {
			log.Warn("directory connection failed, continuing without it", zap.Error(err))
		}
	} else {
		log.Info("directory not configured, skipping")
	}

	// Repositories
	clientRepo := repository.NewClientRepository(db)
	opportunityRepo := repository.NewOpportunityRepository(db)
	historyRepo := repository.NewStageHistoryRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	itemRepo := repository.NewProposalItemRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	clientService := service.NewClientService(clientRepo, log)
	opportunityService := service.NewOpportunityService(opportunityRepo, historyRepo, userRepo, activityRepo, log)
	proposalService := service.NewProposalService(proposalRepo, itemRepo, opportunityRepo, activityRepo, notificationRepo, log)
	documentService := service.NewDocumentService(documentRepo, proposalRepo, fileStorage, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	userService := service.NewUserService(userRepo, dirClient, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	ownerFilterMiddleware := middleware.NewOwnerFilterMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(log)
	clientHandler := handler.NewClientHandler(clientService, log)
	opportunityHandler := handler.NewOpportunityHandler(opportunityService, log)
	proposalHandler := handler.NewProposalHandler(proposalService, log)
	documentHandler := handler.NewDocumentHandler(documentService, &cfg.Storage, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	userHandler := handler.NewUserHandler(userService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		ownerFilterMiddleware,
		rateLimiter,
		authHandler,
		clientHandler,
		opportunityHandler,
		proposalHandler,
		documentHandler,
		notificationHandler,
		userHandler,
	)

	// Background jobs
	scheduler := jobs.NewScheduler(log)

	expiryJob := jobs.NewProposalExpiryJob(proposalService, log, cfg.Jobs.JobTimeoutDuration())
	if err := scheduler.AddJob(jobs.ProposalExpiryJobName, cfg.Jobs.ProposalExpiryCron, expiryJob.Run); err != nil {
		log.Error("failed to register proposal expiry job", zap.Error(err))
	}

	if cfg.Jobs.DirectorySyncEnabled && dirClient.IsEnabled() {
		syncJob := jobs.NewDirectorySyncJob(userService, log, cfg.Jobs.JobTimeoutDuration())
		if err := scheduler.AddJob(jobs.DirectorySyncJobName, cfg.Jobs.DirectorySyncCron, syncJob.Run); err != nil {
			log.Error("failed to register directory sync job", zap.Error(err))
		} else {
			// One pass at startup so the user list is fresh immediately
			go syncJob.Run()
		}
	} else {
		log.Info("directory sync disabled",
			zap.Bool("sync_enabled", cfg.Jobs.DirectorySyncEnabled),
			zap.Bool("directory_connected", dirClient.IsEnabled()),
		)
	}

	scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("scheduler stopped")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if err := dirClient.Close(); err != nil {
			log.Warn("error closing directory connection", zap.Error(err))
		}

		log.Info("server stopped gracefully")
	}

	return nil
}
