package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restobill-api/internal/application/service"
	"github.com/sangkips/restobill-api/internal/config"
	"github.com/sangkips/restobill-api/internal/domain/billing"
	"github.com/sangkips/restobill-api/internal/infrastructure/cloud"
	"github.com/sangkips/restobill-api/internal/infrastructure/database"
	"github.com/sangkips/restobill-api/internal/infrastructure/repository"
	"github.com/sangkips/restobill-api/internal/presentation/http/handler"
	"github.com/sangkips/restobill-api/internal/presentation/http/middleware"
	"github.com/sangkips/restobill-api/internal/presentation/http/routes"
	"github.com/sangkips/restobill-api/internal/presentation/ws"
	"github.com/sangkips/restobill-api/pkg/billdate"
	"github.com/sangkips/restobill-api/pkg/logger"
	"github.com/sangkips/restobill-api/pkg/printer"
	"github.com/sangkips/restobill-api/pkg/receipt"
	"github.com/sangkips/restobill-api/pkg/utils"
)

const idempotencySweep = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Component: cfg.App.Name,
	})

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed default data
	if err := database.SeedDefaultData(ctx, db, cfg); err != nil {
		log.Warn("failed to seed default data", "error", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	dates := billdate.New(cfg.App.Location())

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	billRepo := repository.NewBillRepository(db)
	counterRepo := repository.NewBillCounterRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn("failed to initialize printer, printing disabled", "error", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	// Cloud sync stays off without credentials
	var uploader service.BillUploader
	if cfg.Drive.CredentialsFile != "" {
		drive, err := cloud.NewDriveUploader(ctx, cfg.Drive.CredentialsFile, cfg.Drive.FolderID)
		if err != nil {
			log.Warn("failed to initialize cloud sync, sync disabled", "error", err)
		} else {
			uploader = drive
		}
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// Initialize services
	sequencer := billing.NewSequencer(counterRepo)
	authService := service.NewAuthService(userRepo, jwtManager)
	settingsService := service.NewSettingsService(settingsRepo, database.DefaultSettings(&cfg.Shop, cfg.App.Locale))
	menuService := service.NewMenuService(menuRepo, database.DefaultMenu)
	cartService := service.NewCartService(menuRepo, settingsRepo)
	billNumberService := service.NewBillNumberService(sequencer)
	printerService := service.NewPrinterService(
		thermalPrinter,
		cfg.Printer.Type,
		receipt.NewPDFRenderer(cfg.Printer.ChromePath, cfg.Printer.PrintDelay),
		receipt.NewPDFRenderer(cfg.Printer.ChromePath, cfg.Printer.RangeDelay),
		settingsRepo,
		billRepo,
		dates,
		log,
	)
	billingService := service.NewBillingService(
		txManager,
		billRepo,
		menuRepo,
		settingsRepo,
		userRepo,
		sequencer,
		cartService,
		printerService,
		hub,
		dates,
		log,
	)
	reportService := service.NewReportService(billRepo, dates)
	exportService := service.NewExportService()
	syncService := service.NewSyncService(billRepo, uploader, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Menu:     handler.NewMenuHandler(menuService),
		Cart:     handler.NewCartHandler(cartService),
		Bill:     handler.NewBillHandler(billingService, billNumberService, printerService),
		Report:   handler.NewReportHandler(reportService, exportService, printerService, settingsService),
		Settings: handler.NewSettingsHandler(settingsService),
		Printer:  handler.NewPrinterHandler(printerService),
		Sync:     handler.NewSyncHandler(syncService),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	go rateLimiter.Run(ctx)

	go sweepIdempotencyKeys(ctx, idempotencyRepo.DeleteExpired, log)

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Hub:             hub,
		Log:             log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", "port", port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func sweepIdempotencyKeys(ctx context.Context, deleteExpired func(context.Context) error, log *logger.Logger) {
	ticker := time.NewTicker(idempotencySweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := deleteExpired(ctx); err != nil {
				log.Warn("failed to delete expired idempotency keys", "error", err)
			}
		}
	}
}
