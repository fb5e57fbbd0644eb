package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	ledgerapp "github.com/qurtubah/treasury/internal/application/ledger"
	treasuryapp "github.com/qurtubah/treasury/internal/application/treasury"
	ledgerdomain "github.com/qurtubah/treasury/internal/domain/ledger"
	"github.com/qurtubah/treasury/internal/infrastructure/config"
	"github.com/qurtubah/treasury/internal/infrastructure/logger"
	"github.com/qurtubah/treasury/internal/infrastructure/persistence"
	"github.com/qurtubah/treasury/internal/infrastructure/sheets"
	"github.com/qurtubah/treasury/internal/interfaces/http/handler"
	"github.com/qurtubah/treasury/internal/interfaces/http/middleware"
	"github.com/qurtubah/treasury/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting treasury backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	ctx := context.Background()

	var (
		paymentRepo ledgerdomain.PaymentRepository
		pinger      handler.Pinger
	)
	switch cfg.Storage.Driver {
	case config.DriverSheets:
		store, err := sheets.NewStore(ctx, cfg.Sheets, log)
		if err != nil {
			log.Fatal("Failed to initialize sheets store", zap.Error(err))
		}
		paymentRepo = sheets.NewPaymentRepository(store)
		log.Info("Google Sheets store ready",
			zap.String("spreadsheet", cfg.Sheets.SpreadsheetTitle),
			zap.String("sheet", cfg.Sheets.SheetName),
		)
	case config.DriverPostgres, config.DriverSQLite:
		db, err := persistence.NewDatabase(cfg.Storage.Driver, &cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		paymentRepo = persistence.NewGormPaymentRepository(db.DB)
		pinger = db
		log.Info("Database connected successfully")
	}

	ledgerService := ledgerapp.NewService(paymentRepo)
	treasuryService := treasuryapp.NewService(paymentRepo)

	paymentHandler := handler.NewPaymentHandler(ledgerService)
	treasuryHandler := handler.NewTreasuryHandler(treasuryService)
	systemHandler := handler.NewSystemHandler(pinger)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))

	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(paymentHandler).
		Register(treasuryHandler).
		Register(systemHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	log.Info("Server listening", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
