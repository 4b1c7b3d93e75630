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
	"go.uber.org/zap"

	appbilling "github.com/vendorbill/backend/internal/application/billing"
	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/infrastructure/auth"
	"github.com/vendorbill/backend/internal/infrastructure/config"
	"github.com/vendorbill/backend/internal/infrastructure/logger"
	"github.com/vendorbill/backend/internal/infrastructure/persistence"
	"github.com/vendorbill/backend/internal/interfaces/http/handler"
	"github.com/vendorbill/backend/internal/interfaces/http/middleware"
	"github.com/vendorbill/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer log.Sync()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	jobRepo := persistence.NewGormJobRepository(db.DB)
	noteRepo := persistence.NewGormBillingNoteRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	voucherRepo := persistence.NewGormPaymentVoucherRepository(db.DB)
	numberConfigRepo := persistence.NewGormDocumentNumberConfigRepository(db.DB)
	sequenceRepo := persistence.NewGormDocumentSequenceRepository(db.DB)
	settingsRepo := persistence.NewGormVendorTaxSettingsRepository(db.DB)

	// Services
	clock := billing.SystemClock{}
	numberService := appbilling.NewDocumentNumberService(numberConfigRepo, sequenceRepo, clock)
	jobService := appbilling.NewJobService(jobRepo, log)
	noteService := appbilling.NewBillingNoteService(noteRepo, jobRepo, receiptRepo, settingsRepo, numberService, clock, log)
	receiptService := appbilling.NewReceiptService(receiptRepo, noteRepo, numberService, clock, log)
	voucherService := appbilling.NewPaymentVoucherService(voucherRepo, noteRepo, numberService, log)
	settingsService := appbilling.NewTaxSettingsService(settingsRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
	)
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	// Health stays outside the authenticated API group
	handler.NewHealthHandler(db).RegisterRoutes(&engine.RouterGroup)

	// Rendered documents are served straight from disk
	engine.Static(cfg.Files.BaseURL, cfg.Files.Dir)

	router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(middleware.Auth(jwtService)),
	).
		Register(handler.NewJobHandler(jobService)).
		Register(handler.NewBillingNoteHandler(noteService)).
		Register(handler.NewReceiptHandler(receiptService)).
		Register(handler.NewPaymentVoucherHandler(voucherService)).
		Register(handler.NewDocumentNumberHandler(numberService)).
		Register(handler.NewTaxSettingsHandler(settingsService)).
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
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
