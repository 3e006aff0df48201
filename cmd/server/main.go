package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/audit"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/budget"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/config"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/document"
	httpiface "github.com/GIDEON8-jpg/simply-request-sub000/internal/interfaces/http"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/notify"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/report"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/repository"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/requisition"
	"github.com/GIDEON8-jpg/simply-request-sub000/pkg/database"
	"github.com/GIDEON8-jpg/simply-request-sub000/pkg/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting requisition approval service",
		zap.String("config", configPath))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	requisitionRepo := repository.NewRequisitionRepository(db.DB, logger)
	budgetRepo := repository.NewBudgetRepository(db.DB, logger)
	auditRepo := repository.NewAuditRepository(db.DB, logger)

	ledger := budget.NewLedger(budgetRepo, requisitionRepo, logger)
	recorder := audit.NewRecorder(auditRepo, logger)

	var notifier requisition.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewLarkDispatcher(notify.LarkConfig{
			AppID:         cfg.Notify.AppID,
			AppSecret:     cfg.Notify.AppSecret,
			RoleReceivers: cfg.Notify.Receivers,
		}, logger)
		logger.Info("Lark notifications enabled")
	} else {
		notifier = notify.NewLogDispatcher(logger)
	}

	documents, err := document.NewStore(cfg.Documents.AttachmentDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize document store", zap.Error(err))
	}

	reports := report.NewBuilder(logger)

	service := requisition.NewService(requisitionRepo, ledger, notifier, recorder, logger)

	handlers := httpiface.NewHandlers(service, ledger, recorder, reports, documents, logger)
	router := httpiface.NewRouter(handlers)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
