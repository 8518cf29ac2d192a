package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/contractor-management/internal"
	"github.com/frahmantamala/contractor-management/internal/auth"
	"github.com/frahmantamala/contractor-management/internal/core/events"
	"github.com/frahmantamala/contractor-management/internal/notification"
	notificationPostgres "github.com/frahmantamala/contractor-management/internal/notification/postgres"
	"github.com/frahmantamala/contractor-management/internal/quotation"
	quotationPostgres "github.com/frahmantamala/contractor-management/internal/quotation/postgres"
	"github.com/frahmantamala/contractor-management/internal/rfq"
	rfqPostgres "github.com/frahmantamala/contractor-management/internal/rfq/postgres"
	"github.com/frahmantamala/contractor-management/internal/transport"
	"github.com/frahmantamala/contractor-management/internal/transport/rest"
	"github.com/frahmantamala/contractor-management/internal/workflow"
	"github.com/frahmantamala/contractor-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	EventBus            *events.EventBus
	QuotationHandler    *quotation.Handler
	RFQHandler          *rfq.Handler
	NotificationHandler *notification.Handler
	AuthMiddleware      *auth.Middleware
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.AuthMiddleware,
		deps.QuotationHandler, deps.RFQHandler, deps.NotificationHandler, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.EventBus.Drain()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	// Refuse to start with a broken API contract
	if _, err := transport.LoadOpenAPISpec(context.Background(), "./api/openapi.yml"); err != nil {
		return nil, err
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	publicKey, err := config.Security.GetPublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to load JWT public key: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	notificationService := notification.NewService(notificationRepo, lg)
	notificationService.RegisterSubscribers(eventBus)

	quotationRepo := quotationPostgres.NewQuotationRepository(gormDB)
	quotationEngine := workflow.NewEngine(quotationRepo, eventBus, lg)
	quotationService := quotation.NewService(quotationRepo, quotationEngine, lg)

	rfqRepo := rfqPostgres.NewRFQRepository(gormDB)
	rfqEngine := workflow.NewEngine(rfqRepo, eventBus, lg)
	rfqService := rfq.NewService(rfqRepo, rfqEngine, lg)

	return &Dependencies{
		Config:              config,
		Logger:              lg,
		DB:                  db,
		GormDB:              gormDB,
		Router:              chi.NewRouter(),
		EventBus:            eventBus,
		QuotationHandler:    quotation.NewHandler(quotationService),
		RFQHandler:          rfq.NewHandler(rfqService),
		NotificationHandler: notification.NewHandler(notificationService),
		AuthMiddleware:      auth.NewMiddleware(publicKey, lg),
	}, nil
}

// initDB initializes the database connection pool
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers GORM over the existing pool so repositories and raw
// health checks share connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{
		TranslateError: true,
	})
}
