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

	"github.com/expenseworks/expense-claims/internal"
	"github.com/expenseworks/expense-claims/internal/assistant"
	"github.com/expenseworks/expense-claims/internal/audit"
	"github.com/expenseworks/expense-claims/internal/category"
	categoryPostgres "github.com/expenseworks/expense-claims/internal/category/postgres"
	"github.com/expenseworks/expense-claims/internal/core/events"
	"github.com/expenseworks/expense-claims/internal/expense"
	expensePostgres "github.com/expenseworks/expense-claims/internal/expense/postgres"
	"github.com/expenseworks/expense-claims/internal/reporting"
	reportingPostgres "github.com/expenseworks/expense-claims/internal/reporting/postgres"
	"github.com/expenseworks/expense-claims/internal/transport/rest"
	"github.com/expenseworks/expense-claims/internal/transport/swagger"
	"github.com/expenseworks/expense-claims/internal/user"
	userPostgres "github.com/expenseworks/expense-claims/internal/user/postgres"
	"github.com/expenseworks/expense-claims/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
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
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
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

	logger.Init(config.Observability.Logging.Format)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	// Fail fast on a malformed API contract
	if _, err := swagger.LoadSpec(context.Background(), "./api/openapi.yml"); err != nil {
		lg.Warn("openapi spec failed validation, swagger UI may be degraded", "error", err)
	}

	bus := events.NewEventBus(lg)
	audit.NewEventHandler(lg).RegisterEventHandlers(bus)

	expenseRepo := expensePostgres.NewExpenseRepository(gormDB)
	reportingRepo := reportingPostgres.NewReportingRepository(gormDB)
	categoryRepo := categoryPostgres.NewCategoryRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)

	expenseService := expense.NewService(expenseRepo, userRepo, categoryRepo, bus, expense.AllowAnyReviewer, lg)
	reportingService := reporting.NewService(reportingRepo, lg)
	categoryService := category.NewService(categoryRepo, lg)
	userService := user.NewService(userRepo, lg)

	var oracle assistant.Oracle
	if config.Assistant.Enabled {
		oracle = assistant.NewOpenAIOracle(assistant.OpenAIConfig{
			APIKey:  config.Assistant.APIKey,
			BaseURL: config.Assistant.BaseURL,
			Model:   config.Assistant.Model,
			Timeout: config.Assistant.RequestTimeout,
		})
	}
	assistantService := assistant.NewService(
		config.Assistant.Enabled,
		oracle,
		expenseService,
		reportingService,
		categoryService,
		userRepo,
		lg,
	)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(
		router,
		db.DB,
		config.Server.AllowedOrigins,
		expense.NewHandler(expenseService),
		reporting.NewHandler(reportingService),
		category.NewHandler(categoryService),
		user.NewHandler(userService),
		assistant.NewHandler(assistantService),
		lg,
	)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-open pgx connection so both
// share one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{})
}
