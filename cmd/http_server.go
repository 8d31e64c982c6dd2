package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/announcement"
	announcementPostgres "github.com/familyone/factory-ops/internal/announcement/postgres"
	"github.com/familyone/factory-ops/internal/auth"
	authPostgres "github.com/familyone/factory-ops/internal/auth/postgres"
	"github.com/familyone/factory-ops/internal/checklist"
	checklistPostgres "github.com/familyone/factory-ops/internal/checklist/postgres"
	"github.com/familyone/factory-ops/internal/core/events"
	"github.com/familyone/factory-ops/internal/leave"
	leavePostgres "github.com/familyone/factory-ops/internal/leave/postgres"
	"github.com/familyone/factory-ops/internal/org"
	orgPostgres "github.com/familyone/factory-ops/internal/org/postgres"
	"github.com/familyone/factory-ops/internal/production"
	productionPostgres "github.com/familyone/factory-ops/internal/production/postgres"
	"github.com/familyone/factory-ops/internal/realtime"
	"github.com/familyone/factory-ops/internal/report"
	reportPostgres "github.com/familyone/factory-ops/internal/report/postgres"
	"github.com/familyone/factory-ops/internal/request"
	requestPostgres "github.com/familyone/factory-ops/internal/request/postgres"
	"github.com/familyone/factory-ops/internal/schedule"
	schedulePostgres "github.com/familyone/factory-ops/internal/schedule/postgres"
	"github.com/familyone/factory-ops/internal/suggestion"
	suggestionPostgres "github.com/familyone/factory-ops/internal/suggestion/postgres"
	"github.com/familyone/factory-ops/internal/training"
	trainingPostgres "github.com/familyone/factory-ops/internal/training/postgres"
	"github.com/familyone/factory-ops/internal/transport"
	"github.com/familyone/factory-ops/internal/transport/rest"
	"github.com/familyone/factory-ops/internal/transport/swagger"
	"github.com/familyone/factory-ops/internal/upload"
	"github.com/familyone/factory-ops/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
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
	Config   *internal.Config
	DB       *gorm.DB
	SQLDB    *sql.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Sweeper  *upload.Sweeper
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.SQLDB, deps.Handlers, deps.Config.Uploads.Dir, deps.Logger)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go deps.Sweeper.Run(sweepCtx, deps.Config.Uploads.SweepInterval)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

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
		slog.Info("Received signal, shutting down...", "signal", sig)
		stopSweep()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.SQLDB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		stopSweep()
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.LoggerWrapper()

	if err := swagger.ValidateSpec("api/openapi.yml"); err != nil {
		return nil, fmt.Errorf("openapi spec is invalid: %w", err)
	}

	gormDB, sqlDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := os.MkdirAll(config.Uploads.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)
	hub := realtime.NewHub()
	realtime.Bridge(eventBus, hub)

	auditLog := upload.NewAuditLog(config.Uploads.AuditLogPath)
	store := upload.NewStore(config.Uploads.Dir, config.Uploads.MaxBytes, auditLog)

	baseHandler := transport.NewBaseHandler(appLogger)
	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)

	userRepo := authPostgres.NewUserRepository(gormDB)
	orgRepo := orgPostgres.NewOrgRepository(gormDB)
	reportRepo := reportPostgres.NewReportRepository(gormDB)
	requestRepo := requestPostgres.NewRequestRepository(gormDB)
	leaveRepo := leavePostgres.NewLeaveRepository(gormDB)
	announcementRepo := announcementPostgres.NewAnnouncementRepository(gormDB)
	userDirectory := announcementPostgres.NewUserDirectory(gormDB)
	checklistRepo := checklistPostgres.NewChecklistRepository(gormDB)
	suggestionRepo := suggestionPostgres.NewSuggestionRepository(gormDB)
	shiftRepo := schedulePostgres.NewShiftRepository(gormDB)
	productionRepo := productionPostgres.NewProductionRepository(gormDB)
	trainingRepo := trainingPostgres.NewTrainingRepository(gormDB)

	orgService := org.NewService(orgRepo)
	authService := auth.NewService(userRepo, orgService, tokens, config.Security.BCryptCost)

	reportService := report.NewService(reportRepo, store, eventBus)
	requestService := request.NewService(requestRepo, eventBus)
	leaveService := leave.NewService(leaveRepo, userNames{users: userRepo}, eventBus)
	announcementService := announcement.NewService(announcementRepo, userDirectory, eventBus)
	checklistService := checklist.NewService(checklistRepo, eventBus)
	suggestionService := suggestion.NewService(suggestionRepo)
	scheduleService := schedule.NewService(shiftRepo)
	productionService := production.NewService(productionRepo)
	trainingService := training.NewService(trainingRepo)

	sweeper := upload.NewSweeper(store, config.Uploads.SweepTTL,
		upload.ReferenceSourceFunc(reportRepo.ListImageURLs),
		upload.ReferenceSourceFunc(announcementRepo.ListBlobURLs),
	)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(baseHandler, authService, tokens),
		Org:          org.NewHandler(baseHandler, orgService),
		Report:       report.NewHandler(baseHandler, reportService),
		Request:      request.NewHandler(baseHandler, requestService),
		Leave:        leave.NewHandler(baseHandler, leaveService),
		Announcement: announcement.NewHandler(baseHandler, announcementService),
		Checklist:    checklist.NewHandler(baseHandler, checklistService),
		Suggestion:   suggestion.NewHandler(baseHandler, suggestionService),
		Schedule:     schedule.NewHandler(baseHandler, scheduleService),
		Production:   production.NewHandler(baseHandler, productionService),
		Training:     training.NewHandler(baseHandler, trainingService),
		Upload:       upload.NewHandler(baseHandler, store),
		Realtime:     realtime.NewHandler(baseHandler, hub, tokens),
	}

	return &Dependencies{
		Config:   config,
		DB:       gormDB,
		SQLDB:    sqlDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Sweeper:  sweeper,
		Logger:   appLogger,
	}, nil
}

// userNames resolves display names for leave views; missing users map to "".
type userNames struct {
	users auth.UserRepository
}

func (n userNames) NameOf(ctx context.Context, userID string) string {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return ""
	}
	return user.Name
}

// initDB opens the configured database and returns both the gorm handle and
// the underlying *sql.DB used for health checks and shutdown.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	switch cfg.Driver {
	case "postgres":
		dbConn, err := sqlx.Connect("pgx", cfg.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
		}

		dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
		dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

		gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
		if err != nil {
			_ = dbConn.Close()
			return nil, nil, fmt.Errorf("failed to open gorm connection: %w", err)
		}
		return gormDB, dbConn.DB, nil

	case "sqlite":
		gormDB, err := gorm.Open(sqlite.Open(cfg.Source), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to access sqlite connection: %w", err)
		}
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return gormDB, sqlDB, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
