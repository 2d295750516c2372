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
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/auth"
	authPostgres "github.com/nmissi-nadia/liqaaspace/internal/auth/postgres"
	"github.com/nmissi-nadia/liqaaspace/internal/chat"
	chatPostgres "github.com/nmissi-nadia/liqaaspace/internal/chat/postgres"
	"github.com/nmissi-nadia/liqaaspace/internal/core/events"
	"github.com/nmissi-nadia/liqaaspace/internal/dashboard"
	dashboardPostgres "github.com/nmissi-nadia/liqaaspace/internal/dashboard/postgres"
	"github.com/nmissi-nadia/liqaaspace/internal/notification"
	notificationPostgres "github.com/nmissi-nadia/liqaaspace/internal/notification/postgres"
	"github.com/nmissi-nadia/liqaaspace/internal/realtime"
	"github.com/nmissi-nadia/liqaaspace/internal/reservation"
	reservationPostgres "github.com/nmissi-nadia/liqaaspace/internal/reservation/postgres"
	"github.com/nmissi-nadia/liqaaspace/internal/salle"
	sallePostgres "github.com/nmissi-nadia/liqaaspace/internal/salle/postgres"
	"github.com/nmissi-nadia/liqaaspace/internal/storage"
	"github.com/nmissi-nadia/liqaaspace/internal/transport/rest"
	"github.com/nmissi-nadia/liqaaspace/internal/user"
	userPostgres "github.com/nmissi-nadia/liqaaspace/internal/user/postgres"
	"github.com/nmissi-nadia/liqaaspace/pkg/logger"
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
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Sessions auth.SessionRepository
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
	}

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go sessionCleanupLoop(cleanupCtx, deps.Sessions, deps.Logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		stopCleanup()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		stopCleanup()
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

	logger.Init(config.Logging.Env)
	log := logger.Default()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx connection: %w", err)
	}

	s3Store, err := storage.NewS3Store(context.Background(), config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// repositories
	userAuthRepo := authPostgres.NewUserRepository(gormDB)
	sessionRepo := authPostgres.NewSessionRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	salleRepo := sallePostgres.NewSalleRepository(gormDB)
	reservationRepo := reservationPostgres.NewReservationRepository(gormDB)
	salleInfoRepo := reservationPostgres.NewSalleInfoRepository(gormDB)
	chatRepo := chatPostgres.NewChatRepository(gormDB)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	deciderRepo := notificationPostgres.NewDeciderRepository(gormDB)
	dashboardRepo := dashboardPostgres.NewDashboardRepository(gormDB)

	bus := events.NewEventBus(log)
	hub := realtime.NewHub(config.Broadcast.SubscriberBuffer, log)
	realtime.AttachBridge(bus, hub, deciderRepo)

	// services
	authService := auth.NewService(userAuthRepo, sessionRepo, log, config.Security)
	userService := user.NewService(userRepo, log, config.Security.BCryptCost)
	salleService := salle.NewService(salleRepo, s3Store, log)
	reservationService := reservation.NewService(reservationRepo, salleInfoRepo, bus, log)
	chatService := chat.NewService(chatRepo, s3Store, bus, log)
	notificationService := notification.NewService(notificationRepo, deciderRepo, log)
	notificationService.SubscribeTo(bus)
	dashboardService := dashboard.NewService(dashboardRepo, log)

	// handlers
	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService, config.Security),
		User:         user.NewHandler(userService),
		Salle:        salle.NewHandler(salleService),
		Reservation:  reservation.NewHandler(reservationService),
		Chat:         chat.NewHandler(chatService),
		Notification: notification.NewHandler(notificationService),
		Dashboard:    dashboard.NewHandler(dashboardService),
		SSE:          realtime.NewSSEHandler(hub, authService, config.Broadcast.HeartbeatInterval),
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, handlers, config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config:   config,
		DB:       db,
		GormDB:   gormDB,
		Router:   router,
		Sessions: sessionRepo,
		Logger:   log,
	}, nil
}

// initDB opens the pgx-backed connection pool shared by gorm and the
// health check.
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

// sessionCleanupLoop reaps expired session rows so abandoned logins do
// not pile up.
func sessionCleanupLoop(ctx context.Context, sessions auth.SessionRepository, log *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.DeleteExpired(time.Now()); err != nil {
				log.Error("session cleanup failed", "error", err)
			}
		}
	}
}
