package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-marketplace/internal/cache"
	"go-marketplace/internal/config"
	"go-marketplace/internal/database"
	"go-marketplace/internal/handler"
	"go-marketplace/internal/logger"
	"go-marketplace/internal/mail"
	"go-marketplace/internal/middleware"
	"go-marketplace/internal/repository"
	"go-marketplace/internal/router"
	"go-marketplace/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log)

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	slog.Info("connecting to Redis")
	sessions, err := cache.Connect(ctx, cfg.RedisURL, cfg.RedisConnectTimeout)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	repos := repository.NewManager(db.SQL)

	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, sessions)
	if err != nil {
		_ = sessions.Close()
		db.Close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	authService := service.NewAuthService(repos, repos.Products(), service.NewBcryptHasher(cfg.BcryptCost), tokenService, sessions)
	emailService := service.NewEmailService(sessions, mail.NewLogSender(log.With("component", "mail")), cfg.EmailCodeTTL)
	auditService := service.NewAuditService(repos.Audit())

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(tokenService), router.Handlers{
		User:    handler.NewUserHandler(authService, emailService, auditService),
		Product: handler.NewProductHandler(authService),
		Audit:   handler.NewAuditHandler(auditService),
		Health: handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": db,
			"redis":    sessions,
		}),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			func() {
				if err := sessions.Close(); err != nil {
					slog.Warn("redis close failed", "error", err)
				}
			},
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		slog.Info("shutdown requested", "signal", sig.String())
	case runErr = <-serveErr:
		slog.Error("server failed", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("graceful shutdown failed: %w", err))
	}

	// Connections close after in-flight requests drain.
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return runErr
}
