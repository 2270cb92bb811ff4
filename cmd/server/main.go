package main

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

	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
	"github.com/aryan0dhankhar/claimledger/internal/featureflags"
	"github.com/aryan0dhankhar/claimledger/internal/handler"
	"github.com/aryan0dhankhar/claimledger/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/claimledger/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/claimledger/internal/observability/tracing"
	"github.com/aryan0dhankhar/claimledger/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/claimledger/internal/reliability/retry"
	"github.com/aryan0dhankhar/claimledger/internal/security/audit"
	"github.com/aryan0dhankhar/claimledger/internal/security/auth"
	"github.com/aryan0dhankhar/claimledger/internal/security/ratelimit"
	"github.com/aryan0dhankhar/claimledger/internal/service"
	"github.com/aryan0dhankhar/claimledger/pkg/config"
)

const serviceName = "claimledger"

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	log.Info("starting claimledger server",
		slog.String("environment", cfg.Environment),
		slog.String("store", cfg.StoreDriver),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing
	shutdownTracing, err := tracing.Init(ctx, log, serviceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Open the store
	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	checks := map[string]domain.Pinger{"store": store.pinger}

	// 5. Login throttling: Redis when configured, in-process otherwise
	var loginLimiter ratelimit.Allower
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = retry.Do(ctx, retry.StartupConfig(cfg.StartupConnectAttempts), log, "connect redis",
			func(context.Context) (*redis.Client, error) { return redis.NewClient(cfg.RedisURL) })
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		breaker := circuitbreaker.New(5, 1, 30*time.Second)
		breaker.OnStateChange(func(from, to circuitbreaker.State) {
			log.Warn("rate limiter circuit changed state",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		})
		loginLimiter = ratelimit.NewRedisLimiter(redisClient, breaker, "ratelimit:login:", cfg.LoginRateLimit, cfg.LoginRateWindow)
		checks["redis"] = redisClient
	} else {
		memLimiter := ratelimit.NewLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
		defer memLimiter.Stop()
		loginLimiter = memLimiter
	}

	// 6. Initialize services
	authService := service.NewAuthService(store.users, auth.NewBcryptHasher(bcrypt.DefaultCost), log)
	recordService := service.NewRecordService(store.expenses, store.bills, log)
	fileService := service.NewFileService(store.blobs, log)

	var auditLogger *audit.Logger
	if featureflags.Enabled(featureflags.AuditLog) {
		auditLogger = audit.NewLogger(log)
	}

	// 7. Initialize handlers and routes
	router := handler.NewRouter(handler.RouterConfig{
		Auth:               handler.NewAuthHandler(authService, auditLogger, log),
		Records:            handler.NewRecordHandler(recordService, auditLogger, log),
		Files:              handler.NewFileHandler(fileService, cfg.MaxUploadBytes, auditLogger, log),
		Health:             handler.NewHealthHandler(checks, log),
		LoginLimiter:       loginLimiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             log,
	})

	// 8. Start HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           tracing.Handler(router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Int("login_rate_limit", cfg.LoginRateLimit),
		slog.Duration("login_rate_window", cfg.LoginRateWindow),
		slog.Bool("audit_log", auditLogger != nil),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-sigChan:
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Error("server error", slog.String("error", err.Error()))
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	if err := store.close(shutdownCtx); err != nil {
		log.Error("failed to close store", slog.String("error", err.Error()))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("failed to flush traces", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}
