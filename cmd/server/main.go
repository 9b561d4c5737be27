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

	"connectrpc.com/connect"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/sina38030/final-bahamm-sub002/internal/ack"
	"github.com/sina38030/final-bahamm-sub002/internal/auth"
	"github.com/sina38030/final-bahamm-sub002/internal/config"
	"github.com/sina38030/final-bahamm-sub002/internal/invite"
	"github.com/sina38030/final-bahamm-sub002/internal/metrics"
	"github.com/sina38030/final-bahamm-sub002/internal/middleware"
	"github.com/sina38030/final-bahamm-sub002/internal/outbox"
	"github.com/sina38030/final-bahamm-sub002/internal/service"
	"github.com/sina38030/final-bahamm-sub002/internal/storage/sqlite"
	"github.com/sina38030/final-bahamm-sub002/pkg/api/apiconnect"
	"github.com/sina38030/final-bahamm-sub002/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	acks, closeAcks, err := newAckStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAcks()

	m := metrics.New()
	svc := service.NewGroupBuyService(store, invite.NewLinker(cfg.ShareBaseURL),
		service.WithWindow(cfg.GroupWindow),
		service.WithMetrics(m),
		service.WithAckStore(acks),
	)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)
	limiter := middleware.NewRateLimiter(cfg.InviteRatePerMinute)
	go limiter.Run(ctx)
	interceptors := connect.WithInterceptors(
		limiter.Interceptor(
			apiconnect.GroupBuyServiceResolveInviteProcedure,
			apiconnect.GroupBuyServiceJoinGroupProcedure,
		),
		middleware.RequireAuth(jwtManager,
			apiconnect.GroupBuyServiceQuoteBasketProcedure,
			apiconnect.GroupBuyServiceGetGroupProcedure,
			apiconnect.GroupBuyServiceResolveInviteProcedure,
		),
		middleware.LoggingInterceptor(slog.Default()),
	)

	mux := http.NewServeMux()

	// Register Connect services
	path, handler := apiconnect.NewGroupBuyServiceHandler(svc, interceptors)
	mux.Handle(path, handler)
	mux.Handle("/metrics", m.Handler())

	relay := outbox.NewRelay(slog.Default(), store, outbox.NewLogGateway(slog.Default()), cfg.OutboxInterval)
	go func() {
		if err := relay.Run(ctx); err != nil {
			slog.Error("Outbox relay failed", "error", err)
		}
	}()

	// Add logging and CORS middleware, then wrap with h2c for HTTP/2 without TLS
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// newAckStore uses Redis when configured, the in-process store otherwise.
func newAckStore(ctx context.Context, cfg *config.Config) (ack.Store, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("Acknowledgements kept in memory")
		return ack.NewMemoryStore(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("Acknowledgements kept in redis", "address", cfg.RedisAddr)
	return ack.NewRedisStore(rdb, cfg.AckTTL), func() { rdb.Close() }, nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
