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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mohitkumarrajbadi/Splitzy/internal/auth"
	"github.com/mohitkumarrajbadi/Splitzy/internal/cache"
	"github.com/mohitkumarrajbadi/Splitzy/internal/config"
	"github.com/mohitkumarrajbadi/Splitzy/internal/middleware"
	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
	"github.com/mohitkumarrajbadi/Splitzy/internal/service"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage/sqlite"
	"github.com/mohitkumarrajbadi/Splitzy/internal/validation"
	"github.com/mohitkumarrajbadi/Splitzy/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	summaries, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := summaries.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	logger.Info("Summary cache ready", "backend", cfg.CacheBackend, "ttl", cfg.CacheTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rpcMetrics := middleware.NewRPCMetrics(registry)
	metrics := service.NewMetrics(registry)
	proxies, err := middleware.ParseProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("parse trusted proxies: %w", err)
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, proxies...)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	validator := validation.New()

	// Interceptors run in order; session values are in context once RequireAuth has run.
	public := connect.WithInterceptors(
		rpcMetrics.Interceptor(),
		limiter.Interceptor(),
		middleware.LoggingInterceptor(logger),
	)
	private := connect.WithInterceptors(
		rpcMetrics.Interceptor(),
		limiter.Interceptor(),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(rpc.NewAccessServiceHandler(
		service.NewAccessService(store, auth.NewPasscodeAuthenticator(0), jwtManager, validator, metrics, logger),
		public,
	))
	mux.Handle(rpc.NewLedgerServiceHandler(
		service.NewLedgerService(store, summaries, validator, metrics, logger),
		private,
	))
	mux.Handle(rpc.NewBillServiceHandler(
		service.NewBillService(store, validator, metrics, logger),
		private,
	))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(loggingMiddleware(logger, corsMiddleware(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Connect server starting", "address", server.Addr, "url", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return limiter.Run(gctx)
	})
	if mem, ok := summaries.(*cache.Memory); ok {
		g.Go(func() error {
			return mem.Run(gctx, time.Minute)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		c, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("initialize cache: %w", err)
		}
		return c, nil
	case config.CacheNone:
		return cache.Noop{}, nil
	default:
		return cache.NewMemory(cfg.CacheSize, cfg.CacheTTL), nil
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
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

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
