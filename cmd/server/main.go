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
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/sharedledger/internal/auth"
	"github.com/mmynk/sharedledger/internal/config"
	"github.com/mmynk/sharedledger/internal/middleware"
	"github.com/mmynk/sharedledger/internal/service"
	"github.com/mmynk/sharedledger/internal/storage"
	"github.com/mmynk/sharedledger/internal/storage/kv"
	"github.com/mmynk/sharedledger/internal/storage/sqlite"
	"github.com/mmynk/sharedledger/pkg/api"
	"github.com/mmynk/sharedledger/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	interceptors := []connect.Interceptor{middleware.MetricsInterceptor()}
	if cfg.AuthEnabled() {
		interceptors = append(interceptors, middleware.RequireAuth(auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)))
		slog.Info("Authentication enabled")
	} else {
		slog.Warn("JWT_SECRET not set, authentication disabled")
	}
	interceptors = append(interceptors,
		middleware.LoggingInterceptor(),
		middleware.ValidationInterceptor(validator.New()),
	)

	mux := http.NewServeMux()

	svc := service.NewExpenseService(store, service.WithEpsilon(cfg.Epsilon))
	path, handler := api.NewExpenseServiceHandler(svc, connect.WithInterceptors(interceptors...))
	mux.Handle(path, handler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// openStore builds the storage backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverFile:
		backend, err := kv.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		store, err := kv.Open(ctx, backend)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.StoreDriver, "dir", cfg.DataDir)
		return store, nil
	case config.DriverRedis:
		backend, err := kv.NewRedisBackend(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		store, err := kv.Open(ctx, backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.StoreDriver)
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.StoreDriver, "database", cfg.DBPath)
		return store, nil
	}
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
