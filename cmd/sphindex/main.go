package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/skran-dev/sphindex/internal/config"
	"github.com/skran-dev/sphindex/internal/domain/schema"
	"github.com/skran-dev/sphindex/internal/engine"
	kvRedis "github.com/skran-dev/sphindex/internal/kv/redis"
	logpkg "github.com/skran-dev/sphindex/internal/logger"
	"github.com/skran-dev/sphindex/internal/metrics"
	"github.com/skran-dev/sphindex/internal/repository/rescache"
	searchrepo "github.com/skran-dev/sphindex/internal/repository/search"
	"github.com/skran-dev/sphindex/internal/translate"
	chiTransport "github.com/skran-dev/sphindex/internal/transport/chi"
	readuc "github.com/skran-dev/sphindex/internal/usecase/read"
	"github.com/skran-dev/sphindex/internal/version"
)

func main() {
	// Optional .env for local runs; real environments set vars directly.
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sphindex gateway",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("engine_host", cfg.Engine.Host),
		zap.Int("engine_port", cfg.Engine.Port),
		zap.String("translator_mode", cfg.Translator.Mode),
	)
	if cfg.Engine.Managed {
		logger.Warn("engine.managed is set but the gateway runs unsupervised; " +
			"daemon supervision is the embedding application's concern")
	}

	registry, err := buildRegistry(cfg.Models)
	if err != nil {
		logger.Fatal("Invalid model declarations", zap.Error(err))
	}

	translator, err := translate.ForMode(translate.Mode(cfg.Translator.Mode))
	if err != nil {
		logger.Fatal("Invalid translator mode", zap.Error(err))
	}

	client := engine.NewClient(cfg.Engine.Host, cfg.Engine.Port)

	var repo readuc.Repository = searchrepo.New(client)
	if cfg.Cache.Enabled {
		store, err := kvRedis.NewStore(kvRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Pass,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()
		repo = rescache.New(
			repo, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.CacheTotal, logger,
		)
		logger.Info("Result cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	readSvc := readuc.New(repo, registry, translator, logger)
	server := chiTransport.NewServer(readSvc, client, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Group(server.Routes)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildRegistry converts model declarations into the schema registry.
func buildRegistry(models []config.ModelConfig) (*schema.Registry, error) {
	out := make([]schema.Model, 0, len(models))
	for _, mc := range models {
		attrs := make([]schema.Attribute, 0, len(mc.Attributes))
		for _, ac := range mc.Attributes {
			a, err := schema.NewAttribute(ac.Name, ac.Field, schema.Kind(ac.Kind))
			if err != nil {
				return nil, fmt.Errorf("model %s: %w", mc.Name, err)
			}
			attrs = append(attrs, a)
		}
		indexes := make([]schema.Index, 0, len(mc.Indexes))
		for _, ic := range mc.Indexes {
			idx, err := schema.NewIndex(ic.Name, ic.Delta)
			if err != nil {
				return nil, fmt.Errorf("model %s: %w", mc.Name, err)
			}
			indexes = append(indexes, idx)
		}
		m, err := schema.NewModel(mc.Name, mc.StorageName, attrs, indexes)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return schema.NewRegistry(out...)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
