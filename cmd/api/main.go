package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/securepass/securepass-go/internal/breach"
	"github.com/securepass/securepass-go/internal/config"
	"github.com/securepass/securepass-go/internal/crypto"
	"github.com/securepass/securepass-go/internal/dictionary"
	"github.com/securepass/securepass-go/internal/handler"
	"github.com/securepass/securepass-go/internal/middleware"
	"github.com/securepass/securepass-go/internal/repository"
	"github.com/securepass/securepass-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Env == "production" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	dict := dictionary.New(cfg.WordlistPath)
	if err := dict.Load(); err == nil {
		slog.Info("wordlist loaded", "entries", dict.Size())
	}

	breachClient := breach.NewClient(breach.Options{
		BaseURL:     cfg.BreachAPIURL,
		UserAgent:   cfg.BreachUserAgent,
		Timeout:     cfg.BreachTimeout,
		MaxRetries:  cfg.BreachMaxRetries,
		Concurrency: cfg.BreachConcurrency,
		RPS:         cfg.BreachRPS,
		Cache:       rangeCache(cfg),
	})

	analyzer := service.NewAnalyzerService(dict, breachClient)
	genService := service.NewGeneratorService(analyzer)
	batchService := service.NewBatchService(analyzer, cfg.BatchWorkers)

	genHandler := handler.NewGeneratorHandler(genService)
	analyzeHandler := handler.NewAnalyzeHandler(analyzer, batchService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/v1/generate", genHandler.HandleGenerate)
		r.Post("/api/v1/analyze", analyzeHandler.HandleAnalyze)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret, crypto.ScopeBatch))
		r.Use(middleware.RateLimit(1, 2))
		r.Post("/api/v1/batch", analyzeHandler.HandleBatch)
	})

	// Audit log and its routes need the database.
	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, audit log disabled", "error", err)
	} else if err := repository.Migrate(db); err != nil {
		slog.Error("database migration failed, audit log disabled", "error", err)
	} else {
		auditService := service.NewAuditService(repository.NewAuditRepository(db), cfg.AuditPepper)
		analyzer.SetAuditRecorder(auditService)
		auditHandler := handler.NewAuditHandler(auditService)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret, crypto.ScopeBatch))
			r.Get("/api/v1/audit", auditHandler.HandleRecent)
			r.Get("/api/v1/audit/stats", auditHandler.HandleStats)
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}
	if db != nil {
		db.Close()
	}

	slog.Info("server stopped")
}

// rangeCache returns a Redis-backed range cache when REDIS_ADDR is set and reachable.
func rangeCache(cfg config.Config) breach.RangeCache {
	if cfg.RedisAddr == "" {
		return breach.NopCache{}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, range cache disabled", "addr", cfg.RedisAddr, "error", err)
		client.Close()
		return breach.NopCache{}
	}
	return breach.NewRedisCache(client, cfg.BreachCacheTTL)
}
