package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/api"
	"github.com/hermesdev0131/scrape-salesforce-site/internal/config"
	"github.com/hermesdev0131/scrape-salesforce-site/internal/fetch"
	"github.com/hermesdev0131/scrape-salesforce-site/internal/ratelimit"
	"github.com/hermesdev0131/scrape-salesforce-site/internal/scraper"
	"github.com/hermesdev0131/scrape-salesforce-site/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional Postgres persistence for completed runs
	var runStore *store.Store
	if cfg.Database.URL != "" {
		runStore, err = store.New(ctx, cfg.Database.URL, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer runStore.Close()

		if err := runStore.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
	}

	// Optional Redis last-result cache
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
	}

	// Scraping pipeline
	client := fetch.New(cfg.Scraper.BaseURL, cfg.Scraper.UserAgent, logger)
	discoverer := scraper.NewLinkDiscoverer(client, cfg.Scraper.ListingPath, cfg.Scraper.PageTimeout, logger)
	variations := scraper.NewVariationClient(client, cfg.Scraper.VariationTimeout, logger)
	extractor := scraper.NewPageExtractor(client, variations, cfg.Scraper.PageTimeout, logger)
	limiter := ratelimit.NewPolitenessLimiter(cfg.Scraper.PolitenessDelay)
	crawler := scraper.NewCrawler(discoverer, extractor, limiter, logger)

	tracker := api.NewTracker(redisClient, logger)
	handlers := api.NewHandlers(crawler, tracker, runStore, logger)

	// Setup Chi router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.Health)
	r.Get("/status", handlers.Status)
	r.Get("/scrape", handlers.Scrape)
	r.Post("/scrape", handlers.Scrape)
	r.Post("/scrape_async", handlers.ScrapeAsync)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "addr", server.Addr, "base_url", cfg.Scraper.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
