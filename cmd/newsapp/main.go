// CLAUDE:SUMMARY Entry point for the news backend — chi router, SQLite tracking store, GNews/NewsAPI/RSS chain.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "modernc.org/sqlite"

	"github.com/Shiva911-as/news-app/dbopen"
	"github.com/Shiva911-as/news-app/newsfeed"
)

func main() {
	port := env("PORT", "8080")
	dbPath := env("DB_PATH", "db/news.db")
	gnewsKey := os.Getenv("GNEWS_API_KEY")
	newsapiKey := os.Getenv("NEWS_API_KEY")
	categoriesFile := env("CATEGORIES_FILE", "")
	logLevel := env("LOG_LEVEL", "info")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Service config from environment.
	cfg := &newsfeed.Config{
		Weights: newsfeed.Weights{
			Click: envFloat("CLICK_WEIGHT", 0),
			Time:  envFloat("TIME_WEIGHT", 0),
		},
		CacheTTL:        time.Duration(envInt("CACHE_TTL_MINUTES", 0)) * time.Minute,
		CacheBatchSize:  envInt("CACHE_BATCH_SIZE", 0),
		DefaultCategory: os.Getenv("DEFAULT_CATEGORY"),
	}
	if categoriesFile != "" {
		if err := cfg.LoadCategoriesFile(categoriesFile); err != nil {
			slog.Error("load categories file", "path", categoriesFile, "error", err)
			os.Exit(1)
		}
	}
	// The providers below need the keyword and feed tables before the
	// service applies its own defaults.
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = newsfeed.DefaultKeywords()
	}
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = newsfeed.DefaultFeeds()
	}

	// Tracking DB.
	db, err := dbopen.Open(dbPath, dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("tracking db", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := newsfeed.ApplySchema(db); err != nil {
		slog.Error("apply schema", "error", err)
		os.Exit(1)
	}

	// News source chain: GNews, then NewsAPI, then keyless RSS.
	var providers []newsfeed.Provider
	if gnewsKey != "" {
		providers = append(providers, newsfeed.NewGNews(newsfeed.ProviderConfig{
			APIKey:   gnewsKey,
			Keywords: cfg.Keywords,
		}))
	}
	if newsapiKey != "" {
		providers = append(providers, newsfeed.NewNewsAPI(newsfeed.ProviderConfig{
			APIKey: newsapiKey,
		}))
	}
	providers = append(providers, newsfeed.NewRSS(cfg.Feeds, newsfeed.ProviderConfig{}))
	if gnewsKey == "" && newsapiKey == "" {
		slog.Warn("no API keys configured, serving from RSS feeds only")
	}
	chain := newsfeed.NewSourceChain(logger, providers...)

	// Service.
	svc, err := newsfeed.New(db, chain, cfg, logger)
	if err != nil {
		slog.Error("newsfeed service", "error", err)
		os.Exit(1)
	}

	// Router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	svc.RegisterHTTP(r)

	// HTTP server.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port, "db", dbPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// --- Helpers ---

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		slog.Warn("invalid integer env var, using default", "key", key, "value", s)
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		slog.Warn("invalid float env var, using default", "key", key, "value", s)
		return def
	}
	return v
}
