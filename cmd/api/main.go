package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/cache"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/catalog"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/config"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/convo"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/glm"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/handlers"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/logging"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/metrics"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/quote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("production").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.AppEnv)

	registry := prometheus.NewRegistry()
	m := metrics.New(cfg.MetricsNamespace, registry)

	redisCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisCache != nil {
		defer redisCache.Close()
	}

	cat := catalog.NewService(cfg.ExcelFile, redisCache, cfg.CatalogCacheTTL, logger)
	info := cat.Inspect(context.Background())
	logger.Info("catalog loaded",
		"file", cfg.ExcelFile,
		"exists", info.FileExists,
		"records", info.TotalRecords,
		"columns", info.Identified)

	glmClient := glm.NewClient(cfg.ZhipuAPIKey, cfg.GLMModel, cfg.GLMTimeout, m, logger)
	if glmClient == nil {
		logger.Warn("ZHIPU_API_KEY not set, running with deterministic extraction only")
	}

	sessions := convo.NewStore(cfg.SessionTTL, cfg.SessionMaxCount)
	intents := glm.NewService(glmClient, cat, sessions, m, logger)
	renderer := quote.NewRenderer(cfg.CompanyName, cfg.CompanyPhone, cfg.LogoPath)
	pdfs := quote.NewPDFStore()
	engine := convo.NewEngine(sessions, intents, cat, renderer, pdfs, m, logger)

	handler := handlers.New(engine, cat, intents, pdfs, m, logger)
	server := &http.Server{
		Addr:              cfg.HTTPListenAddr,
		Handler:           handler.Router(cfg.AppEnv, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}
}
