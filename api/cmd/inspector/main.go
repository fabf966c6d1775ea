package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fruit-inspector/api/internal/app"
	"fruit-inspector/api/internal/config"
	"fruit-inspector/api/internal/handle"
	"fruit-inspector/api/internal/httpserver"
	"fruit-inspector/api/internal/metrics"
	"fruit-inspector/api/internal/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.SetupLogging(); err != nil {
		log.WithError(err).Fatal("logging")
	}
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Postgres (опционально) ---
	var repo *store.AnalysisRepo
	if dsn := cfg.DSN(); dsn != "" {
		db, err := store.Open(ctx, dsn)
		if err != nil {
			log.WithError(err).Fatal("database")
		}
		defer db.Close()
		repo = store.NewAnalysisRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("ensure schema")
		}
		log.WithField("db", store.SafeDSNSummary(dsn)).Info("db connected")
	} else {
		log.Warn("DATABASE_URL is not set, history is disabled")
	}

	engines := app.NewEngines(cfg)
	builder := app.NewBuilder(cfg, engines)
	h := handle.New(builder, repo, builder.Prompts)

	mux := http.NewServeMux()
	h.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	log.WithFields(log.Fields{
		"provider": cfg.Provider,
		"model":    cfg.Model(),
		"locale":   cfg.Locale,
	}).Info("fruit inspector starting")

	if err := httpserver.Run(ctx, ":"+cfg.Port, mux); err != nil {
		log.WithError(err).Fatal("http server")
	}
}
