package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appauthn "pizza-service/internal/app/authn"
	apporder "pizza-service/internal/app/order"
	"pizza-service/internal/auth"
	"pizza-service/internal/config"
	"pizza-service/internal/factory"
	"pizza-service/internal/httpx"
	"pizza-service/internal/logging"
	"pizza-service/internal/metrics"
	"pizza-service/internal/store"
	httptransport "pizza-service/internal/transport/http"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	agg := metrics.NewAggregator(
		metrics.WithInactiveAfter(cfg.Metrics.InactiveAfter),
		metrics.WithCumulativeRequests(cfg.Metrics.CumulativeRequests),
	)

	// Optional seed from env
	seeder := appauthn.NewService(st, auth.NewIssuer(cfg.Server.JWTSecret, cfg.Server.JWTTTL), agg)
	if err := seeder.EnsureAdmin(ctx, cfg.Server.DefaultAdminName, cfg.Server.DefaultAdminEmail, cfg.Server.DefaultAdminPassword); err != nil {
		log.Fatal().Err(err).Msg("seed admin failed")
	}

	exporter := newExporter(cfg.Metrics, agg)
	exporter.Start(ctx)

	var fulfiller apporder.Fulfiller
	if cfg.Server.FactoryURL != "" {
		fulfiller = factory.NewClient(httpx.NewClient(cfg.Server.FactoryTimeout), cfg.Server.FactoryURL, cfg.Server.FactoryAPIKey)
	} else {
		log.Warn().Msg("FACTORY_URL not set; orders are accepted without fulfillment")
	}

	r := httptransport.NewRouter(st, cfg, agg, fulfiller)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Str("version", cfg.Server.Version).Msg("http listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	exporter.Stop()
	log.Info().Msg("server stopped")
	if err := logging.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("log push flush failed")
	}
}

func newExporter(cfg config.MetricsConfig, agg *metrics.Aggregator) *metrics.Exporter {
	var sink metrics.Sink
	if cfg.ExportEnabled() {
		sink = metrics.NewHTTPSink(httpx.NewClient(cfg.RequestTimeout), cfg.URL, cfg.APIKey)
		log.Info().Str("url", cfg.URL).Dur("interval", cfg.Interval).Bool("batch", cfg.Batch).Msg("metrics export enabled")
		if cfg.APIKey == "" {
			log.Warn().Msg("METRICS_API_KEY not set; metrics posts carry an empty bearer token")
		}
	} else {
		log.Info().Msg("METRICS_URL not set; metrics are aggregated but not exported")
	}
	return metrics.NewExporter(agg, sink, metrics.NewHostSampler(), metrics.ExporterConfig{
		Interval:       cfg.Interval,
		RequestTimeout: cfg.RequestTimeout,
		Batch:          cfg.Batch,
		Source:         cfg.Source,
	})
}
