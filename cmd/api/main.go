// @title       Herd Pedigree API
// @version     1.0
// @description Genealogía, consanguinidad y simulación de cruces sobre el registro del rebaño.
// @BasePath    /
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"herd-pedigree/internal/adapters/messaging/natsbus"
	"herd-pedigree/internal/adapters/storage/csvfile"
	mem "herd-pedigree/internal/adapters/storage/memory"
	pg "herd-pedigree/internal/adapters/storage/postgres"
	"herd-pedigree/internal/adapters/storage/remote"
	"herd-pedigree/internal/domain/pedigree"
	"herd-pedigree/internal/platform/config"
	"herd-pedigree/internal/platform/httpclient"
	"herd-pedigree/internal/platform/logger"
	"herd-pedigree/internal/platform/metrics"
	"herd-pedigree/internal/router"

	"github.com/nats-io/nats.go"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "herd-pedigree: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reg *prom.Registry
	if cfg.Metrics.Enabled {
		reg = prom.NewRegistry()
		rec, err := metrics.NewPrometheus(reg)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		metrics.SetRecorder(rec)
	}

	source, closeSource, err := openSource(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer closeSource()

	svc, err := pedigree.NewService(source, pedigree.Options{
		MaxDepth:              cfg.Engine.MaxDepth,
		FounderInbreeding:     cfg.Engine.FounderInbreeding,
		EnforceSex:            cfg.Engine.EnforceSex,
		RankWorkers:           cfg.Engine.RankWorkers,
		DefaultMaxCoefficient: cfg.Engine.DefaultMaxCoefficient,
		DescendantDepth:       cfg.Engine.DescendantDepth,
		Thresholds: pedigree.Thresholds{
			LowPercent:  cfg.Risk.LowPercent,
			HighPercent: cfg.Risk.HighPercent,
		},
	}, log)
	if err != nil {
		return err
	}

	// Sin snapshot inicial la API arranca igual y responde 503 hasta el primer refresh.
	if _, err := svc.Reload(ctx); err != nil {
		log.Warn("starting without pedigree snapshot", map[string]any{"source": string(cfg.Source.Kind)})
	}

	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name(cfg.AppName))
		if err != nil {
			return fmt.Errorf("nats: connect: %w", err)
		}
		defer nc.Drain()

		refresher := natsbus.NewRefresher(svc.Reload, log, time.Minute)
		if _, err := refresher.Subscribe(nc, cfg.NATS.Subject); err != nil {
			return fmt.Errorf("nats: subscribe: %w", err)
		}
		log.Info("listening for pedigree refresh", map[string]any{"subject": cfg.NATS.Subject})
	}

	r := router.NewRouter(router.Options{
		Service:    svc,
		Logger:     log,
		Metrics:    reg,
		RateLimit:  cfg.HTTP.RateLimit,
		RateBurst:  cfg.HTTP.RateBurst,
		AdminToken: cfg.HTTP.AdminToken,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(r, cfg.AppName),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

func openSource(ctx context.Context, cfg config.Source) (pedigree.Source, func(), error) {
	noop := func() {}

	switch cfg.Kind {
	case config.SourcePostgres:
		db, err := pg.Open(ctx, cfg.DSN, pg.DefaultPoolOptions())
		if err != nil {
			return nil, noop, fmt.Errorf("postgres: %w", err)
		}
		return pg.NewAnimalsRepo(db), func() { closeDB(db) }, nil
	case config.SourceCSV:
		return csvfile.NewAnimalsRepo(cfg.CSV), noop, nil
	case config.SourceRemote:
		client, err := httpclient.New(httpclient.Options{})
		if err != nil {
			return nil, noop, err
		}
		return remote.NewAnimalsRepo(client, cfg.URL, nil), noop, nil
	default:
		return mem.NewAnimalsRepo(), noop, nil
	}
}

func closeDB(db *sql.DB) { _ = db.Close() }
