package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	xmlform "github.com/goliatone/go-xmlform"
	"github.com/goliatone/go-xmlform/internal/config"
	"github.com/goliatone/go-xmlform/internal/server"
	"github.com/goliatone/go-xmlform/internal/telemetry"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "xmlform-server: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("xmlform-server", flag.ContinueOnError)
	cfg, err := config.Load(fs, args, func(fs *flag.FlagSet, cfg *config.Config) {
		fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
		fs.StringVar(&cfg.Model, "model", cfg.Model, "JSON or YAML model document")
		fs.StringVar(&cfg.Database, "db", cfg.Database, "SQLite model database (seeded from -model when both are set)")
		fs.StringVar(&cfg.TemplatesDir, "templates", cfg.TemplatesDir, "template directory")
		fs.BoolVar(&cfg.Sanitize, "sanitize", cfg.Sanitize, "strip markup from model strings")
		fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	})
	if err != nil {
		return err
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, closeStore, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	engine := xmlform.New(store,
		xmlform.WithLogger(logger),
		xmlform.WithContinuationToken(""),
		xmlform.WithObserver(telemetry.NewMetrics(reg)),
	)
	handler := server.NewHandler(engine, os.DirFS(cfg.TemplatesDir), logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(handler, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("xmlform: listening", "addr", cfg.Addr, "templates", cfg.TemplatesDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
