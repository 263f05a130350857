package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"

	xmlform "github.com/goliatone/go-xmlform"
	"github.com/goliatone/go-xmlform/internal/batch"
	"github.com/goliatone/go-xmlform/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "xmlform-cli: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("xmlform-cli", flag.ContinueOnError)
	var interactive bool
	cfg, err := config.Load(fs, args, func(fs *flag.FlagSet, cfg *config.Config) {
		fs.StringVar(&cfg.Model, "model", cfg.Model, "JSON or YAML model document")
		fs.StringVar(&cfg.Database, "db", cfg.Database, "SQLite model database (seeded from -model when both are set)")
		fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for rendered <name>.out.xml files")
		fs.StringVar(&cfg.TemplatesDir, "templates", cfg.TemplatesDir, "template directory offered by -interactive")
		fs.StringVar(&cfg.Continuation, "continuation", cfg.Continuation, "continuation token for action ids (generated when empty)")
		fs.BoolVar(&cfg.Sanitize, "sanitize", cfg.Sanitize, "strip markup from model strings")
		fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "templates rendered in parallel")
		fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
		fs.BoolVar(&interactive, "interactive", false, "pick templates from -templates interactively")
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

	templates := fs.Args()
	if interactive {
		picked, err := pickTemplates(ctx, cfg.TemplatesDir)
		if err != nil {
			return err
		}
		templates = append(templates, picked...)
	}
	if len(templates) == 0 {
		fs.Usage()
		return fmt.Errorf("no templates given")
	}

	store, closeStore, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	token := cfg.Continuation
	if token == "" {
		token = uuid.NewString()
	}
	engine := xmlform.New(store,
		xmlform.WithLogger(logger),
		xmlform.WithContinuationToken(token),
	)

	renderer := batch.Renderer{
		Engine:      engine,
		OutputDir:   cfg.OutputDir,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	}
	written, err := renderer.Render(ctx, templates)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Println(path)
	}
	logger.Info("xmlform: batch complete", "templates", len(written), "continuation", token)
	return nil
}
