// Package config loads command configuration from the environment, with
// flags overriding environment defaults.
package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-xmlform/pkg/model"
	"github.com/goliatone/go-xmlform/pkg/model/memory"
	"github.com/goliatone/go-xmlform/pkg/model/sqlstore"
)

// Config is shared by xmlform-cli and xmlform-server.
type Config struct {
	Model        string `env:"XMLFORM_MODEL"`
	Database     string `env:"XMLFORM_DATABASE"`
	TemplatesDir string `env:"XMLFORM_TEMPLATES_DIR" envDefault:"templates"`
	OutputDir    string `env:"XMLFORM_OUTPUT_DIR" envDefault:"."`
	Sanitize     bool   `env:"XMLFORM_SANITIZE"`
	LogLevel     string `env:"XMLFORM_LOG_LEVEL" envDefault:"info"`
	Addr         string `env:"XMLFORM_ADDR" envDefault:":8080"`
	Continuation string `env:"XMLFORM_CONTINUATION"`
	Concurrency  int    `env:"XMLFORM_CONCURRENCY" envDefault:"4"`
}

// ParseEnv loads environment variables into cfg.
func ParseEnv(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: target is required")
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Load reads environment defaults and then parses args with fs. The flags
// registered by register are expected to default to the values already in
// cfg.
func Load(fs *flag.FlagSet, args []string, register func(*flag.FlagSet, *Config)) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if fs == nil {
		return cfg, nil
	}
	if register != nil {
		register(fs, &cfg)
	}
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Logger builds a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	var level slog.Level
	if raw := strings.TrimSpace(c.LogLevel); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// OpenStore returns the model store selected by the configuration. With a
// database path the SQLite store is opened and, when a model document is
// also configured, seeded from it. The returned close function is never nil.
func (c Config) OpenStore(ctx context.Context) (model.Store, func() error, error) {
	noop := func() error { return nil }

	var options []memory.FormOption
	if c.Sanitize {
		options = append(options, memory.WithSanitizer(memory.StrictSanitizer()))
	}

	if c.Database == "" {
		if c.Model == "" {
			return nil, noop, errors.New("config: a model document or database is required")
		}
		store, err := memory.LoadFile(c.Model, options...)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	}

	store, err := sqlstore.Open(c.Database, options...)
	if err != nil {
		return nil, noop, err
	}
	if c.Model != "" {
		if err := seed(ctx, store, c.Model); err != nil {
			store.Close()
			return nil, noop, err
		}
	}
	return store, store.Close, nil
}

func seed(ctx context.Context, store *sqlstore.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read model %s: %w", path, err)
	}
	forms, err := memory.SplitDocument(data, path)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(forms))
	for id := range forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := store.Put(ctx, id, forms[id]); err != nil {
			return err
		}
	}
	return nil
}
