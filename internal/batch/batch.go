// Package batch renders sets of template files concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	xmlform "github.com/goliatone/go-xmlform"
	"github.com/goliatone/go-xmlform/pkg/sax"
)

// Renderer writes "<name>.out.xml" into OutputDir for every template.
type Renderer struct {
	Engine      *xmlform.Engine
	OutputDir   string
	Concurrency int
	Logger      *slog.Logger
}

// OutputPath returns the file a template renders to.
func (r Renderer) OutputPath(template string) string {
	base := strings.TrimSuffix(filepath.Base(template), filepath.Ext(template))
	return filepath.Join(r.OutputDir, base+".out.xml")
}

// Render renders templates concurrently and returns the written paths in
// template order. Templates that would share an output file are rejected
// before anything is written. The first failure cancels the remaining work.
func (r Renderer) Render(ctx context.Context, templates []string) ([]string, error) {
	if r.Engine == nil {
		return nil, errors.New("batch: engine is required")
	}
	if len(templates) == 0 {
		return nil, errors.New("batch: no templates given")
	}
	outputs := make([]string, len(templates))
	owners := make(map[string]string, len(templates))
	for i, template := range templates {
		out := r.OutputPath(template)
		if prev, ok := owners[out]; ok {
			return nil, fmt.Errorf("batch: %s and %s both render to %s", prev, template, out)
		}
		owners[out] = template
		outputs[i] = out
	}
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("batch: create output dir: %w", err)
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g, ctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	for i, template := range templates {
		g.Go(func() error {
			out := outputs[i]
			if err := r.renderFile(ctx, template, out); err != nil {
				return fmt.Errorf("batch: %s: %w", template, err)
			}
			logger.InfoContext(ctx, "xmlform: rendered template", "template", template, "output", out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func (r Renderer) renderFile(ctx context.Context, template, output string) (err error) {
	in, err := os.Open(template)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(output)
		}
	}()

	return r.Engine.Render(ctx, in, out, sax.WithIndent("", "  "))
}
