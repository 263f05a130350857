// Package xmlform renders xmlform templates against a form model. It wraps the
// streaming engine in pkg/transform with XML decoding, serialisation, pooling
// and tracing.
package xmlform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/goliatone/go-xmlform/internal/telemetry"
	"github.com/goliatone/go-xmlform/pkg/model"
	"github.com/goliatone/go-xmlform/pkg/sax"
	"github.com/goliatone/go-xmlform/pkg/transform"
)

// Namespace is the xmlform vocabulary namespace URI.
const Namespace = transform.Namespace

// Option aliases transform.Option so callers configure engines from the root
// package.
type Option = transform.Option

// Store aliases model.Store.
type Store = model.Store

// Violation aliases model.Violation.
type Violation = model.Violation

// TagError aliases transform.TagError.
type TagError = transform.TagError

// Engine renders templates with pooled transformers bound to one store. It is
// safe for concurrent use.
type Engine struct {
	pool *transform.Pool
}

// New constructs an Engine over store.
func New(store Store, options ...Option) *Engine {
	return &Engine{pool: transform.NewPool(store, options...)}
}

// Render decodes the template read from r, transforms it and writes XML to w.
// Writer options such as sax.WithIndent control serialisation.
func (e *Engine) Render(ctx context.Context, r io.Reader, w io.Writer, writerOptions ...sax.WriterOption) (err error) {
	if e == nil || e.pool == nil {
		return errors.New("xmlform: engine is not initialised")
	}
	if w == nil {
		return errors.New("xmlform: writer is nil")
	}
	ctx, span := telemetry.StartSpan(ctx, "xmlform.render",
		attribute.String("xmlform.continuation", transform.ContinuationFromContext(ctx)),
	)
	defer func() {
		telemetry.EndSpan(span, err)
	}()

	out := sax.NewWriter(w, writerOptions...)
	if err := e.pool.Transform(ctx, r, out); err != nil {
		return fmt.Errorf("xmlform: render: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("xmlform: flush: %w", err)
	}
	return nil
}

// RenderEvents transforms the template read from r and returns the output
// events instead of serialising them.
func (e *Engine) RenderEvents(ctx context.Context, r io.Reader) ([]sax.Event, error) {
	if e == nil || e.pool == nil {
		return nil, errors.New("xmlform: engine is not initialised")
	}
	out := &sax.Fragment{}
	if err := e.pool.Transform(ctx, r, out); err != nil {
		return nil, fmt.Errorf("xmlform: render: %w", err)
	}
	return out.Events(), nil
}

// Transform renders a single template. Callers rendering many documents
// should keep an Engine instead.
func Transform(ctx context.Context, r io.Reader, w io.Writer, store Store, options ...Option) error {
	return New(store, options...).Render(ctx, r, w)
}

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return transform.WithLogger(logger)
}

// WithContinuationToken rewrites the ids of action controls carrying a
// continuation attribute to "<token>:<id>". An empty token defers to the
// token stored in the request context with transform.ContextWithContinuation.
func WithContinuationToken(token string) Option {
	return transform.WithActionRewriter(transform.ContinuationRewriter{Token: token})
}

// WithObserver reports document outcomes and unrolling volume.
func WithObserver(observer transform.Observer) Option {
	return transform.WithObserver(observer)
}
