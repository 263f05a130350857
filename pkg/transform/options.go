package transform

import (
	"log/slog"
	"time"
)

// Option customises a Transformer.
type Option func(*Transformer)

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithActionRewriter rewrites the ids of submit, cancel and reset controls.
func WithActionRewriter(rewriter ActionRewriter) Option {
	return func(t *Transformer) {
		t.actions = rewriter
	}
}

// WithObserver reports document outcomes and unrolling volume.
func WithObserver(observer Observer) Option {
	return func(t *Transformer) {
		if observer != nil {
			t.observer = observer
		}
	}
}

// Observer receives engine measurements. telemetry.Metrics implements it.
type Observer interface {
	ObserveDocument(start time.Time, err error)
	ObserveUnroll(tag string, locations int)
}

type nopObserver struct{}

func (nopObserver) ObserveDocument(time.Time, error) {}
func (nopObserver) ObserveUnroll(string, int)        {}
