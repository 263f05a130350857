package transform

import (
	"context"
	"io"
	"sync"

	"github.com/goliatone/go-xmlform/pkg/model"
	"github.com/goliatone/go-xmlform/pkg/sax"
)

// Pool recycles Transformers that share a store and options. Get resets the
// instance for a new document; Put clears it, even after a failure.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a pool producing Transformers built with New(store, options...).
func NewPool(store model.Store, options ...Option) *Pool {
	p := &Pool{}
	p.pool.New = func() any {
		return New(store, options...)
	}
	return p
}

// Get returns a Transformer reset to write to out.
func (p *Pool) Get(ctx context.Context, out sax.Handler) *Transformer {
	t := p.pool.Get().(*Transformer)
	t.Reset(ctx, out)
	return t
}

// Put clears t and returns it to the pool.
func (p *Pool) Put(t *Transformer) {
	if t == nil {
		return
	}
	t.Clear()
	p.pool.Put(t)
}

// Transform runs one document through a pooled Transformer.
func (p *Pool) Transform(ctx context.Context, r io.Reader, out sax.Handler) error {
	t := p.pool.Get().(*Transformer)
	defer p.Put(t)
	return t.Transform(ctx, r, out)
}
