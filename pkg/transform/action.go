package transform

import (
	"context"

	"github.com/goliatone/go-xmlform/pkg/sax"
)

// ActionRewriter rewrites the id attribute of submit, cancel and reset
// controls, typically to tie them to a continuation.
type ActionRewriter interface {
	RewriteActionID(ctx context.Context, tag, id, continuation string) string
}

// ActionRewriterFunc adapts plain functions to ActionRewriter.
type ActionRewriterFunc func(ctx context.Context, tag, id, continuation string) string

// RewriteActionID calls fn.
func (fn ActionRewriterFunc) RewriteActionID(ctx context.Context, tag, id, continuation string) string {
	if fn == nil {
		return id
	}
	return fn(ctx, tag, id, continuation)
}

// ContinuationRewriter prefixes the ids of controls that carry a
// continuation attribute with a continuation token. Token takes precedence
// over a token stored in the context with ContextWithContinuation.
type ContinuationRewriter struct {
	Token string
}

// RewriteActionID returns "<token>:<id>" for controls with a continuation.
func (r ContinuationRewriter) RewriteActionID(ctx context.Context, _ string, id, continuation string) string {
	if id == "" || continuation == "" {
		return id
	}
	token := r.Token
	if token == "" {
		token = ContinuationFromContext(ctx)
	}
	if token == "" {
		return id
	}
	return token + ":" + id
}

type continuationKey struct{}

// ContextWithContinuation stores a per-document continuation token.
func ContextWithContinuation(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, continuationKey{}, token)
}

// ContinuationFromContext returns the token stored by ContextWithContinuation.
func ContinuationFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(continuationKey{}).(string)
	return token
}

func (t *Transformer) openAction(_ *traversal, el element) error {
	if t.actions == nil {
		return t.out.StartElement(el.name, el.attrs)
	}
	id, ok := el.attr(AttrID)
	if !ok {
		return t.out.StartElement(el.name, el.attrs)
	}
	continuation, _ := el.attr(AttrContinuation)
	rewritten := t.actions.RewriteActionID(t.ctx, el.name.Local, id, continuation)
	if rewritten == id {
		return t.out.StartElement(el.name, el.attrs)
	}
	return t.out.StartElement(el.name, sax.WithAttr(el.attrs, AttrID, rewritten))
}
