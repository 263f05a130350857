package transform

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-xmlform/pkg/model"
	"github.com/goliatone/go-xmlform/pkg/sax"
)

// Transformer is the streaming engine. It implements sax.Handler: events
// pushed to it are transformed and forwarded to the output handler supplied
// to Reset.
type Transformer struct {
	store    model.Store
	logger   *slog.Logger
	actions  ActionRewriter
	observer Observer

	ctx context.Context
	out sax.Handler
	tc  *traversal
}

var _ sax.Handler = (*Transformer)(nil)

// New constructs a Transformer bound to store.
func New(store model.Store, options ...Option) *Transformer {
	t := &Transformer{
		store:    store,
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
	return t
}

// Reset prepares the Transformer for a new document written to out. Any
// state left by a previous document is discarded. Expected references are
// registered under the session carried by ctx; a document without one gets
// a fresh session so concurrent renders never share registrations.
func (t *Transformer) Reset(ctx context.Context, out sax.Handler) {
	if ctx == nil {
		ctx = context.Background()
	}
	if model.SessionFromContext(ctx) == "" {
		ctx = model.ContextWithSession(ctx, uuid.NewString())
	}
	t.ctx = ctx
	t.out = out
	t.tc = newTraversal()
}

// Clear drops all per-document state. It is safe to call after a failed
// transformation and more than once.
func (t *Transformer) Clear() {
	t.ctx = nil
	t.out = nil
	t.tc = nil
}

// Snapshot reports the current traversal state.
func (t *Transformer) Snapshot() Snapshot {
	return t.tc.snapshot()
}

// Transform runs a whole document read from r through the engine, writing
// to out. The Transformer is cleared on return.
func (t *Transformer) Transform(ctx context.Context, r io.Reader, out sax.Handler) (err error) {
	start := time.Now()
	defer func() {
		t.observer.ObserveDocument(start, err)
	}()

	t.Reset(ctx, out)
	defer t.Clear()

	return sax.Decode(t.ctx, r, t)
}

// StartElement implements sax.Handler.
func (t *Transformer) StartElement(name xml.Name, attrs []xml.Attr) error {
	tc, err := t.traversal()
	if err != nil {
		return err
	}
	return t.startElement(tc, element{name: name, attrs: attrs})
}

// EndElement implements sax.Handler.
func (t *Transformer) EndElement(name xml.Name) error {
	tc, err := t.traversal()
	if err != nil {
		return err
	}
	return t.endElement(tc, name)
}

// Characters implements sax.Handler.
func (t *Transformer) Characters(text []byte) error {
	tc, err := t.traversal()
	if err != nil {
		return err
	}
	return t.characters(tc, text)
}

func (t *Transformer) traversal() (*traversal, error) {
	if t.tc == nil || t.out == nil {
		return nil, ErrNotReset
	}
	return t.tc, nil
}

// startElement is the per-element entry point shared by live events and
// fragment replay.
func (t *Transformer) startElement(tc *traversal, el element) error {
	tc.depth++

	if tc.mode == modeRecording {
		return tc.rec.fragment.StartElement(el.name, el.attrs)
	}

	cls, ok := classify(el.name)
	if !ok {
		return t.out.StartElement(el.name, el.attrs)
	}
	if cls == classRepeat || cls == classItemset {
		return t.beginRecording(tc, cls, el)
	}

	if raw, ok := el.attr(AttrRef); ok {
		canonical := tc.refs.resolve(raw)
		tc.refs.push(tc.depth, canonical)
		el.attrs = sax.WithAttr(el.attrs, AttrRef, canonical)
	}
	return handlers[cls].open(t, tc, el)
}

func (t *Transformer) endElement(tc *traversal, name xml.Name) error {
	if tc.mode == modeRecording {
		if tc.depth == tc.rec.startDepth && name.Space == Namespace && name.Local == tc.rec.tag {
			return t.endRecording(tc, name)
		}
		tc.depth--
		return tc.rec.fragment.EndElement(name)
	}

	var err error
	if cls, ok := classify(name); ok {
		err = handlers[cls].close(t, tc, element{name: name})
	} else {
		err = t.out.EndElement(name)
	}
	tc.refs.popFrom(tc.depth)
	tc.depth--
	return err
}

func (t *Transformer) characters(tc *traversal, text []byte) error {
	if tc.mode == modeRecording {
		return tc.rec.fragment.Characters(text)
	}
	return t.out.Characters(text)
}

// activeForm returns the form named by the element's form attribute, or the
// innermost bound form.
func (t *Transformer) activeForm(tc *traversal, el element) (formEntry, error) {
	if id, ok := el.attr(AttrForm); ok && id != "" {
		return t.lookupForm(id)
	}
	if entry, ok := tc.forms.top(); ok {
		return entry, nil
	}
	return formEntry{}, ErrNoActiveForm
}

func (t *Transformer) lookupForm(id string) (formEntry, error) {
	if t.store == nil {
		return formEntry{}, fmt.Errorf("transform: lookup form %q: model store is nil", id)
	}
	form, err := t.store.LookupForm(t.ctx, id)
	if err != nil {
		return formEntry{}, err
	}
	if form == nil {
		return formEntry{}, fmt.Errorf("transform: lookup form %q: %w", id, model.ErrFormNotFound)
	}
	return formEntry{id: id, form: form}, nil
}

type element struct {
	name  xml.Name
	attrs []xml.Attr
}

func (el element) attr(local string) (string, bool) {
	return sax.Attr(el.attrs, local)
}
