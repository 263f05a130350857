package transform_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-xmlform/pkg/model"
	"github.com/goliatone/go-xmlform/pkg/sax"
	"github.com/goliatone/go-xmlform/pkg/transform"
)

// stubStore serves stubForms keyed by id and answers with exactly the values,
// locations and violations it was given.
type stubStore map[string]*stubForm

func (s stubStore) LookupForm(_ context.Context, id string) (model.Form, error) {
	form, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("stub: form %q: %w", id, model.ErrFormNotFound)
	}
	return form, nil
}

type stubForm struct {
	values     map[string]any
	locations  map[string][]string
	violations []model.Violation

	mu       sync.Mutex
	expected map[string][]model.ExpectedReference
	cleared  []string
	sessions []string
}

var _ model.Form = (*stubForm)(nil)

func (f *stubForm) Value(ref string) (any, error) {
	return f.values[ref], nil
}

func (f *stubForm) Locate(nodeset string) ([]string, error) {
	return f.locations[nodeset], nil
}

func (f *stubForm) Violations() []model.Violation {
	return f.violations
}

func (f *stubForm) RegisterExpectedReference(ctx context.Context, view, ref, tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, model.SessionFromContext(ctx))
	if f.expected == nil {
		f.expected = make(map[string][]model.ExpectedReference)
	}
	f.expected[view] = append(f.expected[view], model.ExpectedReference{Ref: ref, Tag: tag})
}

func (f *stubForm) ClearExpectedReferences(ctx context.Context, view string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, model.SessionFromContext(ctx))
	f.cleared = append(f.cleared, view)
	delete(f.expected, view)
}

const xf = `xmlns:xf="` + transform.Namespace + `"`

// inForm wraps body in a form bound to the "f" form.
func inForm(body string) string {
	return `<xf:form ` + xf + ` id="f">` + body + `</xf:form>`
}

func render(t *testing.T, store model.Store, template string, options ...transform.Option) ([]string, error) {
	t.Helper()
	out := &sax.Fragment{}
	err := transform.New(store, options...).Transform(context.Background(), strings.NewReader(template), out)
	return sax.Outline(out.Events()), err
}

func mustRender(t *testing.T, store model.Store, template string, options ...transform.Option) []string {
	t.Helper()
	lines, err := render(t, store, template, options...)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	return lines
}

// wrapForm brackets the expected outline lines with the form element.
func wrapForm(lines ...string) []string {
	out := append([]string{"+form id=f"}, lines...)
	return append(out, "-form")
}
