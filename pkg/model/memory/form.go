package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-xmlform/pkg/model"
)

// FormOption customises a Form.
type FormOption func(*Form)

// WithSchema validates the form data against schema when violations are
// requested.
func WithSchema(schema *openapi3.Schema) FormOption {
	return func(f *Form) {
		f.schema = schema
	}
}

// WithViolations attaches violations supplied by the caller.
func WithViolations(violations ...model.Violation) FormOption {
	return func(f *Form) {
		f.explicit = append(f.explicit, violations...)
	}
}

// WithSanitizer filters string values returned by Value.
func WithSanitizer(s Sanitizer) FormOption {
	return func(f *Form) {
		f.sanitizer = s
	}
}

// Form is an in-memory model.Form. Data is immutable once constructed;
// expected-reference bookkeeping is safe for concurrent use.
type Form struct {
	id        string
	data      any
	schema    *openapi3.Schema
	explicit  []model.Violation
	sanitizer Sanitizer

	violationsOnce sync.Once
	violations     []model.Violation

	mu       sync.Mutex
	expected map[viewKey][]model.ExpectedReference
}

// viewKey scopes registrations to one rendering session of a view.
type viewKey struct {
	session string
	view    string
}

var _ model.Form = (*Form)(nil)

// NewForm builds a form over data. Data is normalised through JSON so that
// numbers, maps and sequences have the shapes schema validation expects.
func NewForm(id string, data any, options ...FormOption) (*Form, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("memory: form id is required")
	}
	normalised, err := normalise(data)
	if err != nil {
		return nil, fmt.Errorf("memory: form %q: %w", id, err)
	}
	form := &Form{
		id:       id,
		data:     normalised,
		expected: make(map[viewKey][]model.ExpectedReference),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(form)
	}
	return form, nil
}

// ID returns the form identifier.
func (f *Form) ID() string {
	return f.id
}

// Value returns the node at ref, or nil when the path does not exist.
func (f *Form) Value(ref string) (any, error) {
	value, ok := lookup(f.data, splitPath(ref))
	if !ok {
		return nil, nil
	}
	return sanitizeValue(f.sanitizer, value), nil
}

// Locate returns one location per member when nodeset points at a sequence,
// the nodeset itself for any other existing node, and nothing otherwise.
func (f *Form) Locate(nodeset string) ([]string, error) {
	segments := splitPath(nodeset)
	node, ok := lookup(f.data, segments)
	if !ok || node == nil {
		return nil, nil
	}
	base := joinPath(segments)
	members, isSequence := node.([]any)
	if !isSequence {
		return []string{base}, nil
	}
	locations := make([]string, 0, len(members))
	for idx := range members {
		locations = append(locations, strings.TrimSuffix(base, "/")+"/"+strconv.Itoa(idx))
	}
	return locations, nil
}

// Violations merges explicit and schema-derived violations, sorted by path.
// Explicit paths are kept as authored apart from surrounding whitespace, so
// a violation only matches references that canonicalise to exactly its path. The result is computed once and
// shared; callers must not modify it.
func (f *Form) Violations() []model.Violation {
	f.violationsOnce.Do(func() {
		out := make([]model.Violation, 0, len(f.explicit))
		for _, violation := range f.explicit {
			violation.Path = strings.TrimSpace(violation.Path)
			out = append(out, violation)
		}
		out = append(out, schemaViolations(f.schema, f.data)...)
		model.SortViolations(out)
		if len(out) > 0 {
			f.violations = out
		}
	})
	return f.violations
}

// RegisterExpectedReference records an input control rendered for view
// under the session carried by ctx.
func (f *Form) RegisterExpectedReference(ctx context.Context, view, ref, tag string) {
	key := viewKey{session: model.SessionFromContext(ctx), view: view}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expected[key] = append(f.expected[key], model.ExpectedReference{Ref: ref, Tag: tag})
}

// ClearExpectedReferences forgets the registrations for view made under the
// session carried by ctx. Other sessions are untouched.
func (f *Form) ClearExpectedReferences(ctx context.Context, view string) {
	key := viewKey{session: model.SessionFromContext(ctx), view: view}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.expected, key)
}

// ExpectedReferences returns a copy of the registrations for view made under
// the session carried by ctx, in registration order.
func (f *Form) ExpectedReferences(ctx context.Context, view string) []model.ExpectedReference {
	key := viewKey{session: model.SessionFromContext(ctx), view: view}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.expected[key])
}

func normalise(data any) (any, error) {
	if data == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("normalise data: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("normalise data: %w", err)
	}
	return out, nil
}
