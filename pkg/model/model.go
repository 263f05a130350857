package model

import (
	"cmp"
	"context"
	"errors"
	"slices"
)

// ErrFormNotFound reports that a Store has no form for the requested id.
var ErrFormNotFound = errors.New("model: form not found")

// Store resolves form ids to bound Form handles.
type Store interface {
	LookupForm(ctx context.Context, id string) (Form, error)
}

// Form is a handle into one bound data model instance.
type Form interface {
	// Value returns the value stored at the canonical reference. Sequences
	// are returned as slices; a missing node yields nil.
	Value(ref string) (any, error)
	// Locate resolves a node-set selector into absolute locations, in the
	// order the model defines.
	Locate(nodeset string) ([]string, error)
	// Violations returns the validation failures sorted by SortViolations.
	Violations() []Violation
	// RegisterExpectedReference records that the view rendered an input
	// control bound to ref, scoped to the session carried by ctx.
	RegisterExpectedReference(ctx context.Context, view, ref, tag string)
	// ClearExpectedReferences drops the registrations of a view made under
	// the session carried by ctx.
	ClearExpectedReferences(ctx context.Context, view string)
}

type sessionKey struct{}

// ContextWithSession scopes expected-reference registrations made with ctx
// to session. Documents rendered under different sessions never observe
// each other's registrations.
func ContextWithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by ContextWithSession.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	session, _ := ctx.Value(sessionKey{}).(string)
	return session
}

// Violation is a validation failure attached to a canonical path.
type Violation struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// ExpectedReference is one input control registered for a view.
type ExpectedReference struct {
	Ref string `json:"ref" yaml:"ref"`
	Tag string `json:"tag" yaml:"tag"`
}

// CompareViolations orders violations by path, then by message. Renderers
// rely on entries for the same path being contiguous.
func CompareViolations(a, b Violation) int {
	if c := cmp.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	return cmp.Compare(a.Message, b.Message)
}

// SortViolations sorts violations in place using CompareViolations.
func SortViolations(violations []Violation) {
	slices.SortStableFunc(violations, CompareViolations)
}
