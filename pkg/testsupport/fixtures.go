package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-xmlform/pkg/model"
	"github.com/goliatone/go-xmlform/pkg/model/memory"
	"github.com/goliatone/go-xmlform/pkg/sax"
	"github.com/goliatone/go-xmlform/pkg/transform"
)

// LoadStore reads a model document fixture into a memory store. Testing
// helpers fail the test on error to keep contract tests concise.
func LoadStore(t *testing.T, path string, options ...memory.FormOption) *memory.Store {
	t.Helper()

	store, err := LoadStoreFromPath(path, options...)
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return store
}

// LoadStoreFromPath returns a store without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadStoreFromPath(path string, options ...memory.FormOption) (*memory.Store, error) {
	if path == "" {
		return nil, errors.New("testsupport: model path is required")
	}
	store, err := memory.LoadFile(path, options...)
	if err != nil {
		return nil, fmt.Errorf("testsupport: load model: %w", err)
	}
	return store, nil
}

// RenderOutline transforms the template at path and returns the outline of
// the produced events.
func RenderOutline(t *testing.T, store *memory.Store, path string, options ...transform.Option) []string {
	t.Helper()

	template, err := os.Open(path)
	if err != nil {
		t.Fatalf("open template: %v", err)
	}
	defer template.Close()

	out := &sax.Fragment{}
	if err := transform.New(store, options...).Transform(Context(), template, out); err != nil {
		t.Fatalf("transform %s: %v", path, err)
	}
	return sax.Outline(out.Events())
}

// MustLoadOutline loads a JSON golden holding an event outline.
func MustLoadOutline(t *testing.T, path string) []string {
	t.Helper()

	var out []string
	if err := json.Unmarshal(MustReadGolden(t, path), &out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	return out
}

// MarshalGolden encodes value the way golden files are stored.
func MarshalGolden(t *testing.T, value any) []byte {
	t.Helper()

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	return append(payload, '\n')
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Session scopes the expected-reference registrations made by fixtures
// rendered with Context.
const Session = "testsupport"

// Context returns a background context bound to Session, so tests can read
// back the registrations of a render.
func Context() context.Context {
	return model.ContextWithSession(context.Background(), Session)
}
