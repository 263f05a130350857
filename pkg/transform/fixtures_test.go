package transform_test

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-xmlform/pkg/testsupport"
	"github.com/goliatone/go-xmlform/pkg/transform"
)

func TestTransform_OrderTemplateAgainstMemoryStore(t *testing.T) {
	root := filepath.Join("..", "..", "testdata")
	store := testsupport.LoadStore(t, filepath.Join(root, "models", "order.yaml"))

	got := testsupport.RenderOutline(t, store, filepath.Join(root, "templates", "order.xml"),
		transform.WithActionRewriter(transform.ContinuationRewriter{Token: "c1"}),
	)

	want := testsupport.MustLoadOutline(t, filepath.Join(root, "golden", "order.outline.json"))
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("outline mismatch (-want +got):\n%s", diff)
	}

	form, ok := store.Form("order")
	if !ok {
		t.Fatalf("expected order form")
	}
	refs := form.ExpectedReferences(testsupport.Context(), "edit")
	if len(refs) != 5 {
		t.Fatalf("expected 5 expected references (email, two quantities, shipping, token), got %+v", refs)
	}
}
