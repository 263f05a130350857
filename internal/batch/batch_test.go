package batch_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	xmlform "github.com/goliatone/go-xmlform"
	"github.com/goliatone/go-xmlform/internal/batch"
	"github.com/goliatone/go-xmlform/pkg/testsupport"
)

func writeTemplate(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return path
}

func newRenderer(t *testing.T, out string) batch.Renderer {
	t.Helper()
	store := testsupport.LoadStore(t, filepath.Join("..", "..", "testdata", "models", "order.yaml"))
	return batch.Renderer{
		Engine:      xmlform.New(store),
		OutputDir:   out,
		Concurrency: 2,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRenderer_RendersEveryTemplate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	ns := `xmlns:xf="` + xmlform.Namespace + `"`
	templates := []string{
		writeTemplate(t, dir, "name.xml", `<xf:form `+ns+` id="order"><xf:output ref="/customer/name"/></xf:form>`),
		writeTemplate(t, dir, "items.xml", `<xf:form `+ns+` id="order"><xf:repeat nodeset="/items"><xf:output ref="sku"/></xf:repeat></xf:form>`),
		filepath.Join("..", "..", "testdata", "templates", "order.xml"),
	}

	written, err := newRenderer(t, out).Render(context.Background(), templates)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{
		filepath.Join(out, "name.out.xml"),
		filepath.Join(out, "items.out.xml"),
		filepath.Join(out, "order.out.xml"),
	}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Fatalf("outputs mismatch (-want +got):\n%s", diff)
	}

	items, err := os.ReadFile(want[1])
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, sku := range []string{"A-1", "B-7"} {
		if !strings.Contains(string(items), sku) {
			t.Fatalf("expected %s in %s", sku, items)
		}
	}
}

func TestRenderer_RemovesOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	ns := `xmlns:xf="` + xmlform.Namespace + `"`
	template := writeTemplate(t, dir, "bad.xml", `<xf:form `+ns+` id="order"><xf:textbox/></xf:form>`)

	renderer := newRenderer(t, out)
	if _, err := renderer.Render(context.Background(), []string{template}); err == nil {
		t.Fatalf("expected render error")
	}
	if _, err := os.Stat(renderer.OutputPath(template)); !os.IsNotExist(err) {
		t.Fatalf("expected partial output to be removed, stat err %v", err)
	}
}

func TestRenderer_RejectsTemplatesSharingAnOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	ns := `xmlns:xf="` + xmlform.Namespace + `"`
	for _, sub := range []string{"a", "b"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	templates := []string{
		writeTemplate(t, dir, filepath.Join("a", "page.xml"), `<xf:form `+ns+` id="order"><xf:output ref="/customer/name"/></xf:form>`),
		writeTemplate(t, dir, filepath.Join("b", "page.xml"), `<xf:form `+ns+` id="order"><xf:output ref="/shipping"/></xf:form>`),
	}

	renderer := newRenderer(t, out)
	_, err := renderer.Render(context.Background(), templates)
	if err == nil || !strings.Contains(err.Error(), "both render to") {
		t.Fatalf("expected duplicate output error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "page.out.xml")); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written, stat err %v", err)
	}
}

func TestRenderer_RequiresTemplates(t *testing.T) {
	if _, err := newRenderer(t, t.TempDir()).Render(context.Background(), nil); err == nil {
		t.Fatalf("expected error without templates")
	}
}
