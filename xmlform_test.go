package xmlform_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	xmlform "github.com/goliatone/go-xmlform"
	"github.com/goliatone/go-xmlform/internal/telemetry"
	"github.com/goliatone/go-xmlform/pkg/model"
	"github.com/goliatone/go-xmlform/pkg/sax"
	"github.com/goliatone/go-xmlform/pkg/testsupport"
)

func TestEngine_RenderEventsMatchesGolden(t *testing.T) {
	store := testsupport.LoadStore(t, filepath.Join("testdata", "models", "order.yaml"))
	engine := xmlform.New(store, xmlform.WithContinuationToken("c1"))

	template, err := os.Open(filepath.Join("testdata", "templates", "order.xml"))
	if err != nil {
		t.Fatalf("open template: %v", err)
	}
	defer template.Close()

	events, err := engine.RenderEvents(testsupport.Context(), template)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := sax.Outline(events)

	goldenPath := filepath.Join("testdata", "golden", "order.outline.json")
	if testsupport.WriteMaybeGolden(t, goldenPath, testsupport.MarshalGolden(t, got)) {
		return
	}
	want := testsupport.MustLoadOutline(t, goldenPath)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_RenderWritesXML(t *testing.T) {
	store := testsupport.LoadStore(t, filepath.Join("testdata", "models", "order.yaml"))
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	engine := xmlform.New(store, xmlform.WithObserver(metrics))

	var buf bytes.Buffer
	template := `<page xmlns:xf="` + xmlform.Namespace + `"><xf:form id="order"><xf:output ref="/customer/name"/></xf:form></page>`
	if err := engine.Render(context.Background(), strings.NewReader(template), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}

	out := buf.String()
	for _, fragment := range []string{
		`<page>`,
		`<form xmlns="` + xmlform.Namespace + `" id="order">`,
		`ref="/customer/name"`,
		`Ada Lovelace</value>`,
		`</page>`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected output to contain %q, got %s", fragment, out)
		}
	}
	if got := testutil.ToFloat64(metrics.Documents.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 document observed, got %v", got)
	}
}

func TestTransform_ReportsUnknownForm(t *testing.T) {
	store := testsupport.LoadStore(t, filepath.Join("testdata", "models", "order.yaml"))
	template := `<xf:form xmlns:xf="` + xmlform.Namespace + `" id="missing"/>`

	err := xmlform.Transform(context.Background(), strings.NewReader(template), &bytes.Buffer{}, store)
	if !errors.Is(err, model.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	var tagErr *xmlform.TagError
	if !errors.As(err, &tagErr) || tagErr.Tag != "form" {
		t.Fatalf("expected TagError naming the form tag, got %v", err)
	}
}

func TestEngine_ConcurrentRenders(t *testing.T) {
	store := testsupport.LoadStore(t, filepath.Join("testdata", "models", "order.yaml"))
	engine := xmlform.New(store)
	template := `<xf:form xmlns:xf="` + xmlform.Namespace + `" id="order"><xf:repeat nodeset="/items"><xf:output ref="sku"/></xf:repeat></xf:form>`

	errs := make(chan error, 8)
	for i := 0; i < cap(errs); i++ {
		go func() {
			var buf bytes.Buffer
			err := engine.Render(context.Background(), strings.NewReader(template), &buf)
			if err == nil && strings.Count(buf.String(), "<group ") != 2 {
				err = errors.New("expected two groups in " + buf.String())
			}
			errs <- err
		}()
	}
	for i := 0; i < cap(errs); i++ {
		if err := <-errs; err != nil {
			t.Fatalf("concurrent render: %v", err)
		}
	}
}
