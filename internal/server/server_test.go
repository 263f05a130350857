package server_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"

	xmlform "github.com/goliatone/go-xmlform"
	"github.com/goliatone/go-xmlform/internal/server"
	"github.com/goliatone/go-xmlform/internal/telemetry"
	"github.com/goliatone/go-xmlform/pkg/testsupport"
)

const ns = `xmlns:xf="` + xmlform.Namespace + `"`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := testsupport.LoadStore(t, filepath.Join("..", "..", "testdata", "models", "order.yaml"))
	reg := prometheus.NewRegistry()
	engine := xmlform.New(store,
		xmlform.WithContinuationToken(""),
		xmlform.WithObserver(telemetry.NewMetrics(reg)),
		xmlform.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	templates := fstest.MapFS{
		"order.xml":   {Data: []byte(`<xf:form ` + ns + ` id="order"><xf:output ref="/customer/name"/><xf:submit id="go" continuation="forward"/></xf:form>`)},
		"missing.xml": {Data: []byte(`<xf:form ` + ns + ` id="nope"/>`)},
		"broken.xml":  {Data: []byte(`<xf:form ` + ns + ` id="order"><xf:textbox/></xf:form>`)},
	}
	handler := server.NewHandler(engine, templates, slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv := httptest.NewServer(server.NewRouter(handler, reg))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestRouter_RendersTemplate(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/templates/order?continuation=k9")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get(server.ContinuationHeader); got != "k9" {
		t.Fatalf("expected continuation header k9, got %q", got)
	}
	for _, fragment := range []string{"Ada Lovelace", `id="k9:go"`} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected body to contain %q, got %s", fragment, body)
		}
	}
}

func TestRouter_MintsContinuationToken(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/templates/order.xml")
	token := resp.Header.Get(server.ContinuationHeader)
	if resp.StatusCode != http.StatusOK || token == "" {
		t.Fatalf("expected minted token, got status %d token %q", resp.StatusCode, token)
	}
	if !strings.Contains(body, `id="`+token+`:go"`) {
		t.Fatalf("expected rewritten action id in %s", body)
	}
}

func TestRouter_ErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]int{
		"/templates/absent":  http.StatusNotFound,
		"/templates/missing": http.StatusNotFound,
		"/templates/broken":  http.StatusUnprocessableEntity,
		"/templates/..order": http.StatusBadRequest,
	}
	for path, want := range cases {
		resp, body := get(t, srv.URL+path)
		if resp.StatusCode != want {
			t.Errorf("%s: expected %d, got %d: %s", path, want, resp.StatusCode, body)
		}
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	if resp, body := get(t, srv.URL+"/healthz"); resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, body)
	}

	get(t, srv.URL+"/templates/order")
	resp, body := get(t, srv.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `xmlform_documents_total{outcome="ok"} 1`) {
		t.Fatalf("expected document counter in metrics, got %s", body)
	}
}
