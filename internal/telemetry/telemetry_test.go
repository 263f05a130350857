package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-xmlform/internal/telemetry"
)

func TestMetrics_ObserveDocument(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)

	metrics.ObserveDocument(time.Now(), nil)
	metrics.ObserveDocument(time.Now(), nil)
	metrics.ObserveDocument(time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(metrics.Documents.WithLabelValues("ok")); got != 2 {
		t.Fatalf("expected 2 ok documents, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.Documents.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 failed document, got %v", got)
	}
}

func TestMetrics_ObserveUnroll(t *testing.T) {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())

	metrics.ObserveUnroll("repeat", 3)
	metrics.ObserveUnroll("repeat", 0)
	metrics.ObserveUnroll("itemset", 2)

	if got := testutil.ToFloat64(metrics.UnrolledLocations.WithLabelValues("repeat")); got != 3 {
		t.Fatalf("expected 3 repeat locations, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.UnrolledLocations.WithLabelValues("itemset")); got != 2 {
		t.Fatalf("expected 2 itemset locations, got %v", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var metrics *telemetry.Metrics
	metrics.ObserveDocument(time.Now(), nil)
	metrics.ObserveUnroll("repeat", 1)
}

func TestSpan_StartAndEnd(t *testing.T) {
	ctx, span := telemetry.StartSpan(context.Background(), "test")
	if ctx == nil || span == nil {
		t.Fatalf("expected context and span")
	}
	telemetry.EndSpan(span, errors.New("failed"))
}
