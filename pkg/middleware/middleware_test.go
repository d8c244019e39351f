package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func testRouter(mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/api/prompts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		SetRoute(r.Context(), "prompts")
		w.Write([]byte("ok"))
	})
	return r
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	h := testRouter(m.Handler)

	for _, path := range []string{"/prompts", "/prompts", "/api/prompts/9"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("prompts", "GET", "200")); got != 2 {
		t.Errorf("requests_total(prompts)=%v, want 2", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("/api/prompts/{id}", "GET", "404")); got != 1 {
		t.Errorf("requests_total(pattern)=%v, want 1", got)
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues("prompts")); got != 2 {
		t.Errorf("duration count=%d, want 2", got)
	}
}

func TestMetricsObservers(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	m.ObserveLoad("home", 5*time.Millisecond, nil)
	m.ObserveLoad("home", time.Second, context.DeadlineExceeded)
	m.ObserveNavigation("", errors.New("E100: No route matches path"))
	m.ConnOpened()
	m.ConnOpened()
	m.ConnClosed()
	m.RecordWebSocketError("read")

	if got := metricCounterValue(t, m.viewLoadsTotal.WithLabelValues("home", "success")); got != 1 {
		t.Errorf("view_loads_total(success)=%v", got)
	}
	if got := metricCounterValue(t, m.viewLoadsTotal.WithLabelValues("home", "timeout")); got != 1 {
		t.Errorf("view_loads_total(timeout)=%v", got)
	}
	if got := metricHistogramCount(t, m.viewLoadDuration.WithLabelValues("home")); got != 2 {
		t.Errorf("view_load_duration count=%d", got)
	}
	if got := metricCounterValue(t, m.navigations.WithLabelValues(unmatchedRoute, "not_found")); got != 1 {
		t.Errorf("navigations_total=%v", got)
	}
	if got := metricGaugeValue(t, m.liveConns); got != 1 {
		t.Errorf("live_connections=%v", got)
	}
	if got := metricCounterValue(t, m.wsErrors.WithLabelValues("read")); got != 1 {
		t.Errorf("websocket_errors_total=%v", got)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timeout"},
		{context.Canceled, "canceled"},
		{errors.New("read timeout"), "timeout"},
		{errors.New("prompt not found"), "not_found"},
		{errors.New("invalid route parameter"), "validation"},
		{errors.New("websocket: close 1006"), "websocket"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range tests {
		if got := categorizeError(tc.err); got != tc.want {
			t.Errorf("categorizeError(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	h := testRouter(RequestID, Tracing(
		WithTracerProvider(tp),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/prompts", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	if got := spans[0].Name(); got != "GET prompts" {
		t.Errorf("span name = %q, want %q", got, "GET prompts")
	}
	var hasRequestID bool
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "geo.request_id" && kv.Value.AsString() != "" {
			hasRequestID = true
		}
	}
	if !hasRequestID {
		t.Error("span has no request id attribute")
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("generated id = %q, header = %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "worker-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "worker-42" {
		t.Errorf("incoming id not reused: %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "bad id\n")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "bad id\n" {
		t.Error("malformed incoming id reused")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := testRouter(RequestID, Logger(logger))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/prompts", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v: %s", err, buf.String())
	}
	if line["route"] != "prompts" || line["status"] != float64(200) || line["bytes"] != float64(2) {
		t.Errorf("log line = %v", line)
	}
	if line["request_id"] == "" {
		t.Errorf("log line has no request id: %v", line)
	}
}

func TestSetRouteOutsideChain(t *testing.T) {
	SetRoute(context.Background(), "home")
}
