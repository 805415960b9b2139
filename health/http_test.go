package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stellarcade/querycache/cache"
)

func TestLivenessHandler(t *testing.T) {
	handler := LivenessHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Body = %v, want 'OK'", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "text/plain" {
		t.Errorf("Content-Type = %v, want 'text/plain'", rec.Header().Get("Content-Type"))
	}
}

func TestReadinessHandler_Healthy(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewCheckerFunc("rpc", func(ctx context.Context) Result {
		return Healthy("ok")
	}))

	handler := ReadinessHandler(agg)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Body = %v, want 'OK'", rec.Body.String())
	}
}

func TestReadinessHandler_Degraded(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewCheckerFunc("cache", func(ctx context.Context) Result {
		return Degraded("stale entries high")
	}))

	handler := ReadinessHandler(agg)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d (degraded should still be ready)", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "DEGRADED" {
		t.Errorf("Body = %v, want 'DEGRADED'", rec.Body.String())
	}
}

func TestReadinessHandler_StaleStoreStaysReady(t *testing.T) {
	store := cache.New()
	seedStore(t, store, 1, 2)

	agg := NewAggregator()
	agg.Register(NewStoreChecker(store))

	handler := ReadinessHandler(agg)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d (stale-heavy store still serves reads)", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "DEGRADED" {
		t.Errorf("Body = %v, want 'DEGRADED'", rec.Body.String())
	}
}

func TestReadinessHandler_Unhealthy(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewCheckerFunc("rpc", func(ctx context.Context) Result {
		return Unhealthy("node unreachable", nil)
	}))

	handler := ReadinessHandler(agg)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if rec.Body.String() != "UNHEALTHY" {
		t.Errorf("Body = %v, want 'UNHEALTHY'", rec.Body.String())
	}
}

func TestDetailedHandler_Healthy(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewCheckerFunc("rpc", func(ctx context.Context) Result {
		return Healthy("ok").WithDetails(map[string]any{"latency_ms": 12})
	}))

	handler := DetailedHandler(agg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %v, want 'application/json'", rec.Header().Get("Content-Type"))
	}

	var response HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.Status != "healthy" {
		t.Errorf("Response.Status = %v, want 'healthy'", response.Status)
	}
	if response.Timestamp == "" {
		t.Error("Response.Timestamp should not be empty")
	}
	if check, ok := response.Checks["rpc"]; !ok {
		t.Error("Response.Checks should contain 'rpc'")
	} else if check.Status != "healthy" {
		t.Errorf("Check.Status = %v, want 'healthy'", check.Status)
	}
}

func TestDetailedHandler_StoreCounters(t *testing.T) {
	store := cache.New()
	seedStore(t, store, 2, 0)

	agg := NewAggregator()
	agg.Register(NewStoreChecker(store))

	handler := DetailedHandler(agg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	var response HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	check, ok := response.Checks["querycache"]
	if !ok {
		t.Fatal("Response.Checks should contain 'querycache'")
	}
	if check.Details["entries"] != float64(2) {
		t.Errorf("Details[entries] = %v, want 2", check.Details["entries"])
	}
	if check.Details["sets"] != float64(2) {
		t.Errorf("Details[sets] = %v, want 2", check.Details["sets"])
	}
}

func TestDetailedHandler_Unhealthy(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewCheckerFunc("rpc", func(ctx context.Context) Result {
		return Unhealthy("node unreachable", ErrCheckFailed)
	}))

	handler := DetailedHandler(agg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var response HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.Status != "unhealthy" {
		t.Errorf("Response.Status = %v, want 'unhealthy'", response.Status)
	}
	if check := response.Checks["rpc"]; check.Error == "" {
		t.Error("Check.Error should contain error message")
	}
}

func TestSingleCheckHandler_Found(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewCheckerFunc("rpc", func(ctx context.Context) Result {
		return Healthy("ok")
	}))

	handler := SingleCheckHandler(agg, "rpc")

	req := httptest.NewRequest(http.MethodGet, "/health/rpc", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}

	var response CheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.Status != "healthy" {
		t.Errorf("Response.Status = %v, want 'healthy'", response.Status)
	}
}

func TestSingleCheckHandler_NotFound(t *testing.T) {
	agg := NewAggregator()

	handler := SingleCheckHandler(agg, "nonexistent")

	req := httptest.NewRequest(http.MethodGet, "/health/nonexistent", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSingleCheckHandler_Unhealthy(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewCheckerFunc("rpc", func(ctx context.Context) Result {
		return Unhealthy("node unreachable", nil)
	}))

	handler := SingleCheckHandler(agg, "rpc")

	req := httptest.NewRequest(http.MethodGet, "/health/rpc", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()
	agg := NewAggregator()
	agg.Register(NewStoreChecker(cache.New()))

	RegisterHandlers(mux, agg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("/healthz Status = %d, want %d", rec.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("/readyz Status = %d, want %d", rec.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("/health Status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestDetailedHandler_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{
		Timeout: 50 * time.Millisecond,
	})
	agg.Register(NewCheckerFunc("slow", func(ctx context.Context) Result {
		time.Sleep(200 * time.Millisecond)
		return Healthy("ok")
	}))

	handler := DetailedHandler(agg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d for timed out check", rec.Code, http.StatusServiceUnavailable)
	}

	var response HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.Status != "unhealthy" {
		t.Errorf("Response.Status = %v, want 'unhealthy'", response.Status)
	}
}
