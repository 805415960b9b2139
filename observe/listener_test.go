package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/stellarcade/querycache/cache"
	"github.com/stellarcade/querycache/query"
)

// testObserver backs Listener tests with a collectable meter and a
// buffered logger.
type testObserver struct {
	meter  metric.Meter
	logger Logger
}

func (o *testObserver) Tracer() trace.Tracer { return tracenoop.NewTracerProvider().Tracer("test") }

func (o *testObserver) Meter() metric.Meter { return o.meter }

func (o *testObserver) Logger() Logger { return o.logger }

func (o *testObserver) Shutdown(ctx context.Context) error { return nil }

func newTestObserver(buf *bytes.Buffer) (*testObserver, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return &testObserver{
		meter:  mp.Meter("test"),
		logger: NewLoggerWithWriter("debug", buf),
	}, reader
}

// TestListener_NilObserver verifies the nil guard.
func TestListener_NilObserver(t *testing.T) {
	_, err := Listener(nil)
	if !errors.Is(err, ErrNilObserver) {
		t.Errorf("expected ErrNilObserver, got %v", err)
	}
}

// TestListener_CountsWrites verifies writes through Set reach the counter.
func TestListener_CountsWrites(t *testing.T) {
	var buf bytes.Buffer
	obs, reader := newTestObserver(&buf)

	fn, err := Listener(obs)
	if err != nil {
		t.Fatalf("Listener() error = %v", err)
	}

	store := cache.New()
	unsubscribe := store.Subscribe(fn)
	defer unsubscribe()

	store.Set(query.BalanceAccount("GDUK"), int64(12500))
	store.Set(query.GameByID("42"), "pending")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	found := findMetric(rm, "querycache.writes.total")
	if found == nil {
		t.Fatal("querycache.writes.total metric not found")
	}

	sum, ok := found.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", found.Data)
	}

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("expected 2 writes, got %d", total)
	}

	if !strings.Contains(buf.String(), "entry updated") {
		t.Error("expected 'entry updated' log line")
	}
}

// TestListener_CountsInvalidationsWithReason verifies the reason label
// and log fields for an invalidation.
func TestListener_CountsInvalidationsWithReason(t *testing.T) {
	var buf bytes.Buffer
	obs, reader := newTestObserver(&buf)

	fn, err := Listener(obs)
	if err != nil {
		t.Fatalf("Listener() error = %v", err)
	}

	store := cache.New()
	key := query.BalanceAccount("GDUK")
	store.Set(key, int64(12500))

	unsubscribe := store.Subscribe(fn)
	defer unsubscribe()

	store.Invalidate(key)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	found := findMetric(rm, "querycache.invalidations.total")
	if found == nil {
		t.Fatal("querycache.invalidations.total metric not found")
	}

	sum, ok := found.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", found.Data)
	}
	if len(sum.DataPoints) == 0 {
		t.Fatal("no data points")
	}

	dp := sum.DataPoints[0]
	if dp.Value != 1 {
		t.Errorf("expected 1 invalidation, got %d", dp.Value)
	}
	if reason, ok := attrValue(dp.Attributes, "reason"); !ok || reason != "manual" {
		t.Errorf("expected reason='manual', got %q", reason)
	}
	if ns, ok := attrValue(dp.Attributes, "namespace"); !ok || ns != "balances" {
		t.Errorf("expected namespace='balances', got %q", ns)
	}

	if !strings.Contains(buf.String(), "entry invalidated") {
		t.Error("expected 'entry invalidated' log line")
	}
}

// TestListener_LogsTransactionHash verifies the tx_hash field appears
// when the invalidation event carries one.
func TestListener_LogsTransactionHash(t *testing.T) {
	var buf bytes.Buffer
	obs, _ := newTestObserver(&buf)

	fn, err := Listener(obs)
	if err != nil {
		t.Fatalf("Listener() error = %v", err)
	}

	store := cache.New()
	key := query.GameByID("42")
	store.Set(key, "pending")

	unsubscribe := store.Subscribe(fn)
	defer unsubscribe()

	store.Invalidate(key, &cache.Event{
		Reason: cache.ReasonTxSuccess,
		Tx: &cache.TxContext{
			Contract: "CCFLIP",
			Method:   "flip",
			TxHash:   "abc123def456",
		},
	})

	line := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(line), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, line)
	}

	if v, ok := logEntry["tx_hash"].(string); !ok || v != "abc123def456" {
		t.Errorf("expected tx_hash='abc123def456', got %v", logEntry["tx_hash"])
	}
	if v, ok := logEntry["reason"].(string); !ok || v != "tx_success" {
		t.Errorf("expected reason='tx_success', got %v", logEntry["reason"])
	}
	if v, ok := logEntry["query.namespace"].(string); !ok || v != "games" {
		t.Errorf("expected query.namespace='games', got %v", logEntry["query.namespace"])
	}
}

// TestListener_RemovalLogsOnly verifies removals log without counting
// a write or invalidation.
func TestListener_RemovalLogsOnly(t *testing.T) {
	var buf bytes.Buffer
	obs, reader := newTestObserver(&buf)

	fn, err := Listener(obs)
	if err != nil {
		t.Fatalf("Listener() error = %v", err)
	}

	store := cache.New()
	key := query.ProfileByAddress("GDUK")
	store.Set(key, "profile")

	unsubscribe := store.Subscribe(fn)
	defer unsubscribe()

	store.Remove(key)

	if !strings.Contains(buf.String(), "entry removed") {
		t.Error("expected 'entry removed' log line")
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	if found := findMetric(rm, "querycache.writes.total"); found != nil {
		if sum, ok := found.Data.(metricdata.Sum[int64]); ok {
			for _, dp := range sum.DataPoints {
				if dp.Value != 0 {
					t.Errorf("expected no writes counted, got %d", dp.Value)
				}
			}
		}
	}
}

// TestListener_Unsubscribe verifies instrumentation stops with the
// subscription.
func TestListener_Unsubscribe(t *testing.T) {
	var buf bytes.Buffer
	obs, reader := newTestObserver(&buf)

	fn, err := Listener(obs)
	if err != nil {
		t.Fatalf("Listener() error = %v", err)
	}

	store := cache.New()
	unsubscribe := store.Subscribe(fn)

	store.Set(query.GameByID("1"), "a")
	unsubscribe()
	store.Set(query.GameByID("2"), "b")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	found := findMetric(rm, "querycache.writes.total")
	if found == nil {
		t.Fatal("querycache.writes.total metric not found")
	}

	sum, ok := found.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", found.Data)
	}

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 1 {
		t.Errorf("expected 1 write after unsubscribe, got %d", total)
	}
}
