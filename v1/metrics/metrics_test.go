package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	return NewMetrics(Config{ServiceName: "test"})
}

func TestObserveOperationCountsByStatus(t *testing.T) {
	m := newTestMetrics()

	m.ObserveOperation(observability.OperationContext{
		Component: "index", Operation: "upsert", Resource: "files",
		Duration: 20 * time.Millisecond, Size: 3,
	})
	m.ObserveOperation(observability.OperationContext{
		Component: "index", Operation: "upsert", Resource: "files",
		Error: errors.New("boom"), Size: 2,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("index", "upsert", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("index", "upsert", "error")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.items.WithLabelValues("index", "upsert")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestObserveOperationCountsDroppedHits(t *testing.T) {
	m := newTestMetrics()

	m.ObserveOperation(observability.OperationContext{
		Component: "index", Operation: "search", Resource: "files",
		Size: 4, Metadata: map[string]interface{}{"dropped": 1},
	})
	m.ObserveOperation(observability.OperationContext{
		Component: "index", Operation: "search", Resource: "files",
		Metadata: map[string]interface{}{"dropped": 0},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped.WithLabelValues("files")))
}

func TestHandlerServesMetrics(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "vevtor-test", Address: ":0"})
	require.NotNil(t, m.Server)

	m.ObserveOperation(observability.OperationContext{Component: "worker", Operation: "dispatch", Size: 2})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `vevtor_operations_total{component="worker",operation="dispatch",service="vevtor-test",status="success"} 1`), body)
}

func TestNoServerWithoutAddress(t *testing.T) {
	assert.Nil(t, newTestMetrics().Server)
}

func TestCreateCounterReturnsExisting(t *testing.T) {
	m := newTestMetrics()

	c1, err := m.CreateCounter("custom_total", "custom", []string{"kind"})
	require.NoError(t, err)
	c2, err := m.CreateCounter("custom_total", "custom", []string{"kind"})
	require.NoError(t, err)
	assert.Same(t, c1, c2)
}
