package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	return New(DefaultConfig("tracking-service"))
}

func TestRecordMongoDBOperation(t *testing.T) {
	m := newTestMetrics()

	m.RecordMongoDBOperation("orders", "save", true, 5*time.Millisecond)
	m.RecordMongoDBOperation("orders", "save", true, 3*time.Millisecond)
	m.RecordMongoDBOperation("orders", "findById", false, 2*time.Millisecond)

	saved := m.MongoDBOperations.WithLabelValues("tracking-service", "orders", "save", "success")
	assert.Equal(t, float64(2), testutil.ToFloat64(saved))

	failed := m.MongoDBOperations.WithLabelValues("tracking-service", "orders", "findById", "error")
	assert.Equal(t, float64(1), testutil.ToFloat64(failed))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := newTestMetrics()

	m.RecordHTTPRequest("GET", "/api/v1/orders", 200, 10*time.Millisecond)

	counter := m.HTTPRequestsTotal.WithLabelValues("tracking-service", "GET", "/api/v1/orders", "200")
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}

func TestRecordKafkaPublish(t *testing.T) {
	m := newTestMetrics()

	m.RecordKafkaPublish("tracking.order-events", "tracking.order.created", true, time.Millisecond)
	m.RecordKafkaPublish("tracking.order-events", "tracking.order.created", false, time.Millisecond)

	success := m.KafkaEventsPublished.WithLabelValues("tracking-service", "tracking.order-events", "tracking.order.created", "success")
	assert.Equal(t, float64(1), testutil.ToFloat64(success))
}

func TestBusinessGauges(t *testing.T) {
	m := newTestMetrics()

	m.SetLowStockMaterials(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.LowStockMaterials))

	m.SetCircuitBreakerState("kafka-producer", 2)
	gauge := m.CircuitBreakerState.WithLabelValues("tracking-service", "kafka-producer")
	assert.Equal(t, float64(2), testutil.ToFloat64(gauge))
}

func TestIndependentRegistries(t *testing.T) {
	a := newTestMetrics()
	b := newTestMetrics()

	a.RecordOrderCreated()

	require.Equal(t, float64(1), testutil.ToFloat64(a.OrdersCreated))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.OrdersCreated))
}
