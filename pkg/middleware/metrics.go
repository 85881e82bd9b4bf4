package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printtrack/tracking-service/pkg/metrics"
)

// MetricsMiddleware creates middleware that records HTTP metrics
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid recursion
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method
		path := c.FullPath() // route pattern, not actual path

		// If no route matched, use the raw path
		if path == "" {
			path = c.Request.URL.Path
		}

		m.RecordHTTPRequest(method, path, status, duration)
	}
}

// MetricsEndpoint returns a handler for the /metrics endpoint
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	handler := m.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// BusinessMetrics provides helpers for recording business-specific metrics
type BusinessMetrics struct {
	metrics *metrics.Metrics
}

// NewBusinessMetrics creates a new BusinessMetrics helper
func NewBusinessMetrics(m *metrics.Metrics) *BusinessMetrics {
	return &BusinessMetrics{metrics: m}
}

// RecordOrderCreated records an order creation event
func (b *BusinessMetrics) RecordOrderCreated() {
	b.metrics.RecordOrderCreated()
}

// RecordStageTransition records a stage status change
func (b *BusinessMetrics) RecordStageTransition(stage, status string) {
	b.metrics.RecordStageTransition(stage, status)
}

// RecordStageAdvanced records an order moving forward to a stage
func (b *BusinessMetrics) RecordStageAdvanced(stage string) {
	b.metrics.RecordStageAdvanced(stage)
}

// RecordFileUploaded records a file attached to a stage
func (b *BusinessMetrics) RecordFileUploaded(stage string) {
	b.metrics.RecordFileUploaded(stage)
}

// RecordStockAdjustment records a material stock adjustment
func (b *BusinessMetrics) RecordStockAdjustment(direction string) {
	b.metrics.RecordStockAdjustment(direction)
}

// SetLowStockMaterials sets the low stock gauge
func (b *BusinessMetrics) SetLowStockMaterials(count int) {
	b.metrics.SetLowStockMaterials(count)
}

// RecordCircuitBreakerState records circuit breaker state
func (b *BusinessMetrics) RecordCircuitBreakerState(name string, state int) {
	b.metrics.SetCircuitBreakerState(name, state)
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (b *BusinessMetrics) RecordCircuitBreakerTrip(name string) {
	b.metrics.RecordCircuitBreakerTrip(name)
}
