package kafka

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/printtrack/tracking-service/pkg/logging"
	"github.com/printtrack/tracking-service/pkg/metrics"
)

// CircuitBreakerProducer wraps InstrumentedProducer with circuit breaker
// protection so a broker outage fails fast instead of stalling requests
type CircuitBreakerProducer struct {
	producer *InstrumentedProducer
	breaker  *gobreaker.CircuitBreaker
	logger   *logging.Logger
}

// NewCircuitBreakerProducer creates a new circuit breaker protected Kafka producer
func NewCircuitBreakerProducer(producer *InstrumentedProducer, m *metrics.Metrics, logger *logging.Logger) *CircuitBreakerProducer {
	const name = "kafka-producer"

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(cbName string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("Circuit breaker state change",
					"name", cbName,
					"from", from.String(),
					"to", to.String(),
				)
			}
			if m != nil {
				m.SetCircuitBreakerState(cbName, stateValue(to))
				if to == gobreaker.StateOpen {
					m.RecordCircuitBreakerTrip(cbName)
				}
			}
		},
	}

	return &CircuitBreakerProducer{
		producer: producer,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		logger:   logger,
	}
}

// PublishJSON publishes a payload with circuit breaker protection
func (p *CircuitBreakerProducer) PublishJSON(ctx context.Context, topic, key, eventType string, payload any) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.producer.PublishJSON(ctx, topic, key, eventType, payload)
	})
	return err
}

// Close closes the underlying producer
func (p *CircuitBreakerProducer) Close() error {
	return p.producer.Close()
}

// NewProductionProducer creates a fully configured producer with
// instrumentation and circuit breaker
func NewProductionProducer(config *Config, m *metrics.Metrics, logger *logging.Logger) *CircuitBreakerProducer {
	baseProducer := NewProducer(config)
	instrumentedProducer := NewInstrumentedProducer(baseProducer, m, logger)
	return NewCircuitBreakerProducer(instrumentedProducer, m, logger)
}

func stateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
