package mongodb

import (
	"time"

	"github.com/printtrack/tracking-service/pkg/metrics"
)

// observe records one repository operation against the MongoDB metric
// families. A nil Metrics disables recording, which tests rely on.
func observe(m *metrics.Metrics, collection, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.RecordMongoDBOperation(collection, operation, err == nil, time.Since(start))
}
