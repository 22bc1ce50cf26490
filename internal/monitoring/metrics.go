// Package monitoring records per-operation timings for table operations and
// exposes them as Prometheus metrics.
package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OperationMetrics represents performance metrics for a single table operation.
type OperationMetrics struct {
	Operation string        `json:"operation"`
	Duration  time.Duration `json:"duration"`
	RowsIn    int           `json:"rows_in"`
	RowsOut   int           `json:"rows_out"`
	Failed    bool          `json:"failed"`
}

// MetricsCollector collects and stores performance metrics for table
// operations. Every collector owns a Prometheus registry holding an
// operation duration histogram and a processed-rows counter.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []OperationMetrics
	enabled bool

	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &MetricsCollector{
		metrics:  make([]OperationMetrics, 0),
		enabled:  enabled,
		registry: reg,
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tabular_operation_duration_seconds",
				Help:    "Table operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
		rows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabular_rows_processed_total",
				Help: "Total number of input rows handled by table operations",
			},
			[]string{"operation"},
		),
	}
}

// Registry returns the Prometheus registry the collector reports to.
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// IsEnabled returns whether metrics collection is enabled.
func (mc *MetricsCollector) IsEnabled() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// RecordOperation executes fn and records its duration together with the
// number of rows it consumed and produced. fn reports its output size.
func (mc *MetricsCollector) RecordOperation(operation string, rowsIn int, fn func() (int, error)) error {
	if !mc.IsEnabled() {
		_, err := fn()
		return err
	}

	start := time.Now()
	rowsOut, err := fn()
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	mc.duration.WithLabelValues(operation, status).Observe(duration.Seconds())
	mc.rows.WithLabelValues(operation).Add(float64(rowsIn))

	mc.mu.Lock()
	mc.metrics = append(mc.metrics, OperationMetrics{
		Operation: operation,
		Duration:  duration,
		RowsIn:    rowsIn,
		RowsOut:   rowsOut,
		Failed:    err != nil,
	})
	mc.mu.Unlock()

	return err
}

// GetMetrics returns a copy of all collected metrics.
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make([]OperationMetrics, len(mc.metrics))
	copy(result, mc.metrics)
	return result
}

// Clear removes all collected metrics. Prometheus series are not reset.
func (mc *MetricsCollector) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.metrics = mc.metrics[:0]
}

// SetEnabled enables or disables metrics collection.
func (mc *MetricsCollector) SetEnabled(enabled bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.enabled = enabled
}

// GetSummary returns a summary of collected metrics.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if len(mc.metrics) == 0 {
		return MetricsSummary{}
	}

	var totalDuration time.Duration
	var totalRows int64
	failures := 0
	operationCounts := make(map[string]int)

	for _, metric := range mc.metrics {
		totalDuration += metric.Duration
		totalRows += int64(metric.RowsIn)
		operationCounts[metric.Operation]++
		if metric.Failed {
			failures++
		}
	}

	return MetricsSummary{
		TotalOperations: len(mc.metrics),
		Failures:        failures,
		TotalDuration:   totalDuration,
		TotalRows:       totalRows,
		OperationCounts: operationCounts,
		AverageDuration: totalDuration / time.Duration(len(mc.metrics)),
	}
}

// MetricsSummary provides aggregate statistics for collected metrics.
type MetricsSummary struct {
	TotalOperations int            `json:"total_operations"`
	Failures        int            `json:"failures"`
	TotalDuration   time.Duration  `json:"total_duration"`
	TotalRows       int64          `json:"total_rows"`
	OperationCounts map[string]int `json:"operation_counts"`
	AverageDuration time.Duration  `json:"average_duration"`
}
