/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fbdialect/internal/shared/eventbus"
)

const (
	// Metric namespace
	namespace = "fbdialect"

	// Label names
	labelDatabase  = "database"
	labelStatus    = "status"
	labelOperation = "operation"
	labelKind      = "kind"
	labelMode      = "mode"
	labelTable     = "table"
	labelResult    = "result"
	labelBackend   = "backend"
	labelFormat    = "format"
	labelVersion   = "version"
)

// Status values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// DDL modes
const (
	ModeRendered = "rendered"
	ModeExecuted = "executed"
)

// Drift results
const (
	ResultDrifted = "drifted"
	ResultInSync  = "in_sync"
)

// EventBus counts and times published events; pass it to
// eventbus.MetricsMiddleware.
var EventBus = eventbus.NewMetrics(namespace)

// Registry holds every fbdialect collector. It is separate from the
// default registry so embedding programs decide what to expose.
var Registry = prometheus.NewRegistry()

var (
	// Connection metrics

	// ConnectionAttemptsTotal tracks attempts to attach to a database
	ConnectionAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_attempts_total",
			Help:      "Total number of database connection attempts",
		},
		[]string{labelDatabase, labelStatus},
	)

	// ConnectionLatencySeconds tracks how long attaching took
	ConnectionLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "connection_latency_seconds",
			Help:      "Latency of database connection attempts in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{labelDatabase},
	)

	// ServerInfo is 1 for the detected server version of a database
	ServerInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "server_info",
			Help:      "Detected Firebird server version, always 1",
		},
		[]string{labelDatabase, labelVersion},
	)

	// Reflection metrics

	// ReflectionQueriesTotal counts catalog queries by inspector operation
	ReflectionQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reflection_queries_total",
			Help:      "Total number of catalog queries issued",
		},
		[]string{labelOperation, labelStatus},
	)

	// ReflectionQueryDurationSeconds tracks catalog query latency
	ReflectionQueryDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reflection_query_duration_seconds",
			Help:      "Duration of catalog queries in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{labelOperation},
	)

	// SchemaReflectionDurationSeconds tracks whole-schema reflection
	SchemaReflectionDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schema_reflection_duration_seconds",
			Help:      "Duration of whole-schema reflection in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{labelDatabase},
	)

	// ReflectedObjects records the object counts of the last snapshot
	ReflectedObjects = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reflected_objects",
			Help:      "Number of objects found by the last schema reflection",
		},
		[]string{labelDatabase, labelKind},
	)

	// DDL metrics

	// DDLStatementsTotal counts rendered and executed DDL statements
	DDLStatementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ddl_statements_total",
			Help:      "Total number of DDL statements rendered or executed",
		},
		[]string{labelKind, labelMode, labelStatus},
	)

	// Drift metrics

	// DriftDetectionsTotal counts drift checks by result
	DriftDetectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drift_detections_total",
			Help:      "Total number of drift checks",
		},
		[]string{labelTable, labelResult},
	)

	// DriftChanges records the number of pending changes per table
	DriftChanges = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drift_changes",
			Help:      "Number of schema changes needed to reach the declared state",
		},
		[]string{labelTable},
	)

	// Snapshot metrics

	// SnapshotExportsTotal counts snapshot exports by backend
	SnapshotExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_exports_total",
			Help:      "Total number of schema snapshot exports",
		},
		[]string{labelBackend, labelStatus},
	)

	// SnapshotBytesWritten counts encoded snapshot bytes after compression
	SnapshotBytesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes_written_total",
			Help:      "Total bytes of schema snapshots written",
		},
		[]string{labelBackend, labelFormat},
	)
)

func init() {
	Registry.MustRegister(
		// Connection metrics
		ConnectionAttemptsTotal,
		ConnectionLatencySeconds,
		ServerInfo,

		// Reflection metrics
		ReflectionQueriesTotal,
		ReflectionQueryDurationSeconds,
		SchemaReflectionDurationSeconds,
		ReflectedObjects,

		// DDL and drift metrics
		DDLStatementsTotal,
		DriftDetectionsTotal,
		DriftChanges,

		// Snapshot metrics
		SnapshotExportsTotal,
		SnapshotBytesWritten,
	)
	if err := EventBus.Register(Registry); err != nil {
		panic(err)
	}
}

func status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}

// RecordConnectionAttempt records a connection attempt with its status
func RecordConnectionAttempt(database, status string) {
	ConnectionAttemptsTotal.WithLabelValues(database, status).Inc()
}

// RecordConnectionLatency records connection latency
func RecordConnectionLatency(database string, seconds float64) {
	ConnectionLatencySeconds.WithLabelValues(database).Observe(seconds)
}

// SetServerVersion marks version as the one detected for database
func SetServerVersion(database, version string) {
	ServerInfo.DeletePartialMatch(prometheus.Labels{labelDatabase: database})
	ServerInfo.WithLabelValues(database, version).Set(1)
}

// ObserveQuery records one catalog query. Its signature matches the
// adapter's query observer hook.
func ObserveQuery(operation string, d time.Duration, err error) {
	ReflectionQueriesTotal.WithLabelValues(operation, status(err)).Inc()
	ReflectionQueryDurationSeconds.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordSchemaReflection records a whole-schema reflection and its object counts
func RecordSchemaReflection(database string, seconds float64, counts map[string]int) {
	SchemaReflectionDurationSeconds.WithLabelValues(database).Observe(seconds)
	for kind, n := range counts {
		ReflectedObjects.WithLabelValues(database, kind).Set(float64(n))
	}
}

// RecordDDLStatement records a rendered or executed DDL statement
func RecordDDLStatement(kind, mode, status string) {
	DDLStatementsTotal.WithLabelValues(kind, mode, status).Inc()
}

// RecordDriftCheck records a drift check and its pending change count
func RecordDriftCheck(table string, changes int) {
	result := ResultInSync
	if changes > 0 {
		result = ResultDrifted
	}
	DriftDetectionsTotal.WithLabelValues(table, result).Inc()
	DriftChanges.WithLabelValues(table).Set(float64(changes))
}

// RecordSnapshotExport records an export attempt and, on success, its size
func RecordSnapshotExport(backend, format string, bytes int64, err error) {
	SnapshotExportsTotal.WithLabelValues(backend, status(err)).Inc()
	if err == nil {
		SnapshotBytesWritten.WithLabelValues(backend, format).Add(float64(bytes))
	}
}
