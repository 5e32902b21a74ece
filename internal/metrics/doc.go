// Package metrics aggregates the outcome of every work item in a load run.
//
// The [Collector] is shared by all workers. It counts successes and terminal
// failures, tracks every attempt's status code, and keeps an HdrHistogram of
// end-to-end latencies for successful items:
//
//	collector := metrics.NewCollector()
//	collector.Start()
//
//	collector.RecordAttempt(201, nil)
//	collector.RecordSuccess(42 * time.Millisecond)
//
//	stats := collector.Stats(elapsed)
//
// # Summary Formulas
//
// Throughput is successful items per second of wall-clock time. Mean latency
// is the elapsed wall-clock time divided by the number of successful items.
// The per-request mean taken from the histogram is reported separately as
// RequestMeanLatency.
//
// # Thread Safety
//
// All Collector methods are safe for concurrent use. A [Snapshot] taken while
// workers are still running carries no cross-counter consistency guarantee.
package metrics
