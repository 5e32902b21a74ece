package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Failure reasons used to label terminal failures.
const (
	ReasonExhausted        = "retries exhausted"
	ReasonUnexpectedStatus = "unexpected status"
	ReasonClientError      = "client error"
	ReasonTransport        = "transport error"
	ReasonCancelled        = "cancelled"
)

// transportStatus labels attempts that never received a response.
const transportStatus = "ERROR"

// Collector records per-item outcomes in a thread-safe manner.
type Collector struct {
	mu               sync.Mutex
	hist             *hdrhistogram.Histogram
	successes        int64
	failures         int64
	attempts         int64
	sinkErrors       int64
	minLatency       time.Duration
	maxLatency       time.Duration
	sumLatency       time.Duration
	failuresByReason map[string]int64
	statusCodes      map[string]int64
	start            time.Time
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	Successes int64
	Failures  int64
	Attempts  int64
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	return &Collector{
		hist:             h,
		failuresByReason: make(map[string]int64),
		statusCodes:      make(map[string]int64),
		start:            time.Now(),
	}
}

// Start marks the beginning of the run for progress reporting.
func (c *Collector) Start() {
	c.mu.Lock()
	c.start = time.Now()
	c.mu.Unlock()
}

// Elapsed returns the time since Start.
func (c *Collector) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.start)
}

// RecordSuccess counts one successful work item with its end-to-end latency.
func (c *Collector) RecordSuccess(latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.successes++
	if latency < 0 {
		latency = 0
	}
	us := latency.Microseconds()
	if us < c.hist.LowestTrackableValue() {
		us = c.hist.LowestTrackableValue()
	}
	if us > c.hist.HighestTrackableValue() {
		us = c.hist.HighestTrackableValue()
	}
	_ = c.hist.RecordValue(us)
	c.sumLatency += latency

	if c.successes == 1 || latency < c.minLatency {
		c.minLatency = latency
	}
	if latency > c.maxLatency {
		c.maxLatency = latency
	}
}

// RecordFailure counts one terminal failure under the given reason.
func (c *Collector) RecordFailure(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures++
	if reason == "" {
		reason = ReasonTransport
	}
	c.failuresByReason[reason]++
}

// RecordAttempt counts a single network attempt by its status code.
func (c *Collector) RecordAttempt(status int, err error) {
	label := transportStatus
	if status > 0 {
		label = strconv.Itoa(status)
	} else if err == nil {
		label = "0"
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	c.statusCodes[label]++
}

// RecordSinkError counts a result record the sink failed to persist.
func (c *Collector) RecordSinkError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinkErrors++
}

// Snapshot returns the current counters.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Successes: c.successes,
		Failures:  c.failures,
		Attempts:  c.attempts,
	}
}

// Stats computes aggregated statistics for a run that took elapsed.
func (c *Collector) Stats(elapsed time.Duration) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.successes + c.failures
	stats := Stats{
		Total:       total,
		Successes:   c.successes,
		Failures:    c.failures,
		Attempts:    c.attempts,
		SinkErrors:  c.sinkErrors,
		MinLatency:  c.minLatency,
		MaxLatency:  c.maxLatency,
		MeanLatency: MeanLatency(c.successes, elapsed),
		Duration:    elapsed,
	}
	if c.attempts > total {
		stats.Retries = c.attempts - total
	}

	if c.successes > 0 {
		stats.RequestMeanLatency = time.Duration(int64(c.sumLatency) / c.successes)
	}
	if c.hist.TotalCount() > 0 {
		stats.P50Latency = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		stats.P90Latency = time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond
		stats.P99Latency = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}
	stats.RequestsPerSec = Throughput(c.successes, elapsed)

	stats.MinLatencyMs = toMillis(stats.MinLatency)
	stats.MaxLatencyMs = toMillis(stats.MaxLatency)
	stats.MeanLatencyMs = toMillis(stats.MeanLatency)
	stats.RequestMeanLatencyMs = toMillis(stats.RequestMeanLatency)
	stats.P50LatencyMs = toMillis(stats.P50Latency)
	stats.P90LatencyMs = toMillis(stats.P90Latency)
	stats.P99LatencyMs = toMillis(stats.P99Latency)
	stats.DurationMs = toMillis(elapsed)

	if len(c.failuresByReason) > 0 {
		stats.FailureReasons = make(map[string]int, len(c.failuresByReason))
		for k, v := range c.failuresByReason {
			stats.FailureReasons[k] = int(v)
		}
	}
	if len(c.statusCodes) > 0 {
		stats.StatusCodes = make(map[string]int, len(c.statusCodes))
		for k, v := range c.statusCodes {
			stats.StatusCodes[k] = int(v)
		}
	}

	return stats
}

// Throughput returns successful items per second, or 0 when undefined.
func Throughput(successes int64, elapsed time.Duration) float64 {
	if successes <= 0 || elapsed <= 0 {
		return 0
	}
	return float64(successes) / elapsed.Seconds()
}

// MeanLatency returns elapsed divided by the successful item count, or 0 when
// nothing succeeded.
func MeanLatency(successes int64, elapsed time.Duration) time.Duration {
	if successes <= 0 || elapsed <= 0 {
		return 0
	}
	return time.Duration(int64(elapsed) / successes)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
