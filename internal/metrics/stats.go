package metrics

import "time"

// Stats represents aggregated metrics for a run.
type Stats struct {
	RunID          string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Total          int64         `json:"total" yaml:"total"`
	Successes      int64         `json:"successes" yaml:"successes"`
	Failures       int64         `json:"failures" yaml:"failures"`
	Attempts       int64         `json:"attempts" yaml:"attempts"`
	Retries        int64         `json:"retries" yaml:"retries"`
	SinkErrors     int64         `json:"sink_errors" yaml:"sink_errors"`
	Cancelled      bool          `json:"cancelled" yaml:"cancelled"`
	RequestsPerSec float64       `json:"requests_per_sec" yaml:"requests_per_sec"`
	Duration       time.Duration `json:"-" yaml:"-"`

	MinLatency         time.Duration `json:"-" yaml:"-"`
	MaxLatency         time.Duration `json:"-" yaml:"-"`
	MeanLatency        time.Duration `json:"-" yaml:"-"`
	RequestMeanLatency time.Duration `json:"-" yaml:"-"`
	P50Latency         time.Duration `json:"-" yaml:"-"`
	P90Latency         time.Duration `json:"-" yaml:"-"`
	P99Latency         time.Duration `json:"-" yaml:"-"`

	// JSON-friendly millisecond fields.
	DurationMs           float64 `json:"duration_ms" yaml:"duration_ms"`
	MinLatencyMs         float64 `json:"min_latency_ms" yaml:"min_latency_ms"`
	MaxLatencyMs         float64 `json:"max_latency_ms" yaml:"max_latency_ms"`
	MeanLatencyMs        float64 `json:"mean_latency_ms" yaml:"mean_latency_ms"`
	RequestMeanLatencyMs float64 `json:"request_mean_latency_ms" yaml:"request_mean_latency_ms"`
	P50LatencyMs         float64 `json:"p50_latency_ms" yaml:"p50_latency_ms"`
	P90LatencyMs         float64 `json:"p90_latency_ms" yaml:"p90_latency_ms"`
	P99LatencyMs         float64 `json:"p99_latency_ms" yaml:"p99_latency_ms"`

	FailureReasons map[string]int `json:"failure_reasons,omitempty" yaml:"failure_reasons,omitempty"`
	StatusCodes    map[string]int `json:"status_codes,omitempty" yaml:"status_codes,omitempty"`
}
