package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Default run: 10000 POSTs from 32 workers with five retries each, logged to
// load_test_results.csv.
const (
	DefaultTotal          = 10000
	DefaultConcurrency    = 32
	DefaultRetries        = 5
	DefaultTimeout        = 30 * time.Second
	DefaultExpectedStatus = 201
	DefaultRetryMaxDelay  = 5 * time.Second
	DefaultRetryJitter    = 0.5
	DefaultResultsFile    = "load_test_results.csv"
	DefaultMethod         = "POST"
)

// Config holds the fully resolved settings for one run.
type Config struct {
	TargetURL         string            `mapstructure:"target"`
	Method            string            `mapstructure:"method"`
	Headers           map[string]string `mapstructure:"headers"`
	Total             int               `mapstructure:"total"`
	Concurrency       int               `mapstructure:"concurrency"`
	Retries           int               `mapstructure:"retries"`
	Timeout           time.Duration     `mapstructure:"timeout"`
	ExpectedStatus    int               `mapstructure:"expected_status"`
	RetryClientErrors bool              `mapstructure:"retry_client_errors"`
	RetryBackoff      time.Duration     `mapstructure:"retry_backoff"`
	RetryMaxDelay     time.Duration     `mapstructure:"retry_max_delay"`
	RetryJitter       float64           `mapstructure:"retry_jitter"`
	ResultsFile       string            `mapstructure:"results"`
	LogAttempts       bool              `mapstructure:"log_attempts"`
	LogRate           int               `mapstructure:"log_rate"`
	JSONOutput        bool              `mapstructure:"json_output"`
	SummaryFile       string            `mapstructure:"summary_file"`
	Progress          bool              `mapstructure:"progress"`
	Seed              int64             `mapstructure:"seed"`
	ConfigFile        string            `mapstructure:"-"`
	Tracing           TracingConfig     `mapstructure:"tracing"`
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`     // OTLP collector endpoint (host:port)
	Protocol    string  `mapstructure:"protocol"`     // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"` // defaults to OTEL_SERVICE_NAME or "liftload"
	SampleRate  float64 `mapstructure:"sample_rate"`  // 0.0 - 1.0
	Insecure    bool    `mapstructure:"insecure"`     // plaintext connection to the collector
	Propagate   *bool   `mapstructure:"propagate"`    // inject W3C headers; defaults to Enabled()
}

// Enabled reports whether an OTLP endpoint is configured directly or through the environment.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// ShouldPropagate reports whether trace context should be injected into outgoing requests.
func (t TracingConfig) ShouldPropagate() bool {
	if t.Propagate != nil {
		return *t.Propagate
	}
	return t.Enabled()
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate reports every invalid setting at once as a ValidationError.
func (c Config) Validate() error {
	var issues []string

	target := strings.TrimSpace(c.TargetURL)
	if target == "" {
		issues = append(issues, "target is required (use --help for usage information)")
	} else if u, err := url.Parse(target); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		issues = append(issues, fmt.Sprintf("target %q must be an absolute http(s) URL", target))
	}

	if c.Concurrency > 500 {
		fmt.Fprintf(os.Stderr, "WARNING: High concurrency configured (%d workers). Ensure you have authorization to test the target system.\n", c.Concurrency)
	}

	if c.Total < 1 {
		issues = append(issues, "total must be >= 1")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be >= 1")
	}
	if c.Retries < 0 {
		issues = append(issues, "retries must be >= 0")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	if c.ExpectedStatus < 100 || c.ExpectedStatus > 599 {
		issues = append(issues, "expected status must be between 100 and 599")
	}
	if c.RetryBackoff < 0 {
		issues = append(issues, "retry backoff must be >= 0")
	}
	if c.RetryMaxDelay < 0 {
		issues = append(issues, "retry max delay must be >= 0")
	}
	if c.RetryJitter < 0 || c.RetryJitter > 1 {
		issues = append(issues, "retry jitter must be between 0 and 1")
	}
	if strings.TrimSpace(c.ResultsFile) == "" {
		issues = append(issues, "results file is required")
	}
	if c.LogRate < 0 {
		issues = append(issues, "log rate must be >= 0")
	}

	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(strings.TrimSpace(t.Protocol)) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing protocol %q must be grpc or http", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, "tracing sample rate must be between 0 and 1")
	}
	return issues
}
