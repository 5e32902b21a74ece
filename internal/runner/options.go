package runner

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/torosent/liftload/internal/metrics"
	"github.com/torosent/liftload/internal/results"
)

// DefaultConcurrency is the worker pool size used when none is configured.
const DefaultConcurrency = 32

// Transport sends one encoded payload and reports the response status.
// A non-nil error with a zero status means the request never completed.
type Transport interface {
	Send(ctx context.Context, body []byte) (int, error)
}

// Codec builds the domain record for a work item and serializes it.
type Codec interface {
	NewRecord(id int64) any
	Encode(record any) ([]byte, error)
}

// Sink durably appends one result record per terminal outcome.
type Sink interface {
	Write(rec results.Record) error
}

// AttemptLogger receives a diagnostic for every attempt.
type AttemptLogger interface {
	LogAttempt(id int64, attempt int, outcome Outcome, decision Decision)
}

// FailureLogger logs terminal failures and sink errors.
type FailureLogger interface {
	LogFailure(err error)
}

// Options configure the Runner.
type Options struct {
	Concurrency   int                // number of worker goroutines
	TotalRequests int                // number of work items to drain
	Policy        RetryPolicy        // attempt classification and budget
	Transport     Transport          // request executor (required)
	Codec         Codec              // payload builder (required)
	Sink          Sink               // optional result record sink
	Collector     *metrics.Collector // created when nil
	AttemptLogger AttemptLogger
	FailureLogger FailureLogger
	Tracer        trace.Tracer
	RequestKind   string           // label written to each result record
	RunID         ulid.ULID        // generated when zero
	Clock         func() time.Time // optional injection for tests
}

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.TotalRequests < 0 {
		o.TotalRequests = 0
	}
	if o.Policy.MaxRetries < 0 {
		o.Policy.MaxRetries = 0
	}
	if o.Collector == nil {
		o.Collector = metrics.NewCollector()
	}
	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer("liftload")
	}
	if o.RequestKind == "" {
		o.RequestKind = http.MethodPost
	}
	if o.RunID == (ulid.ULID{}) {
		o.RunID = ulid.Make()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

func (o *Options) validate() error {
	if o.Transport == nil {
		return errors.New("runner: transport is required")
	}
	if o.Codec == nil {
		return errors.New("runner: codec is required")
	}
	return nil
}
