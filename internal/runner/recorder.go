package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/torosent/liftload/internal/metrics"
	"github.com/torosent/liftload/internal/results"
)

// recorder commits terminal outcomes. The counter update and the sink append
// for one outcome happen under the same lock, so a reader holding the lock
// never sees one without the other.
type recorder struct {
	mu        sync.Mutex
	sink      Sink
	collector *metrics.Collector
	logger    FailureLogger
	kind      string
}

func (r *recorder) success(id int64, start time.Time, latency time.Duration, status int) {
	rec := results.Success(start, r.kind, latency, status)
	r.commit(id, rec, func() { r.collector.RecordSuccess(latency) })
}

func (r *recorder) failure(id int64, start time.Time, cause error) {
	rec := results.Failure(start, r.kind)
	r.commit(id, rec, func() { r.collector.RecordFailure(failureReason(cause)) })
	r.log(cause)
}

func (r *recorder) commit(id int64, rec results.Record, count func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count()
	if r.sink == nil {
		return
	}
	if err := r.sink.Write(rec); err != nil {
		r.collector.RecordSinkError()
		r.log(&SinkError{ID: id, Err: err})
	}
}

func (r *recorder) log(err error) {
	if r.logger != nil && err != nil {
		r.logger.LogFailure(err)
	}
}

// failureReason maps a terminal failure onto a short, stable label.
func failureReason(err error) string {
	var (
		exhausted  *ExhaustedError
		unexpected *UnexpectedStatusError
		httpErr    *HTTPError
	)
	switch {
	case errors.As(err, &exhausted):
		return metrics.ReasonExhausted
	case errors.As(err, &unexpected):
		return metrics.ReasonUnexpectedStatus
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ReasonCancelled
	case errors.As(err, &httpErr):
		return metrics.ReasonClientError
	default:
		return metrics.ReasonTransport
	}
}
