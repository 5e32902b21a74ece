package runner

import (
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultMaxRetries     = 5
	DefaultExpectedStatus = http.StatusCreated
	DefaultMaxDelay       = 5 * time.Second
	DefaultJitter         = 0.5
)

// Decision is the verdict a RetryPolicy reaches for one attempt.
type Decision int

const (
	Accept Decision = iota
	Retry
	GiveUp
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case Retry:
		return "retry"
	case GiveUp:
		return "give-up"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single network attempt. A zero StatusCode with a
// non-nil Err marks a transport failure; Err may also carry an *HTTPError
// describing a 4xx/5xx response.
type Outcome struct {
	StatusCode int
	Err        error
	Latency    time.Duration
}

// RetryPolicy configures retry behavior.
type RetryPolicy struct {
	MaxRetries        int           // additional attempts after the first
	ExpectedStatus    int           // the only accepted status code
	RetryClientErrors bool          // retry 4xx responses like 5xx
	BaseDelay         time.Duration // 0 retries immediately
	MaxDelay          time.Duration // cap for exponential backoff
	Jitter            float64       // randomization factor in [0, 1]
}

// DefaultRetryPolicy expects 201 and allows up to five immediate retries,
// treating 4xx and 5xx responses alike.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        DefaultMaxRetries,
		ExpectedStatus:    DefaultExpectedStatus,
		RetryClientErrors: true,
		MaxDelay:          DefaultMaxDelay,
		Jitter:            DefaultJitter,
	}
}

// MaxAttempts returns the total attempt budget per work item.
func (p RetryPolicy) MaxAttempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return p.MaxRetries + 1
}

// Classify decides what happens after the given attempt (1-based). The error
// describes the failed attempt for Retry and the terminal failure for GiveUp;
// it is nil for Accept. Classify is a pure function of its inputs.
func (p RetryPolicy) Classify(attempt int, outcome Outcome) (Decision, error) {
	failure, retryable := p.inspect(outcome)
	if failure == nil {
		return Accept, nil
	}
	if !retryable {
		return GiveUp, failure
	}
	if attempt > p.MaxRetries {
		return GiveUp, &ExhaustedError{Attempts: attempt, Last: failure}
	}
	return Retry, failure
}

func (p RetryPolicy) inspect(outcome Outcome) (error, bool) {
	status := outcome.StatusCode
	switch {
	case status == 0 && outcome.Err != nil:
		return outcome.Err, true
	case status == p.expectedStatus():
		return nil, false
	case status >= 400 && status < 500:
		return statusFailure(outcome), p.RetryClientErrors
	case status >= 500 && status < 600:
		return statusFailure(outcome), true
	default:
		return &UnexpectedStatusError{StatusCode: status}, false
	}
}

func (p RetryPolicy) expectedStatus() int {
	if p.ExpectedStatus <= 0 {
		return DefaultExpectedStatus
	}
	return p.ExpectedStatus
}

func statusFailure(outcome Outcome) error {
	if httpErr, ok := outcome.Err.(*HTTPError); ok && httpErr != nil {
		return httpErr
	}
	return &HTTPError{StatusCode: outcome.StatusCode}
}

// delays returns a per-item generator of waits between attempts. Without a
// base delay every retry is immediate.
func (p RetryPolicy) delays() func() time.Duration {
	if p.BaseDelay <= 0 {
		return func() time.Duration { return 0 }
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.MaxInterval = p.maxDelay()
	b.RandomizationFactor = clampJitter(p.Jitter)
	b.Reset()

	limit := p.maxDelay()
	return func() time.Duration {
		next := b.NextBackOff()
		if next < 0 {
			return limit
		}
		if next > limit {
			return limit
		}
		return next
	}
}

func (p RetryPolicy) maxDelay() time.Duration {
	if p.MaxDelay <= 0 {
		return DefaultMaxDelay
	}
	if p.MaxDelay < p.BaseDelay {
		return p.BaseDelay
	}
	return p.MaxDelay
}

func clampJitter(j float64) float64 {
	if j < 0 {
		return 0
	}
	if j > 1 {
		return 1
	}
	return j
}
