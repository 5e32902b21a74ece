package runner_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/torosent/liftload/internal/runner"
)

func TestClassify(t *testing.T) {
	transportErr := errors.New("connection reset")
	tests := []struct {
		name    string
		policy  runner.RetryPolicy
		attempt int
		outcome runner.Outcome
		want    runner.Decision
		wantErr any
	}{
		{"expected status", runner.DefaultRetryPolicy(), 1, runner.Outcome{StatusCode: 201}, runner.Accept, nil},
		{"expected status on last attempt", runner.DefaultRetryPolicy(), 6, runner.Outcome{StatusCode: 201}, runner.Accept, nil},
		{"server error", runner.DefaultRetryPolicy(), 1, runner.Outcome{StatusCode: 503}, runner.Retry, &runner.HTTPError{}},
		{"client error retried by default", runner.DefaultRetryPolicy(), 2, runner.Outcome{StatusCode: 404}, runner.Retry, &runner.HTTPError{}},
		{"transport error", runner.DefaultRetryPolicy(), 1, runner.Outcome{Err: transportErr}, runner.Retry, transportErr},
		{"other 2xx", runner.DefaultRetryPolicy(), 1, runner.Outcome{StatusCode: 200}, runner.GiveUp, &runner.UnexpectedStatusError{}},
		{"redirect", runner.DefaultRetryPolicy(), 1, runner.Outcome{StatusCode: 301}, runner.GiveUp, &runner.UnexpectedStatusError{}},
		{"informational", runner.DefaultRetryPolicy(), 1, runner.Outcome{StatusCode: 100}, runner.GiveUp, &runner.UnexpectedStatusError{}},
		{"exhausted on sixth attempt", runner.DefaultRetryPolicy(), 6, runner.Outcome{StatusCode: 500}, runner.GiveUp, &runner.ExhaustedError{}},
		{"fifth attempt still retries", runner.DefaultRetryPolicy(), 5, runner.Outcome{StatusCode: 500}, runner.Retry, &runner.HTTPError{}},
		{"client errors opted out", runner.RetryPolicy{MaxRetries: 5, ExpectedStatus: 201}, 1, runner.Outcome{StatusCode: 400}, runner.GiveUp, &runner.HTTPError{}},
		{"custom expected status", runner.RetryPolicy{MaxRetries: 1, ExpectedStatus: 200}, 1, runner.Outcome{StatusCode: 200}, runner.Accept, nil},
		{"201 unexpected when 200 expected", runner.RetryPolicy{MaxRetries: 1, ExpectedStatus: 200}, 1, runner.Outcome{StatusCode: 201}, runner.GiveUp, &runner.UnexpectedStatusError{}},
		{"no retries", runner.RetryPolicy{ExpectedStatus: 201}, 1, runner.Outcome{StatusCode: 502}, runner.GiveUp, &runner.ExhaustedError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.policy.Classify(tt.attempt, tt.outcome)
			if got != tt.want {
				t.Errorf("Classify() decision = %s, want %s", got, tt.want)
			}
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Errorf("Classify() error = %v, want nil", err)
				}
			case *runner.HTTPError:
				var target *runner.HTTPError
				if !errors.As(err, &target) {
					t.Errorf("Classify() error = %v, want *HTTPError", err)
				} else if target.StatusCode != tt.outcome.StatusCode {
					t.Errorf("HTTPError.StatusCode = %d, want %d", target.StatusCode, tt.outcome.StatusCode)
				}
			case *runner.UnexpectedStatusError:
				var target *runner.UnexpectedStatusError
				if !errors.As(err, &target) {
					t.Errorf("Classify() error = %v, want *UnexpectedStatusError", err)
				}
			case *runner.ExhaustedError:
				var target *runner.ExhaustedError
				if !errors.As(err, &target) {
					t.Fatalf("Classify() error = %v, want *ExhaustedError", err)
				}
				if target.Attempts != tt.attempt {
					t.Errorf("ExhaustedError.Attempts = %d, want %d", target.Attempts, tt.attempt)
				}
			case error:
				if !errors.Is(err, want) {
					t.Errorf("Classify() error = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestClassifyKeepsResponseBody(t *testing.T) {
	policy := runner.DefaultRetryPolicy()
	cause := &runner.HTTPError{StatusCode: 500, Body: "db down"}
	_, err := policy.Classify(6, runner.Outcome{StatusCode: 500, Err: cause})
	if err == nil || err.Error() != "failed after 6 attempts: HTTP 500: db down" {
		t.Fatalf("Classify() error = %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("ExhaustedError does not unwrap to the last failure")
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	policy := runner.DefaultRetryPolicy()
	for status := 100; status < 600; status += 7 {
		for attempt := 1; attempt <= 7; attempt++ {
			o := runner.Outcome{StatusCode: status}
			d1, e1 := policy.Classify(attempt, o)
			d2, e2 := policy.Classify(attempt, o)
			if d1 != d2 || fmt.Sprint(e1) != fmt.Sprint(e2) {
				t.Fatalf("Classify(%d, %d) not deterministic: %s/%v vs %s/%v", attempt, status, d1, e1, d2, e2)
			}
		}
	}
}

func TestMaxAttempts(t *testing.T) {
	if got := runner.DefaultRetryPolicy().MaxAttempts(); got != 6 {
		t.Errorf("MaxAttempts() = %d, want 6", got)
	}
	if got := (runner.RetryPolicy{MaxRetries: -1}).MaxAttempts(); got != 1 {
		t.Errorf("MaxAttempts() = %d, want 1", got)
	}
}

func TestDecisionString(t *testing.T) {
	for d, want := range map[runner.Decision]string{
		runner.Accept: "accept",
		runner.Retry:  "retry",
		runner.GiveUp: "give-up",
		9:             "unknown",
	} {
		if d.String() != want {
			t.Errorf("Decision(%d).String() = %q, want %q", int(d), d.String(), want)
		}
	}
}
