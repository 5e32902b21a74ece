// Package runner provides the request-dispatch engine for liftload.
//
// A [Runner] drains a fixed number of work items through a fixed pool of
// worker goroutines. Every worker pulls ids from one shared [WorkSource],
// builds the payload through a [Codec], sends it through a [Transport] and
// lets a [RetryPolicy] decide whether the attempt is accepted, retried or
// abandoned.
//
// # Basic Usage
//
//	r, err := runner.New(runner.Options{
//		Concurrency:   32,
//		TotalRequests: 10000,
//		Policy:        runner.DefaultRetryPolicy(),
//		Transport:     sender,
//		Codec:         codec,
//		Sink:          sink,
//		Collector:     collector,
//	})
//	if err != nil {
//		return err
//	}
//	result := r.Run(ctx)
//
// # Terminal Outcomes
//
// Each work item ends in exactly one terminal outcome: a success record with
// the measured latency and status, or a failure record carrying the -1/-1
// sentinels. The sink append and the collector update for an outcome happen
// inside a single critical section, so the result file and the counters never
// disagree.
//
// # Error Handling
//
// Failed attempts are described by [HTTPError] (4xx/5xx responses) or by the
// transport error itself. Terminal failures are reported as
// [*UnexpectedStatusError] or [*ExhaustedError]:
//
//	var exhausted *runner.ExhaustedError
//	if errors.As(err, &exhausted) {
//		fmt.Printf("gave up after %d attempts: %v\n", exhausted.Attempts, exhausted.Last)
//	}
package runner
