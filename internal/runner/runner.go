package runner

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sourcegraph/conc"

	"github.com/torosent/liftload/internal/metrics"
)

// Result captures execution summary.
type Result struct {
	RunID       ulid.ULID
	Total       int64 // work items issued to workers
	Successes   int64
	Failures    int64
	Attempts    int64
	Duration    time.Duration
	Throughput  float64       // successful items per second
	MeanLatency time.Duration // elapsed time per successful item
	Cancelled   bool          // the run stopped before every item was resolved
}

// Runner drains a fixed number of work items through a fixed worker pool.
type Runner struct {
	opt Options
}

// New validates the options and prepares a Runner. The options' shared
// collaborators (transport, codec, sink, collector) are used by every worker.
func New(opt Options) (*Runner, error) {
	opt.normalize()
	if err := opt.validate(); err != nil {
		return nil, err
	}
	return &Runner{opt: opt}, nil
}

// Collector returns the aggregator the runner records into.
func (r *Runner) Collector() *metrics.Collector {
	return r.opt.Collector
}

// RunID identifies this run in logs, spans and summaries.
func (r *Runner) RunID() ulid.ULID {
	return r.opt.RunID
}

// Run blocks until every worker has drained the work source or observed
// cancellation, then derives the summary from the collector's final state.
func (r *Runner) Run(ctx context.Context) Result {
	r.opt.Collector.Start()
	start := time.Now()

	source := NewWorkSource(int64(r.opt.TotalRequests))
	rec := &recorder{
		sink:      r.opt.Sink,
		collector: r.opt.Collector,
		logger:    r.opt.FailureLogger,
		kind:      r.opt.RequestKind,
	}

	var wg conc.WaitGroup
	for i := 0; i < r.opt.Concurrency; i++ {
		w := &worker{opt: &r.opt, source: source, rec: rec}
		wg.Go(func() { w.run(ctx) })
	}
	wg.Wait()

	elapsed := time.Since(start)
	snap := r.opt.Collector.Snapshot()
	return Result{
		RunID:       r.opt.RunID,
		Total:       source.Issued(),
		Successes:   snap.Successes,
		Failures:    snap.Failures,
		Attempts:    snap.Attempts,
		Duration:    elapsed,
		Throughput:  metrics.Throughput(snap.Successes, elapsed),
		MeanLatency: metrics.MeanLatency(snap.Successes, elapsed),
		Cancelled:   snap.Successes+snap.Failures < source.Total(),
	}
}
