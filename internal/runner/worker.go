package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/torosent/liftload/internal/tracing"
)

// WorkItem is one unit of load: a unique id plus the record built for it.
type WorkItem struct {
	ID     int64
	Record any
}

// worker drains the shared source, resolving one item completely before
// pulling the next.
type worker struct {
	opt    *Options
	source *WorkSource
	rec    *recorder
}

func (w *worker) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		id, ok := w.source.Next()
		if !ok {
			return
		}
		w.process(ctx, WorkItem{ID: id, Record: w.opt.Codec.NewRecord(id)})
	}
}

func (w *worker) process(ctx context.Context, item WorkItem) {
	ctx, span := tracing.StartItemSpan(ctx, w.opt.Tracer, w.opt.RunID.String(), w.opt.RequestKind, item.ID)
	start := w.opt.Clock()
	nextDelay := w.opt.Policy.delays()

	for attempt := 1; ; attempt++ {
		outcome := w.attempt(ctx, item)
		decision, err := w.opt.Policy.Classify(attempt, outcome)

		w.opt.Collector.RecordAttempt(outcome.StatusCode, outcome.Err)
		tracing.AddAttemptEvent(span, attempt, outcome.StatusCode, outcome.Latency, decision.String(), outcome.Err)
		if w.opt.AttemptLogger != nil {
			w.opt.AttemptLogger.LogAttempt(item.ID, attempt, outcome, decision)
		}

		switch {
		case decision == Accept:
			w.rec.success(item.ID, start, w.opt.Clock().Sub(start), outcome.StatusCode)
			tracing.EndSpan(span, nil, attempt)
			return
		case ctx.Err() != nil:
			// A stopped run finalizes the item as cancelled whatever budget remained.
			err = fmt.Errorf("request %d cancelled during attempt %d: %w", item.ID, attempt, context.Cause(ctx))
			w.rec.failure(item.ID, start, err)
			tracing.EndSpan(span, err, attempt)
			return
		case decision == GiveUp:
			err = fmt.Errorf("request %d: %w", item.ID, err)
			w.rec.failure(item.ID, start, err)
			tracing.EndSpan(span, err, attempt)
			return
		}

		if waitErr := wait(ctx, nextDelay()); waitErr != nil {
			err = fmt.Errorf("request %d cancelled after %d attempts: %w", item.ID, attempt, waitErr)
			w.rec.failure(item.ID, start, err)
			tracing.EndSpan(span, err, attempt)
			return
		}
	}
}

func (w *worker) attempt(ctx context.Context, item WorkItem) Outcome {
	started := w.opt.Clock()
	body, err := w.opt.Codec.Encode(item.Record)
	if err != nil {
		return Outcome{Err: fmt.Errorf("encode request %d: %w", item.ID, err)}
	}
	status, err := w.opt.Transport.Send(ctx, body)
	return Outcome{
		StatusCode: status,
		Err:        err,
		Latency:    w.opt.Clock().Sub(started),
	}
}

// wait pauses between attempts. It returns the context's cause when the run
// is cancelled, even for a zero delay.
func wait(ctx context.Context, delay time.Duration) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-timer.C:
		return nil
	}
}
