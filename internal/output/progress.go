package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/torosent/liftload/internal/metrics"
)

// ProgressReporter displays real-time progress updates.
type ProgressReporter struct {
	collector *metrics.Collector
	total     int64
	interval  time.Duration
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
}

// NewProgressReporter creates a progress reporter for a run of total work
// items that updates at the given interval.
func NewProgressReporter(collector *metrics.Collector, total int64, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &ProgressReporter{
		collector: collector,
		total:     total,
		interval:  interval,
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
	}
}

// Start begins displaying progress updates in a background goroutine. The
// first update comes one interval after Start.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run(time.NewTicker(p.interval))
}

// Stop halts progress updates and terminates the progress line.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		<-p.finished
	}
}

func (p *ProgressReporter) run(ticker *time.Ticker) {
	defer close(p.finished)
	defer ticker.Stop()
	wrote := false
	for {
		select {
		case <-ticker.C:
			fmt.Fprint(p.writer, p.line())
			wrote = true
		case <-p.done:
			if wrote {
				fmt.Fprintln(p.writer)
			}
			return
		}
	}
}

func (p *ProgressReporter) line() string {
	snap := p.collector.Snapshot()
	elapsed := p.collector.Elapsed()
	done := snap.Successes + snap.Failures
	return fmt.Sprintf("\rCompleted: %d/%d | Successes: %d | Failures: %d | Attempts: %d | RPS: %.1f",
		done, p.total, snap.Successes, snap.Failures, snap.Attempts, metrics.Throughput(snap.Successes, elapsed))
}
