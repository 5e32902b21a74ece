package output_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/torosent/liftload/internal/metrics"
	"github.com/torosent/liftload/internal/output"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressReporterWritesLines(t *testing.T) {
	collector := metrics.NewCollector()
	collector.RecordAttempt(201, nil)
	collector.RecordSuccess(5 * time.Millisecond)
	collector.RecordAttempt(500, nil)
	collector.RecordFailure(metrics.ReasonExhausted)

	var buf syncBuffer
	reporter := output.NewProgressReporter(collector, 4, 10*time.Millisecond, &buf)
	reporter.Start()
	reporter.Start() // second start is a no-op
	time.Sleep(50 * time.Millisecond)
	reporter.Stop()
	reporter.Stop()

	out := buf.String()
	if !strings.Contains(out, "\rCompleted: 2/4 | Successes: 1 | Failures: 1 | Attempts: 2") {
		t.Errorf("unexpected progress output: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("progress output should end with a newline: %q", out)
	}
}

func TestProgressReporterStopBeforeTick(t *testing.T) {
	var buf syncBuffer
	reporter := output.NewProgressReporter(metrics.NewCollector(), 1, time.Hour, &buf)
	reporter.Start()
	reporter.Stop()
	if buf.String() != "" {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestProgressReporterIntervalStartsAtStart(t *testing.T) {
	var buf syncBuffer
	reporter := output.NewProgressReporter(metrics.NewCollector(), 1, 200*time.Millisecond, &buf)
	time.Sleep(300 * time.Millisecond)

	reporter.Start()
	reporter.Stop()
	if buf.String() != "" {
		t.Errorf("expected no output before the first interval after Start, got %q", buf.String())
	}
}

func TestProgressReporterStopWithoutStart(t *testing.T) {
	var buf syncBuffer
	reporter := output.NewProgressReporter(metrics.NewCollector(), 1, 10*time.Millisecond, &buf)

	stopped := make(chan struct{})
	go func() {
		reporter.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked on a reporter that was never started")
	}
	time.Sleep(30 * time.Millisecond)
	if buf.String() != "" {
		t.Errorf("expected no output from an unstarted reporter, got %q", buf.String())
	}
}
