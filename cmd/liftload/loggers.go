package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/torosent/liftload/internal/runner"
)

// stderrLogger writes run diagnostics one line at a time. When a line rate is
// set, lines over the limit are dropped and counted instead.
type stderrLogger struct {
	mu         sync.Mutex
	w          io.Writer
	prefix     string
	attempts   bool
	limiter    *rate.Limiter
	suppressed int64
}

func newStderrLogger(w io.Writer, runID ulid.ULID, attempts bool, linesPerSecond int) *stderrLogger {
	l := &stderrLogger{
		w:        w,
		prefix:   fmt.Sprintf("[liftload %s]", runID),
		attempts: attempts,
	}
	if linesPerSecond > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(linesPerSecond), linesPerSecond)
	}
	return l
}

// LogAttempt reports the status code of every attempt, or the transport
// error when there was no response.
func (l *stderrLogger) LogAttempt(id int64, attempt int, outcome runner.Outcome, decision runner.Decision) {
	if !l.attempts {
		return
	}
	if outcome.StatusCode > 0 {
		l.printf("request %d status code: %d (attempt %d, %s)", id, outcome.StatusCode, attempt, decision)
		return
	}
	l.printf("request %d attempt %d failed: %v (%s)", id, attempt, outcome.Err, decision)
}

func (l *stderrLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	l.printf("%v", err)
}

// Flush reports how many lines the rate limit dropped.
func (l *stderrLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.suppressed > 0 {
		fmt.Fprintf(l.w, "%s suppressed %d log lines over the rate limit\n", l.prefix, l.suppressed)
		l.suppressed = 0
	}
}

func (l *stderrLogger) printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limiter != nil && !l.limiter.Allow() {
		l.suppressed++
		return
	}
	fmt.Fprintf(l.w, l.prefix+" "+format+"\n", args...)
}
