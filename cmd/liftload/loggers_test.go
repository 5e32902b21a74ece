package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/torosent/liftload/internal/runner"
)

func TestStderrLoggerAttemptLines(t *testing.T) {
	var buf bytes.Buffer
	id := ulid.Make()
	l := newStderrLogger(&buf, id, true, 0)

	l.LogAttempt(7, 1, runner.Outcome{StatusCode: 201}, runner.Accept)
	l.LogAttempt(8, 2, runner.Outcome{Err: errors.New("connection refused")}, runner.Retry)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	prefix := "[liftload " + id.String() + "] "
	if lines[0] != prefix+"request 7 status code: 201 (attempt 1, accept)" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != prefix+"request 8 attempt 2 failed: connection refused (retry)" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestStderrLoggerAttemptsDisabled(t *testing.T) {
	var buf bytes.Buffer
	l := newStderrLogger(&buf, ulid.Make(), false, 0)
	l.LogAttempt(1, 1, runner.Outcome{StatusCode: 201}, runner.Accept)
	if buf.Len() != 0 {
		t.Errorf("unexpected output: %q", buf.String())
	}
	l.LogFailure(errors.New("boom"))
	l.LogFailure(nil)
	if strings.Count(buf.String(), "\n") != 1 || !strings.Contains(buf.String(), "boom") {
		t.Errorf("failure log = %q", buf.String())
	}
}

func TestStderrLoggerRateLimit(t *testing.T) {
	var buf bytes.Buffer
	l := newStderrLogger(&buf, ulid.Make(), true, 2)
	for i := 0; i < 10; i++ {
		l.LogFailure(errors.New("boom"))
	}
	if got := strings.Count(buf.String(), "boom"); got != 2 {
		t.Fatalf("logged %d lines, want burst of 2", got)
	}
	l.Flush()
	if !strings.Contains(buf.String(), "suppressed 8 log lines") {
		t.Errorf("missing suppression summary:\n%s", buf.String())
	}
}
