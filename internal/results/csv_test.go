package results_test

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/torosent/liftload/internal/results"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return lines
}

func TestOpenWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	sink, err := results.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %v", len(lines), lines)
	}
	if lines[0] != "Start Time,Request Type,Latency (ms),Response Code" {
		t.Fatalf("unexpected header %q", lines[0])
	}
}

func TestWriteFormatsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	sink, err := results.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	start := time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC)
	if err := sink.Write(results.Success(start, "POST", 42*time.Millisecond, 201)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := sink.Write(results.Failure(start, "POST")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Rows are flushed immediately, before Close.
	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "2024-01-02T03:04:05.6Z,POST,42,201" {
		t.Errorf("unexpected success row %q", lines[1])
	}
	if lines[2] != "2024-01-02T03:04:05.6Z,POST,-1,-1" {
		t.Errorf("unexpected failure row %q", lines[2])
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestOpenTruncatesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	if err := os.WriteFile(path, []byte("stale\nrows\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	sink, err := results.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	_ = sink.Close()

	if lines := readLines(t, path); len(lines) != 1 {
		t.Fatalf("expected truncated file with header only, got %v", lines)
	}
}

func TestOpenFailsWhenLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	first, err := results.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer first.Close()

	_, err = results.Open(path)
	if !errors.Is(err, results.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestCloseReleasesLockAndKeepsLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	first, err := results.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path + ".lock"); err != nil {
		t.Errorf("lock file removed on close: %v", err)
	}

	second, err := results.Open(path)
	if err != nil {
		t.Fatalf("reopen after Close() error = %v", err)
	}
	defer second.Close()

	if _, err := results.Open(path); !errors.Is(err, results.ErrLocked) {
		t.Errorf("third Open() error = %v, want ErrLocked while reopened sink holds the kept lock file", err)
	}
}

func TestOpenFailsForMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "results.csv")
	if _, err := results.Open(path); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

func TestConcurrentWritesKeepWholeLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	sink, err := results.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = sink.Write(results.Success(time.Now(), "POST", time.Millisecond, 201))
			}
		}()
	}
	wg.Wait()
	_ = sink.Close()

	lines := readLines(t, path)
	if len(lines) != 801 {
		t.Fatalf("expected 801 lines, got %d", len(lines))
	}
	for _, line := range lines[1:] {
		if strings.Count(line, ",") != 3 {
			t.Fatalf("malformed row %q", line)
		}
	}
}

func TestWriteAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	sink, err := results.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	_ = sink.Close()
	if err := sink.Write(results.Failure(time.Now(), "POST")); err == nil {
		t.Fatal("expected error writing to closed sink")
	}
}
