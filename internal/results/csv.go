package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the result file.
var ErrLocked = errors.New("results file is locked by another run")

// CSVSink appends records to a CSV file, flushing after every row so an
// interrupted run leaves a valid prefix. It is safe for concurrent use.
type CSVSink struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
	lock   *flock.Flock
}

// Open truncates or creates path, takes an exclusive lock on path+".lock"
// and writes the header line.
func Open(path string) (*CSVSink, error) {
	if path == "" {
		return nil, errors.New("results path is required")
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create results file: %w", err)
	}

	s := &CSVSink{
		path:   path,
		file:   file,
		writer: csv.NewWriter(file),
		lock:   lock,
	}
	if err := s.writeRow(Header); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return s, nil
}

// Path returns the file the sink writes to.
func (s *CSVSink) Path() string {
	return s.path
}

// Write appends one record and flushes it.
func (s *CSVSink) Write(rec Record) error {
	return s.writeRow(rec.Fields())
}

func (s *CSVSink) writeRow(fields []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writer == nil {
		return os.ErrClosed
	}
	if err := s.writer.Write(fields); err != nil {
		return err
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes pending data, closes the file and releases the lock.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writer == nil {
		return nil
	}
	s.writer.Flush()
	errs := []error{s.writer.Error(), s.file.Close()}
	s.writer = nil

	// The .lock file stays on disk. Removing it would let a later run lock a
	// fresh inode while another still holds the old one.
	errs = append(errs, s.lock.Unlock())
	return errors.Join(errs...)
}
