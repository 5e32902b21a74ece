package runner

import "sync/atomic"

// WorkSource issues work item ids 1..N. Each id is handed to exactly one
// caller, with no gaps, regardless of how many goroutines pull concurrently.
type WorkSource struct {
	cursor atomic.Int64
	total  int64
}

// NewWorkSource creates a source for total items. Negative totals are treated as zero.
func NewWorkSource(total int64) *WorkSource {
	if total < 0 {
		total = 0
	}
	return &WorkSource{total: total}
}

// Next returns the next id. Once all ids are issued it returns false to every caller.
func (s *WorkSource) Next() (int64, bool) {
	id := s.cursor.Add(1)
	if id > s.total {
		return 0, false
	}
	return id, true
}

// Issued reports how many ids have been handed out so far.
func (s *WorkSource) Issued() int64 {
	n := s.cursor.Load()
	if n > s.total {
		return s.total
	}
	return n
}

// Total returns the configured number of work items.
func (s *WorkSource) Total() int64 {
	return s.total
}
