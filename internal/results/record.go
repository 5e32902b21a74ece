// Package results persists one CSV record per resolved work item.
package results

import (
	"strconv"
	"time"
)

// Header is the first line of every result file.
var Header = []string{"Start Time", "Request Type", "Latency (ms)", "Response Code"}

// Sentinel marks the latency and status of a failed work item.
const Sentinel = -1

// Record is the immutable result of one work item.
type Record struct {
	Start      time.Time
	Kind       string
	LatencyMs  int64
	StatusCode int
}

// Success builds the record for an accepted work item.
func Success(start time.Time, kind string, latency time.Duration, status int) Record {
	if latency < 0 {
		latency = 0
	}
	return Record{
		Start:      start,
		Kind:       kind,
		LatencyMs:  latency.Milliseconds(),
		StatusCode: status,
	}
}

// Failure builds the sentinel record for a work item that never succeeded.
func Failure(start time.Time, kind string) Record {
	return Record{
		Start:      start,
		Kind:       kind,
		LatencyMs:  Sentinel,
		StatusCode: Sentinel,
	}
}

// Failed reports whether r carries the failure sentinels.
func (r Record) Failed() bool {
	return r.LatencyMs == Sentinel && r.StatusCode == Sentinel
}

// Fields renders the record as CSV columns.
func (r Record) Fields() []string {
	return []string{
		r.Start.UTC().Format(time.RFC3339Nano),
		r.Kind,
		strconv.FormatInt(r.LatencyMs, 10),
		strconv.Itoa(r.StatusCode),
	}
}
