package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/torosent/liftload/internal/metrics"
)

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, stats metrics.Stats) {
	fmt.Fprintln(w, "\n--- Load Test Results ---")
	if stats.RunID != "" {
		fmt.Fprintf(w, "Run ID:            %s\n", stats.RunID)
	}
	fmt.Fprintf(w, "Total Requests:    %d\n", stats.Total)
	fmt.Fprintf(w, "Successful:        %d\n", stats.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", stats.Failures)
	fmt.Fprintf(w, "Elapsed:           %.0f ms\n", stats.DurationMs)
	fmt.Fprintf(w, "Throughput:        %.2f req/s\n", stats.RequestsPerSec)
	fmt.Fprintf(w, "Mean Latency:      %.3f ms\n", stats.MeanLatencyMs)
	fmt.Fprintf(w, "Attempts:          %d (%d retries)\n", stats.Attempts, stats.Retries)
	if stats.SinkErrors > 0 {
		fmt.Fprintf(w, "Unwritten Records: %d\n", stats.SinkErrors)
	}
	if stats.Cancelled {
		fmt.Fprintln(w, "Status:            cancelled before all work items were issued")
	}

	fmt.Fprintln(w, "\nRequest Latency:")
	fmt.Fprintf(w, "  Min:             %s\n", stats.MinLatency)
	fmt.Fprintf(w, "  Max:             %s\n", stats.MaxLatency)
	fmt.Fprintf(w, "  Mean:            %s\n", stats.RequestMeanLatency)
	fmt.Fprintf(w, "  P50:             %s\n", stats.P50Latency)
	fmt.Fprintf(w, "  P90:             %s\n", stats.P90Latency)
	fmt.Fprintf(w, "  P99:             %s\n", stats.P99Latency)

	if len(stats.FailureReasons) > 0 {
		fmt.Fprintln(w, "\nFailure Reasons:")
		reasons := make([]string, 0, len(stats.FailureReasons))
		for reason := range stats.FailureReasons {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(w, "  %s: %d\n", reason, stats.FailureReasons[reason])
		}
	}

	if len(stats.StatusCodes) > 0 {
		fmt.Fprintln(w, "\nAttempt Status Codes:")
		for _, row := range metrics.FlattenStatusBuckets(stats.StatusCodes) {
			fmt.Fprintf(w, "  %s: %d\n", row.Code, row.Count)
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, stats metrics.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
