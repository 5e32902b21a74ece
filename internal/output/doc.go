// Package output renders run summaries and live progress.
//
// [PrintReport] and [PrintJSONReport] write the end-of-run summary to a
// terminal; [WriteSummaryFile] persists the same data as YAML or JSON.
// [ProgressReporter] rewrites a single status line while the run is active.
package output
