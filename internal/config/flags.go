package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "liftload",
		Short:         "Bounded-concurrency POST load generator",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Request flags
	flags.String("target", "", "Target URL that receives the POST requests")
	flags.String("method", DefaultMethod, "HTTP method to use")
	flags.StringSlice("header", nil, "Additional request header in key=value form")

	// Load control flags
	flags.IntP("total", "t", DefaultTotal, "Total number of work items to send")
	flags.IntP("concurrency", "c", DefaultConcurrency, "Number of concurrent workers")
	flags.Int("retries", DefaultRetries, "Retries allowed per work item after the first attempt")
	flags.Duration("timeout", DefaultTimeout, "Per-request timeout")
	flags.Int("expected-status", DefaultExpectedStatus, "Status code that marks a request as successful")
	flags.Bool("retry-client-errors", true, "Retry 4xx responses like 5xx responses")
	flags.Duration("retry-backoff", 0, "Initial delay between retries (0 retries immediately)")
	flags.Duration("retry-max-delay", DefaultRetryMaxDelay, "Upper bound for the retry delay")
	flags.Float64("retry-jitter", DefaultRetryJitter, "Randomization factor applied to retry delays (0-1)")
	flags.Int64("seed", 0, "Seed for generated payloads (0 picks a random seed)")

	// Output flags
	flags.String("results", DefaultResultsFile, "CSV file receiving one record per work item")
	flags.Bool("log-attempts", true, "Log every attempt's outcome to stderr")
	flags.Int("log-rate", 0, "Maximum diagnostic lines per second (0 means unlimited)")
	flags.Bool("json-output", false, "Emit JSON formatted summary")
	flags.String("summary-file", "", "Also write the summary to this file (YAML for .yaml/.yml, JSON otherwise)")
	flags.Bool("progress", false, "Print a progress line every second")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing flags
	flags.String("tracing-endpoint", "", "OTLP collector endpoint (host:port)")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.String("tracing-service-name", "", "Service name reported in traces")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of work items to trace (0-1)")
	flags.Bool("tracing-insecure", false, "Use a plaintext connection to the collector")
	flags.Bool("tracing-propagate", true, "Inject W3C trace headers into requests when tracing is enabled")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	integer := func(name string, dst *int) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetInt(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetBool(name)
		}
	}
	float := func(name string, dst *float64) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetFloat64(name)
		}
	}

	str("target", &cfg.TargetURL)
	str("method", &cfg.Method)
	integer("total", &cfg.Total)
	integer("concurrency", &cfg.Concurrency)
	integer("retries", &cfg.Retries)
	integer("expected-status", &cfg.ExpectedStatus)
	boolean("retry-client-errors", &cfg.RetryClientErrors)
	float("retry-jitter", &cfg.RetryJitter)
	str("results", &cfg.ResultsFile)
	boolean("log-attempts", &cfg.LogAttempts)
	integer("log-rate", &cfg.LogRate)
	boolean("json-output", &cfg.JSONOutput)
	str("summary-file", &cfg.SummaryFile)
	boolean("progress", &cfg.Progress)
	str("tracing-endpoint", &cfg.Tracing.Endpoint)
	str("tracing-protocol", &cfg.Tracing.Protocol)
	str("tracing-service-name", &cfg.Tracing.ServiceName)
	float("tracing-sample-rate", &cfg.Tracing.SampleRate)
	boolean("tracing-insecure", &cfg.Tracing.Insecure)
	if err != nil {
		return err
	}

	if fs.Changed("timeout") {
		if cfg.Timeout, err = fs.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if fs.Changed("retry-backoff") {
		if cfg.RetryBackoff, err = fs.GetDuration("retry-backoff"); err != nil {
			return err
		}
	}
	if fs.Changed("retry-max-delay") {
		if cfg.RetryMaxDelay, err = fs.GetDuration("retry-max-delay"); err != nil {
			return err
		}
	}
	if fs.Changed("seed") {
		if cfg.Seed, err = fs.GetInt64("seed"); err != nil {
			return err
		}
	}
	if fs.Changed("tracing-propagate") {
		val, err := fs.GetBool("tracing-propagate")
		if err != nil {
			return err
		}
		cfg.Tracing.Propagate = &val
	}
	if fs.Changed("header") {
		values, err := fs.GetStringSlice("header")
		if err != nil {
			return err
		}
		if cfg.Headers == nil {
			cfg.Headers = map[string]string{}
		}
		for _, raw := range values {
			key, value, err := parseHeader(raw)
			if err != nil {
				return err
			}
			cfg.Headers[key] = value
		}
	}
	return nil
}

func parseHeader(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		key, value, ok = strings.Cut(raw, ":")
	}
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid header %q: expected key=value", raw)
	}
	return http.CanonicalHeaderKey(key), strings.TrimSpace(value), nil
}
