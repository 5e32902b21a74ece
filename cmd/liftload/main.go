package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/torosent/liftload/internal/config"
	"github.com/torosent/liftload/internal/httpclient"
	"github.com/torosent/liftload/internal/metrics"
	"github.com/torosent/liftload/internal/output"
	"github.com/torosent/liftload/internal/payload"
	"github.com/torosent/liftload/internal/results"
	"github.com/torosent/liftload/internal/runner"
	"github.com/torosent/liftload/internal/tracing"
)

const (
	progressInterval = time.Second
	shutdownTimeout  = 5 * time.Second
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runID := ulid.Make()
	provider, err := tracing.Init(ctx, cfg.Tracing, runID.String())
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(stderr, "[liftload] tracing shutdown: %v\n", err)
		}
	}()

	client := httpclient.NewClient(cfg.Timeout, cfg.Concurrency)
	sender, err := httpclient.NewSender(httpclient.SenderConfig{
		Method:  cfg.Method,
		Target:  cfg.TargetURL,
		Headers: cfg.Headers,
	}, client, provider.Propagator())
	if err != nil {
		return err
	}

	sink, err := results.Open(cfg.ResultsFile)
	if err != nil {
		return fmt.Errorf("open results file: %w", err)
	}
	defer sink.Close()

	logger := newStderrLogger(stderr, runID, cfg.LogAttempts, cfg.LogRate)
	collector := metrics.NewCollector()

	r, err := runner.New(runner.Options{
		Concurrency:   cfg.Concurrency,
		TotalRequests: cfg.Total,
		Policy:        newRetryPolicy(cfg),
		Transport:     sender,
		Codec:         payload.NewJSONCodec(payload.NewGenerator(cfg.Seed)),
		Sink:          sink,
		Collector:     collector,
		AttemptLogger: logger,
		FailureLogger: logger,
		Tracer:        provider.Tracer(),
		RequestKind:   cfg.Method,
		RunID:         runID,
	})
	if err != nil {
		return err
	}

	var progress *output.ProgressReporter
	if cfg.Progress && !cfg.JSONOutput {
		progress = output.NewProgressReporter(collector, int64(cfg.Total), progressInterval, stdout)
		progress.Start()
	}

	result := r.Run(ctx)

	if progress != nil {
		progress.Stop()
	}
	logger.Flush()
	if err := sink.Close(); err != nil {
		fmt.Fprintf(stderr, "[liftload] close results file: %v\n", err)
	}

	stats := collector.Stats(result.Duration)
	stats.RunID = result.RunID.String()
	stats.Cancelled = result.Cancelled

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(stdout, stats); err != nil {
			return err
		}
	} else {
		output.PrintReport(stdout, stats)
	}

	if cfg.SummaryFile != "" {
		if err := output.WriteSummaryFile(cfg.SummaryFile, stats); err != nil {
			fmt.Fprintf(stderr, "[liftload] %v\n", err)
		}
	}
	return nil
}

func newRetryPolicy(cfg *config.Config) runner.RetryPolicy {
	return runner.RetryPolicy{
		MaxRetries:        cfg.Retries,
		ExpectedStatus:    cfg.ExpectedStatus,
		RetryClientErrors: cfg.RetryClientErrors,
		BaseDelay:         cfg.RetryBackoff,
		MaxDelay:          cfg.RetryMaxDelay,
		Jitter:            cfg.RetryJitter,
	}
}
