package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/propagation"

	"github.com/torosent/liftload/internal/runner"
)

const (
	maxErrorBodyBytes = 1024
	maxDrainBytes     = 64 * 1024
)

// NewClient returns an http.Client tuned for many concurrent requests against
// a single host. maxConnsPerHost bounds idle connections kept per host and
// should match the worker count.
func NewClient(timeout time.Duration, maxConnsPerHost int) *http.Client {
	if timeout < 0 {
		timeout = 0
	}
	if maxConnsPerHost <= 0 {
		maxConnsPerHost = 32
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          max(256, maxConnsPerHost),
		MaxIdleConnsPerHost:   maxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// SenderConfig fixes everything about a request except its body.
type SenderConfig struct {
	Method  string
	Target  string
	Headers map[string]string
}

// Sender posts encoded bodies to a fixed target. It implements
// runner.Transport and is safe for concurrent use.
type Sender struct {
	client     *http.Client
	method     string
	target     string
	headers    http.Header
	propagator propagation.TextMapPropagator
}

// NewSender validates cfg and returns a Sender using client. Each request's
// context is injected into its headers through propagator; nil sends no trace
// headers.
func NewSender(cfg SenderConfig, client *http.Client, propagator propagation.TextMapPropagator) (*Sender, error) {
	if client == nil {
		return nil, errors.New("http client cannot be nil")
	}

	target := strings.TrimSpace(cfg.Target)
	if target == "" {
		return nil, errors.New("target URL is required")
	}
	if u, err := url.Parse(target); err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid target URL %q", target)
	}

	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	if method == "" {
		method = http.MethodPost
	}

	headers := http.Header{}
	for key, value := range cfg.Headers {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" || strings.ContainsAny(trimmedKey, "\r\n") {
			return nil, fmt.Errorf("invalid header key %q", key)
		}
		canonicalKey := http.CanonicalHeaderKey(trimmedKey)
		if strings.ContainsAny(value, "\r\n") {
			return nil, fmt.Errorf("invalid header value for %s", canonicalKey)
		}
		headers.Set(canonicalKey, value)
	}
	if headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", "application/json")
	}

	return &Sender{
		client:     client,
		method:     method,
		target:     target,
		headers:    headers,
		propagator: propagator,
	}, nil
}

// Send performs one request. A response with status >= 400 is returned with
// an *runner.HTTPError; a request that never produced a response returns a
// zero status and the transport error.
func (s *Sender) Send(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, s.method, s.target, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header = s.headers.Clone()
	if s.propagator != nil {
		s.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		return resp.StatusCode, nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	return resp.StatusCode, &runner.HTTPError{
		StatusCode: resp.StatusCode,
		Body:       errorMessage(snippet),
	}
}
