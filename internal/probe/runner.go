package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yuzolabs/pixelprobe/internal/metrics"
)

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// DefaultTimeout bounds each request. Deliberately a constant rather than
// configuration: the probe's timing behavior is part of what makes its output
// comparable across runs.
const DefaultTimeout = 10 * time.Second

// Response bodies beyond this are truncated before rendering.
const maxBodyBytes = 1 << 20

// Options configures a Runner. Zero values fall back to sensible defaults:
// a plain http.Client and DefaultTimeout.
type Options struct {
	Client   httpDoer
	Endpoint string
	Origin   string
	Cases    []Case
	Timeout  time.Duration
	Metrics  *metrics.Recorder
	// OnResult streams each Result as it is produced, before the next case
	// starts. A non-nil error aborts the run.
	OnResult func(Result) error
}

// Runner executes the case battery strictly sequentially against one
// endpoint. It is responsible purely for HTTP execution and outcome capture;
// rendering and verdicts belong to the caller.
type Runner struct {
	client   httpDoer
	endpoint string
	origin   string
	cases    []Case
	timeout  time.Duration
	metrics  *metrics.Recorder
	onResult func(Result) error
	logger   *slog.Logger
}

// New creates a Runner from the given options.
func New(logger *slog.Logger, opts Options) *Runner {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		client:   client,
		endpoint: opts.Endpoint,
		origin:   opts.Origin,
		cases:    opts.Cases,
		timeout:  timeout,
		metrics:  opts.Metrics,
		onResult: opts.OnResult,
		logger:   logger,
	}
}

// Run executes every case in declaration order and returns one Result per
// case. A case's failure never prevents subsequent cases from running; only
// parent-context cancellation or a streaming callback error stops the run
// early, returning the results collected so far.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(r.cases))
	for _, c := range r.cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := r.execute(ctx, c)
		results = append(results, result)
		r.metrics.ObserveCase(result.Case, result.Status, result.Duration)
		r.logger.Debug("case completed",
			slog.String("case", result.Case),
			slog.Int("status", result.Status),
			slog.Duration("duration", result.Duration),
		)

		if r.onResult != nil {
			if err := r.onResult(result); err != nil {
				return results, fmt.Errorf("probe: report case %s: %w", result.Case, err)
			}
		}
	}
	return results, nil
}

// execute performs one HTTP exchange. Any received response, including
// 4xx/5xx, is a successful observation; only transport-level failures map to
// the synthetic status 0 with the error text as the body.
func (r *Runner) execute(ctx context.Context, c Case) Result {
	start := time.Now()
	fail := func(err error) Result {
		return Result{Case: c.Name, Status: 0, Body: err.Error(), Duration: time.Since(start)}
	}

	if c.Body == nil {
		return fail(errors.New("probe: case has no body"))
	}
	payload, err := c.Body.Bytes()
	if err != nil {
		return fail(err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", r.origin)

	resp, err := r.client.Do(req)
	if err != nil {
		return fail(err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	closeErr := resp.Body.Close()
	if err != nil {
		return fail(fmt.Errorf("probe: read response: %w", err))
	}
	if closeErr != nil {
		return fail(fmt.Errorf("probe: close response: %w", closeErr))
	}

	return Result{
		Case:     c.Name,
		Status:   resp.StatusCode,
		Body:     strings.ToValidUTF8(string(body), "�"),
		Duration: time.Since(start),
	}
}
