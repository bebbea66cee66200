// Package api issues backend requests with bounded latency, outcome
// classification, and an exponential-backoff retry wrapper.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/pulse/internal/core/logging"
)

const (
	// DefaultTimeout bounds every request's latency.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the retry budget of RequestWithRetry; the
	// total attempt count is DefaultMaxRetries + 1.
	DefaultMaxRetries = 3

	// defaultRetryBase is the backoff unit: the wait before attempt
	// i+1 is retryBase << i.
	defaultRetryBase = time.Second
)

// RetryOverride adjusts the retry budget for request paths matching a
// glob pattern. The first matching override wins.
type RetryOverride struct {
	Pattern    string
	MaxRetries int
}

// Options configures a Client. Zero values fall back to defaults.
// MaxRetries 0 selects the default budget; a negative value disables
// retries entirely.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
	Overrides  []RetryOverride
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client performs network calls with a timeout and classifies their
// outcomes. It never retries on its own and never renders UI; retry
// sequencing lives in RequestWithRetry, and surfacing failures to the
// user is the caller's job. Idempotency of retried calls is likewise
// the caller's responsibility.
type Client struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	retryBase  time.Duration
	overrides  []RetryOverride
	http       *http.Client
	log        zerolog.Logger
}

// New creates a client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	switch {
	case opts.MaxRetries == 0:
		opts.MaxRetries = DefaultMaxRetries
	case opts.MaxRetries < 0:
		opts.MaxRetries = 0
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaultRetryBase
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		retryBase:  opts.RetryBase,
		overrides:  opts.Overrides,
		http:       opts.HTTPClient,
		log:        opts.Logger,
	}
}

// Request performs a single call and classifies its outcome. A default
// JSON content type is merged under caller headers (the caller wins on
// conflicts). The call is aborted when the timeout fires first, which
// surfaces as a TimeoutError; non-2xx responses surface as StatusError,
// network failures as TransportError, and non-JSON bodies as
// DecodeError. On success the raw JSON body is returned.
func (c *Client) Request(ctx context.Context, method, path string, body []byte, hdr http.Header) (json.RawMessage, error) {
	target := c.resolve(path)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, vals := range hdr {
		req.Header.Del(k)
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	ctx = logging.WithRequestID(ctx, requestID)

	c.log.Debug().
		Ctx(ctx).
		Str("method", method).
		Str("url", target).
		Str("request_id", requestID).
		Msg("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || (ctx.Err() == context.DeadlineExceeded) {
			return nil, &TimeoutError{URL: target}
		}
		return nil, &TransportError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close response body")
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{URL: target}
		}
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if !json.Valid(data) {
		return nil, &DecodeError{Err: fmt.Errorf("invalid JSON body")}
	}

	return json.RawMessage(data), nil
}

// Get performs a GET request. Params are serialized as a query string;
// keys with nil values are omitted.
func (c *Client) Get(ctx context.Context, path string, params map[string]any) (json.RawMessage, error) {
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			if v == nil {
				continue
			}
			q.Set(k, fmt.Sprintf("%v", v))
		}
		if encoded := q.Encode(); encoded != "" {
			sep := "?"
			if strings.Contains(path, "?") {
				sep = "&"
			}
			path += sep + encoded
		}
	}
	return c.Request(ctx, http.MethodGet, path, nil, nil)
}

// Post performs a POST request with a JSON-encoded body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return c.Request(ctx, http.MethodPost, path, data, nil)
}

// RequestWithRetry performs up to maxRetries+1 attempts of Request,
// retrying every failure classification uniformly. Between attempt i
// and i+1 it waits retryBase << i (1s, 2s, 4s with the default base),
// with no jitter. After the final attempt the last error observed is
// surfaced. Waits respect ctx cancellation.
func (c *Client) RequestWithRetry(ctx context.Context, method, path string, body []byte, hdr http.Header) (json.RawMessage, error) {
	retries := c.retriesFor(path)
	attempts := retries + 1

	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := c.Request(ctx, method, path, body, hdr)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}

		wait := c.retryBase << i
		c.log.Debug().
			Err(err).
			Int("attempt", i).
			Dur("backoff", wait).
			Msg("api request failed, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, lastErr
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// MaxRetries reports the retry budget that applies to a path.
func (c *Client) MaxRetries(path string) int {
	return c.retriesFor(path)
}

func (c *Client) retriesFor(path string) int {
	for _, o := range c.overrides {
		if ok, err := doublestar.Match(o.Pattern, path); err == nil && ok {
			return max(o.MaxRetries, 0)
		}
	}
	return c.maxRetries
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if c.baseURL == "" {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
