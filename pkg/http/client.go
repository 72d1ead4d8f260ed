package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// DefaultTimeout is applied when the caller does not configure one.
const DefaultTimeout = 8 * time.Second

// Client sends JSON requests with a fixed set of default headers and a single
// per-request timeout. Retries are disabled unless MaxRetries is set.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	headers    map[string]string
	maxRetries int
}

type Options struct {
	Timeout    time.Duration
	Headers    map[string]string
	MaxRetries int
	// Transport overrides http.DefaultTransport, mostly for tests.
	Transport http.RoundTripper
}

type RequestOptions struct {
	Method          string
	URL             string
	Query           url.Values
	Headers         map[string]string
	Body            interface{}
	Context         context.Context
	MaxRetries      int
	MaxElapsed      time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// serverError marks a 5xx or 429 reply that may be retried. The response is kept so
// it can still be handed back once retries are exhausted.
type serverError struct {
	resp *Response
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error: %d - %s", e.resp.StatusCode, string(e.resp.Body))
}

func NewClient(opts Options) *Client {
	logger, _ := zap.NewProduction()
	return NewClientWithLogger(opts, logger)
}

// NewClientWithLogger creates a new HTTP client with a custom logger
func NewClientWithLogger(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		logger:     logger,
		headers:    headers,
		maxRetries: opts.MaxRetries,
	}
}

func (c *Client) Do(opts RequestOptions) (*Response, error) {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = c.maxRetries
	}
	if opts.MaxElapsed == 0 {
		opts.MaxElapsed = 2 * time.Minute
	}
	if opts.InitialInterval == 0 {
		opts.InitialInterval = 100 * time.Millisecond
	}
	if opts.MaxInterval == 0 {
		opts.MaxInterval = 10 * time.Second
	}
	retrying := opts.MaxRetries > 0

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = opts.InitialInterval
	expBackoff.MaxInterval = opts.MaxInterval
	expBackoff.Reset()

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	operation := func() (*Response, error) {
		req, err := c.buildRequest(ctx, opts)
		if err != nil {
			c.logger.Error("Failed to build request", zap.Error(err), zap.String("method", opts.Method), zap.String("url", opts.URL))
			return nil, backoff.Permanent(err)
		}

		c.logger.Debug("Making HTTP request",
			zap.String("method", opts.Method),
			zap.String("url", req.URL.String()))

		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			if !retrying {
				return nil, backoff.Permanent(err)
			}
			c.logger.Warn("HTTP request failed, will retry",
				zap.Error(err),
				zap.String("method", opts.Method),
				zap.String("url", opts.URL))
			return nil, err
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			c.logger.Error("Failed to read response body", zap.Error(err))
			return nil, backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}

		resp := &Response{
			StatusCode: httpResp.StatusCode,
			Headers:    httpResp.Header,
			Body:       body,
		}

		if retrying && retryable(httpResp.StatusCode) {
			c.logger.Warn("Server error, will retry",
				zap.Int("status_code", httpResp.StatusCode),
				zap.String("method", opts.Method),
				zap.String("url", opts.URL))
			return nil, &serverError{resp: resp}
		}

		c.logger.Debug("HTTP request finished",
			zap.Int("status_code", httpResp.StatusCode),
			zap.String("method", opts.Method),
			zap.String("url", opts.URL))

		return resp, nil
	}

	retryOpts := []backoff.RetryOption{
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxElapsedTime(opts.MaxElapsed),
		backoff.WithMaxTries(uint(opts.MaxRetries) + 1),
	}

	resp, err := backoff.Retry(ctx, operation, retryOpts...)
	if err != nil {
		// Upstream 5xx replies carry an error body the caller still needs.
		var srvErr *serverError
		if errors.As(err, &srvErr) {
			return srvErr.resp, nil
		}
		c.logger.Error("HTTP request failed",
			zap.Error(err),
			zap.String("method", opts.Method),
			zap.String("url", opts.URL))
		return nil, err
	}

	return resp, nil
}

// retryable reports whether a reply status is worth another attempt. 429 is
// what the API sends once the per-account request quota is used up.
func retryable(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

func (c *Client) buildRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	var bodyReader io.Reader
	if opts.Body != nil {
		switch v := opts.Body.(type) {
		case []byte:
			bodyReader = bytes.NewReader(v)
		case json.RawMessage:
			bodyReader = bytes.NewReader(v)
		default:
			bodyJSON, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			bodyReader = bytes.NewReader(bodyJSON)
		}
	}

	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	if len(opts.Query) > 0 {
		q := u.Query()
		for k, vs := range opts.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	return c.Do(RequestOptions{
		Method:  http.MethodGet,
		URL:     endpoint,
		Query:   query,
		Context: ctx,
	})
}

func (c *Client) Post(ctx context.Context, endpoint string, query url.Values, body interface{}) (*Response, error) {
	return c.Do(RequestOptions{
		Method:  http.MethodPost,
		URL:     endpoint,
		Query:   query,
		Body:    body,
		Context: ctx,
	})
}

func (c *Client) Delete(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	return c.Do(RequestOptions{
		Method:  http.MethodDelete,
		URL:     endpoint,
		Query:   query,
		Context: ctx,
	})
}
