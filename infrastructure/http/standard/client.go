// ABOUTME: Standard HTTP client implementation with optional retry and timeout support
// ABOUTME: Used for screenshot capture, image download, the heatmap API and page scraping

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"conversion-roast-api/core/interfaces"
)

const userAgent = "ConversionRoast/1.0"

// StandardHTTPClient implements the HTTPClient interface using standard library
type StandardHTTPClient struct {
	client  *http.Client
	retries int
}

// Option configures a StandardHTTPClient
type Option func(*StandardHTTPClient)

// WithRetries makes bodyless requests retry 5xx replies and transport errors
// up to n extra times. The roast pipeline owns retries, so the default is 0.
func WithRetries(n int) Option {
	return func(c *StandardHTTPClient) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithTransport replaces the default transport, e.g. with a logging round tripper
func WithTransport(rt http.RoundTripper) Option {
	return func(c *StandardHTTPClient) {
		if rt != nil {
			c.client.Transport = rt
		}
	}
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration, opts ...Option) *StandardHTTPClient {
	c := &StandardHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, nil)
}

// Post performs an HTTP POST request with a JSON body
func (c *StandardHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	return c.Do(ctx, http.MethodPost, url, header, body)
}

// Do performs a request with the given method and headers
func (c *StandardHTTPClient) Do(ctx context.Context, method, url string, header http.Header, body io.Reader) (interfaces.Response, error) {
	attempts := 1
	if body == nil {
		attempts += c.retries
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 100ms, 200ms, 400ms
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		for key, values := range header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err = c.client.Do(req)
		if err != nil {
			resp = nil
			lastErr = err
			continue
		}

		// Don't retry on success or 4xx errors
		if resp.StatusCode < 500 || attempt == attempts-1 {
			break
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		resp = nil
	}

	if resp == nil {
		return nil, lastErr
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
