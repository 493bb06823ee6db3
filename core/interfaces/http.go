package interfaces

import (
	"context"
	"io"
	"net/http"
)

// HTTPClient defines the interface for making outbound HTTP requests.
// Screenshot capture, image download, the heatmap API and page scraping
// all go through it so tests can swap in a mock.
type HTTPClient interface {
	// Get performs an HTTP GET request to the specified URL.
	Get(ctx context.Context, url string) (Response, error)

	// Post performs an HTTP POST request to the specified URL with the given body.
	Post(ctx context.Context, url string, body io.Reader) (Response, error)

	// Do performs a request with explicit method and headers.
	// Used by APIs that need an Authorization header.
	Do(ctx context.Context, method, url string, header http.Header, body io.Reader) (Response, error)
}

// Response defines the interface for HTTP responses.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header.
	// Returns an empty string if the header is not present.
	Header(key string) string
}
