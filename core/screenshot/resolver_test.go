package screenshot

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"conversion-roast-api/core/domain"
	coreerrors "conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
)

func TestResolver_RejectsNonHTTPURL(t *testing.T) {
	called := false
	r := NewResolver(interfaces.Dependencies{
		HTTPClient: &mockHTTPClient{getFunc: func(ctx context.Context, u string) (interfaces.Response, error) {
			called = true
			return &mockResponse{statusCode: 200}, nil
		}},
	}, Config{APIKey: "key"})

	for _, input := range []string{"ftp://x.com", "x.com", "", "javascript:alert(1)"} {
		_, err := r.Resolve(context.Background(), input)
		if !coreerrors.IsValidation(err) {
			t.Errorf("Resolve(%q) error = %v, want ValidationError", input, err)
		}
	}
	if called {
		t.Error("capture API should not be called for invalid input")
	}
}

func TestResolver_AcceptsHTTPAndHTTPS(t *testing.T) {
	cache := newMockCache()
	r := NewResolver(interfaces.Dependencies{
		HTTPClient: &mockHTTPClient{getFunc: func(ctx context.Context, u string) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200, body: "PNGDATA"}, nil
		}},
		Cache: cache,
	}, Config{APIKey: "key", PublicURL: "https://roast.example.com/"})

	for _, input := range []string{"http://x.com", "https://x.com"} {
		shot, err := r.Resolve(context.Background(), input)
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", input, err)
		}
		if shot.OriginalURL != input {
			t.Errorf("OriginalURL = %q, want %q", shot.OriginalURL, input)
		}
		if want := "https://roast.example.com/screenshots/" + r.ImageID(input); shot.ScreenshotURL != want {
			t.Errorf("ScreenshotURL = %q, want %q", shot.ScreenshotURL, want)
		}
		if shot.Timestamp.IsZero() {
			t.Error("Timestamp should be set")
		}
		if string(cache.data[domain.ImageCacheKey(shot.ScreenshotURL)]) != "PNGDATA" {
			t.Error("captured bytes should be cached under the screenshot URL")
		}
	}
}

func TestResolver_CaptureURLParameters(t *testing.T) {
	r := NewResolver(interfaces.Dependencies{}, Config{APIKey: "secret"})

	u, err := url.Parse(r.CaptureURL("https://example.com/landing?a=1"))
	if err != nil {
		t.Fatalf("capture URL does not parse: %v", err)
	}

	if u.Host != "api.screenshotmachine.com" {
		t.Errorf("Host = %q", u.Host)
	}
	q := u.Query()
	want := map[string]string{
		"key":               "secret",
		"url":               "https://example.com/landing?a=1",
		"dimension":         "1024x768",
		"device":            "desktop",
		"format":            "png",
		"hidecookiebanners": "true",
		"hidepopups":        "true",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Errorf("query %s = %q, want %q", k, q.Get(k), v)
		}
	}
	if q.Has("full") {
		t.Error("full should only be set for full page captures")
	}

	full := NewResolver(interfaces.Dependencies{}, Config{APIKey: "secret", FullPage: true, Dimension: "1366xfull"})
	fu, _ := url.Parse(full.CaptureURL("https://example.com"))
	if fu.Query().Get("full") != "true" || fu.Query().Get("dimension") != "1366xfull" {
		t.Errorf("full page capture query = %v", fu.Query())
	}
}

func TestResolver_MissingAPIKey(t *testing.T) {
	r := NewResolver(interfaces.Dependencies{HTTPClient: &mockHTTPClient{}}, Config{})

	_, err := r.Resolve(context.Background(), "https://example.com")
	if !coreerrors.IsMissingCredential(err) {
		t.Errorf("error = %v, want MissingCredentialError", err)
	}
}

func TestResolver_UpstreamError(t *testing.T) {
	r := NewResolver(interfaces.Dependencies{
		HTTPClient: &mockHTTPClient{getFunc: func(ctx context.Context, u string) (interfaces.Response, error) {
			return &mockResponse{statusCode: 503, body: "capture queue full"}, nil
		}},
	}, Config{APIKey: "key"})

	_, err := r.Resolve(context.Background(), "https://example.com")

	var apiErr *coreerrors.ExternalAPIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want ExternalAPIError", err)
	}
	if apiErr.StatusCode != 503 || apiErr.Message != "capture queue full" || apiErr.API != "screenshotmachine" {
		t.Errorf("ExternalAPIError = %+v", apiErr)
	}
}

func TestResolver_ErrorHeader(t *testing.T) {
	r := NewResolver(interfaces.Dependencies{
		HTTPClient: &mockHTTPClient{getFunc: func(ctx context.Context, u string) (interfaces.Response, error) {
			return &mockResponse{
				statusCode: 200,
				body:       "placeholder",
				headers:    map[string]string{"X-Screenshotmachine-Response": "invalid_url"},
			}, nil
		}},
	}, Config{APIKey: "key"})

	_, err := r.Resolve(context.Background(), "https://example.com")
	if !coreerrors.IsExternalAPI(err) {
		t.Errorf("error = %v, want ExternalAPIError", err)
	}
}

func TestResolver_TransportErrorHidesKey(t *testing.T) {
	r := NewResolver(interfaces.Dependencies{
		HTTPClient: &mockHTTPClient{getFunc: func(ctx context.Context, u string) (interfaces.Response, error) {
			return nil, errors.New("dial tcp: connection refused")
		}},
	}, Config{APIKey: "very-secret"})

	_, err := r.Resolve(context.Background(), "https://example.com")

	var fetchErr *coreerrors.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want FetchError", err)
	}
	if fetchErr.URL != "https://example.com" {
		t.Errorf("FetchError.URL = %q, want page URL", fetchErr.URL)
	}
}

func TestResolver_ScreenshotURLHidesKey(t *testing.T) {
	cache := newMockCache()
	r := NewResolver(interfaces.Dependencies{
		HTTPClient: &mockHTTPClient{getFunc: func(ctx context.Context, u string) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200, body: "PNGDATA"}, nil
		}},
		Cache: cache,
	}, Config{APIKey: "very-secret"})

	shot, err := r.Resolve(context.Background(), "https://example.com/?ref=ads")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if strings.Contains(shot.ScreenshotURL, "very-secret") || strings.Contains(shot.ScreenshotURL, "key=") {
		t.Errorf("ScreenshotURL leaks the API key: %q", shot.ScreenshotURL)
	}
	if !strings.HasPrefix(shot.ScreenshotURL, DefaultPublicURL+ImagePath) {
		t.Errorf("ScreenshotURL = %q, want it under %s", shot.ScreenshotURL, DefaultPublicURL+ImagePath)
	}
	for key := range cache.data {
		if strings.Contains(key, "very-secret") {
			t.Errorf("cache key leaks the API key: %q", key)
		}
	}
}

func TestResolver_ImageServesCachedCapture(t *testing.T) {
	cache := newMockCache()
	r := NewResolver(interfaces.Dependencies{
		HTTPClient: &mockHTTPClient{getFunc: func(ctx context.Context, u string) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200, body: "PNGDATA"}, nil
		}},
		Cache: cache,
	}, Config{APIKey: "key"})

	shot, err := r.Resolve(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	id := strings.TrimPrefix(shot.ScreenshotURL, DefaultPublicURL+ImagePath)

	data, err := r.Image(context.Background(), id)
	if err != nil {
		t.Fatalf("Image returned error: %v", err)
	}
	if string(data) != "PNGDATA" {
		t.Errorf("Image = %q", data)
	}

	if _, err := r.Image(context.Background(), strings.Repeat("0", 32)); !coreerrors.IsNotFound(err) {
		t.Errorf("unknown id error = %v, want NotFoundError", err)
	}
	if _, err := r.Image(context.Background(), "../etc/passwd"); !coreerrors.IsValidation(err) {
		t.Errorf("malformed id error = %v, want ValidationError", err)
	}
}

func TestResolver_ImageIDDependsOnCaptureSettings(t *testing.T) {
	desktop := NewResolver(interfaces.Dependencies{}, Config{APIKey: "a"})
	rotated := NewResolver(interfaces.Dependencies{}, Config{APIKey: "b"})
	full := NewResolver(interfaces.Dependencies{}, Config{APIKey: "a", FullPage: true})

	if desktop.ImageID("https://x.com") != rotated.ImageID("https://x.com") {
		t.Error("id should not depend on the API key")
	}
	if desktop.ImageID("https://x.com") == full.ImageID("https://x.com") {
		t.Error("full page captures need their own id")
	}
	if desktop.ImageID("https://x.com") == desktop.ImageID("https://y.com") {
		t.Error("pages need their own id")
	}
}

func TestResolver_OversizedCaptureFails(t *testing.T) {
	cache := newMockCache()
	r := NewResolver(interfaces.Dependencies{
		HTTPClient: &mockHTTPClient{getFunc: func(ctx context.Context, u string) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200, body: strings.Repeat("x", domain.MaxImageSize+1)}, nil
		}},
		Cache: cache,
	}, Config{APIKey: "key"})

	_, err := r.Resolve(context.Background(), "https://example.com")

	if !coreerrors.IsFetch(err) || !errors.Is(err, coreerrors.ErrImageTooLarge) {
		t.Fatalf("error = %v, want FetchError wrapping ErrImageTooLarge", err)
	}
	if coreerrors.IsRetryable(err) {
		t.Error("oversized capture should not be retried")
	}
	if len(cache.data) != 0 {
		t.Error("truncated capture should not be cached")
	}
}

func TestResolver_EmptyCaptureFails(t *testing.T) {
	r := NewResolver(interfaces.Dependencies{
		HTTPClient: &mockHTTPClient{getFunc: func(ctx context.Context, u string) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200}, nil
		}},
	}, Config{APIKey: "key"})

	_, err := r.Resolve(context.Background(), "https://example.com")
	if !coreerrors.IsFetch(err) {
		t.Errorf("error = %v, want FetchError", err)
	}
}
