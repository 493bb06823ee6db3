package heatmap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
)

// fakeReplicate answers prediction create and poll calls
type fakeReplicate struct {
	mu        sync.Mutex
	statuses  []string
	output    string
	errMsg    string
	polls     int
	created   map[string]interface{}
	authSeen  string
	createErr int
}

func (f *fakeReplicate) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return f.Do(ctx, http.MethodGet, url, nil, nil)
}

func (f *fakeReplicate) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	return f.Do(ctx, http.MethodPost, url, nil, body)
}

func (f *fakeReplicate) Do(ctx context.Context, method, url string, header http.Header, body io.Reader) (interfaces.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authSeen = header.Get("Authorization")

	if method == http.MethodPost {
		if f.createErr != 0 {
			return &mockResponse{statusCode: f.createErr, body: `{"detail":"Invalid version"}`}, nil
		}
		_ = json.NewDecoder(body).Decode(&f.created)
		return &mockResponse{statusCode: 201, body: `{"id":"pred-1","status":"starting"}`}, nil
	}

	if !strings.HasSuffix(url, "/predictions/pred-1") {
		return &mockResponse{statusCode: 404, body: "{}"}, nil
	}

	status := "processing"
	if f.polls < len(f.statuses) {
		status = f.statuses[f.polls]
	}
	f.polls++

	reply := map[string]interface{}{"id": "pred-1", "status": status}
	if status == "succeeded" {
		reply["output"] = json.RawMessage(f.output)
	}
	if f.errMsg != "" {
		reply["error"] = f.errMsg
	}
	data, _ := json.Marshal(reply)
	return &mockResponse{statusCode: 200, body: string(data)}, nil
}

type mockResponse struct {
	statusCode int
	body       string
}

func (m *mockResponse) StatusCode() int { return m.statusCode }

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(bytes.NewReader([]byte(m.body)))
}

func (m *mockResponse) Header(key string) string { return "" }

func newTestGenerator(client interfaces.HTTPClient, token string) *Generator {
	return NewGenerator(interfaces.Dependencies{HTTPClient: client}, Config{
		APIToken:     token,
		PollInterval: time.Millisecond,
		MaxPolls:     5,
	})
}

func TestGenerate_Succeeds(t *testing.T) {
	fake := &fakeReplicate{
		statuses: []string{"starting", "processing", "succeeded"},
		output:   `"https://replicate.delivery/heatmap.png"`,
	}
	g := newTestGenerator(fake, "r8_token")

	heatmap, err := g.Generate(context.Background(), "https://cdn.example.com/shot.png")
	require.NoError(t, err)

	assert.Equal(t, "https://replicate.delivery/heatmap.png", heatmap.HeatmapURL)
	assert.Equal(t, "https://cdn.example.com/shot.png", heatmap.OriginalURL)
	assert.False(t, heatmap.Timestamp.IsZero())
	assert.Equal(t, 3, fake.polls)
	assert.Equal(t, "Token r8_token", fake.authSeen)

	assert.Equal(t, DefaultModelVersion, fake.created["version"])
	input := fake.created["input"].(map[string]interface{})
	assert.Equal(t, "https://cdn.example.com/shot.png", input["image"])
	assert.Equal(t, "segment", input["output_type"])
	assert.Equal(t, "float", input["heatmap_format"])
	assert.Equal(t, 0.3, input["box_threshold"])
	assert.Equal(t, true, input["high_quality"])
}

func TestGenerate_ArrayOutput(t *testing.T) {
	fake := &fakeReplicate{
		statuses: []string{"succeeded"},
		output:   `["https://replicate.delivery/mask.png","https://replicate.delivery/other.png"]`,
	}

	heatmap, err := newTestGenerator(fake, "tok").Generate(context.Background(), "https://cdn.example.com/shot.png")
	require.NoError(t, err)
	assert.Equal(t, "https://replicate.delivery/mask.png", heatmap.HeatmapURL)
}

func TestGenerate_PredictionFailed(t *testing.T) {
	fake := &fakeReplicate{statuses: []string{"processing", "failed"}, errMsg: "CUDA out of memory"}

	_, err := newTestGenerator(fake, "tok").Generate(context.Background(), "https://cdn.example.com/shot.png")

	require.True(t, coreerrors.IsExternalAPI(err), "got %v", err)
	assert.Contains(t, err.Error(), "CUDA out of memory")
}

func TestGenerate_PollExhausted(t *testing.T) {
	fake := &fakeReplicate{}

	_, err := newTestGenerator(fake, "tok").Generate(context.Background(), "https://cdn.example.com/shot.png")

	assert.True(t, coreerrors.IsTimeout(err), "got %v", err)
	assert.Equal(t, 5, fake.polls)
}

func TestGenerate_CreateRejected(t *testing.T) {
	fake := &fakeReplicate{createErr: 422}

	_, err := newTestGenerator(fake, "tok").Generate(context.Background(), "https://cdn.example.com/shot.png")

	var apiErr *coreerrors.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.StatusCode)
	assert.Equal(t, 0, fake.polls)
}

func TestGenerate_Validation(t *testing.T) {
	g := newTestGenerator(&fakeReplicate{}, "tok")

	_, err := g.Generate(context.Background(), "")
	assert.True(t, coreerrors.IsValidation(err))

	_, err = g.Generate(context.Background(), "ftp://x.com/a.png")
	assert.True(t, coreerrors.IsValidation(err))
}

func TestGenerate_MissingToken(t *testing.T) {
	fake := &fakeReplicate{}
	_, err := newTestGenerator(fake, "").Generate(context.Background(), "https://cdn.example.com/shot.png")

	assert.True(t, coreerrors.IsMissingCredential(err))
	assert.Nil(t, fake.created)
}

func TestGenerate_ContextCancelled(t *testing.T) {
	fake := &fakeReplicate{}
	g := NewGenerator(interfaces.Dependencies{HTTPClient: fake}, Config{APIToken: "tok", PollInterval: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := g.Generate(ctx, "https://cdn.example.com/shot.png")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewGenerator_Defaults(t *testing.T) {
	g := NewGenerator(interfaces.Dependencies{}, Config{BaseURL: "https://api.replicate.com/v1/"})

	assert.Equal(t, "https://api.replicate.com/v1", g.cfg.BaseURL)
	assert.Equal(t, DefaultPollInterval, g.cfg.PollInterval)
	assert.Equal(t, DefaultMaxPolls, g.cfg.MaxPolls)
}
