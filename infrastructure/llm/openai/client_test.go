package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return client
}

var testRequest = interfaces.VisionRequest{
	SystemPrompt: "You are a CRO expert",
	UserPrompt:   "Roast this landing page",
	Image:        []byte("png"),
	MIMEType:     "image/png",
	MaxTokens:    4000,
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.True(t, errors.IsMissingCredential(err))
}

func TestClient_Complete(t *testing.T) {
	var body map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"feedback\":[]}"}
			}]
		}`)
	})

	text, err := client.Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, `{"feedback":[]}`, text)
	assert.Equal(t, DefaultModel, client.Name())

	assert.Equal(t, "gpt-4o", body["model"])
	assert.EqualValues(t, 4000, body["max_tokens"])
	assert.Equal(t, map[string]interface{}{"type": "json_object"}, body["response_format"])

	messages := body["messages"].([]interface{})
	require.Len(t, messages, 2)
	user := messages[1].(map[string]interface{})
	parts := user["content"].([]interface{})
	require.Len(t, parts, 2)
	image := parts[1].(map[string]interface{})["image_url"].(map[string]interface{})
	assert.Equal(t, "data:image/png;base64,cG5n", image["url"])
}

func TestClient_CompleteNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o","choices":[]}`)
	})

	_, err := client.Complete(context.Background(), testRequest)
	assert.ErrorIs(t, err, errors.ErrEmptyResponse)
}

func TestClient_CompleteUpstreamError(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	})

	_, err := client.Complete(context.Background(), testRequest)

	var apiErr *errors.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "openai", apiErr.API)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "SDK retries must be disabled")
}

func TestClient_ContextErrorPassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, testRequest)
	assert.ErrorIs(t, err, context.Canceled)
}
