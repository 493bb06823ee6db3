package roast

import (
	"context"
	"sort"
	"sync"
	"time"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
)

// mockResolver is a mock implementation of the ScreenshotResolver interface
type mockResolver struct {
	mu          sync.Mutex
	resolveFunc func(ctx context.Context, pageURL string) (*domain.Screenshot, error)
	calls       int
}

func (m *mockResolver) Resolve(ctx context.Context, pageURL string) (*domain.Screenshot, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, pageURL)
	}
	return &domain.Screenshot{
		ScreenshotURL: "https://shots.example.com/" + pageURL,
		OriginalURL:   pageURL,
		Timestamp:     time.Now(),
	}, nil
}

func (m *mockResolver) Image(ctx context.Context, id string) ([]byte, error) {
	return nil, &errors.NotFoundError{Resource: "screenshot", ID: id}
}

// mockGenerator is a mock implementation of the FeedbackGenerator interface
type mockGenerator struct {
	mu           sync.Mutex
	generateFunc func(ctx context.Context, req domain.RoastRequest) (*domain.RawModelOutput, error)
	calls        int
	images       []domain.ImageRef
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.RoastRequest) (*domain.RawModelOutput, error) {
	m.mu.Lock()
	m.calls++
	m.images = append(m.images, req.Image)
	m.mu.Unlock()
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return &domain.RawModelOutput{Text: `[{"section":"Hero","category":"Clarity","issue":"vague headline","suggestion":"state the benefit"}]`, Source: "gpt-4o"}, nil
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockMetadata is a mock implementation of the MetadataService interface
type mockMetadata struct {
	title string
	err   error
	calls int
}

func (m *mockMetadata) ExtractMetadata(ctx context.Context, url string) (*domain.PageMetadata, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &domain.PageMetadata{Title: m.title}, nil
}

// mockStorage keeps roasts in a map
type mockStorage struct {
	mu     sync.Mutex
	roasts map[string]*domain.Roast
}

func newMockStorage() *mockStorage {
	return &mockStorage{roasts: map[string]*domain.Roast{}}
}

func (m *mockStorage) Create(ctx context.Context, roast *domain.Roast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *roast
	m.roasts[roast.ID] = &copied
	return nil
}

func (m *mockStorage) Get(ctx context.Context, id string) (*domain.Roast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	roast, ok := m.roasts[id]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "roast", ID: id}
	}
	copied := *roast
	return &copied, nil
}

func (m *mockStorage) UpdateScreenshotURL(ctx context.Context, id, screenshotURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	roast, ok := m.roasts[id]
	if !ok {
		return &errors.NotFoundError{Resource: "roast", ID: id}
	}
	if roast.ScreenshotURL != "" {
		return &errors.ConflictError{Resource: "roast", ID: id, Reason: "screenshot already set"}
	}
	roast.ScreenshotURL = screenshotURL
	return nil
}

func (m *mockStorage) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Roast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Roast
	for _, r := range m.roasts {
		if r.UserID != nil && *r.UserID == userID {
			copied := *r
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStorage) Close() error { return nil }

// mockLogger collects messages
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) record(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.record(msg) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.record(msg) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.record(msg) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.record(msg) }

func (m *mockLogger) count(msg string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, got := range m.messages {
		if got == msg {
			n++
		}
	}
	return n
}
