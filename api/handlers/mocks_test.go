package handlers

import (
	"context"
	"sync"

	"conversion-roast-api/core/domain"
)

type logEntry struct {
	level   string
	message string
	fields  map[string]interface{}
}

type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (m *mockLogger) add(level, msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{level: level, message: msg, fields: fields})
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.add("DEBUG", msg, fields) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.add("INFO", msg, fields) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.add("WARN", msg, fields) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.add("ERROR", msg, fields) }

type mockRoastService struct {
	createFunc     func(ctx context.Context, sub domain.Submission) (*domain.Roast, error)
	getFunc        func(ctx context.Context, id string) (*domain.Roast, error)
	listByUserFunc func(ctx context.Context, userID string, limit int) ([]*domain.Roast, error)
	generateFunc   func(ctx context.Context, id string) (*domain.RoastResult, error)
	runFunc        func(ctx context.Context, sub domain.Submission) (*domain.RoastResult, error)
}

func (m *mockRoastService) Create(ctx context.Context, sub domain.Submission) (*domain.Roast, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, sub)
	}
	return domain.NewRoast(sub)
}

func (m *mockRoastService) Get(ctx context.Context, id string) (*domain.Roast, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &domain.Roast{ID: id, Title: domain.DefaultTitle}, nil
}

func (m *mockRoastService) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Roast, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockRoastService) Generate(ctx context.Context, id string) (*domain.RoastResult, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, id)
	}
	return sampleResult(), nil
}

func (m *mockRoastService) Run(ctx context.Context, sub domain.Submission) (*domain.RoastResult, error) {
	if m.runFunc != nil {
		return m.runFunc(ctx, sub)
	}
	return sampleResult(), nil
}

type mockScreenshotResolver struct {
	resolveFunc func(ctx context.Context, pageURL string) (*domain.Screenshot, error)
	imageFunc   func(ctx context.Context, id string) ([]byte, error)
}

func (m *mockScreenshotResolver) Resolve(ctx context.Context, pageURL string) (*domain.Screenshot, error) {
	return m.resolveFunc(ctx, pageURL)
}

func (m *mockScreenshotResolver) Image(ctx context.Context, id string) ([]byte, error) {
	return m.imageFunc(ctx, id)
}

type mockHeatmapGenerator struct {
	generateFunc func(ctx context.Context, imageURL string) (*domain.Heatmap, error)
}

func (m *mockHeatmapGenerator) Generate(ctx context.Context, imageURL string) (*domain.Heatmap, error) {
	return m.generateFunc(ctx, imageURL)
}

type mockMetadataService struct {
	extractFunc func(ctx context.Context, url string) (*domain.PageMetadata, error)
}

func (m *mockMetadataService) ExtractMetadata(ctx context.Context, url string) (*domain.PageMetadata, error) {
	return m.extractFunc(ctx, url)
}

func sampleResult() *domain.RoastResult {
	return &domain.RoastResult{
		Comments: []domain.Comment{{
			ID:       1,
			Section:  "Hero",
			Category: domain.CategoryCTAs,
			Issue:    "CTA blends into the background",
			Solution: "Use a contrasting button color",
			Example:  "Orange 'Start free trial' button",
		}},
		Scores:        domain.NewScores(70, 75, 55, 80, 65),
		Source:        "gpt-4o",
		ScreenshotURL: "https://cdn.example.com/shot.png",
	}
}
