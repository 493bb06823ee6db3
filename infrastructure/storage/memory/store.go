// ABOUTME: In-memory roast storage for tests and ephemeral runs
// ABOUTME: Records are copied in and out so callers never share state with the store

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
)

// Store implements RoastStorage with a map
type Store struct {
	mu     sync.RWMutex
	roasts map[string]*domain.Roast
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{roasts: make(map[string]*domain.Roast)}
}

// Create persists a new roast
func (s *Store) Create(ctx context.Context, roast *domain.Roast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.roasts[roast.ID]; exists {
		return &errors.ConflictError{Resource: "roast", ID: roast.ID, Reason: "already exists"}
	}
	s.roasts[roast.ID] = clone(roast)
	return nil
}

// Get retrieves a roast by ID
func (s *Store) Get(ctx context.Context, id string) (*domain.Roast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roast, ok := s.roasts[id]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "roast", ID: id}
	}
	return clone(roast), nil
}

// UpdateScreenshotURL sets the screenshot of a roast that has none
func (s *Store) UpdateScreenshotURL(ctx context.Context, id, screenshotURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roast, ok := s.roasts[id]
	if !ok {
		return &errors.NotFoundError{Resource: "roast", ID: id}
	}
	if roast.ScreenshotURL != "" {
		return &errors.ConflictError{Resource: "roast", ID: id, Reason: "screenshot already set"}
	}
	roast.ScreenshotURL = screenshotURL
	roast.UpdatedAt = time.Now().UTC()
	return nil
}

// ListByUser returns a user's roasts, newest first
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Roast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Roast, 0)
	for _, roast := range s.roasts {
		if roast.UserID != nil && *roast.UserID == userID {
			out = append(out, clone(roast))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

func clone(r *domain.Roast) *domain.Roast {
	c := *r
	if r.UserID != nil {
		u := *r.UserID
		c.UserID = &u
	}
	if r.URL != nil {
		u := *r.URL
		c.URL = &u
	}
	return &c
}
