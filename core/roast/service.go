// ABOUTME: Roast service stores submissions and runs the critique pipeline for them
// ABOUTME: Guards against concurrent generation of the same roast and persists resolved screenshots

package roast

import (
	"context"
	"strings"
	"sync"

	"conversion-roast-api/core/config"
	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
	"conversion-roast-api/pkg/featureflags"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// Stages groups the pipeline components
type Stages struct {
	Screenshots interfaces.ScreenshotResolver
	Feedback    interfaces.FeedbackGenerator
	Scores      interfaces.ScoreSynthesizer

	// Metadata is optional, used to title new roasts
	Metadata interfaces.MetadataService
}

// Service handles roast records and generation
type Service struct {
	deps   interfaces.Dependencies
	stages Stages
	flags  featureflags.Manager
	cfg    config.RoastConfig

	// busy holds the ids of roasts with a generation in flight
	busy sync.Map
}

// NewService creates a new roast service instance
func NewService(deps interfaces.Dependencies, stages Stages, flags featureflags.Manager, cfg config.RoastConfig) *Service {
	if flags == nil {
		flags = featureflags.NewDefaultManager()
	}
	return &Service{
		deps:   deps,
		stages: stages,
		flags:  flags,
		cfg:    cfg,
	}
}

// Create validates a submission and persists it as a new roast
func (s *Service) Create(ctx context.Context, sub domain.Submission) (*domain.Roast, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}
	if s.deps.Storage == nil {
		return nil, errors.WrapError(errNoStorage, "create roast")
	}

	if strings.TrimSpace(sub.Title) == "" {
		sub.Title = s.deriveTitle(ctx, sub.URL)
	}

	roast, err := domain.NewRoast(sub)
	if err != nil {
		return nil, &errors.ValidationError{Field: "submission", Message: err.Error()}
	}

	if err := s.deps.Storage.Create(ctx, roast); err != nil {
		return nil, errors.WrapError(err, "failed to store roast")
	}

	s.logInfo("Roast created", map[string]interface{}{
		"roast_id": roast.ID,
		"has_url":  roast.URL != nil,
	})

	return roast, nil
}

// Get returns a stored roast
func (s *Service) Get(ctx context.Context, id string) (*domain.Roast, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &errors.ValidationError{Field: "id", Message: "roast id is required"}
	}
	if s.deps.Storage == nil {
		return nil, errors.WrapError(errNoStorage, "get roast")
	}
	return s.deps.Storage.Get(ctx, id)
}

// ListByUser returns a user's roasts, newest first
func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Roast, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &errors.ValidationError{Field: "userId", Message: "user id is required"}
	}
	if s.deps.Storage == nil {
		return nil, errors.WrapError(errNoStorage, "list roasts")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.deps.Storage.ListByUser(ctx, userID, limit)
}

// Generate runs the pipeline for a stored roast. A second call for the same
// roast while one is running fails with ConflictError.
func (s *Service) Generate(ctx context.Context, id string) (*domain.RoastResult, error) {
	if _, loaded := s.busy.LoadOrStore(id, struct{}{}); loaded {
		return nil, &errors.ConflictError{Resource: "roast", ID: id, Reason: "generation already in progress"}
	}
	defer s.busy.Delete(id)

	roast, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	j := &job{
		roastID: roast.ID,
		pageURL: roast.PageURL(),
		context: roast.Context(),
	}
	if !roast.NeedsScreenshot() {
		ref, err := domain.ParseImageRef(roast.ScreenshotURL)
		if err != nil {
			return nil, &errors.ValidationError{Field: "screenshot_url", Message: err.Error()}
		}
		j.image = &ref
	}
	j.onScreenshot = func(ctx context.Context, screenshotURL string) {
		s.storeScreenshot(ctx, roast.ID, screenshotURL)
	}

	return s.run(ctx, j)
}

// Run executes the pipeline for a submission without storing it
func (s *Service) Run(ctx context.Context, sub domain.Submission) (*domain.RoastResult, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	j := &job{
		pageURL: sub.URL,
		context: sub.Context,
	}
	if sub.HasImage() {
		ref := sub.Image()
		j.image = &ref
	}

	return s.run(ctx, j)
}

// IsBusy reports whether a generation for the roast is in flight
func (s *Service) IsBusy(id string) bool {
	_, ok := s.busy.Load(id)
	return ok
}

// storeScreenshot persists a resolved screenshot URL. The record keeps its
// first screenshot, so a conflict is only logged.
func (s *Service) storeScreenshot(ctx context.Context, id, screenshotURL string) {
	if s.deps.Storage == nil {
		return
	}
	if err := s.deps.Storage.UpdateScreenshotURL(ctx, id, screenshotURL); err != nil {
		s.logWarn("Failed to store screenshot URL", map[string]interface{}{
			"roast_id": id,
			"error":    err.Error(),
		})
	}
}

// deriveTitle returns the page title when it can be looked up quickly
func (s *Service) deriveTitle(ctx context.Context, pageURL string) string {
	if pageURL == "" || s.stages.Metadata == nil || !s.flags.IsEnabled(ctx, featureflags.PageMetadata) {
		return domain.DefaultTitle
	}

	metaCtx := ctx
	if s.cfg.MetadataTimeout > 0 {
		var cancel context.CancelFunc
		metaCtx, cancel = context.WithTimeout(ctx, s.cfg.MetadataTimeout)
		defer cancel()
	}

	meta, err := s.stages.Metadata.ExtractMetadata(metaCtx, pageURL)
	if err != nil || meta == nil || strings.TrimSpace(meta.Title) == "" {
		if err != nil {
			s.logDebug("Page title lookup failed", map[string]interface{}{
				"url":   pageURL,
				"error": err.Error(),
			})
		}
		return domain.DefaultTitle
	}
	return strings.TrimSpace(meta.Title)
}

func validateSubmission(sub domain.Submission) error {
	if err := sub.Validate(); err != nil {
		field := "image_url"
		if sub.URL != "" && !domain.IsHTTPURL(sub.URL) {
			field = "url"
		}
		return &errors.ValidationError{Field: field, Message: err.Error()}
	}
	return nil
}

func (s *Service) logInfo(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Info(msg, fields)
	}
}

func (s *Service) logWarn(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Warn(msg, fields)
	}
}

func (s *Service) logDebug(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Debug(msg, fields)
	}
}

func (s *Service) logError(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Error(msg, fields)
	}
}
