package roast

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
	"conversion-roast-api/core/feedback"
	"conversion-roast-api/core/normalize"
	"conversion-roast-api/pkg/featureflags"
	"conversion-roast-api/pkg/metrics"
)

var errNoStorage = stderrors.New("roast storage not configured")

// job is the mutable state of one generation across attempts
type job struct {
	roastID string
	pageURL string
	context domain.PageContext

	// image is nil until a screenshot is known
	image *domain.ImageRef

	onScreenshot func(ctx context.Context, screenshotURL string)
}

// run drives the state machine with the retry policy and applies the fallback policy
func (s *Service) run(ctx context.Context, j *job) (*domain.RoastResult, error) {
	startedAt := time.Now()
	t := newTracker(s, j.roastID)

	ctx = feedback.WithResponseCache(ctx, s.flags.IsEnabled(ctx, featureflags.FeedbackCache))

	policy := s.cfg.Retry
	policy.OnRetry = func(attempt int, err error) {
		t.transition(domain.StageIdle, nil)
		s.logWarn("Retrying roast generation", map[string]interface{}{
			"roast_id": j.roastID,
			"attempt":  attempt,
			"error":    err.Error(),
		})
	}

	var result *domain.RoastResult
	err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
		var err error
		result, err = s.attempt(ctx, j, t)
		if err != nil {
			t.transition(domain.StageFailed, err)
		}
		return err
	})

	if err != nil {
		metrics.ObservePipeline("failed", startedAt)
		s.logError("Roast generation failed", map[string]interface{}{
			"roast_id": j.roastID,
			"stage":    string(t.failedAt),
			"error":    err.Error(),
		})
		return nil, err
	}

	outcome := "ready"
	if result.Fallback {
		outcome = "fallback"
	}
	metrics.ObservePipeline(outcome, startedAt)
	return result, nil
}

// attempt runs every stage once
func (s *Service) attempt(ctx context.Context, j *job, t *tracker) (*domain.RoastResult, error) {
	if j.image == nil {
		t.transition(domain.StageFetchingScreenshot, nil)
		if err := s.resolveScreenshot(ctx, j); err != nil {
			return nil, err
		}
	}

	t.transition(domain.StageGeneratingFeedback, nil)
	raw, err := s.generateFeedback(ctx, j)
	if err != nil {
		return nil, err
	}

	t.transition(domain.StageNormalizing, nil)
	comments, fallback, err := s.normalize(ctx, j, raw)
	if err != nil {
		return nil, err
	}

	t.transition(domain.StageSynthesizing, nil)
	result := &domain.RoastResult{
		Comments:      comments,
		Scores:        s.stages.Scores.Synthesize(comments),
		Source:        raw.Source,
		ScreenshotURL: j.image.URL,
		Fallback:      fallback,
	}
	if fallback {
		result.Source = FallbackSource
		metrics.FallbackTotal.Inc()
	}

	t.transition(domain.StageReady, nil)
	return result, nil
}

func (s *Service) resolveScreenshot(ctx context.Context, j *job) error {
	if j.pageURL == "" {
		return &errors.ValidationError{Field: "url", Message: "a screenshot or a page URL is required"}
	}

	stageCtx, cancel := s.stageContext(ctx)
	defer cancel()

	shot, err := s.stages.Screenshots.Resolve(stageCtx, j.pageURL)
	metrics.ObserveCall("screenshot", err)
	if err != nil {
		return s.stageError(ctx, err, "screenshot")
	}

	j.image = &domain.ImageRef{URL: shot.ScreenshotURL}
	if j.onScreenshot != nil {
		j.onScreenshot(ctx, shot.ScreenshotURL)
	}
	return nil
}

func (s *Service) generateFeedback(ctx context.Context, j *job) (*domain.RawModelOutput, error) {
	stageCtx, cancel := s.stageContext(ctx)
	defer cancel()

	raw, err := s.stages.Feedback.Generate(stageCtx, domain.RoastRequest{Image: *j.image, Context: j.context})
	metrics.ObserveCall("model", err)
	if err != nil {
		return nil, s.stageError(ctx, err, "model")
	}
	return raw, nil
}

// normalize parses the model reply. Unusable output becomes the fallback
// critique when the output_fallback flag is on.
func (s *Service) normalize(ctx context.Context, j *job, raw *domain.RawModelOutput) ([]domain.Comment, bool, error) {
	comments, err := normalize.Normalize(raw.Text)
	if err == nil {
		if s.cfg.ClampHighlights {
			comments = normalize.ClampHighlights(comments, raw.ImageWidth, raw.ImageHeight)
		}
		return comments, false, nil
	}

	if !errors.IsOutputError(err) || !s.flags.IsEnabled(ctx, featureflags.OutputFallback) {
		return nil, false, err
	}

	s.logWarn("Model output unusable, using fallback critique", map[string]interface{}{
		"roast_id": j.roastID,
		"source":   raw.Source,
		"error":    err.Error(),
	})
	return FallbackComments(), true, nil
}

func (s *Service) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.StageTimeout)
}

// stageError turns an expired stage deadline into a retryable upstream error.
// Cancellation of the caller's context is returned as is.
func (s *Service) stageError(ctx context.Context, err error, api string) error {
	if ctx.Err() == nil && stderrors.Is(err, context.DeadlineExceeded) && !errors.IsRetryable(err) {
		return &errors.ExternalAPIError{API: api, StatusCode: http.StatusGatewayTimeout, Message: "stage deadline exceeded"}
	}
	return err
}
