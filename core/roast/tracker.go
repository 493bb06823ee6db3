package roast

import (
	"conversion-roast-api/core/domain"
	"conversion-roast-api/pkg/metrics"
)

// tracker follows one generation through the pipeline stages
type tracker struct {
	svc      *Service
	roastID  string
	stage    domain.Stage
	failedAt domain.Stage
}

func newTracker(svc *Service, roastID string) *tracker {
	return &tracker{svc: svc, roastID: roastID, stage: domain.StageIdle}
}

// transition moves to the next stage, logging and counting it.
// Invalid transitions are logged and ignored.
func (t *tracker) transition(to domain.Stage, cause error) {
	from := t.stage
	if !from.CanTransition(to) {
		t.svc.logWarn("Invalid stage transition", map[string]interface{}{
			"roast_id": t.roastID,
			"from":     string(from),
			"to":       string(to),
		})
		return
	}
	if to == domain.StageFailed {
		t.failedAt = from
	}
	t.stage = to

	metrics.ObserveStage(string(from), string(to))

	fields := map[string]interface{}{
		"roast_id": t.roastID,
		"from":     string(from),
		"to":       string(to),
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	t.svc.logDebug("Stage transition", fields)
}
