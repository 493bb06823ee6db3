// ABOUTME: Pipeline stages for one roast generation and their allowed transitions
// ABOUTME: Failed may re-enter Idle while the retry bound allows it

package domain

// Stage is a state of the roast pipeline
type Stage string

const (
	StageIdle               Stage = "idle"
	StageFetchingScreenshot Stage = "fetching_screenshot"
	StageGeneratingFeedback Stage = "generating_feedback"
	StageNormalizing        Stage = "normalizing"
	StageSynthesizing       Stage = "synthesizing"
	StageReady              Stage = "ready"
	StageFailed             Stage = "failed"
)

// validTransitions lists the stages reachable from each stage
var validTransitions = map[Stage][]Stage{
	StageIdle:               {StageFetchingScreenshot, StageGeneratingFeedback, StageFailed},
	StageFetchingScreenshot: {StageGeneratingFeedback, StageFailed},
	StageGeneratingFeedback: {StageNormalizing, StageFailed},
	StageNormalizing:        {StageSynthesizing, StageFailed},
	StageSynthesizing:       {StageReady, StageFailed},
	StageFailed:             {StageIdle},
	StageReady:              {},
}

// CanTransition reports whether the pipeline may move from one stage to another
func (s Stage) CanTransition(to Stage) bool {
	for _, next := range validTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
