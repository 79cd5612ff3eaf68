package stepper

import (
	"github.com/rcorp/claims-service/internal/domain"
)

// StageProgress is one element of the compact stage-level projection.
type StageProgress struct {
	Stage domain.Stage
	State StepState
}

// Mini is the read-only compact projection used by list rows: one entry
// per lifecycle stage instead of one per status.
type Mini struct {
	Stages       []StageProgress
	CurrentStage domain.Stage
}

// ComputeMini collapses the full progress to stage granularity. A stage
// is current when it holds the current step, completed when every step
// in it (and the whole stage) lies before the current step, and pending
// otherwise.
func ComputeMini(kind domain.TicketKind, current domain.Status) (Mini, error) {
	progress, err := ComputeProgress(kind, current)
	if err != nil {
		return Mini{}, err
	}

	currentStage := progress.Steps[progress.CurrentIndex].Step.Stage
	mini := Mini{CurrentStage: currentStage}
	for i, stage := range domain.Stages() {
		state := StepPending
		switch {
		case i < progress.CurrentStageIndex:
			state = StepCompleted
		case stage == currentStage:
			state = StepCurrent
		}
		mini.Stages = append(mini.Stages, StageProgress{Stage: stage, State: state})
	}
	return mini, nil
}
