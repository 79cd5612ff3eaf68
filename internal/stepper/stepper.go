// Package stepper derives a ticket's visual progression against its
// kind's status catalog. All functions are pure: the same inputs always
// produce the same output and nothing here touches persistence.
package stepper

import (
	"github.com/rcorp/claims-service/internal/catalog"
	"github.com/rcorp/claims-service/internal/domain"
)

// StepState marks a catalog step relative to the current status.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepPending   StepState = "pending"
)

// StepProgress pairs a catalog step with its computed state.
type StepProgress struct {
	Step  catalog.StatusStep
	State StepState
}

// Progress is the full stepper projection for one ticket.
type Progress struct {
	Steps             []StepProgress
	CurrentIndex      int
	CurrentStageIndex int
}

// ComputeProgress locates the current status in the kind's ordered
// catalog: earlier steps are completed, the match is current, later
// steps are pending. A status missing from the catalog is a
// data-integrity error and yields catalog.UnknownStatusError.
func ComputeProgress(kind domain.TicketKind, current domain.Status) (Progress, error) {
	idx, err := catalog.Index(kind, current)
	if err != nil {
		return Progress{}, err
	}

	steps := catalog.Steps(kind)
	progress := Progress{
		Steps:        make([]StepProgress, len(steps)),
		CurrentIndex: idx,
	}
	for i, step := range steps {
		state := StepPending
		switch {
		case i < idx:
			state = StepCompleted
		case i == idx:
			state = StepCurrent
		}
		progress.Steps[i] = StepProgress{Step: step, State: state}
	}
	progress.CurrentStageIndex = stageIndex(steps[idx].Stage)
	return progress, nil
}

func stageIndex(stage domain.Stage) int {
	for i, s := range domain.Stages() {
		if s == stage {
			return i
		}
	}
	return 0
}
