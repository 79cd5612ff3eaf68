package stepper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcorp/claims-service/internal/catalog"
	"github.com/rcorp/claims-service/internal/domain"
)

func TestComputeProgressClaimAtWorkshop(t *testing.T) {
	progress, err := ComputeProgress(domain.KindClaim, catalog.ClaimAtWorkshop)
	require.NoError(t, err)
	require.Len(t, progress.Steps, 16)

	completed := []domain.Status{
		catalog.ClaimOpened,
		catalog.ClaimInsurerAnalysis,
		catalog.ClaimAwaitingInspection,
		catalog.ClaimAwaitingDocument,
	}
	for i, want := range completed {
		assert.Equal(t, want, progress.Steps[i].Step.Code)
		assert.Equal(t, StepCompleted, progress.Steps[i].State)
	}

	assert.Equal(t, catalog.ClaimAtWorkshop, progress.Steps[4].Step.Code)
	assert.Equal(t, StepCurrent, progress.Steps[4].State)
	assert.Equal(t, 4, progress.CurrentIndex)

	pending := progress.Steps[5:]
	assert.Len(t, pending, 11)
	for _, sp := range pending {
		assert.Equal(t, StepPending, sp.State, "step %s", sp.Step.Code)
	}
}

func TestComputeProgressAssistanceFinished(t *testing.T) {
	progress, err := ComputeProgress(domain.KindAssistance, catalog.AssistFinished)
	require.NoError(t, err)
	require.Len(t, progress.Steps, 13)

	last := progress.Steps[len(progress.Steps)-1]
	assert.Equal(t, catalog.AssistFinished, last.Step.Code)
	assert.Equal(t, StepCurrent, last.State)
	assert.Equal(t, domain.StageClosed, last.Step.Stage)

	for _, sp := range progress.Steps[:len(progress.Steps)-1] {
		assert.Equal(t, StepCompleted, sp.State, "step %s", sp.Step.Code)
	}
	assert.Equal(t, len(domain.Stages())-1, progress.CurrentStageIndex)
}

func TestComputeProgressUnknownStatus(t *testing.T) {
	_, err := ComputeProgress(domain.KindClaim, "status_that_does_not_exist")
	var unknown *catalog.UnknownStatusError
	require.ErrorAs(t, err, &unknown)
}

func TestComputeProgressExactlyOneCurrent(t *testing.T) {
	for _, kind := range []domain.TicketKind{domain.KindClaim, domain.KindAssistance} {
		for _, step := range catalog.Steps(kind) {
			progress, err := ComputeProgress(kind, step.Code)
			require.NoError(t, err)

			currents := 0
			for i, sp := range progress.Steps {
				switch sp.State {
				case StepCurrent:
					currents++
					assert.Equal(t, progress.CurrentIndex, i)
				case StepCompleted:
					assert.Less(t, i, progress.CurrentIndex)
				case StepPending:
					assert.Greater(t, i, progress.CurrentIndex)
				}
			}
			assert.Equal(t, 1, currents, "%s/%s", kind, step.Code)
		}
	}
}

func TestComputeProgressIsPure(t *testing.T) {
	first, err := ComputeProgress(domain.KindClaim, catalog.ClaimUnderRepair)
	require.NoError(t, err)
	second, err := ComputeProgress(domain.KindClaim, catalog.ClaimUnderRepair)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeMiniOpening(t *testing.T) {
	mini, err := ComputeMini(domain.KindClaim, catalog.ClaimOpened)
	require.NoError(t, err)
	require.Len(t, mini.Stages, 5)

	assert.Equal(t, domain.StageOpening, mini.CurrentStage)
	assert.Equal(t, StepCurrent, mini.Stages[0].State)
	for _, sp := range mini.Stages[1:] {
		assert.Equal(t, StepPending, sp.State, "stage %s", sp.Stage)
	}
}

func TestComputeMiniClosed(t *testing.T) {
	mini, err := ComputeMini(domain.KindClaim, catalog.ClaimIndemnityPaid)
	require.NoError(t, err)

	assert.Equal(t, domain.StageClosed, mini.CurrentStage)
	for _, sp := range mini.Stages[:len(mini.Stages)-1] {
		assert.Equal(t, StepCompleted, sp.State, "stage %s", sp.Stage)
	}
	assert.Equal(t, StepCurrent, mini.Stages[len(mini.Stages)-1].State)
}

func TestComputeMiniUnknownStatus(t *testing.T) {
	_, err := ComputeMini(domain.KindAssistance, "nope")
	var unknown *catalog.UnknownStatusError
	require.ErrorAs(t, err, &unknown)
}
