package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcorp/claims-service/internal/domain"
)

func TestStepsStartAtOpening(t *testing.T) {
	for _, kind := range []domain.TicketKind{domain.KindClaim, domain.KindAssistance} {
		steps := Steps(kind)
		require.NotEmpty(t, steps, "catalog for %s", kind)
		assert.Equal(t, domain.StageOpening, steps[0].Stage, "first step of %s", kind)
		assert.Equal(t, domain.Status("aberto"), steps[0].Code)
	}
}

func TestCatalogSizes(t *testing.T) {
	assert.Len(t, Steps(domain.KindClaim), 16)
	assert.Len(t, Steps(domain.KindAssistance), 13)
}

func TestClosedStepsSitAtTail(t *testing.T) {
	for _, kind := range []domain.TicketKind{domain.KindClaim, domain.KindAssistance} {
		seenClosed := false
		for _, step := range Steps(kind) {
			if step.Stage == domain.StageClosed {
				seenClosed = true
				continue
			}
			assert.False(t, seenClosed, "%s: non-closed step %s after a closed one", kind, step.Code)
		}
		assert.True(t, seenClosed, "%s catalog has no closed steps", kind)
	}
}

func TestTerminalVariantCounts(t *testing.T) {
	countClosed := func(kind domain.TicketKind) int {
		n := 0
		for _, step := range Steps(kind) {
			if step.Stage == domain.StageClosed {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 4, countClosed(domain.KindClaim))
	assert.Equal(t, 2, countClosed(domain.KindAssistance))
}

func TestNoDuplicateCodesPerKind(t *testing.T) {
	for _, kind := range []domain.TicketKind{domain.KindClaim, domain.KindAssistance} {
		seen := map[domain.Status]bool{}
		for _, step := range Steps(kind) {
			assert.False(t, seen[step.Code], "%s: duplicate code %s", kind, step.Code)
			seen[step.Code] = true
		}
	}
}

func TestEveryStepHasLabel(t *testing.T) {
	for _, kind := range []domain.TicketKind{domain.KindClaim, domain.KindAssistance} {
		for _, step := range Steps(kind) {
			label, err := Label(kind, step.Code)
			require.NoError(t, err)
			assert.NotEmpty(t, label)
		}
	}
}

func TestLabelUnknownStatus(t *testing.T) {
	_, err := Label(domain.KindClaim, "status_that_does_not_exist")
	require.Error(t, err)
	var unknown *UnknownStatusError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, domain.KindClaim, unknown.Kind)
	assert.Equal(t, domain.Status("status_that_does_not_exist"), unknown.Status)
}

func TestKindsDoNotShareAllCodes(t *testing.T) {
	// guincho_acionado is assistance-only; analise_seguradora is claim-only
	assert.True(t, Contains(domain.KindAssistance, AssistTowDispatched))
	assert.False(t, Contains(domain.KindClaim, AssistTowDispatched))
	assert.True(t, Contains(domain.KindClaim, ClaimInsurerAnalysis))
	assert.False(t, Contains(domain.KindAssistance, ClaimInsurerAnalysis))
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, ClaimOpened, InitialStatus(domain.KindClaim))
	assert.Equal(t, AssistOpened, InitialStatus(domain.KindAssistance))
	assert.Equal(t, domain.Status(""), InitialStatus(domain.TicketKind("bogus")))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(domain.KindClaim, ClaimCancelled))
	assert.True(t, IsTerminal(domain.KindClaim, ClaimDenied))
	assert.False(t, IsTerminal(domain.KindClaim, ClaimAtWorkshop))
	assert.True(t, IsTerminal(domain.KindAssistance, AssistFinished))
	assert.False(t, IsTerminal(domain.KindAssistance, AssistInProgress))
	assert.False(t, IsTerminal(domain.KindClaim, "missing"))
}

func TestStageOf(t *testing.T) {
	stage, err := StageOf(domain.KindClaim, ClaimAwaitingInspection)
	require.NoError(t, err)
	assert.Equal(t, domain.StageAnalysis, stage)

	stage, err = StageOf(domain.KindAssistance, AssistVehicleDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StageFinalization, stage)
}
