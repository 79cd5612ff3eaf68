package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSLAInfoAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("no deadline", func(t *testing.T) {
		info := SLAInfoAt(&Ticket{}, false, now)
		assert.Nil(t, info.DueAt)
		assert.False(t, info.Overdue)
	})

	t.Run("not yet due", func(t *testing.T) {
		info := SLAInfoAt(&Ticket{SLADueAt: &future}, false, now)
		assert.False(t, info.Overdue)
	})

	t.Run("overdue", func(t *testing.T) {
		info := SLAInfoAt(&Ticket{SLADueAt: &past}, false, now)
		assert.True(t, info.Overdue)
	})

	t.Run("closed tickets never overdue", func(t *testing.T) {
		info := SLAInfoAt(&Ticket{SLADueAt: &past}, true, now)
		assert.False(t, info.Overdue)
	})
}

func TestTicketKindIsValid(t *testing.T) {
	assert.True(t, KindClaim.IsValid())
	assert.True(t, KindAssistance.IsValid())
	assert.False(t, TicketKind("ticket").IsValid())
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleBroker.IsValid())
	assert.True(t, RoleFleetManager.IsValid())
	assert.False(t, Role("GUEST").IsValid())
}

func TestStagesOrder(t *testing.T) {
	stages := Stages()
	assert.Equal(t, []Stage{StageOpening, StageAnalysis, StageExecution, StageFinalization, StageClosed}, stages)
}
