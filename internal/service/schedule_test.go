package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohq/tempo/internal/domain"
)

func TestFindConflictSameDayAndTime(t *testing.T) {
	appointments := []domain.Appointment{
		{ID: "1", Title: "Team Standup", Date: "2026-01-16", Time: "09:00 AM"},
		{ID: "2", Title: "Client Presentation", Date: "2026-01-16", Time: "02:00 PM"},
	}

	conflict := FindConflict(appointments, "2026-01-16", "09:00 AM", "")
	require.NotNil(t, conflict)
	assert.Equal(t, "Team Standup", conflict.Title)
}

func TestFindConflictDifferentDayOrTime(t *testing.T) {
	appointments := []domain.Appointment{
		{ID: "1", Title: "Team Standup", Date: "2026-01-16", Time: "09:00 AM"},
	}

	assert.Nil(t, FindConflict(appointments, "2026-01-17", "09:00 AM", ""))
	assert.Nil(t, FindConflict(appointments, "2026-01-16", "09:30 AM", ""))
}

func TestFindConflictExcludesEditedAppointment(t *testing.T) {
	appointments := []domain.Appointment{
		{ID: "1", Title: "Team Standup", Date: "2026-01-16", Time: "09:00 AM"},
	}

	// Re-saving the same appointment at its own slot is not a conflict.
	assert.Nil(t, FindConflict(appointments, "2026-01-16", "09:00 AM", "1"))
}
