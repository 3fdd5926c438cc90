package service

import "github.com/tempohq/tempo/internal/domain"

// FindConflict reports the first appointment already occupying the given
// date and time, skipping excludeID (the appointment being edited, if any).
// The check is deliberately naive: same calendar day and an identical time
// string count as a conflict, durations are ignored. Returns nil when the
// slot is free.
func FindConflict(appointments []domain.Appointment, date, timeSlot, excludeID string) *domain.Appointment {
	for _, apt := range appointments {
		if apt.ID == excludeID || apt.Date != date {
			continue
		}
		if apt.Time == timeSlot {
			apt := apt
			return &apt
		}
	}
	return nil
}
