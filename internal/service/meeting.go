package service

import (
	"context"
	"time"

	"github.com/tempohq/tempo/internal/domain"
)

// MeetingStore defines the meeting data access interface consumed by
// MeetingService.
type MeetingStore interface {
	Create(ctx context.Context, projectID string, m domain.NewMeeting) (string, error)
	List(ctx context.Context, projectID string) ([]domain.Meeting, error)
	Subscribe(projectID string, callback func([]domain.Meeting)) func()
	Update(ctx context.Context, projectID, meetingID string, u domain.MeetingUpdate) error
	Delete(ctx context.Context, projectID, meetingID string) error
}

// MeetingService applies creation defaults before meetings reach the store.
type MeetingService struct {
	store MeetingStore
	now   func() time.Time
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(store MeetingStore) *MeetingService {
	return &MeetingService{store: store, now: time.Now}
}

// Create saves a meeting under projectID. An empty title falls back to the
// generated "Meeting Notes - <date>" form and an empty duration to "0:00";
// the remaining fields default to their zero values.
func (s *MeetingService) Create(ctx context.Context, projectID string, m domain.NewMeeting) (string, error) {
	if m.Title == "" {
		m.Title = domain.GeneratedMeetingTitle(s.now())
	}
	if m.Duration == "" {
		m.Duration = "0:00"
	}
	return s.store.Create(ctx, projectID, m)
}

// List returns the meetings under projectID, newest first.
func (s *MeetingService) List(ctx context.Context, projectID string) ([]domain.Meeting, error) {
	return s.store.List(ctx, projectID)
}

// Subscribe registers a live feed over one project's meetings and returns
// its cancel function.
func (s *MeetingService) Subscribe(projectID string, callback func([]domain.Meeting)) func() {
	return s.store.Subscribe(projectID, callback)
}

// Update merges the editable fields into the meeting.
func (s *MeetingService) Update(ctx context.Context, projectID, meetingID string, u domain.MeetingUpdate) error {
	return s.store.Update(ctx, projectID, meetingID, u)
}

// Delete removes the meeting.
func (s *MeetingService) Delete(ctx context.Context, projectID, meetingID string) error {
	return s.store.Delete(ctx, projectID, meetingID)
}
