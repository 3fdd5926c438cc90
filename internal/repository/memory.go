package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tempohq/tempo/internal/domain"
	"github.com/tempohq/tempo/internal/realtime"
)

// MemoryStore is an in-memory implementation of the project, meeting and
// user stores with the same semantics as the Postgres repositories. It backs
// the `memory` store driver and the test suite. All mutations run under one
// mutex, so counter maintenance and the cascading project delete are atomic.
//
// The Projects, Meetings and Users views expose the store under the same
// method sets as the Postgres repositories.
type MemoryStore struct {
	mu       sync.Mutex
	hub      *realtime.Hub
	now      func() time.Time
	projects map[string]domain.Project
	meetings map[string]map[string]domain.Meeting
	users    map[string]domain.User
}

// NewMemoryStore creates an empty MemoryStore publishing into hub.
func NewMemoryStore(hub *realtime.Hub) *MemoryStore {
	return &MemoryStore{
		hub:      hub,
		now:      time.Now,
		projects: make(map[string]domain.Project),
		meetings: make(map[string]map[string]domain.Meeting),
		users:    make(map[string]domain.User),
	}
}

// Projects returns the project-store view.
func (s *MemoryStore) Projects() *MemoryProjectStore { return &MemoryProjectStore{s} }

// Meetings returns the meeting-store view.
func (s *MemoryStore) Meetings() *MemoryMeetingStore { return &MemoryMeetingStore{s} }

// Users returns the user-store view.
func (s *MemoryStore) Users() *MemoryUserStore { return &MemoryUserStore{s} }

func (s *MemoryStore) createProject(p domain.NewProject) string {
	s.mu.Lock()
	now := s.now()
	id := uuid.NewString()
	s.projects[id] = domain.Project{
		ID:        id,
		Name:      p.Name,
		Color:     p.Color,
		Icon:      p.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Unlock()

	s.hub.Publish(realtime.TopicProjects)
	return id
}

func (s *MemoryStore) listProjects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].UpdatedAt.Equal(projects[j].UpdatedAt) {
			return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
		}
		return projects[i].ID < projects[j].ID
	})
	return projects
}

func (s *MemoryStore) updateProject(id string, u domain.ProjectUpdate) error {
	s.mu.Lock()
	p, ok := s.projects[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Color != nil {
		p.Color = *u.Color
	}
	if u.Icon != nil {
		p.Icon = *u.Icon
	}
	p.UpdatedAt = s.now()
	s.projects[id] = p
	s.mu.Unlock()

	s.hub.Publish(realtime.TopicProjects)
	return nil
}

func (s *MemoryStore) deleteProject(id string) error {
	s.mu.Lock()
	if _, ok := s.projects[id]; !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(s.projects, id)
	delete(s.meetings, id)
	s.mu.Unlock()

	s.hub.Publish(realtime.TopicProjects)
	s.hub.Publish(realtime.MeetingsTopic(id))
	return nil
}

func (s *MemoryStore) createMeeting(projectID string, m domain.NewMeeting) (string, error) {
	s.mu.Lock()
	p, ok := s.projects[projectID]
	if !ok {
		s.mu.Unlock()
		return "", domain.ErrNotFound
	}

	now := s.now()
	id := uuid.NewString()
	if s.meetings[projectID] == nil {
		s.meetings[projectID] = make(map[string]domain.Meeting)
	}
	s.meetings[projectID][id] = domain.Meeting{
		ID:                id,
		ProjectID:         projectID,
		Title:             m.Title,
		Transcript:        m.Transcript,
		Duration:          m.Duration,
		HasAudio:          m.HasAudio,
		AudioURL:          m.AudioURL,
		IsFollowUp:        m.IsFollowUp,
		PreviousMeetingID: m.PreviousMeetingID,
		Date:              now,
		CreatedAt:         now,
	}

	p.MeetingCount++
	p.UpdatedAt = now
	s.projects[projectID] = p
	s.mu.Unlock()

	s.hub.Publish(realtime.MeetingsTopic(projectID))
	s.hub.Publish(realtime.TopicProjects)
	return id, nil
}

func (s *MemoryStore) listMeetings(projectID string) []domain.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()

	meetings := make([]domain.Meeting, 0, len(s.meetings[projectID]))
	for _, m := range s.meetings[projectID] {
		meetings = append(meetings, m)
	}
	sort.Slice(meetings, func(i, j int) bool {
		if !meetings[i].Date.Equal(meetings[j].Date) {
			return meetings[i].Date.After(meetings[j].Date)
		}
		return meetings[i].ID < meetings[j].ID
	})
	return meetings
}

func (s *MemoryStore) updateMeeting(projectID, meetingID string, u domain.MeetingUpdate) error {
	s.mu.Lock()
	m, ok := s.meetings[projectID][meetingID]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Transcript != nil {
		m.Transcript = *u.Transcript
	}
	s.meetings[projectID][meetingID] = m

	if p, ok := s.projects[projectID]; ok {
		p.UpdatedAt = s.now()
		s.projects[projectID] = p
	}
	s.mu.Unlock()

	s.hub.Publish(realtime.MeetingsTopic(projectID))
	s.hub.Publish(realtime.TopicProjects)
	return nil
}

func (s *MemoryStore) deleteMeeting(projectID, meetingID string) error {
	s.mu.Lock()
	if _, ok := s.meetings[projectID][meetingID]; !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(s.meetings[projectID], meetingID)

	if p, ok := s.projects[projectID]; ok {
		if p.MeetingCount > 0 {
			p.MeetingCount--
		}
		p.UpdatedAt = s.now()
		s.projects[projectID] = p
	}
	s.mu.Unlock()

	s.hub.Publish(realtime.MeetingsTopic(projectID))
	s.hub.Publish(realtime.TopicProjects)
	return nil
}

// MemoryProjectStore exposes MemoryStore under the project-store method set.
type MemoryProjectStore struct{ s *MemoryStore }

func (v *MemoryProjectStore) Create(_ context.Context, p domain.NewProject) (string, error) {
	return v.s.createProject(p), nil
}

func (v *MemoryProjectStore) List(_ context.Context) ([]domain.Project, error) {
	return v.s.listProjects(), nil
}

func (v *MemoryProjectStore) Subscribe(callback func([]domain.Project)) func() {
	fetch := func(context.Context) ([]domain.Project, error) {
		return v.s.listProjects(), nil
	}
	return realtime.Stream(v.s.hub, realtime.TopicProjects, fetch, callback)
}

func (v *MemoryProjectStore) Update(_ context.Context, id string, u domain.ProjectUpdate) error {
	return v.s.updateProject(id, u)
}

func (v *MemoryProjectStore) Delete(_ context.Context, id string) error {
	return v.s.deleteProject(id)
}

// MemoryMeetingStore exposes MemoryStore under the meeting-store method set.
type MemoryMeetingStore struct{ s *MemoryStore }

func (v *MemoryMeetingStore) Create(_ context.Context, projectID string, m domain.NewMeeting) (string, error) {
	return v.s.createMeeting(projectID, m)
}

func (v *MemoryMeetingStore) List(_ context.Context, projectID string) ([]domain.Meeting, error) {
	return v.s.listMeetings(projectID), nil
}

func (v *MemoryMeetingStore) Subscribe(projectID string, callback func([]domain.Meeting)) func() {
	fetch := func(context.Context) ([]domain.Meeting, error) {
		return v.s.listMeetings(projectID), nil
	}
	return realtime.Stream(v.s.hub, realtime.MeetingsTopic(projectID), fetch, callback)
}

func (v *MemoryMeetingStore) Update(_ context.Context, projectID, meetingID string, u domain.MeetingUpdate) error {
	return v.s.updateMeeting(projectID, meetingID, u)
}

func (v *MemoryMeetingStore) Delete(_ context.Context, projectID, meetingID string) error {
	return v.s.deleteMeeting(projectID, meetingID)
}

// MemoryUserStore exposes MemoryStore under the user-store method set.
type MemoryUserStore struct{ s *MemoryStore }

func (v *MemoryUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	u, ok := v.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (v *MemoryUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, u := range v.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (v *MemoryUserStore) Create(_ context.Context, user domain.User) (*domain.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, existing := range v.s.users {
		if existing.Email == user.Email {
			return nil, domain.ErrConflict
		}
	}
	now := v.s.now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	v.s.users[user.ID] = user
	return &user, nil
}

func (v *MemoryUserStore) UpsertProvider(_ context.Context, user domain.User) (*domain.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	now := v.s.now()
	for id, existing := range v.s.users {
		if existing.Provider == user.Provider &&
			existing.ProviderID != nil && user.ProviderID != nil &&
			*existing.ProviderID == *user.ProviderID {
			existing.Email = user.Email
			existing.DisplayName = user.DisplayName
			existing.AvatarURL = user.AvatarURL
			existing.UpdatedAt = now
			v.s.users[id] = existing
			return &existing, nil
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	v.s.users[user.ID] = user
	return &user, nil
}
