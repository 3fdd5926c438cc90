package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohq/tempo/internal/domain"
	"github.com/tempohq/tempo/internal/realtime"
)

// newTestStore returns a MemoryStore whose clock advances one second per
// call, so ordering by timestamp is deterministic.
func newTestStore() *MemoryStore {
	s := NewMemoryStore(realtime.NewHub())
	base := time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestProjectCreateStampsDefaultsAndTimestamps(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	id, err := s.Projects().Create(ctx, domain.NewProject{Name: "Launch", Color: "#8B5CF6", Icon: "📝"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	projects, err := s.Projects().List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Launch", p.Name)
	assert.Equal(t, 0, p.MeetingCount)
	assert.False(t, p.CreatedAt.IsZero())
	assert.True(t, p.UpdatedAt.Equal(p.CreatedAt))
}

func TestMeetingLifecycleMaintainsCounter(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	projectID, err := s.Projects().Create(ctx, domain.NewProject{Name: "Launch"})
	require.NoError(t, err)

	before, _ := s.Projects().List(ctx)
	updatedBefore := before[0].UpdatedAt

	meetingID, err := s.Meetings().Create(ctx, projectID, domain.NewMeeting{Title: "Kickoff", Duration: "0:00"})
	require.NoError(t, err)

	after, _ := s.Projects().List(ctx)
	assert.Equal(t, 1, after[0].MeetingCount)
	assert.True(t, after[0].UpdatedAt.After(updatedBefore), "meeting create must bump parent updated_at")

	meetings, err := s.Meetings().List(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "Kickoff", meetings[0].Title)
	assert.Equal(t, projectID, meetings[0].ProjectID)
	assert.False(t, meetings[0].Date.IsZero())

	require.NoError(t, s.Meetings().Delete(ctx, projectID, meetingID))

	final, _ := s.Projects().List(ctx)
	assert.Equal(t, 0, final[0].MeetingCount)
}

func TestMeetingCountFloorsAtZero(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	projectID, err := s.Projects().Create(ctx, domain.NewProject{Name: "Drifted"})
	require.NoError(t, err)

	// Simulate counter drift: a meeting exists but the cached count reads 0.
	meetingID, err := s.Meetings().Create(ctx, projectID, domain.NewMeeting{Title: "Orphan"})
	require.NoError(t, err)
	s.mu.Lock()
	p := s.projects[projectID]
	p.MeetingCount = 0
	s.projects[projectID] = p
	s.mu.Unlock()

	require.NoError(t, s.Meetings().Delete(ctx, projectID, meetingID))

	projects, _ := s.Projects().List(ctx)
	assert.Equal(t, 0, projects[0].MeetingCount, "count must not go negative")
}

func TestDeleteProjectCascades(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	projectID, err := s.Projects().Create(ctx, domain.NewProject{Name: "Launch"})
	require.NoError(t, err)
	for range 3 {
		_, err := s.Meetings().Create(ctx, projectID, domain.NewMeeting{Title: "Sync"})
		require.NoError(t, err)
	}

	require.NoError(t, s.Projects().Delete(ctx, projectID))

	projects, _ := s.Projects().List(ctx)
	assert.Empty(t, projects)
	meetings, _ := s.Meetings().List(ctx, projectID)
	assert.Empty(t, meetings)

	// Second delete of the same id fails, it is not a silent no-op.
	assert.ErrorIs(t, s.Projects().Delete(ctx, projectID), domain.ErrNotFound)
}

func TestDeleteMissingProjectLeavesStoreIntact(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	projectID, err := s.Projects().Create(ctx, domain.NewProject{Name: "Keep"})
	require.NoError(t, err)
	_, err = s.Meetings().Create(ctx, projectID, domain.NewMeeting{Title: "Keep too"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Projects().Delete(ctx, "no-such-id"), domain.ErrNotFound)

	projects, _ := s.Projects().List(ctx)
	require.Len(t, projects, 1)
	assert.Equal(t, 1, projects[0].MeetingCount)
	meetings, _ := s.Meetings().List(ctx, projectID)
	assert.Len(t, meetings, 1)
}

func TestProjectOrderingByUpdatedAtThenID(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	first, err := s.Projects().Create(ctx, domain.NewProject{Name: "first"})
	require.NoError(t, err)
	second, err := s.Projects().Create(ctx, domain.NewProject{Name: "second"})
	require.NoError(t, err)

	projects, _ := s.Projects().List(ctx)
	require.Len(t, projects, 2)
	assert.Equal(t, second, projects[0].ID, "most recently updated first")

	// Touching the older project moves it to the front.
	name := "renamed"
	require.NoError(t, s.Projects().Update(ctx, first, domain.ProjectUpdate{Name: &name}))
	projects, _ = s.Projects().List(ctx)
	assert.Equal(t, first, projects[0].ID)
	assert.Equal(t, "renamed", projects[0].Name)

	// Equal timestamps fall back to id order.
	fixed := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	a, _ := s.Projects().Create(ctx, domain.NewProject{Name: "tie-a"})
	b, _ := s.Projects().Create(ctx, domain.NewProject{Name: "tie-b"})
	lo, hi := a, b
	if b < a {
		lo, hi = b, a
	}
	projects, _ = s.Projects().List(ctx)
	assert.Equal(t, lo, projects[0].ID)
	assert.Equal(t, hi, projects[1].ID)
}

func TestMeetingOrderingByDateDesc(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	projectID, err := s.Projects().Create(ctx, domain.NewProject{Name: "Launch"})
	require.NoError(t, err)

	older, err := s.Meetings().Create(ctx, projectID, domain.NewMeeting{Title: "older"})
	require.NoError(t, err)
	newer, err := s.Meetings().Create(ctx, projectID, domain.NewMeeting{Title: "newer"})
	require.NoError(t, err)

	meetings, _ := s.Meetings().List(ctx, projectID)
	require.Len(t, meetings, 2)
	assert.Equal(t, newer, meetings[0].ID)
	assert.Equal(t, older, meetings[1].ID)
}

func TestUpdateProjectNotFound(t *testing.T) {
	s := newTestStore()
	name := "x"
	err := s.Projects().Update(context.Background(), "missing", domain.ProjectUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateMeetingEditsFieldsAndBumpsParent(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	projectID, err := s.Projects().Create(ctx, domain.NewProject{Name: "Launch"})
	require.NoError(t, err)
	meetingID, err := s.Meetings().Create(ctx, projectID, domain.NewMeeting{Title: "Kickoff", Transcript: "hello"})
	require.NoError(t, err)

	before, _ := s.Projects().List(ctx)
	updatedBefore := before[0].UpdatedAt

	transcript := "hello world"
	require.NoError(t, s.Meetings().Update(ctx, projectID, meetingID, domain.MeetingUpdate{Transcript: &transcript}))

	meetings, _ := s.Meetings().List(ctx, projectID)
	assert.Equal(t, "hello world", meetings[0].Transcript)
	assert.Equal(t, "Kickoff", meetings[0].Title, "unset fields stay untouched")

	after, _ := s.Projects().List(ctx)
	assert.True(t, after[0].UpdatedAt.After(updatedBefore))

	err = s.Meetings().Update(ctx, projectID, "missing", domain.MeetingUpdate{Transcript: &transcript})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteMeetingTwiceReturnsNotFound(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	projectID, err := s.Projects().Create(ctx, domain.NewProject{Name: "Launch"})
	require.NoError(t, err)
	meetingID, err := s.Meetings().Create(ctx, projectID, domain.NewMeeting{Title: "Kickoff"})
	require.NoError(t, err)

	require.NoError(t, s.Meetings().Delete(ctx, projectID, meetingID))
	assert.ErrorIs(t, s.Meetings().Delete(ctx, projectID, meetingID), domain.ErrNotFound)
}

func TestDanglingPreviousMeetingIDIsKept(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	projectID, err := s.Projects().Create(ctx, domain.NewProject{Name: "Launch"})
	require.NoError(t, err)
	firstID, err := s.Meetings().Create(ctx, projectID, domain.NewMeeting{Title: "Kickoff"})
	require.NoError(t, err)
	_, err = s.Meetings().Create(ctx, projectID, domain.NewMeeting{
		Title:             "Follow-up",
		IsFollowUp:        true,
		PreviousMeetingID: &firstID,
	})
	require.NoError(t, err)

	require.NoError(t, s.Meetings().Delete(ctx, projectID, firstID))

	meetings, _ := s.Meetings().List(ctx, projectID)
	require.Len(t, meetings, 1)
	require.NotNil(t, meetings[0].PreviousMeetingID)
	assert.Equal(t, firstID, *meetings[0].PreviousMeetingID, "reference dangles, no cleanup")
}

func waitProjects(t *testing.T, ch <-chan []domain.Project) []domain.Project {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for project snapshot")
		return nil
	}
}

func TestSubscribeProjectsContract(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	existing, err := s.Projects().Create(ctx, domain.NewProject{Name: "Existing"})
	require.NoError(t, err)

	got := make(chan []domain.Project, 8)
	unsubscribe := s.Projects().Subscribe(func(ps []domain.Project) { got <- ps })

	initial := waitProjects(t, got)
	require.Len(t, initial, 1)
	assert.Equal(t, existing, initial[0].ID)

	newID, err := s.Projects().Create(ctx, domain.NewProject{Name: "New"})
	require.NoError(t, err)

	next := waitProjects(t, got)
	require.Len(t, next, 2)
	assert.Equal(t, newID, next[0].ID)

	select {
	case extra := <-got:
		t.Fatalf("expected exactly one delivery per change, got extra: %v", extra)
	case <-time.After(50 * time.Millisecond):
	}

	unsubscribe()
	_, err = s.Projects().Create(ctx, domain.NewProject{Name: "After cancel"})
	require.NoError(t, err)
	select {
	case extra := <-got:
		t.Fatalf("delivery after unsubscribe: %v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeMeetingsScopedToProject(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	watched, err := s.Projects().Create(ctx, domain.NewProject{Name: "Watched"})
	require.NoError(t, err)
	other, err := s.Projects().Create(ctx, domain.NewProject{Name: "Other"})
	require.NoError(t, err)

	got := make(chan []domain.Meeting, 8)
	unsubscribe := s.Meetings().Subscribe(watched, func(ms []domain.Meeting) { got <- ms })
	defer unsubscribe()

	select {
	case initial := <-got:
		assert.Empty(t, initial)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	// A meeting in another project must not wake this feed.
	_, err = s.Meetings().Create(ctx, other, domain.NewMeeting{Title: "Elsewhere"})
	require.NoError(t, err)
	select {
	case ms := <-got:
		t.Fatalf("cross-project delivery: %v", ms)
	case <-time.After(50 * time.Millisecond):
	}

	id, err := s.Meetings().Create(ctx, watched, domain.NewMeeting{Title: "Here"})
	require.NoError(t, err)
	select {
	case ms := <-got:
		require.Len(t, ms, 1)
		assert.Equal(t, id, ms[0].ID)
	case <-time.After(time.Second):
		t.Fatal("no delivery for watched project")
	}
}

func TestCreateMeetingInMissingProject(t *testing.T) {
	s := newTestStore()
	_, err := s.Meetings().Create(context.Background(), "missing", domain.NewMeeting{Title: "Lost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
