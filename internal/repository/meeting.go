package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/tempohq/tempo/internal/domain"
	"github.com/tempohq/tempo/internal/realtime"
)

const meetingColumns = "id, project_id, title, transcript, duration, has_audio, audio_url, is_follow_up, previous_meeting_id, date, created_at"

const pgForeignKeyViolation = "23503"

// MeetingRepository handles meeting data access against Postgres. Meetings
// are scoped to a parent project; every mutation also maintains the parent's
// denormalized meeting_count and updated_at.
type MeetingRepository struct {
	db  *sqlx.DB
	hub *realtime.Hub
}

// NewMeetingRepository creates a new MeetingRepository.
func NewMeetingRepository(db *sqlx.DB, hub *realtime.Hub) *MeetingRepository {
	return &MeetingRepository{db: db, hub: hub}
}

// Create inserts a meeting under projectID, stamping date and created_at,
// then increments the parent's meeting_count and bumps its updated_at. The
// increment is a single atomic UPDATE, so concurrent creates cannot lose
// counts. Returns domain.ErrNotFound if the project does not exist.
func (r *MeetingRepository) Create(ctx context.Context, projectID string, m domain.NewMeeting) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meetings (id, project_id, title, transcript, duration, has_audio, audio_url, is_follow_up, previous_meeting_id, date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
		id, projectID, m.Title, m.Transcript, m.Duration, m.HasAudio, m.AudioURL, m.IsFollowUp, m.PreviousMeetingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("create meeting in project %s: %w", projectID, err)
	}
	r.hub.Publish(realtime.MeetingsTopic(projectID))

	_, err = r.db.ExecContext(ctx,
		`UPDATE projects SET meeting_count = meeting_count + 1, updated_at = NOW() WHERE id = $1`,
		projectID)
	if err != nil {
		// The meeting row is already written and stays; the count drifts
		// until the next successful write against this project.
		return "", fmt.Errorf("bump meeting count for project %s: %w", projectID, err)
	}
	r.hub.Publish(realtime.TopicProjects)

	return id, nil
}

// List returns the meetings under projectID, newest date first, ties broken
// by id.
func (r *MeetingRepository) List(ctx context.Context, projectID string) ([]domain.Meeting, error) {
	meetings := []domain.Meeting{}
	err := r.db.SelectContext(ctx, &meetings,
		`SELECT `+meetingColumns+` FROM meetings WHERE project_id = $1 ORDER BY date DESC, id ASC`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("list meetings for project %s: %w", projectID, err)
	}
	return meetings, nil
}

// Subscribe registers a live feed over the meetings of one project, with the
// same contract as ProjectRepository.Subscribe.
func (r *MeetingRepository) Subscribe(projectID string, callback func([]domain.Meeting)) func() {
	fetch := func(ctx context.Context) ([]domain.Meeting, error) {
		return r.List(ctx, projectID)
	}
	return realtime.Stream(r.hub, realtime.MeetingsTopic(projectID), fetch, callback)
}

// Update merges the editable fields into the meeting, then bumps the parent
// project's updated_at as a separate best-effort write: if the bump fails
// the meeting update stays in place and the error is returned.
func (r *MeetingRepository) Update(ctx context.Context, projectID, meetingID string, u domain.MeetingUpdate) error {
	if !u.IsEmpty() {
		sets := []string{}
		args := []any{}
		n := 1
		if u.Title != nil {
			sets = append(sets, fmt.Sprintf("title = $%d", n))
			args = append(args, *u.Title)
			n++
		}
		if u.Transcript != nil {
			sets = append(sets, fmt.Sprintf("transcript = $%d", n))
			args = append(args, *u.Transcript)
			n++
		}
		args = append(args, meetingID, projectID)

		query := fmt.Sprintf("UPDATE meetings SET %s WHERE id = $%d AND project_id = $%d", joinSets(sets), n, n+1)
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update meeting %s: %w", meetingID, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update meeting %s: %w", meetingID, err)
		}
		if rows == 0 {
			return domain.ErrNotFound
		}
		r.hub.Publish(realtime.MeetingsTopic(projectID))
	}

	_, err := r.db.ExecContext(ctx, `UPDATE projects SET updated_at = NOW() WHERE id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("bump project %s after meeting update: %w", projectID, err)
	}
	r.hub.Publish(realtime.TopicProjects)
	return nil
}

// Delete removes the meeting, then decrements the parent's meeting_count
// (floored at zero) and bumps its updated_at. Returns domain.ErrNotFound if
// the meeting does not exist under the project.
func (r *MeetingRepository) Delete(ctx context.Context, projectID, meetingID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM meetings WHERE id = $1 AND project_id = $2`, meetingID, projectID)
	if err != nil {
		return fmt.Errorf("delete meeting %s: %w", meetingID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete meeting %s: %w", meetingID, err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	r.hub.Publish(realtime.MeetingsTopic(projectID))

	_, err = r.db.ExecContext(ctx,
		`UPDATE projects SET meeting_count = GREATEST(meeting_count - 1, 0), updated_at = NOW() WHERE id = $1`,
		projectID)
	if err != nil {
		return fmt.Errorf("decrement meeting count for project %s: %w", projectID, err)
	}
	r.hub.Publish(realtime.TopicProjects)
	return nil
}
