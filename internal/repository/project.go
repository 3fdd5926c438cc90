package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tempohq/tempo/internal/domain"
	"github.com/tempohq/tempo/internal/realtime"
)

const projectColumns = "id, name, color, icon, meeting_count, created_at, updated_at"

// ProjectRepository handles project data access against Postgres and
// publishes change signals for live subscribers.
type ProjectRepository struct {
	db  *sqlx.DB
	hub *realtime.Hub
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *sqlx.DB, hub *realtime.Hub) *ProjectRepository {
	return &ProjectRepository{db: db, hub: hub}
}

// Create inserts a project with a zero meeting count and both timestamps
// stamped server-side. Returns the assigned id.
func (r *ProjectRepository) Create(ctx context.Context, p domain.NewProject) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, color, icon, meeting_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 0, NOW(), NOW())`,
		id, p.Name, p.Color, p.Icon)
	if err != nil {
		return "", fmt.Errorf("create project: %w", err)
	}
	r.hub.Publish(realtime.TopicProjects)
	return id, nil
}

// List returns all projects, most recently updated first. Ties on
// updated_at break by id so the order is stable.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	projects := []domain.Project{}
	err := r.db.SelectContext(ctx, &projects,
		`SELECT `+projectColumns+` FROM projects ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Subscribe registers a live feed over the project list. The callback gets
// the current snapshot immediately and again after every change; the
// returned function cancels the feed.
func (r *ProjectRepository) Subscribe(callback func([]domain.Project)) func() {
	return realtime.Stream(r.hub, realtime.TopicProjects, r.List, callback)
}

// Update merges the given fields into the project and stamps updated_at.
// Returns domain.ErrNotFound if no project has the id.
func (r *ProjectRepository) Update(ctx context.Context, id string, u domain.ProjectUpdate) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if u.Name != nil {
		appendSet("name", *u.Name)
	}
	if u.Color != nil {
		appendSet("color", *u.Color)
	}
	if u.Icon != nil {
		appendSet("icon", *u.Icon)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d", joinSets(sets), n)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update project %s: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project %s: %w", id, err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	r.hub.Publish(realtime.TopicProjects)
	return nil
}

// Delete removes the project and all of its meetings in one transaction, so
// readers never observe the project gone while meetings remain or vice
// versa. Returns domain.ErrNotFound if no project has the id; deleting an
// already-deleted project fails the same way.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete project %s: begin: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM meetings WHERE project_id = $1`, id); err != nil {
		return fmt.Errorf("delete project %s: meetings: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete project %s: commit: %w", id, err)
	}

	r.hub.Publish(realtime.TopicProjects)
	r.hub.Publish(realtime.MeetingsTopic(id))
	return nil
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}
