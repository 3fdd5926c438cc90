package domain

import "time"

// Default display styling applied when a project is created without one.
const (
	DefaultProjectColor = "#8B5CF6"
	DefaultProjectIcon  = "📝"
)

// Project is a named container for meeting notes. MeetingCount is a
// denormalized count of child meetings, maintained incrementally on every
// meeting create/delete rather than recomputed.
type Project struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Color        string    `json:"color" db:"color"`
	Icon         string    `json:"icon" db:"icon"`
	MeetingCount int       `json:"meeting_count" db:"meeting_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewProject holds the caller-supplied fields for project creation.
type NewProject struct {
	Name  string
	Color string
	Icon  string
}

// ProjectUpdate is a partial update; nil fields are left untouched.
type ProjectUpdate struct {
	Name  *string
	Color *string
	Icon  *string
}

// IsEmpty reports whether the update would change nothing.
func (u ProjectUpdate) IsEmpty() bool {
	return u.Name == nil && u.Color == nil && u.Icon == nil
}
