package domain

import (
	"fmt"
	"time"
)

// Meeting is a single recorded/transcribed note owned by exactly one project.
// A meeting may chain to an earlier meeting in the same project through
// PreviousMeetingID; the reference is set once at creation and never
// revalidated, so it can dangle after the referenced meeting is deleted.
type Meeting struct {
	ID                string    `json:"id" db:"id"`
	ProjectID         string    `json:"project_id" db:"project_id"`
	Title             string    `json:"title" db:"title"`
	Transcript        string    `json:"transcript" db:"transcript"`
	Duration          string    `json:"duration" db:"duration"`
	HasAudio          bool      `json:"has_audio" db:"has_audio"`
	AudioURL          *string   `json:"audio_url,omitempty" db:"audio_url"`
	IsFollowUp        bool      `json:"is_follow_up" db:"is_follow_up"`
	PreviousMeetingID *string   `json:"previous_meeting_id,omitempty" db:"previous_meeting_id"`
	Date              time.Time `json:"date" db:"date"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// NewMeeting holds the caller-supplied fields for meeting creation.
// Zero values fall back to the documented defaults.
type NewMeeting struct {
	Title             string
	Transcript        string
	Duration          string
	HasAudio          bool
	AudioURL          *string
	IsFollowUp        bool
	PreviousMeetingID *string
}

// MeetingUpdate is a partial update; only title and transcript are editable
// after creation.
type MeetingUpdate struct {
	Title      *string
	Transcript *string
}

// IsEmpty reports whether the update would change nothing.
func (u MeetingUpdate) IsEmpty() bool {
	return u.Title == nil && u.Transcript == nil
}

// GeneratedMeetingTitle returns the fallback title for a meeting saved
// without one, e.g. "Meeting Notes - Jan 16, 2026".
func GeneratedMeetingTitle(now time.Time) string {
	return "Meeting Notes - " + now.Format("Jan 2, 2006")
}

// FormatDuration renders a second count as an M:SS display string.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
