package service

import (
	"time"

	"github.com/tempohq/tempo/internal/domain"
)

// DeriveNotifications computes the transient notification entries for the
// given task and appointment snapshots as of now. Nothing is persisted; the
// caller re-derives on every refresh and tracks read state locally by entry
// id.
//
// Emitted entries, in order: one per overdue non-completed task, one per
// non-completed task due today, one per appointment scheduled today, and at
// most one for the first completed task (pre-marked read).
func DeriveNotifications(tasks []domain.Task, appointments []domain.Appointment, now time.Time) []domain.Notification {
	today := now.Format("2006-01-02")
	notifs := []domain.Notification{}

	for _, task := range tasks {
		if task.Status != domain.TaskStatusCompleted && task.DueDate < today {
			notifs = append(notifs, domain.Notification{
				ID:      "overdue-" + task.ID,
				Type:    domain.NotificationOverdue,
				Title:   "Overdue Task",
				Message: task.Title,
				Time:    "Due: " + displayDate(task.DueDate),
			})
		}
	}

	for _, task := range tasks {
		if task.Status != domain.TaskStatusCompleted && task.DueDate == today {
			notifs = append(notifs, domain.Notification{
				ID:      "today-" + task.ID,
				Type:    domain.NotificationToday,
				Title:   "Due Today",
				Message: task.Title,
				Time:    task.Time,
			})
		}
	}

	for _, apt := range appointments {
		if apt.Date == today {
			notifs = append(notifs, domain.Notification{
				ID:      "apt-" + apt.ID,
				Type:    domain.NotificationAppointment,
				Title:   "Upcoming Appointment",
				Message: apt.Title,
				Time:    apt.Time,
			})
		}
	}

	for _, task := range tasks {
		if task.Status == domain.TaskStatusCompleted {
			notifs = append(notifs, domain.Notification{
				ID:      "completed-" + task.ID,
				Type:    domain.NotificationCompleted,
				Title:   "Task Completed",
				Message: task.Title,
				Time:    "Just now",
				Read:    true,
			})
			break
		}
	}

	return notifs
}

// displayDate renders a YYYY-MM-DD day as "Jan 2". Unparseable input is
// returned as-is.
func displayDate(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format("Jan 2")
}
