package domain

// NotificationType represents the kind of notification.
type NotificationType string

const (
	NotificationOverdue     NotificationType = "overdue"
	NotificationToday       NotificationType = "today"
	NotificationAppointment NotificationType = "appointment"
	NotificationCompleted   NotificationType = "completed"
)

// Notification is a transient entry derived from task and appointment
// snapshots. It is never persisted; the composite ID (<type>-<sourceId>)
// stays stable across derivations so callers can track read state locally.
type Notification struct {
	ID      string           `json:"id"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Time    string           `json:"time"`
	Read    bool             `json:"read"`
}
