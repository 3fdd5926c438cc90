package domain

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Task is an in-memory to-do snapshot used by the notification deriver.
// DueDate is a calendar day in YYYY-MM-DD form; Time is the display time.
type Task struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Time     string     `json:"time"`
	DueDate  string     `json:"due_date"`
	Status   TaskStatus `json:"status"`
	Priority string     `json:"priority,omitempty"`
}

// Appointment is a scheduled calendar entry. Date is YYYY-MM-DD and Time is
// the display time string the scheduler compares for conflicts.
type Appointment struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration string `json:"duration,omitempty"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}
