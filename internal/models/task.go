package models

const (
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusCompleted  = "COMPLETED"
)

type Task struct {
	ID           int64
	OrderID      int64
	OrderNumber  string
	Description  string
	AssignedTo   string
	Status       string
	DueDate      string
	LastSyncDate string
}

func (t Task) Completed() bool {
	return t.Status == TaskStatusCompleted
}

// TaskStatusGlyph mirrors StatusGlyph for task states.
func TaskStatusGlyph(status string) string {
	switch status {
	case TaskStatusCompleted:
		return "✅"
	case TaskStatusInProgress:
		return "🟡"
	default:
		return "⏳"
	}
}
