package models

// TaskType groups tasks on the board.
type TaskType string

const (
	TaskSchedule TaskType = "schedule"
	TaskRoutine  TaskType = "routine"
	TaskReminder TaskType = "reminder"
)

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task is a standalone to-do with a due date and time.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Type        TaskType `json:"type"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
	IsCompleted bool     `json:"isCompleted"`
}

// ScheduleSuggestion is a proposed slot for a task.
type ScheduleSuggestion struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}
