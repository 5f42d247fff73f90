package models

import "time"

// TodoStatus is the lifecycle state of a learning todo.
type TodoStatus string

const (
	TodoPending   TodoStatus = "PENDING"
	TodoCompleted TodoStatus = "COMPLETED"
)

// DeadlineType classifies a todo's time horizon.
type DeadlineType string

const (
	DeadlineShortTerm DeadlineType = "SHORT_TERM"
	DeadlineLongTerm  DeadlineType = "LONG_TERM"
)

// ValidTodoStatus reports whether s is a known todo status.
func ValidTodoStatus(s TodoStatus) bool {
	return s == TodoPending || s == TodoCompleted
}

// ValidDeadlineType reports whether d is a known deadline type.
// The empty value is valid (deadline type is optional).
func ValidDeadlineType(d DeadlineType) bool {
	return d == "" || d == DeadlineShortTerm || d == DeadlineLongTerm
}

// LearningTodo is a follow-up task, either authored by the user or
// accepted from an enrichment suggestion.
type LearningTodo struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"userId"`
	NoteID       *int64       `json:"noteId"`
	Content      string       `json:"content"`
	DueDate      *string      `json:"dueDate"`
	Status       TodoStatus   `json:"status"`
	Reason       *string      `json:"reason"`
	DeadlineType DeadlineType `json:"deadlineType,omitempty"`
	// IsChecked marks todos that were system-suggested and accepted,
	// as opposed to freshly authored ones.
	IsChecked bool      `json:"isChecked"`
	CreatedAt time.Time `json:"createdAt"`
}
