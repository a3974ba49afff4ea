package models

import "time"

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
	StatusArchived   TaskStatus = "archived"
)

// Valid reports whether s is a known status value.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusArchived:
		return true
	}
	return false
}

// TaskPriority enumerates task priorities, lowest to highest.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// Valid reports whether p is a known priority value.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task represents a single to-do item belonging to a user.
type Task struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	UserID      uint         `gorm:"index;not null" json:"user_id"`
	Title       string       `gorm:"size:200;not null;index" json:"title"`
	Description string       `gorm:"size:2000" json:"description,omitempty"`
	Status      TaskStatus   `gorm:"size:32;not null;default:todo;index" json:"status"`
	Priority    TaskPriority `gorm:"size:32;not null;default:medium;index" json:"priority"`
	IsCompleted bool         `gorm:"default:false;not null" json:"is_completed"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
}
