package domain

import (
	"strings"
	"time"
)

// TaskStatus enumerates lifecycle states for tasks. Any status may follow
// any other; there is no transition graph.
type TaskStatus string

const (
	TaskStatusStarted  TaskStatus = "STARTED"
	TaskStatusFinished TaskStatus = "FINISHED"
	TaskStatusBlocked  TaskStatus = "BLOCKED"
)

// ParseTaskStatus converts client input to a TaskStatus, case-insensitively.
// The second return value is false for values outside the enum.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case TaskStatusStarted:
		return TaskStatusStarted, true
	case TaskStatusFinished:
		return TaskStatusFinished, true
	case TaskStatusBlocked:
		return TaskStatusBlocked, true
	default:
		return "", false
	}
}

// Task is the unit of work owned by one employer and assigned to one of
// that employer's employees.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	EmployerID  string
	EmployeeID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
