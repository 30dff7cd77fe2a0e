package events

import (
	"time"

	"github.com/spec-kit/workforce-tasks/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated       EventType = "task_created"
	EventTaskUpdated       EventType = "task_updated"
	EventTaskStatusChanged EventType = "task_status_changed"
	EventTaskDeleted       EventType = "task_deleted"
	EventEmployeeAdded     EventType = "employee_added"
	EventEmployeeUpdated   EventType = "employee_updated"
	EventEmployeeRemoved   EventType = "employee_removed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role       domain.Role `json:"role"`
	IdentityID string      `json:"identity_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	TaskID     string            `json:"task_id"`
	EmployeeID string            `json:"employee_id"`
	Title      string            `json:"title"`
	Status     domain.TaskStatus `json:"status"`
}

// TaskUpdatedPayload payload.
type TaskUpdatedPayload struct {
	TaskID     string            `json:"task_id"`
	EmployeeID string            `json:"employee_id"`
	Status     domain.TaskStatus `json:"status"`
}

// TaskStatusChangedPayload payload.
type TaskStatusChangedPayload struct {
	TaskID    string            `json:"task_id"`
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
}

// TaskDeletedPayload payload.
type TaskDeletedPayload struct {
	TaskID string `json:"task_id"`
}

// EmployeePayload payload for employee lifecycle events.
type EmployeePayload struct {
	EmployeeID  string `json:"employee_id"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
