package dto

import (
	"time"

	"github.com/spec-kit/workforce-tasks/internal/domain"
)

// TaskCreateRequest payload for task creation. Status is not accepted;
// new tasks always start as started.
type TaskCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	EmployeeID  string `json:"employee_id" validate:"required"`
}

// TaskEditRequest payload for the all-or-nothing task edit.
type TaskEditRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status" validate:"required"`
	EmployeeID  string `json:"employee_id" validate:"required"`
}

// TaskStatusRequest payload for the assignee's status update.
type TaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TaskResponse is the wire projection of a task.
type TaskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	EmployerID  string            `json:"employer_id"`
	EmployeeID  string            `json:"employee_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// FromTask builds a TaskResponse.
func FromTask(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		EmployerID:  task.EmployerID,
		EmployeeID:  task.EmployeeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// FromTasks maps a slice of tasks.
func FromTasks(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, FromTask(&tasks[i]))
	}
	return out
}
