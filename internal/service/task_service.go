package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-tasks/internal/auth"
	"github.com/spec-kit/workforce-tasks/internal/domain"
	"github.com/spec-kit/workforce-tasks/internal/events"
	"github.com/spec-kit/workforce-tasks/internal/observability"
	"github.com/spec-kit/workforce-tasks/internal/repository"
	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

// TaskService coordinates the task lifecycle. Employers create, edit and
// delete tasks they own; employees update the status of tasks assigned to
// them. Acting on a task outside the caller's relation reads as not-found,
// never as someone else's task.
type TaskService struct {
	tasks      repository.TaskRepository
	identities repository.IdentityRepository
	dispatcher events.Dispatcher
}

// TaskDependencies bundles repositories for the task service.
type TaskDependencies struct {
	TaskRepo     repository.TaskRepository
	IdentityRepo repository.IdentityRepository
	Dispatcher   events.Dispatcher
}

// EditTaskInput describes the full-replacement edit payload. All four
// fields are required together; a partial edit is rejected.
type EditTaskInput struct {
	Title       string
	Description string
	Status      string
	EmployeeID  string
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		identities: deps.IdentityRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create creates a task owned by the employer and assigned to one of its
// employees. Status defaults to started.
func (s *TaskService) Create(ctx context.Context, employer *domain.Identity, title, description, employeeID string) (*domain.Task, error) {
	if err := auth.Check(employer.Role, auth.OpManageTasks); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" || employeeID == "" {
		return nil, apperrors.NewValidationError("title, description and employee are required", nil)
	}
	if err := s.requireOwnEmployee(ctx, employer.ID, employeeID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      domain.TaskStatusStarted,
		EmployerID:  employer.ID,
		EmployeeID:  employeeID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	observability.TasksCreatedTotal.Inc()
	s.publishEvent(ctx, events.Event{
		Type:  events.EventTaskCreated,
		Actor: employerActor(employer),
		Payload: events.TaskCreatedPayload{
			TaskID:     task.ID,
			EmployeeID: task.EmployeeID,
			Title:      task.Title,
			Status:     task.Status,
		},
	})
	return task, nil
}

// Edit replaces every mutable field of an owned task at once. Missing any
// of title, description, status or employee rejects the whole request and
// leaves the task unchanged.
func (s *TaskService) Edit(ctx context.Context, employer *domain.Identity, taskID string, input EditTaskInput) (*domain.Task, error) {
	if err := auth.Check(employer.Role, auth.OpManageTasks); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" || input.Description == "" || input.Status == "" || input.EmployeeID == "" {
		return nil, apperrors.NewValidationError("title, description, status and employee must all be provided", nil)
	}
	status, ok := domain.ParseTaskStatus(input.Status)
	if !ok {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
	}

	task, err := s.tasks.GetOwned(ctx, employer.ID, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", nil)
		}
		return nil, err
	}
	if err := s.requireOwnEmployee(ctx, employer.ID, input.EmployeeID); err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = status
	task.EmployeeID = input.EmployeeID
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventTaskUpdated,
		Actor: employerActor(employer),
		Payload: events.TaskUpdatedPayload{
			TaskID:     task.ID,
			EmployeeID: task.EmployeeID,
			Status:     task.Status,
		},
	})
	return task, nil
}

// Delete removes an owned task. Whether the task is absent or owned by a
// different employer, the caller sees the same not-found error.
func (s *TaskService) Delete(ctx context.Context, employer *domain.Identity, taskID string) error {
	if err := auth.Check(employer.Role, auth.OpManageTasks); err != nil {
		return err
	}
	if err := s.tasks.DeleteOwned(ctx, employer.ID, taskID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("task", nil)
		}
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTaskDeleted,
		Actor:   employerActor(employer),
		Payload: events.TaskDeletedPayload{TaskID: taskID},
	})
	return nil
}

// UpdateStatus lets the assignee move a task to any status in the enum;
// there is no transition graph.
func (s *TaskService) UpdateStatus(ctx context.Context, employee *domain.Identity, taskID, statusStr string) (*domain.Task, error) {
	if err := auth.Check(employee.Role, auth.OpUpdateTaskStatus); err != nil {
		return nil, err
	}
	if statusStr == "" {
		return nil, apperrors.NewValidationError("status is required", nil)
	}
	status, ok := domain.ParseTaskStatus(statusStr)
	if !ok {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": statusStr})
	}

	task, err := s.tasks.GetAssigned(ctx, employee.ID, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", nil)
		}
		return nil, err
	}

	oldStatus := task.Status
	task.Status = status
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	observability.TaskStatusChangesTotal.WithLabelValues(string(status)).Inc()
	s.publishEvent(ctx, events.Event{
		Type:  events.EventTaskStatusChanged,
		Actor: events.Actor{Role: employee.Role, IdentityID: employee.ID},
		Payload: events.TaskStatusChangedPayload{
			TaskID:    task.ID,
			OldStatus: oldStatus,
			NewStatus: task.Status,
		},
	})
	return task, nil
}

// ListForEmployer returns every task the employer owns.
func (s *TaskService) ListForEmployer(ctx context.Context, employer *domain.Identity) ([]domain.Task, error) {
	if err := auth.Check(employer.Role, auth.OpListOwnTasks); err != nil {
		return nil, err
	}
	if !employer.IsEmployer() {
		return nil, apperrors.NewForbidden("employer role required")
	}
	return s.tasks.ListByEmployer(ctx, employer.ID)
}

// ListForEmployee returns every task assigned to the employee.
func (s *TaskService) ListForEmployee(ctx context.Context, employee *domain.Identity) ([]domain.Task, error) {
	if err := auth.Check(employee.Role, auth.OpListOwnTasks); err != nil {
		return nil, err
	}
	if !employee.IsEmployee() {
		return nil, apperrors.NewForbidden("employee role required")
	}
	return s.tasks.ListByEmployee(ctx, employee.ID)
}

// requireOwnEmployee confirms the assignee belongs to the employer's
// workforce; anything else is a validation failure, not a not-found, since
// the assignee is request input rather than the addressed resource.
func (s *TaskService) requireOwnEmployee(ctx context.Context, employerID, employeeID string) error {
	if _, err := s.identities.GetEmployee(ctx, employerID, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("employee does not belong to your workforce", map[string]any{"employee_id": employeeID})
		}
		return err
	}
	return nil
}

func (s *TaskService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
