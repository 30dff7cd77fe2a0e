package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/workforce-tasks/internal/api/http"
	"github.com/spec-kit/workforce-tasks/internal/api/http/handlers"
	"github.com/spec-kit/workforce-tasks/internal/auth"
	"github.com/spec-kit/workforce-tasks/internal/config"
	"github.com/spec-kit/workforce-tasks/internal/domain"
	"github.com/spec-kit/workforce-tasks/internal/observability"
	"github.com/spec-kit/workforce-tasks/internal/service"
	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

// memIdentityRepo backs the app with an in-memory identity table.
type memIdentityRepo struct {
	identities map[string]*domain.Identity
}

func (r *memIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	for _, existing := range r.identities {
		if existing.PhoneNumber == identity.PhoneNumber {
			return apperrors.NewConflict("phone number already exists", nil)
		}
	}
	clone := *identity
	r.identities[identity.ID] = &clone
	return nil
}

func (r *memIdentityRepo) Update(_ context.Context, identity *domain.Identity) error {
	existing, ok := r.identities[identity.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.PhoneNumber = identity.PhoneNumber
	existing.PasswordHash = identity.PasswordHash
	return nil
}

func (r *memIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *identity
	return &clone, nil
}

func (r *memIdentityRepo) GetByPhone(_ context.Context, phone string) (*domain.Identity, error) {
	for _, identity := range r.identities {
		if identity.PhoneNumber == phone {
			clone := *identity
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memIdentityRepo) GetEmployee(_ context.Context, employerID, employeeID string) (*domain.Identity, error) {
	identity, ok := r.identities[employeeID]
	if !ok || identity.Role != domain.RoleEmployee || identity.EmployerID == nil || *identity.EmployerID != employerID {
		return nil, pgx.ErrNoRows
	}
	clone := *identity
	return &clone, nil
}

func (r *memIdentityRepo) ListEmployees(_ context.Context, employerID string) ([]domain.Identity, error) {
	out := []domain.Identity{}
	for _, identity := range r.identities {
		if identity.Role == domain.RoleEmployee && identity.EmployerID != nil && *identity.EmployerID == employerID {
			out = append(out, *identity)
		}
	}
	return out, nil
}

func (r *memIdentityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.identities[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.identities, id)
	return nil
}

// memTaskRepo backs the app with an in-memory task table.
type memTaskRepo struct {
	tasks map[string]*domain.Task
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) error {
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	existing, ok := r.tasks[task.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	*existing = *task
	return nil
}

func (r *memTaskRepo) GetOwned(_ context.Context, employerID, taskID string) (*domain.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok || task.EmployerID != employerID {
		return nil, pgx.ErrNoRows
	}
	clone := *task
	return &clone, nil
}

func (r *memTaskRepo) GetAssigned(_ context.Context, employeeID, taskID string) (*domain.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok || task.EmployeeID != employeeID {
		return nil, pgx.ErrNoRows
	}
	clone := *task
	return &clone, nil
}

func (r *memTaskRepo) ListByEmployer(_ context.Context, employerID string) ([]domain.Task, error) {
	out := []domain.Task{}
	for _, task := range r.tasks {
		if task.EmployerID == employerID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (r *memTaskRepo) ListByEmployee(_ context.Context, employeeID string) ([]domain.Task, error) {
	out := []domain.Task{}
	for _, task := range r.tasks {
		if task.EmployeeID == employeeID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (r *memTaskRepo) DeleteOwned(_ context.Context, employerID, taskID string) error {
	task, ok := r.tasks[taskID]
	if !ok || task.EmployerID != employerID {
		return pgx.ErrNoRows
	}
	delete(r.tasks, taskID)
	return nil
}

// memTokenRepo provides idempotent token issuance.
type memTokenRepo struct {
	byIdentity map[string]string
}

func (r *memTokenRepo) GetOrCreate(_ context.Context, identityID, candidate string) (string, error) {
	if existing, ok := r.byIdentity[identityID]; ok {
		return existing, nil
	}
	r.byIdentity[identityID] = candidate
	return candidate, nil
}

func (r *memTokenRepo) GetByValue(_ context.Context, value string) (*domain.Token, error) {
	for identityID, stored := range r.byIdentity {
		if stored == value {
			return &domain.Token{Value: value, IdentityID: identityID}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	identityRepo := &memIdentityRepo{identities: make(map[string]*domain.Identity)}
	taskRepo := &memTaskRepo{tasks: make(map[string]*domain.Task)}
	tokenRepo := &memTokenRepo{byIdentity: make(map[string]string)}

	cfg := config.Config{Auth: config.AuthConfig{TokenSecret: "secret", BcryptCost: bcrypt.MinCost}}
	authService := service.NewAuthService(cfg, service.AuthDependencies{IdentityRepo: identityRepo, TokenRepo: tokenRepo})
	taskService := service.NewTaskService(service.TaskDependencies{TaskRepo: taskRepo, IdentityRepo: identityRepo})
	workforceService := service.NewWorkforceService(service.WorkforceDependencies{IdentityRepo: identityRepo, BcryptCost: bcrypt.MinCost})

	logger, err := observability.NewLogger(config.LoggerConfig{Level: "error"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Employees:      handlers.NewEmployeesHandler(workforceService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), tokenRepo, identityRepo),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	decoded := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App, phone, password string) string {
	t.Helper()
	resp, _ := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"phone_number": phone, "password": password,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", phone, resp.StatusCode)
	}
	return login(t, app, phone, password)
}

func login(t *testing.T, app *fiber.App, phone, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"phone_number": phone, "password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", phone, resp.StatusCode, body)
	}
	data, _ := body["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in %v", phone, body)
	}
	return token
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	_ = registerAndLogin(t, app, "111", "a")

	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"phone_number": "111", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	errBody, _ := body["error"].(map[string]any)
	if errBody["code"] != "INVALID_CREDENTIALS" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestLogin_Idempotent(t *testing.T) {
	app := newTestApp(t)
	first := registerAndLogin(t, app, "111", "a")
	second := login(t, app, "111", "a")
	if first != second {
		t.Fatalf("two logins returned different tokens")
	}
}

func TestLogin_MissingField(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{"phone_number": "111"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/tasks/", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/tasks/", "garbage-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", resp.StatusCode)
	}
}

func TestTaskLifecycle_EndToEnd(t *testing.T) {
	app := newTestApp(t)
	employerToken := registerAndLogin(t, app, "111", "a")

	// employer adds an employee
	resp, body := doJSON(t, app, http.MethodPost, "/api/employees/", employerToken, map[string]string{
		"phone_number": "222", "password": "b",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add employee: status %d body %v", resp.StatusCode, body)
	}
	employeeID := body["data"].(map[string]any)["id"].(string)

	// duplicate phone is rejected and reported as a conflict
	resp, body = doJSON(t, app, http.MethodPost, "/api/employees/", employerToken, map[string]string{
		"phone_number": "222", "password": "c",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate employee: status %d body %v", resp.StatusCode, body)
	}

	// employer creates a task for the employee
	resp, body = doJSON(t, app, http.MethodPost, "/api/tasks/", employerToken, map[string]string{
		"title": "t", "description": "d", "employee_id": employeeID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create task: status %d body %v", resp.StatusCode, body)
	}
	taskID := body["data"].(map[string]any)["id"].(string)

	// the employee may not create tasks
	employeeToken := login(t, app, "222", "b")
	resp, _ = doJSON(t, app, http.MethodPost, "/api/tasks/", employeeToken, map[string]string{
		"title": "t", "description": "d", "employee_id": employeeID,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("employee create task: expected 403, got %d", resp.StatusCode)
	}

	// the assignee updates the status
	resp, body = doJSON(t, app, http.MethodPatch, "/api/tasks/"+taskID+"/status", employeeToken, map[string]string{
		"status": "finished",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: status %d body %v", resp.StatusCode, body)
	}
	if body["data"].(map[string]any)["status"] != "FINISHED" {
		t.Fatalf("status not applied: %v", body)
	}

	// the owner edits every field at once and gets the contract's 205
	resp, _ = doJSON(t, app, http.MethodPut, "/api/tasks/"+taskID, employerToken, map[string]string{
		"title": "t2", "description": "d2", "status": "blocked", "employee_id": employeeID,
	})
	if resp.StatusCode != http.StatusResetContent {
		t.Fatalf("edit task: expected 205, got %d", resp.StatusCode)
	}

	// a partial edit is rejected
	resp, _ = doJSON(t, app, http.MethodPut, "/api/tasks/"+taskID, employerToken, map[string]string{
		"title": "t3",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("partial edit: expected 400, got %d", resp.StatusCode)
	}

	// another employer cannot delete the task
	otherToken := registerAndLogin(t, app, "999", "z")
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/tasks/"+taskID, otherToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete: expected 404, got %d", resp.StatusCode)
	}

	// the owner still sees it, then deletes it
	resp, body = doJSON(t, app, http.MethodGet, "/api/tasks/", employerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list tasks: status %d", resp.StatusCode)
	}
	if tasks, _ := body["data"].([]any); len(tasks) != 1 {
		t.Fatalf("expected one owned task, got %v", body)
	}
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/tasks/"+taskID, employerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner delete: status %d", resp.StatusCode)
	}
}
