package auth

import (
	"github.com/spec-kit/workforce-tasks/internal/domain"
	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

// Operation categorizes the mutations and reads the policy gates.
type Operation string

const (
	// OpManageTasks covers create, edit and delete of tasks.
	OpManageTasks Operation = "tasks:manage"
	// OpUpdateTaskStatus covers status changes on an assigned task.
	OpUpdateTaskStatus Operation = "tasks:status"
	// OpListOwnTasks covers listing the caller's own task relation.
	OpListOwnTasks Operation = "tasks:list"
	// OpManageEmployees covers create, edit, delete and list of employees.
	OpManageEmployees Operation = "employees:manage"
)

// policy is the stateless (role, operation) decision table. Ownership is a
// second predicate checked per operation by the services; both must hold.
var policy = map[domain.Role]map[Operation]bool{
	domain.RoleEmployer: {
		OpManageTasks:     true,
		OpListOwnTasks:    true,
		OpManageEmployees: true,
	},
	domain.RoleEmployee: {
		OpUpdateTaskStatus: true,
		OpListOwnTasks:     true,
	},
}

// Check returns nil when the role is allowed to perform the operation.
func Check(role domain.Role, op Operation) error {
	if policy[role][op] {
		return nil
	}
	return apperrors.NewForbidden("operation not permitted for role")
}
