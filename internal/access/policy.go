// Package access holds the pure access-control policy for the organizer.
//
// Every decision is a side-effect-free function over the actor and the
// record in question. Malformed input never panics or errors; it simply
// denies. Callers translate a false result into their AccessDenied failure.
package access

import (
	"github.com/hearthhub/hearthhub/internal/models"
)

// CanRead reports whether the actor may view the todo.
// Creators and assignees can read.
func CanRead(actor *models.User, todo *models.Todo) bool {
	if actor == nil || todo == nil {
		return false
	}
	return actor.ID == todo.CreatedBy || actor.ID == todo.AssignedTo
}

// CanWrite reports whether the actor may mutate the todo's content or
// status. Same rule as read: the assignee is trusted to update their
// own work.
func CanWrite(actor *models.User, todo *models.Todo) bool {
	return CanRead(actor, todo)
}

// CanDelete reports whether the actor may hard-delete the todo.
// Only the creator or an admin of the todo's own family; the assignee
// alone cannot, and neither can an admin of another family.
func CanDelete(actor *models.User, todo *models.Todo) bool {
	if actor == nil || todo == nil {
		return false
	}
	if actor.ID == todo.CreatedBy {
		return true
	}
	return actor.Role == models.RoleAdmin &&
		actor.FamilyID != nil && *actor.FamilyID == todo.FamilyID
}

// CanManageFamily reports whether the actor may administer the family
// (regenerate the join code, change settings).
func CanManageFamily(actor *models.User, family *models.Family) bool {
	if actor == nil || family == nil {
		return false
	}
	return actor.ID == family.AdminUserID
}
