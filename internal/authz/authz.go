// Package authz is the single place access decisions are made. Every domain
// operation asks Decide for a role/resource/action outcome before
// touching the repositories; collection reads additionally apply the
// returned scope. Decisions are pure functions of the token claims, so the
// whole table is unit-testable without a database.
package authz

import (
	"github.com/bukhari-academy/academy-api/internal/models"
)

// Resource enumerates everything an access decision can be about.
type Resource int

const (
	ResourceTeacher Resource = iota
	ResourceGroup
	ResourceStudent
	ResourceCredential
	ResourceGrade
	ResourceBonus
	ResourceNews
	ResourceReport
)

// Action enumerates the operations on a resource.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Scope narrows an allowed read to the caller's owned records.
type Scope int

const (
	// ScopeNone: the decision carries no scoping (writes, or denials).
	ScopeNone Scope = iota
	// ScopeAll: every record is visible.
	ScopeAll
	// ScopeOwnedGroups: records belonging to the caller's owned groups.
	ScopeOwnedGroups
	// ScopeSelf: exactly the caller's own record.
	ScopeSelf
)

// Decision is the outcome of a table lookup.
type Decision struct {
	Allowed bool
	Scope   Scope
}

var (
	deny     = Decision{}
	allowAll = Decision{Allowed: true, Scope: ScopeAll}
	allow    = Decision{Allowed: true, Scope: ScopeNone}
	owned    = Decision{Allowed: true, Scope: ScopeOwnedGroups}
	self     = Decision{Allowed: true, Scope: ScopeSelf}
)

// Decide resolves the static permission table. Roles outside the closed set
// are denied everything.
func Decide(role models.UserRole, resource Resource, action Action) Decision {
	switch role {
	case models.RoleAdmin:
		return decideAdmin(resource, action)
	case models.RoleTeacher:
		return decideTeacher(resource, action)
	case models.RoleStudent:
		return decideStudent(resource, action)
	}
	return deny
}

func decideAdmin(resource Resource, action Action) Decision {
	switch resource {
	case ResourceTeacher, ResourceGroup, ResourceStudent, ResourceCredential,
		ResourceGrade, ResourceBonus, ResourceNews, ResourceReport:
		if action == ActionRead {
			return allowAll
		}
		return allow
	}
	return deny
}

func decideTeacher(resource Resource, action Action) Decision {
	switch resource {
	case ResourceGroup:
		if action == ActionRead {
			return owned
		}
	case ResourceStudent:
		if action == ActionRead {
			return owned
		}
	case ResourceGrade, ResourceBonus:
		// Teachers read grades and bonuses of any student, not only their
		// own groups. This broad grant is intentional, preserved behavior.
		switch action {
		case ActionRead:
			return allowAll
		case ActionCreate:
			return allow
		}
	case ResourceNews:
		if action == ActionRead {
			return allowAll
		}
	}
	return deny
}

func decideStudent(resource Resource, action Action) Decision {
	switch resource {
	case ResourceStudent:
		switch action {
		case ActionRead:
			return self
		case ActionUpdate:
			// Self-service profile edits over a restricted field set.
			return self
		}
	case ResourceGrade, ResourceBonus:
		if action == ActionRead {
			return self
		}
	case ResourceNews:
		if action == ActionRead {
			return allowAll
		}
	}
	return deny
}

// CanAccessStudent resolves a decision's scope against a specific student
// id. For ScopeSelf the claims must carry the caller's own student context.
// An out-of-scope instance is a Forbidden outcome, never NotFound.
func CanAccessStudent(d Decision, claims *models.JWTClaims, studentID string) bool {
	if !d.Allowed {
		return false
	}
	switch d.Scope {
	case ScopeAll, ScopeNone:
		return true
	case ScopeSelf:
		return claims != nil && claims.Student != nil && claims.Student.ID == studentID
	case ScopeOwnedGroups:
		// Group membership is resolved in the repository filter; a direct
		// instance check needs the caller's teacher id downstream.
		return claims != nil && claims.TeacherID != nil
	}
	return false
}
