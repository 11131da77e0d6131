// workflow/permissions.go
package workflow

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/models"
)

// Pure capability predicates. Department scoping for SUB_PMO edit rights is
// enforced by the caller supplying a department-filtered candidate set; the
// predicates only answer the role question.

// CanCreate reports whether the role may create projects or change requests.
func CanCreate(role models.Role) bool {
	switch role {
	case models.RoleAdmin, models.RoleProjectManager, models.RoleMainPMO, models.RoleSubPMO:
		return true
	}
	return false
}

// CanEdit reports whether the role may edit an entity. Project managers may
// only edit their own.
func CanEdit(role models.Role, isOwn bool) bool {
	switch role {
	case models.RoleAdmin, models.RoleMainPMO, models.RoleSubPMO:
		return true
	case models.RoleProjectManager:
		return isOwn
	}
	return false
}

// CanApprove reports whether the role may approve an entity. A SUB_PMO may
// not approve their own submission; executives are view-only and may never
// approve.
func CanApprove(role models.Role, isOwn bool) bool {
	switch role {
	case models.RoleAdmin, models.RoleMainPMO:
		return true
	case models.RoleSubPMO:
		return !isOwn
	}
	return false
}

// CanRequestChanges reports whether the role may send an entity back for
// rework.
func CanRequestChanges(role models.Role) bool {
	switch role {
	case models.RoleAdmin, models.RoleProjectManager, models.RoleMainPMO, models.RoleSubPMO, models.RoleTeamLead:
		return true
	}
	return false
}

// SameDepartment is exact id equality; there is no department hierarchy.
func SameDepartment(actor models.User, departmentID primitive.ObjectID) bool {
	return actor.InDepartment(departmentID)
}

// canReviewAtSubPMO is the guard for the PENDING_SUB_PMO stage: a SUB_PMO
// reviews only within their own department, MAIN_PMO and ADMIN review
// anywhere.
func canReviewAtSubPMO(role models.Role, sameDepartment bool) bool {
	if role == models.RoleSubPMO && sameDepartment {
		return true
	}
	return role == models.RoleMainPMO || role == models.RoleAdmin
}

// canReviewAtMainPMO is the guard for the PENDING_MAIN_PMO stage.
func canReviewAtMainPMO(role models.Role) bool {
	return role == models.RoleMainPMO || role == models.RoleAdmin
}
