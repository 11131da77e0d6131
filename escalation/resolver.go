// escalation/resolver.go

// Package escalation resolves the ordered management chain notified when a
// time-bound obligation on a project is missed or approaching.
package escalation

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/models"
)

// ResolveChain returns the stakeholders for a department's escalations, in
// priority order: the department's Sub-PMOs, every Main-PMO, the
// department's directors, then every executive.
//
// The chain is not deduplicated: an account matching two role filters
// appears twice and will be notified twice.
func ResolveChain(departmentID primitive.ObjectID, users []models.User) []models.User {
	var chain []models.User
	for _, u := range users {
		if u.Role == models.RoleSubPMO && u.InDepartment(departmentID) {
			chain = append(chain, u)
		}
	}
	for _, u := range users {
		if u.Role == models.RoleMainPMO {
			chain = append(chain, u)
		}
	}
	for _, u := range users {
		if u.Role == models.RoleDepartmentDirector && u.InDepartment(departmentID) {
			chain = append(chain, u)
		}
	}
	for _, u := range users {
		if u.Role == models.RoleExecutive {
			chain = append(chain, u)
		}
	}
	return chain
}
