// notify/snapshot.go
package notify

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/models"
)

// Snapshot is the in-memory view of the domain one engine tick evaluates.
// Rules never reach outside it.
type Snapshot struct {
	Projects       []models.Project
	ChangeRequests []models.ChangeRequest
	Assignments    []models.Assignment
	Meetings       []models.Meeting
	WeeklyUpdates  []models.WeeklyUpdate
	Users          []models.User
}

// Source supplies the snapshot for each tick. Implementations should fetch
// each section independently and return whatever they could gather along
// with a joined error; a failed section yields an empty slice, never an
// aborted tick.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// UsersByRole returns users holding any of the given roles, in snapshot
// order.
func (s Snapshot) UsersByRole(roles ...models.Role) []models.User {
	var out []models.User
	for _, u := range s.Users {
		for _, r := range roles {
			if u.Role == r {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

// DepartmentStaff returns users of the given roles scoped to a department.
func (s Snapshot) DepartmentStaff(departmentID primitive.ObjectID, roles ...models.Role) []models.User {
	var out []models.User
	for _, u := range s.UsersByRole(roles...) {
		if u.InDepartment(departmentID) {
			out = append(out, u)
		}
	}
	return out
}

// HasWeeklyUpdate reports whether a project has an update recorded for the
// given ISO week.
func (s Snapshot) HasWeeklyUpdate(projectID primitive.ObjectID, isoYear, isoWeek int) bool {
	for _, u := range s.WeeklyUpdates {
		if u.ProjectID == projectID && u.ISOYear == isoYear && u.ISOWeek == isoWeek {
			return true
		}
	}
	return false
}
