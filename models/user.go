// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the fixed five-tier hierarchy plus supporting roles.
type Role string

const (
	RoleAdmin              Role = "ADMIN"
	RoleProjectManager     Role = "PROJECT_MANAGER"
	RoleSubPMO             Role = "SUB_PMO"
	RoleMainPMO            Role = "MAIN_PMO"
	RoleDepartmentDirector Role = "DEPARTMENT_DIRECTOR"
	RoleExecutive          Role = "EXECUTIVE"
	RoleTeamLead           Role = "TEAM_LEAD"
	RolePending            Role = "PENDING"
)

type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FirstName    string              `bson:"firstName" json:"firstName"`
	LastName     string              `bson:"lastName" json:"lastName"`
	Email        string              `bson:"email" json:"email"`
	PasswordHash string              `bson:"passwordHash" json:"-"`
	Role         Role                `bson:"role" json:"role"`
	DepartmentID *primitive.ObjectID `bson:"departmentId,omitempty" json:"departmentId,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// InDepartment reports whether the user belongs to the given department.
// Users without a department (executives, pending accounts) match nothing.
func (u *User) InDepartment(departmentID primitive.ObjectID) bool {
	return u.DepartmentID != nil && *u.DepartmentID == departmentID
}
