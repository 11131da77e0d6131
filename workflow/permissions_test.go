// workflow/permissions_test.go
package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/models"
)

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(models.RoleAdmin))
	assert.True(t, CanCreate(models.RoleProjectManager))
	assert.True(t, CanCreate(models.RoleMainPMO))
	assert.True(t, CanCreate(models.RoleSubPMO))

	assert.False(t, CanCreate(models.RoleDepartmentDirector))
	assert.False(t, CanCreate(models.RoleExecutive))
	assert.False(t, CanCreate(models.RoleTeamLead))
	assert.False(t, CanCreate(models.RolePending))
}

func TestCanEdit(t *testing.T) {
	for _, isOwn := range []bool{true, false} {
		assert.True(t, CanEdit(models.RoleAdmin, isOwn))
		assert.True(t, CanEdit(models.RoleMainPMO, isOwn))
		assert.True(t, CanEdit(models.RoleSubPMO, isOwn))
		assert.False(t, CanEdit(models.RoleExecutive, isOwn))
		assert.False(t, CanEdit(models.RoleTeamLead, isOwn))
	}
	// Project managers only touch what they own.
	assert.True(t, CanEdit(models.RoleProjectManager, true))
	assert.False(t, CanEdit(models.RoleProjectManager, false))
}

func TestCanApprove(t *testing.T) {
	for _, isOwn := range []bool{true, false} {
		assert.True(t, CanApprove(models.RoleAdmin, isOwn))
		assert.True(t, CanApprove(models.RoleMainPMO, isOwn))
		assert.False(t, CanApprove(models.RoleExecutive, isOwn))
		assert.False(t, CanApprove(models.RoleProjectManager, isOwn))
		assert.False(t, CanApprove(models.RoleDepartmentDirector, isOwn))
	}
	// Self-approval bar for sub PMO.
	assert.True(t, CanApprove(models.RoleSubPMO, false))
	assert.False(t, CanApprove(models.RoleSubPMO, true))
}

func TestCanRequestChanges(t *testing.T) {
	assert.True(t, CanRequestChanges(models.RoleTeamLead))
	assert.True(t, CanRequestChanges(models.RoleProjectManager))
	assert.False(t, CanRequestChanges(models.RoleExecutive))
	assert.False(t, CanRequestChanges(models.RoleDepartmentDirector))
	assert.False(t, CanRequestChanges(models.RolePending))
}

func TestSameDepartment(t *testing.T) {
	deptA := primitive.NewObjectID()
	deptB := primitive.NewObjectID()

	inA := models.User{ID: primitive.NewObjectID(), Role: models.RoleSubPMO, DepartmentID: &deptA}
	assert.True(t, SameDepartment(inA, deptA))
	assert.False(t, SameDepartment(inA, deptB))

	// No department matches nothing, even its zero value.
	floating := models.User{ID: primitive.NewObjectID(), Role: models.RoleExecutive}
	assert.False(t, SameDepartment(floating, deptA))
	assert.False(t, SameDepartment(floating, primitive.ObjectID{}))
}
