// escalation/resolver_test.go
package escalation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/models"
)

func user(role models.Role, dept *primitive.ObjectID) models.User {
	return models.User{ID: primitive.NewObjectID(), Role: role, DepartmentID: dept}
}

func TestResolveChainOrder(t *testing.T) {
	deptA := primitive.NewObjectID()
	deptB := primitive.NewObjectID()

	subA := user(models.RoleSubPMO, &deptA)
	subB := user(models.RoleSubPMO, &deptB)
	main1 := user(models.RoleMainPMO, &deptB)
	main2 := user(models.RoleMainPMO, nil)
	dirA := user(models.RoleDepartmentDirector, &deptA)
	dirB := user(models.RoleDepartmentDirector, &deptB)
	exec := user(models.RoleExecutive, nil)
	manager := user(models.RoleProjectManager, &deptA)

	// Deliberately shuffled input; the chain imposes its own order.
	users := []models.User{exec, dirB, main2, subB, manager, dirA, subA, main1}

	chain := ResolveChain(deptA, users)
	require.Len(t, chain, 5)
	assert.Equal(t, subA.ID, chain[0].ID)
	assert.Equal(t, main2.ID, chain[1].ID) // main PMOs in input order
	assert.Equal(t, main1.ID, chain[2].ID)
	assert.Equal(t, dirA.ID, chain[3].ID)
	assert.Equal(t, exec.ID, chain[4].ID)
}

func TestResolveChainScopesByDepartment(t *testing.T) {
	deptA := primitive.NewObjectID()
	deptB := primitive.NewObjectID()

	subB := user(models.RoleSubPMO, &deptB)
	dirB := user(models.RoleDepartmentDirector, &deptB)

	chain := ResolveChain(deptA, []models.User{subB, dirB})
	assert.Empty(t, chain, "other department's sub PMO and director are out of scope")
}

func TestResolveChainEmptyUsers(t *testing.T) {
	assert.Empty(t, ResolveChain(primitive.NewObjectID(), nil))
}

// The chain is position-based, not set-based: an account matching two
// filters appears at both positions.
func TestResolveChainDoesNotDeduplicate(t *testing.T) {
	dept := primitive.NewObjectID()
	mainPMO := user(models.RoleMainPMO, &dept)

	// Same person listed twice in the directory (legacy duplicate account).
	chain := ResolveChain(dept, []models.User{mainPMO, mainPMO})
	require.Len(t, chain, 2)
	assert.Equal(t, chain[0].ID, chain[1].ID)
}

func TestUsersWithoutDepartmentNeverMatchScopedTiers(t *testing.T) {
	dept := primitive.NewObjectID()
	floatingSub := user(models.RoleSubPMO, nil)
	floatingDir := user(models.RoleDepartmentDirector, nil)

	chain := ResolveChain(dept, []models.User{floatingSub, floatingDir})
	assert.Empty(t, chain)
}
