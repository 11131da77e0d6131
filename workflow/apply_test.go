// workflow/apply_test.go
package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/models"
)

func approvedCR(typ models.ChangeRequestType) models.ChangeRequest {
	return models.ChangeRequest{
		ID:     primitive.NewObjectID(),
		Type:   typ,
		Status: models.ChangeRequestApproved,
	}
}

func TestApplyScheduleChange(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	newEnd := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	cr := approvedCR(models.ChangeTypeSchedule)
	cr.NewEndDate = &newEnd
	p := models.Project{Status: models.ProjectApproved}

	gotCR, gotP, err := ApplyChangeRequest(cr, p, now)
	require.NoError(t, err)
	require.NotNil(t, gotP.EndDate)
	assert.Equal(t, newEnd, *gotP.EndDate)
	assert.True(t, gotCR.Implemented)
	require.NotNil(t, gotCR.ImplementedAt)
	assert.Equal(t, now, *gotCR.ImplementedAt)
	assert.Equal(t, now, gotP.UpdatedAt)
}

func TestApplyBudgetChange(t *testing.T) {
	budget := 250000.0
	cr := approvedCR(models.ChangeTypeBudget)
	cr.NewBudget = &budget
	p := models.Project{Budget: 100000}

	_, gotP, err := ApplyChangeRequest(cr, p, time.Now())
	require.NoError(t, err)
	assert.Equal(t, budget, gotP.Budget)
}

func TestApplyStatusChange(t *testing.T) {
	cr := approvedCR(models.ChangeTypeStatus)
	cr.NewStatus = models.ProjectOnHold
	p := models.Project{Status: models.ProjectInProgress}

	_, gotP, err := ApplyChangeRequest(cr, p, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.ProjectOnHold, gotP.Status)
}

func TestApplyClosure(t *testing.T) {
	cr := approvedCR(models.ChangeTypeClosure)
	p := models.Project{Status: models.ProjectInProgress}

	_, gotP, err := ApplyChangeRequest(cr, p, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.ProjectCompleted, gotP.Status)
}

// Scope, resource, and other changes have no project effect but still mark
// the request implemented so it cannot be replayed.
func TestApplyNoEffectTypesStillImplement(t *testing.T) {
	endDate := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, typ := range []models.ChangeRequestType{
		models.ChangeTypeScope,
		models.ChangeTypeResource,
		models.ChangeTypeOther,
	} {
		cr := approvedCR(typ)
		p := models.Project{Status: models.ProjectInProgress, Budget: 5000, EndDate: &endDate}

		gotCR, gotP, err := ApplyChangeRequest(cr, p, time.Now())
		require.NoError(t, err, "%s", typ)
		assert.True(t, gotCR.Implemented)
		assert.Equal(t, p.Status, gotP.Status)
		assert.Equal(t, p.Budget, gotP.Budget)
		assert.Equal(t, p.EndDate, gotP.EndDate)
	}
}

func TestApplyIsExactlyOnce(t *testing.T) {
	budget := 9000.0
	cr := approvedCR(models.ChangeTypeBudget)
	cr.NewBudget = &budget
	p := models.Project{Budget: 100}

	gotCR, gotP, err := ApplyChangeRequest(cr, p, time.Now())
	require.NoError(t, err)

	// Replay against the implemented copy: conflict, project untouched.
	replayCR, replayP, err := ApplyChangeRequest(gotCR, gotP, time.Now())
	assert.ErrorIs(t, err, ErrApplyConflict)
	assert.Equal(t, gotCR, replayCR)
	assert.Equal(t, gotP, replayP)
}

func TestApplyRequiresApprovedStatus(t *testing.T) {
	for _, status := range []models.ChangeRequestStatus{
		models.ChangeRequestPendingSubPMO,
		models.ChangeRequestPendingMainPMO,
		models.ChangeRequestRejected,
		models.ChangeRequestWithdrawn,
	} {
		cr := approvedCR(models.ChangeTypeClosure)
		cr.Status = status
		_, _, err := ApplyChangeRequest(cr, models.Project{}, time.Now())
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s", status)
	}
}

func TestApplyMissingPayloadFails(t *testing.T) {
	tests := []struct {
		name string
		cr   models.ChangeRequest
	}{
		{"schedule without end date", approvedCR(models.ChangeTypeSchedule)},
		{"budget without amount", approvedCR(models.ChangeTypeBudget)},
		{"status without target", approvedCR(models.ChangeTypeStatus)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCR, _, err := ApplyChangeRequest(tt.cr, models.Project{}, time.Now())
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.False(t, gotCR.Implemented)
		})
	}
}

func TestApplyUnknownTypeFails(t *testing.T) {
	cr := approvedCR(models.ChangeRequestType("MYSTERY"))
	_, _, err := ApplyChangeRequest(cr, models.Project{}, time.Now())
	assert.ErrorIs(t, err, ErrValidationFailed)
}
