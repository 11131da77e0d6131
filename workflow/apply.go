// workflow/apply.go
package workflow

import (
	"fmt"
	"time"

	"github.com/LenoreWoW/Themis-sub003/models"
)

// ApplyChangeRequest carries an approved change request's effect onto its
// project. Runs on value copies; the caller persists both documents
// together or not at all.
//
// Implementation happens exactly once: a second call on the same request
// returns ErrApplyConflict and leaves the project untouched.
func ApplyChangeRequest(cr models.ChangeRequest, p models.Project, now time.Time) (models.ChangeRequest, models.Project, error) {
	if cr.Implemented {
		return cr, p, ErrApplyConflict
	}
	if cr.Status != models.ChangeRequestApproved {
		return cr, p, fmt.Errorf("%w: change request is %s, not %s", ErrInvalidTransition, cr.Status, models.ChangeRequestApproved)
	}

	switch cr.Type {
	case models.ChangeTypeSchedule:
		if cr.NewEndDate == nil {
			return cr, p, fmt.Errorf("%w: schedule change has no new end date", ErrValidationFailed)
		}
		p.EndDate = cr.NewEndDate
	case models.ChangeTypeBudget:
		if cr.NewBudget == nil {
			return cr, p, fmt.Errorf("%w: budget change has no new budget", ErrValidationFailed)
		}
		p.Budget = *cr.NewBudget
	case models.ChangeTypeStatus:
		if cr.NewStatus == "" {
			return cr, p, fmt.Errorf("%w: status change has no new status", ErrValidationFailed)
		}
		p.Status = cr.NewStatus
	case models.ChangeTypeClosure:
		p.Status = models.ProjectCompleted
	case models.ChangeTypeResource, models.ChangeTypeScope, models.ChangeTypeOther:
		// No project effect defined for these types; the request is still
		// marked implemented so it cannot be replayed later with different
		// semantics.
	default:
		return cr, p, fmt.Errorf("%w: unknown change request type %q", ErrValidationFailed, cr.Type)
	}

	cr.Implemented = true
	implementedAt := now
	cr.ImplementedAt = &implementedAt
	cr.UpdatedAt = now
	p.UpdatedAt = now
	return cr, p, nil
}
