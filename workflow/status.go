// workflow/status.go
package workflow

import (
	"fmt"

	"github.com/LenoreWoW/Themis-sub003/models"
)

// Status is the single approval vocabulary the state machine runs on.
// Projects and change requests each expose their own string enum on the
// wire; the mapping functions below are the only place the two
// vocabularies meet, and every case is spelled out so a new status cannot
// be added without extending the mapping.
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusPendingSubPMO    Status = "PENDING_SUB_PMO"
	StatusApprovedBySubPMO Status = "APPROVED_BY_SUB_PMO"
	StatusRejectedBySubPMO Status = "REJECTED_BY_SUB_PMO"
	StatusPendingMainPMO   Status = "PENDING_MAIN_PMO"
	StatusApproved         Status = "APPROVED"
	StatusRejected         Status = "REJECTED"
	StatusChangesRequested Status = "CHANGES_REQUESTED"
	StatusWithdrawn        Status = "WITHDRAWN"
)

// Terminal reports whether no further transitions exist from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusRejectedBySubPMO, StatusWithdrawn:
		return true
	}
	return false
}

// FromProjectStatus maps a project status into the approval vocabulary.
// Operational statuses (IN_PROGRESS, ON_HOLD, COMPLETED, CANCELLED) are not
// part of the approval lifecycle and return false.
func FromProjectStatus(s models.ProjectStatus) (Status, bool) {
	switch s {
	case models.ProjectDraft:
		return StatusDraft, true
	case models.ProjectPendingSubPMO:
		return StatusPendingSubPMO, true
	case models.ProjectApprovedBySubPMO:
		return StatusApprovedBySubPMO, true
	case models.ProjectRejectedBySubPMO:
		return StatusRejectedBySubPMO, true
	case models.ProjectPendingMainPMO:
		return StatusPendingMainPMO, true
	case models.ProjectApproved:
		return StatusApproved, true
	case models.ProjectRejected:
		return StatusRejected, true
	case models.ProjectChangesRequested:
		return StatusChangesRequested, true
	case models.ProjectInProgress, models.ProjectOnHold, models.ProjectCompleted, models.ProjectCancelled:
		return "", false
	}
	return "", false
}

// ProjectStatus maps back to the project enum. WITHDRAWN has no project
// counterpart and returns false.
func (s Status) ProjectStatus() (models.ProjectStatus, bool) {
	switch s {
	case StatusDraft:
		return models.ProjectDraft, true
	case StatusPendingSubPMO:
		return models.ProjectPendingSubPMO, true
	case StatusApprovedBySubPMO:
		return models.ProjectApprovedBySubPMO, true
	case StatusRejectedBySubPMO:
		return models.ProjectRejectedBySubPMO, true
	case StatusPendingMainPMO:
		return models.ProjectPendingMainPMO, true
	case StatusApproved:
		return models.ProjectApproved, true
	case StatusRejected:
		return models.ProjectRejected, true
	case StatusChangesRequested:
		return models.ProjectChangesRequested, true
	case StatusWithdrawn:
		return "", false
	}
	return "", false
}

// FromChangeRequestStatus maps a change-request status into the approval
// vocabulary. The change-request enum is covered in full.
func FromChangeRequestStatus(s models.ChangeRequestStatus) (Status, bool) {
	switch s {
	case models.ChangeRequestDraft:
		return StatusDraft, true
	case models.ChangeRequestPendingSubPMO:
		return StatusPendingSubPMO, true
	case models.ChangeRequestApprovedBySubPMO:
		return StatusApprovedBySubPMO, true
	case models.ChangeRequestRejectedBySubPMO:
		return StatusRejectedBySubPMO, true
	case models.ChangeRequestPendingMainPMO:
		return StatusPendingMainPMO, true
	case models.ChangeRequestApproved:
		return StatusApproved, true
	case models.ChangeRequestRejected:
		return StatusRejected, true
	case models.ChangeRequestChangesRequested:
		return StatusChangesRequested, true
	case models.ChangeRequestWithdrawn:
		return StatusWithdrawn, true
	}
	return "", false
}

// ChangeRequestStatus maps back to the change-request enum. Every approval
// status has a change-request counterpart.
func (s Status) ChangeRequestStatus() (models.ChangeRequestStatus, bool) {
	switch s {
	case StatusDraft:
		return models.ChangeRequestDraft, true
	case StatusPendingSubPMO:
		return models.ChangeRequestPendingSubPMO, true
	case StatusApprovedBySubPMO:
		return models.ChangeRequestApprovedBySubPMO, true
	case StatusRejectedBySubPMO:
		return models.ChangeRequestRejectedBySubPMO, true
	case StatusPendingMainPMO:
		return models.ChangeRequestPendingMainPMO, true
	case StatusApproved:
		return models.ChangeRequestApproved, true
	case StatusRejected:
		return models.ChangeRequestRejected, true
	case StatusChangesRequested:
		return models.ChangeRequestChangesRequested, true
	case StatusWithdrawn:
		return models.ChangeRequestWithdrawn, true
	}
	return "", false
}

func (s Status) String() string { return string(s) }

// AllStatuses lists the full approval vocabulary; used by tests to sweep
// the transition grid.
func AllStatuses() []Status {
	return []Status{
		StatusDraft,
		StatusPendingSubPMO,
		StatusApprovedBySubPMO,
		StatusRejectedBySubPMO,
		StatusPendingMainPMO,
		StatusApproved,
		StatusRejected,
		StatusChangesRequested,
		StatusWithdrawn,
	}
}

// ParseStatus validates a wire string against the approval vocabulary.
func ParseStatus(raw string) (Status, error) {
	for _, s := range AllStatuses() {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidationFailed, raw)
}
