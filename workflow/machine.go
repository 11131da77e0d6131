// workflow/machine.go
package workflow

import (
	"fmt"

	"github.com/LenoreWoW/Themis-sub003/models"
)

// DenyReason is an internal diagnostic. The public contract of the machine
// is a single undistinguished Denied outcome; the reason only drives
// user-facing messages ("you may not do this" vs "not a valid request").
type DenyReason int

const (
	DenyNone DenyReason = iota
	// DenyExecutive: executives are view-only for every transition.
	DenyExecutive
	// DenyNotAuthorized: an edge exists for the action but the actor's role
	// fails the stage guard.
	DenyNotAuthorized
	// DenyNoTransition: no edge exists for (status, action) regardless of
	// actor.
	DenyNoTransition
)

// Decision is the outcome of ComputeNextStatus: either the next status, or
// a denial with its diagnostic reason.
type Decision struct {
	Allowed bool
	Next    Status
	Reason  DenyReason
}

// Err translates a denial into the error taxonomy. Allowed decisions
// return nil.
func (d Decision) Err() error {
	switch d.Reason {
	case DenyNone:
		return nil
	case DenyExecutive:
		return fmt.Errorf("%w: executives are view-only", ErrAuthorizationDenied)
	case DenyNotAuthorized:
		return fmt.Errorf("%w: role lacks review rights at this stage", ErrAuthorizationDenied)
	default:
		return fmt.Errorf("%w: no such transition", ErrInvalidTransition)
	}
}

func allow(next Status) Decision {
	return Decision{Allowed: true, Next: next}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// ComputeNextStatus computes the next lifecycle status for an approvable
// entity. Pure and deterministic: identical inputs always yield the same
// Decision.
//
// The DRAFT and APPROVED_BY_SUB_PMO rows advance unconditionally for any
// actor and action; these are the only ungated edges. Submission is
// system-driven, so the rows stay open rather than gated by role.
func ComputeNextStatus(current Status, role models.Role, action models.ReviewAction, sameDepartment bool) Decision {
	if role == models.RoleExecutive {
		return deny(DenyExecutive)
	}

	switch current {
	case StatusDraft:
		return allow(StatusPendingSubPMO)

	case StatusPendingSubPMO:
		if !canReviewAtSubPMO(role, sameDepartment) {
			return deny(DenyNotAuthorized)
		}
		switch action {
		case models.ActionApprove:
			return allow(StatusApprovedBySubPMO)
		case models.ActionReject:
			return allow(StatusRejectedBySubPMO)
		case models.ActionRequestChanges:
			return allow(StatusChangesRequested)
		}
		return deny(DenyNoTransition)

	case StatusApprovedBySubPMO:
		return allow(StatusPendingMainPMO)

	case StatusPendingMainPMO:
		if !canReviewAtMainPMO(role) {
			return deny(DenyNotAuthorized)
		}
		switch action {
		case models.ActionApprove:
			return allow(StatusApproved)
		case models.ActionReject:
			return allow(StatusRejected)
		case models.ActionRequestChanges:
			return allow(StatusChangesRequested)
		}
		return deny(DenyNoTransition)

	case StatusChangesRequested:
		if action == models.ActionSubmit {
			return allow(StatusPendingSubPMO)
		}
		return deny(DenyNoTransition)
	}

	// Terminal and unknown statuses have no outgoing edges.
	return deny(DenyNoTransition)
}
