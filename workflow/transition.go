// workflow/transition.go
package workflow

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/models"
)

// TransitionRequest carries everything a transition needs: the acting user,
// what they did, and the injected wall clock.
type TransitionRequest struct {
	Actor          models.User
	Action         models.ReviewAction
	Comments       string
	SameDepartment bool
	Now            time.Time
}

func (req TransitionRequest) reviewRecord() models.ReviewRecord {
	return models.ReviewRecord{
		ID:           primitive.NewObjectID(),
		Action:       req.Action,
		Comments:     req.Comments,
		Timestamp:    req.Now,
		ReviewerID:   req.Actor.ID,
		ReviewerName: req.Actor.FullName(),
		ReviewerRole: req.Actor.Role,
	}
}

// validate enforces field requirements once a transition is otherwise
// accepted. A rejection or change request must say why.
func (req TransitionRequest) validate() error {
	switch req.Action {
	case models.ActionReject, models.ActionRequestChanges:
		if strings.TrimSpace(req.Comments) == "" {
			return fmt.Errorf("%w: %s requires a non-empty comment", ErrValidationFailed, req.Action)
		}
	}
	return nil
}

// TransitionProject runs one accepted transition against a copy of the
// project: review record prepended, then status changed, returned as a
// single value so the caller persists the whole document or nothing.
func TransitionProject(p models.Project, req TransitionRequest) (models.Project, error) {
	current, ok := FromProjectStatus(p.Status)
	if !ok {
		return p, fmt.Errorf("%w: project status %q is outside the approval lifecycle", ErrInvalidTransition, p.Status)
	}

	decision := ComputeNextStatus(current, req.Actor.Role, req.Action, req.SameDepartment)
	if !decision.Allowed {
		return p, decision.Err()
	}
	if err := req.validate(); err != nil {
		return p, err
	}

	next, ok := decision.Next.ProjectStatus()
	if !ok {
		return p, fmt.Errorf("%w: status %q has no project form", ErrInvalidTransition, decision.Next)
	}

	p.ReviewHistory = append([]models.ReviewRecord{req.reviewRecord()}, p.ReviewHistory...)
	p.Status = next
	p.UpdatedAt = req.Now
	return p, nil
}

// TransitionChangeRequest is the change-request counterpart of
// TransitionProject, running the same machine over the change-request
// status vocabulary.
func TransitionChangeRequest(cr models.ChangeRequest, req TransitionRequest) (models.ChangeRequest, error) {
	current, ok := FromChangeRequestStatus(cr.Status)
	if !ok {
		return cr, fmt.Errorf("%w: unknown change request status %q", ErrInvalidTransition, cr.Status)
	}

	decision := ComputeNextStatus(current, req.Actor.Role, req.Action, req.SameDepartment)
	if !decision.Allowed {
		return cr, decision.Err()
	}
	if err := req.validate(); err != nil {
		return cr, err
	}

	next, ok := decision.Next.ChangeRequestStatus()
	if !ok {
		return cr, fmt.Errorf("%w: status %q has no change request form", ErrInvalidTransition, decision.Next)
	}

	cr.ReviewHistory = append([]models.ReviewRecord{req.reviewRecord()}, cr.ReviewHistory...)
	cr.Status = next
	cr.UpdatedAt = req.Now
	return cr, nil
}

// WithdrawChangeRequest retires a pending change request. Only the
// requester or an admin may withdraw, and only while the request is still
// in flight; withdrawal is not a machine edge so it leaves no review
// record.
func WithdrawChangeRequest(cr models.ChangeRequest, actor models.User, now time.Time) (models.ChangeRequest, error) {
	if actor.ID != cr.RequestedBy && actor.Role != models.RoleAdmin {
		return cr, fmt.Errorf("%w: only the requester or an admin may withdraw", ErrAuthorizationDenied)
	}
	current, ok := FromChangeRequestStatus(cr.Status)
	if !ok {
		return cr, fmt.Errorf("%w: unknown change request status %q", ErrInvalidTransition, cr.Status)
	}
	if current.Terminal() {
		return cr, fmt.Errorf("%w: cannot withdraw from %s", ErrInvalidTransition, cr.Status)
	}

	cr.Status = models.ChangeRequestWithdrawn
	cr.UpdatedAt = now
	return cr, nil
}
