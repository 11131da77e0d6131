// notify/rules.go
package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LenoreWoW/Themis-sub003/escalation"
	"github.com/LenoreWoW/Themis-sub003/models"
)

// Rule is one stateless evaluator: a pure function of the snapshot and the
// clock. Rules are independent and may run in any order; the engine
// concatenates their output.
//
// None of the time-windowed rules track when they last fired. Invoking the
// engine more often than a rule's window width re-emits inside the window;
// that duplication is the accepted behavior unless dedup is switched on in
// the engine config.
type Rule interface {
	Name() string
	Evaluate(snap Snapshot, now time.Time) []models.Notification
}

func newNotification(now time.Time, userID string, typ models.NotificationType, title, message, relatedID, relatedType string) models.Notification {
	return models.Notification{
		ID:              uuid.NewString(),
		UserID:          userID,
		Type:            typ,
		Title:           title,
		Message:         message,
		RelatedItemID:   relatedID,
		RelatedItemType: relatedType,
		CreatedAt:       now,
	}
}

// isoDay numbers weekdays Monday=1 through Sunday=7, matching ISO-8601.
func isoDay(t time.Time) int {
	d := int(t.Weekday())
	if d == 0 {
		d = 7
	}
	return d
}

// NewAssignmentRule notifies an assignee of their task.
type NewAssignmentRule struct{}

func (NewAssignmentRule) Name() string { return "new_assignment" }

func (NewAssignmentRule) Evaluate(snap Snapshot, now time.Time) []models.Notification {
	var out []models.Notification
	for _, a := range snap.Assignments {
		if a.AssigneeID == nil {
			continue
		}
		out = append(out, newNotification(now, a.AssigneeID.Hex(), models.NotifyTaskAssigned,
			"New assignment",
			fmt.Sprintf("You have been assigned: %s", a.Title),
			a.ID.Hex(), "assignment"))
	}
	return out
}

// CompletionNotifyRule tells the assigner when their task is done. Reuses
// the TASK_ASSIGNED type for completion, matching the existing wire
// contract.
type CompletionNotifyRule struct{}

func (CompletionNotifyRule) Name() string { return "completion_notify" }

func (CompletionNotifyRule) Evaluate(snap Snapshot, now time.Time) []models.Notification {
	var out []models.Notification
	for _, a := range snap.Assignments {
		if a.Status != models.AssignmentCompleted {
			continue
		}
		out = append(out, newNotification(now, a.AssignedBy.Hex(), models.NotifyTaskAssigned,
			"Assignment completed",
			fmt.Sprintf("%s has been completed", a.Title),
			a.ID.Hex(), "assignment"))
	}
	return out
}

// ApprovalRequiredRule alerts the reviewers whose queue an item sits in:
// the department's Sub-PMOs (plus Main-PMO and admins, who may review any
// stage) while pending first-tier review, Main-PMO and admins while pending
// second-tier review.
type ApprovalRequiredRule struct{}

func (ApprovalRequiredRule) Name() string { return "approval_required" }

func (ApprovalRequiredRule) Evaluate(snap Snapshot, now time.Time) []models.Notification {
	var out []models.Notification

	emit := func(title, message, relatedID, relatedType string, approvers []models.User) {
		for _, u := range approvers {
			out = append(out, newNotification(now, u.ID.Hex(), models.NotifyApprovalNeeded,
				title, message, relatedID, relatedType))
		}
	}

	for _, p := range snap.Projects {
		switch p.Status {
		case models.ProjectPendingSubPMO:
			approvers := append(snap.DepartmentStaff(p.DepartmentID, models.RoleSubPMO),
				snap.UsersByRole(models.RoleMainPMO, models.RoleAdmin)...)
			emit("Approval needed", fmt.Sprintf("Project %q is awaiting Sub-PMO review", p.Title),
				p.ID.Hex(), "project", approvers)
		case models.ProjectPendingMainPMO:
			emit("Approval needed", fmt.Sprintf("Project %q is awaiting Main-PMO review", p.Title),
				p.ID.Hex(), "project", snap.UsersByRole(models.RoleMainPMO, models.RoleAdmin))
		}
	}

	for _, cr := range snap.ChangeRequests {
		switch cr.Status {
		case models.ChangeRequestPendingSubPMO:
			approvers := append(snap.DepartmentStaff(cr.DepartmentID, models.RoleSubPMO),
				snap.UsersByRole(models.RoleMainPMO, models.RoleAdmin)...)
			emit("Approval needed", fmt.Sprintf("Change request %q is awaiting Sub-PMO review", cr.Title),
				cr.ID.Hex(), "change_request", approvers)
		case models.ChangeRequestPendingMainPMO:
			emit("Approval needed", fmt.Sprintf("Change request %q is awaiting Main-PMO review", cr.Title),
				cr.ID.Hex(), "change_request", snap.UsersByRole(models.RoleMainPMO, models.RoleAdmin))
		}
	}

	return out
}

// ApprovalOutcomeRule tells a requester their change request was decided.
type ApprovalOutcomeRule struct{}

func (ApprovalOutcomeRule) Name() string { return "approval_outcome" }

func (ApprovalOutcomeRule) Evaluate(snap Snapshot, now time.Time) []models.Notification {
	var out []models.Notification
	for _, cr := range snap.ChangeRequests {
		switch cr.Status {
		case models.ChangeRequestApproved:
			out = append(out, newNotification(now, cr.RequestedBy.Hex(), models.NotifyChangeRequestApproved,
				"Change request approved",
				fmt.Sprintf("Your change request %q was approved", cr.Title),
				cr.ID.Hex(), "change_request"))
		case models.ChangeRequestRejected, models.ChangeRequestRejectedBySubPMO:
			out = append(out, newNotification(now, cr.RequestedBy.Hex(), models.NotifyChangeRequestRejected,
				"Change request rejected",
				fmt.Sprintf("Your change request %q was rejected", cr.Title),
				cr.ID.Hex(), "change_request"))
		}
	}
	return out
}

func projectActive(p models.Project) bool {
	return p.Status != models.ProjectCompleted && p.Status != models.ProjectCancelled
}

// WeeklyUpdateDeadlineRule fires on the designated weekday only: one
// UPDATE_DUE per manager stating how many of their projects still need this
// week's update.
type WeeklyUpdateDeadlineRule struct {
	Weekday time.Weekday
}

func (WeeklyUpdateDeadlineRule) Name() string { return "weekly_update_deadline" }

func (r WeeklyUpdateDeadlineRule) Evaluate(snap Snapshot, now time.Time) []models.Notification {
	if now.Weekday() != r.Weekday {
		return nil
	}
	isoYear, isoWeek := now.ISOWeek()

	pending := make(map[string]int)
	for _, p := range snap.Projects {
		if !projectActive(p) || snap.HasWeeklyUpdate(p.ID, isoYear, isoWeek) {
			continue
		}
		pending[p.ManagerID.Hex()]++
	}

	var out []models.Notification
	for managerID, count := range pending {
		out = append(out, newNotification(now, managerID, models.NotifyUpdateDue,
			"Weekly updates due today",
			fmt.Sprintf("%d of your projects still need this week's update", count),
			"", ""))
	}
	return out
}

// MissedWeeklyUpdateRule escalates projects with no update record for the
// current ISO week once the deadline weekday has passed.
type MissedWeeklyUpdateRule struct {
	Weekday time.Weekday
}

func (MissedWeeklyUpdateRule) Name() string { return "missed_weekly_update" }

func (r MissedWeeklyUpdateRule) Evaluate(snap Snapshot, now time.Time) []models.Notification {
	if isoDay(now) <= isoDayOf(r.Weekday) {
		return nil
	}
	isoYear, isoWeek := now.ISOWeek()

	var out []models.Notification
	for _, p := range snap.Projects {
		if !projectActive(p) || snap.HasWeeklyUpdate(p.ID, isoYear, isoWeek) {
			continue
		}
		for _, u := range escalation.ResolveChain(p.DepartmentID, snap.Users) {
			out = append(out, newNotification(now, u.ID.Hex(), models.NotifyUpdateDue,
				"Weekly update missed",
				fmt.Sprintf("Project %q has no update for week %d/%d", p.Title, isoWeek, isoYear),
				p.ID.Hex(), "project"))
		}
	}
	return out
}

func isoDayOf(w time.Weekday) int {
	d := int(w)
	if d == 0 {
		d = 7
	}
	return d
}

// ProjectOverdueRule escalates projects past their end date that are not
// completed.
type ProjectOverdueRule struct{}

func (ProjectOverdueRule) Name() string { return "project_overdue" }

func (ProjectOverdueRule) Evaluate(snap Snapshot, now time.Time) []models.Notification {
	var out []models.Notification
	for _, p := range snap.Projects {
		if p.EndDate == nil || !now.After(*p.EndDate) || p.Status == models.ProjectCompleted {
			continue
		}
		for _, u := range escalation.ResolveChain(p.DepartmentID, snap.Users) {
			out = append(out, newNotification(now, u.ID.Hex(), models.NotifyTaskOverdue,
				"Project overdue",
				fmt.Sprintf("Project %q passed its end date and is not completed", p.Title),
				p.ID.Hex(), "project"))
		}
	}
	return out
}

// MeetingReminderRule reminds attendees 15 minutes before a scheduled
// meeting. The organizer is included when not already on the attendee
// list. The 15-minute boundary is inclusive; a meeting already started is
// not reminded.
type MeetingReminderRule struct{}

func (MeetingReminderRule) Name() string { return "meeting_reminder" }

func (MeetingReminderRule) Evaluate(snap Snapshot, now time.Time) []models.Notification {
	var out []models.Notification
	for _, m := range snap.Meetings {
		if m.Status != models.MeetingScheduled {
			continue
		}
		until := m.StartTime.Sub(now)
		if until <= 0 || until > 15*time.Minute {
			continue
		}

		recipients := m.AttendeeIDs
		organizerListed := false
		for _, id := range m.AttendeeIDs {
			if id == m.OrganizerID {
				organizerListed = true
				break
			}
		}
		if !organizerListed {
			recipients = append(recipients, m.OrganizerID)
		}

		minutes := int(until.Round(time.Minute) / time.Minute)
		for _, id := range recipients {
			out = append(out, newNotification(now, id.Hex(), models.NotifyMeetingReminder,
				"Meeting starting soon",
				fmt.Sprintf("%s starts in %d minutes", m.Title, minutes),
				m.ID.Hex(), "meeting"))
		}
	}
	return out
}

// AssignmentDueReminderRule reminds an assignee one hour (inclusive) before
// their task is due, while the task is still open.
type AssignmentDueReminderRule struct{}

func (AssignmentDueReminderRule) Name() string { return "assignment_due_reminder" }

func (AssignmentDueReminderRule) Evaluate(snap Snapshot, now time.Time) []models.Notification {
	var out []models.Notification
	for _, a := range snap.Assignments {
		if a.AssigneeID == nil || a.DueDate == nil {
			continue
		}
		switch a.Status {
		case models.AssignmentPending, models.AssignmentInProgress, models.AssignmentAccepted:
		default:
			continue
		}
		until := a.DueDate.Sub(now)
		if until <= 0 || until > time.Hour {
			continue
		}
		out = append(out, newNotification(now, a.AssigneeID.Hex(), models.NotifyDeadlineReminder,
			"Assignment due soon",
			fmt.Sprintf("%s is due within the hour", a.Title),
			a.ID.Hex(), "assignment"))
	}
	return out
}

// ProjectDeadlineReminderRule fires once a project enters the 24-hour
// window before its end date (evaluated in the 23–24h band so a daily tick
// catches it exactly once). Recipients are the manager and the
// department's Sub-PMO, Main-PMO, and director; executives are not
// included.
type ProjectDeadlineReminderRule struct{}

func (ProjectDeadlineReminderRule) Name() string { return "project_deadline_reminder" }

func (ProjectDeadlineReminderRule) Evaluate(snap Snapshot, now time.Time) []models.Notification {
	var out []models.Notification
	for _, p := range snap.Projects {
		if p.EndDate == nil || !projectActive(p) {
			continue
		}
		until := p.EndDate.Sub(now)
		if until <= 23*time.Hour || until > 24*time.Hour {
			continue
		}

		recipients := []string{p.ManagerID.Hex()}
		for _, u := range snap.DepartmentStaff(p.DepartmentID, models.RoleSubPMO, models.RoleDepartmentDirector) {
			recipients = append(recipients, u.ID.Hex())
		}
		for _, u := range snap.UsersByRole(models.RoleMainPMO) {
			recipients = append(recipients, u.ID.Hex())
		}

		for _, id := range recipients {
			out = append(out, newNotification(now, id, models.NotifyDeadlineReminder,
				"Project deadline tomorrow",
				fmt.Sprintf("Project %q reaches its end date in 24 hours", p.Title),
				p.ID.Hex(), "project"))
		}
	}
	return out
}

// DefaultRules is the production rule set.
func DefaultRules(updateWeekday time.Weekday) []Rule {
	return []Rule{
		NewAssignmentRule{},
		CompletionNotifyRule{},
		ApprovalRequiredRule{},
		ApprovalOutcomeRule{},
		WeeklyUpdateDeadlineRule{Weekday: updateWeekday},
		MissedWeeklyUpdateRule{Weekday: updateWeekday},
		ProjectOverdueRule{},
		MeetingReminderRule{},
		AssignmentDueReminderRule{},
		ProjectDeadlineReminderRule{},
	}
}
