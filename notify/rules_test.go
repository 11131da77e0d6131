// notify/rules_test.go
package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/models"
)

func snapUser(role models.Role, dept *primitive.ObjectID) models.User {
	return models.User{ID: primitive.NewObjectID(), Role: role, DepartmentID: dept}
}

func recipients(ns []models.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.UserID
	}
	return out
}

func TestNewAssignmentRule(t *testing.T) {
	assignee := primitive.NewObjectID()
	snap := Snapshot{Assignments: []models.Assignment{
		{ID: primitive.NewObjectID(), Title: "Draft charter", AssigneeID: &assignee, Status: models.AssignmentPending},
		{ID: primitive.NewObjectID(), Title: "Unassigned", Status: models.AssignmentPending},
	}}

	out := NewAssignmentRule{}.Evaluate(snap, time.Now())
	require.Len(t, out, 1)
	assert.Equal(t, assignee.Hex(), out[0].UserID)
	assert.Equal(t, models.NotifyTaskAssigned, out[0].Type)
	assert.Contains(t, out[0].Message, "Draft charter")
}

func TestCompletionNotifyRule(t *testing.T) {
	assigner := primitive.NewObjectID()
	snap := Snapshot{Assignments: []models.Assignment{
		{ID: primitive.NewObjectID(), Title: "Done task", AssignedBy: assigner, Status: models.AssignmentCompleted},
		{ID: primitive.NewObjectID(), Title: "Open task", AssignedBy: assigner, Status: models.AssignmentInProgress},
	}}

	out := CompletionNotifyRule{}.Evaluate(snap, time.Now())
	require.Len(t, out, 1)
	assert.Equal(t, assigner.Hex(), out[0].UserID)
	assert.Contains(t, out[0].Message, "Done task")
}

func TestApprovalRequiredRule(t *testing.T) {
	dept := primitive.NewObjectID()
	otherDept := primitive.NewObjectID()

	subPMO := snapUser(models.RoleSubPMO, &dept)
	otherSub := snapUser(models.RoleSubPMO, &otherDept)
	mainPMO := snapUser(models.RoleMainPMO, nil)
	admin := snapUser(models.RoleAdmin, nil)
	exec := snapUser(models.RoleExecutive, nil)

	snap := Snapshot{
		Users: []models.User{subPMO, otherSub, mainPMO, admin, exec},
		Projects: []models.Project{
			{ID: primitive.NewObjectID(), Title: "P1", Status: models.ProjectPendingSubPMO, DepartmentID: dept},
			{ID: primitive.NewObjectID(), Title: "P2", Status: models.ProjectPendingMainPMO, DepartmentID: dept},
			{ID: primitive.NewObjectID(), Title: "P3", Status: models.ProjectApproved, DepartmentID: dept},
		},
	}

	out := ApprovalRequiredRule{}.Evaluate(snap, time.Now())

	// P1: dept sub PMO + main PMO + admin. P2: main PMO + admin.
	require.Len(t, out, 5)
	got := recipients(out)
	assert.Equal(t, []string{subPMO.ID.Hex(), mainPMO.ID.Hex(), admin.ID.Hex(), mainPMO.ID.Hex(), admin.ID.Hex()}, got)
	assert.NotContains(t, got, otherSub.ID.Hex())
	assert.NotContains(t, got, exec.ID.Hex())
	for _, n := range out {
		assert.Equal(t, models.NotifyApprovalNeeded, n.Type)
	}
}

func TestApprovalOutcomeRule(t *testing.T) {
	requester := primitive.NewObjectID()
	snap := Snapshot{ChangeRequests: []models.ChangeRequest{
		{ID: primitive.NewObjectID(), Title: "CR1", Status: models.ChangeRequestApproved, RequestedBy: requester},
		{ID: primitive.NewObjectID(), Title: "CR2", Status: models.ChangeRequestRejected, RequestedBy: requester},
		{ID: primitive.NewObjectID(), Title: "CR3", Status: models.ChangeRequestRejectedBySubPMO, RequestedBy: requester},
		{ID: primitive.NewObjectID(), Title: "CR4", Status: models.ChangeRequestPendingSubPMO, RequestedBy: requester},
	}}

	out := ApprovalOutcomeRule{}.Evaluate(snap, time.Now())
	require.Len(t, out, 3)
	assert.Equal(t, models.NotifyChangeRequestApproved, out[0].Type)
	assert.Equal(t, models.NotifyChangeRequestRejected, out[1].Type)
	assert.Equal(t, models.NotifyChangeRequestRejected, out[2].Type)
}

func TestWeeklyUpdateDeadlineRuleFiresOnlyOnDeadlineDay(t *testing.T) {
	manager := primitive.NewObjectID()
	thursday := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC) // a Thursday
	require.Equal(t, time.Thursday, thursday.Weekday())

	snap := Snapshot{Projects: []models.Project{
		{ID: primitive.NewObjectID(), Title: "P1", Status: models.ProjectInProgress, ManagerID: manager},
		{ID: primitive.NewObjectID(), Title: "P2", Status: models.ProjectInProgress, ManagerID: manager},
	}}

	rule := WeeklyUpdateDeadlineRule{Weekday: time.Thursday}

	out := rule.Evaluate(snap, thursday)
	require.Len(t, out, 1, "one digest per manager")
	assert.Equal(t, manager.Hex(), out[0].UserID)
	assert.Equal(t, models.NotifyUpdateDue, out[0].Type)
	assert.Contains(t, out[0].Message, "2 of your projects")

	assert.Empty(t, rule.Evaluate(snap, thursday.AddDate(0, 0, -1)), "wednesday is silent")
	assert.Empty(t, rule.Evaluate(snap, thursday.AddDate(0, 0, 1)), "friday is silent")
}

func TestWeeklyUpdateDeadlineRuleSkipsCoveredAndInactive(t *testing.T) {
	manager := primitive.NewObjectID()
	covered := primitive.NewObjectID()
	thursday := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	isoYear, isoWeek := thursday.ISOWeek()

	snap := Snapshot{
		Projects: []models.Project{
			{ID: covered, Status: models.ProjectInProgress, ManagerID: manager},
			{ID: primitive.NewObjectID(), Status: models.ProjectCompleted, ManagerID: manager},
			{ID: primitive.NewObjectID(), Status: models.ProjectCancelled, ManagerID: manager},
		},
		WeeklyUpdates: []models.WeeklyUpdate{
			{ProjectID: covered, ISOYear: isoYear, ISOWeek: isoWeek},
		},
	}

	out := WeeklyUpdateDeadlineRule{Weekday: time.Thursday}.Evaluate(snap, thursday)
	assert.Empty(t, out)
}

func TestMissedWeeklyUpdateRuleFiresAfterDeadlineDay(t *testing.T) {
	dept := primitive.NewObjectID()
	manager := primitive.NewObjectID()
	subPMO := snapUser(models.RoleSubPMO, &dept)
	mainPMO := snapUser(models.RoleMainPMO, nil)
	exec := snapUser(models.RoleExecutive, nil)

	snap := Snapshot{
		Projects: []models.Project{
			{ID: primitive.NewObjectID(), Title: "P1", Status: models.ProjectInProgress, ManagerID: manager, DepartmentID: dept},
		},
		Users: []models.User{subPMO, mainPMO, exec},
	}

	rule := MissedWeeklyUpdateRule{Weekday: time.Thursday}

	friday := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	require.Equal(t, time.Friday, friday.Weekday())

	out := rule.Evaluate(snap, friday)
	require.Len(t, out, 3)
	assert.Equal(t, []string{subPMO.ID.Hex(), mainPMO.ID.Hex(), exec.ID.Hex()}, recipients(out))

	// Silent on and before the deadline day.
	assert.Empty(t, rule.Evaluate(snap, friday.AddDate(0, 0, -1)))
	assert.Empty(t, rule.Evaluate(snap, friday.AddDate(0, 0, -2)))

	// Sunday is ISO day 7, still after Thursday within the same week.
	sunday := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())
	assert.Len(t, rule.Evaluate(snap, sunday), 3)
}

func TestProjectOverdueRule(t *testing.T) {
	dept := primitive.NewObjectID()
	subPMO := snapUser(models.RoleSubPMO, &dept)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	snap := Snapshot{
		Projects: []models.Project{
			{ID: primitive.NewObjectID(), Title: "Late", Status: models.ProjectInProgress, DepartmentID: dept, EndDate: &past},
			{ID: primitive.NewObjectID(), Title: "Done late", Status: models.ProjectCompleted, DepartmentID: dept, EndDate: &past},
			{ID: primitive.NewObjectID(), Title: "On track", Status: models.ProjectInProgress, DepartmentID: dept, EndDate: &future},
			{ID: primitive.NewObjectID(), Title: "No date", Status: models.ProjectInProgress, DepartmentID: dept},
		},
		Users: []models.User{subPMO},
	}

	out := ProjectOverdueRule{}.Evaluate(snap, now)
	require.Len(t, out, 1)
	assert.Equal(t, subPMO.ID.Hex(), out[0].UserID)
	assert.Equal(t, models.NotifyTaskOverdue, out[0].Type)
	assert.Contains(t, out[0].Message, "Late")
}

func TestMeetingReminderWindow(t *testing.T) {
	attendee := primitive.NewObjectID()
	organizer := primitive.NewObjectID()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	meeting := func(start time.Time) Snapshot {
		return Snapshot{Meetings: []models.Meeting{{
			ID:          primitive.NewObjectID(),
			Title:       "Standup",
			Status:      models.MeetingScheduled,
			OrganizerID: organizer,
			AttendeeIDs: []primitive.ObjectID{attendee},
			StartTime:   start,
		}}}
	}

	rule := MeetingReminderRule{}

	// Exactly 15 minutes out: inside the window (inclusive boundary).
	out := rule.Evaluate(meeting(now.Add(15*time.Minute)), now)
	require.Len(t, out, 2, "attendee plus unlisted organizer")
	assert.Equal(t, []string{attendee.Hex(), organizer.Hex()}, recipients(out))
	assert.Equal(t, models.NotifyMeetingReminder, out[0].Type)

	// One second beyond 15 minutes: outside.
	assert.Empty(t, rule.Evaluate(meeting(now.Add(15*time.Minute+time.Second)), now))

	// Starting right now or already started: no reminder.
	assert.Empty(t, rule.Evaluate(meeting(now), now))
	assert.Empty(t, rule.Evaluate(meeting(now.Add(-time.Minute)), now))

	// One second out: still inside.
	assert.Len(t, rule.Evaluate(meeting(now.Add(time.Second)), now), 2)
}

func TestMeetingReminderSkipsCancelledAndListedOrganizer(t *testing.T) {
	organizer := primitive.NewObjectID()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	start := now.Add(10 * time.Minute)

	snap := Snapshot{Meetings: []models.Meeting{
		{ID: primitive.NewObjectID(), Status: models.MeetingCancelled, OrganizerID: organizer, StartTime: start},
		{ID: primitive.NewObjectID(), Status: models.MeetingScheduled, OrganizerID: organizer,
			AttendeeIDs: []primitive.ObjectID{organizer}, StartTime: start},
	}}

	out := MeetingReminderRule{}.Evaluate(snap, now)
	require.Len(t, out, 1, "organizer already on the attendee list is not added twice")
	assert.Equal(t, organizer.Hex(), out[0].UserID)
}

func TestAssignmentDueReminderWindow(t *testing.T) {
	assignee := primitive.NewObjectID()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	assignment := func(due time.Time, status models.AssignmentStatus) Snapshot {
		return Snapshot{Assignments: []models.Assignment{{
			ID:         primitive.NewObjectID(),
			Title:      "Review deck",
			Status:     status,
			AssigneeID: &assignee,
			DueDate:    &due,
		}}}
	}

	rule := AssignmentDueReminderRule{}

	// Exactly one hour out: inside (inclusive boundary).
	out := rule.Evaluate(assignment(now.Add(time.Hour), models.AssignmentInProgress), now)
	require.Len(t, out, 1)
	assert.Equal(t, models.NotifyDeadlineReminder, out[0].Type)

	// Just past an hour: outside. At or past due: outside.
	assert.Empty(t, rule.Evaluate(assignment(now.Add(time.Hour+time.Second), models.AssignmentInProgress), now))
	assert.Empty(t, rule.Evaluate(assignment(now, models.AssignmentInProgress), now))

	// Open statuses remind, closed ones do not.
	assert.Len(t, rule.Evaluate(assignment(now.Add(30*time.Minute), models.AssignmentPending), now), 1)
	assert.Len(t, rule.Evaluate(assignment(now.Add(30*time.Minute), models.AssignmentAccepted), now), 1)
	assert.Empty(t, rule.Evaluate(assignment(now.Add(30*time.Minute), models.AssignmentCompleted), now))
	assert.Empty(t, rule.Evaluate(assignment(now.Add(30*time.Minute), models.AssignmentDeclined), now))
}

func TestProjectDeadlineReminderBand(t *testing.T) {
	dept := primitive.NewObjectID()
	manager := primitive.NewObjectID()
	subPMO := snapUser(models.RoleSubPMO, &dept)
	director := snapUser(models.RoleDepartmentDirector, &dept)
	mainPMO := snapUser(models.RoleMainPMO, nil)
	exec := snapUser(models.RoleExecutive, nil)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	project := func(end time.Time) Snapshot {
		return Snapshot{
			Projects: []models.Project{{
				ID: primitive.NewObjectID(), Title: "Launch", Status: models.ProjectInProgress,
				DepartmentID: dept, ManagerID: manager, EndDate: &end,
			}},
			Users: []models.User{subPMO, director, mainPMO, exec},
		}
	}

	rule := ProjectDeadlineReminderRule{}

	// Dead center of the 23-24h band.
	out := rule.Evaluate(project(now.Add(23*time.Hour+30*time.Minute)), now)
	require.Len(t, out, 4)
	got := recipients(out)
	assert.Equal(t, []string{manager.Hex(), subPMO.ID.Hex(), director.ID.Hex(), mainPMO.ID.Hex()}, got)
	assert.NotContains(t, got, exec.ID.Hex())

	// Upper boundary inclusive, lower boundary exclusive.
	assert.Len(t, rule.Evaluate(project(now.Add(24*time.Hour)), now), 4)
	assert.Empty(t, rule.Evaluate(project(now.Add(23*time.Hour)), now))
	assert.Empty(t, rule.Evaluate(project(now.Add(24*time.Hour+time.Second)), now))
	assert.Empty(t, rule.Evaluate(project(now.Add(time.Hour)), now))
}

// The windowed rules carry no memory: the same snapshot inside the window
// produces the same emission on every evaluation.
func TestWindowedRulesReemitWithinWindow(t *testing.T) {
	attendee := primitive.NewObjectID()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	snap := Snapshot{Meetings: []models.Meeting{{
		ID:          primitive.NewObjectID(),
		Title:       "Standup",
		Status:      models.MeetingScheduled,
		OrganizerID: attendee,
		AttendeeIDs: []primitive.ObjectID{attendee},
		StartTime:   now.Add(10 * time.Minute),
	}}}

	rule := MeetingReminderRule{}
	first := rule.Evaluate(snap, now)
	second := rule.Evaluate(snap, now.Add(time.Minute))
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].UserID, second[0].UserID)
	assert.NotEqual(t, first[0].ID, second[0].ID, "each emission is a fresh notification")
}

func TestDefaultRulesComplete(t *testing.T) {
	rules := DefaultRules(time.Thursday)
	require.Len(t, rules, 10)
	seen := map[string]bool{}
	for _, r := range rules {
		assert.False(t, seen[r.Name()], "duplicate rule name %s", r.Name())
		seen[r.Name()] = true
	}
}
