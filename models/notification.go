// models/notification.go
package models

import "time"

type NotificationType string

const (
	NotifyTaskAssigned          NotificationType = "TASK_ASSIGNED"
	NotifyTaskOverdue           NotificationType = "TASK_OVERDUE"
	NotifyApprovalNeeded        NotificationType = "APPROVAL_NEEDED"
	NotifyChangeRequestApproved NotificationType = "CHANGE_REQUEST_APPROVED"
	NotifyChangeRequestRejected NotificationType = "CHANGE_REQUEST_REJECTED"
	NotifyUpdateDue             NotificationType = "UPDATE_DUE"
	NotifyMeetingReminder       NotificationType = "MEETING_REMINDER"
	NotifyDeadlineReminder      NotificationType = "DEADLINE_REMINDER"
)

// Notification is immutable after creation except for IsRead.
type Notification struct {
	ID              string           `bson:"_id" json:"id"`
	UserID          string           `bson:"userId" json:"userId"`
	Type            NotificationType `bson:"type" json:"type"`
	Title           string           `bson:"title" json:"title"`
	Message         string           `bson:"message" json:"message"`
	RelatedItemID   string           `bson:"relatedItemId,omitempty" json:"relatedItemId,omitempty"`
	RelatedItemType string           `bson:"relatedItemType,omitempty" json:"relatedItemType,omitempty"`
	IsRead          bool             `bson:"isRead" json:"isRead"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
}
