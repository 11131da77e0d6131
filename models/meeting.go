// models/meeting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "SCHEDULED"
	MeetingCompleted MeetingStatus = "COMPLETED"
	MeetingCancelled MeetingStatus = "CANCELLED"
)

type Meeting struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Status      MeetingStatus        `bson:"status" json:"status"`
	OrganizerID primitive.ObjectID   `bson:"organizerId" json:"organizerId"`
	AttendeeIDs []primitive.ObjectID `bson:"attendeeIds" json:"attendeeIds"`
	StartTime   time.Time            `bson:"startTime" json:"startTime"`
	EndTime     time.Time            `bson:"endTime" json:"endTime"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}
