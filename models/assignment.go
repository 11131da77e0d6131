// models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "PENDING"
	AssignmentAccepted   AssignmentStatus = "ACCEPTED"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
	AssignmentDeclined   AssignmentStatus = "DECLINED"
)

type Assignment struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID  `bson:"projectId" json:"projectId"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Status      AssignmentStatus    `bson:"status" json:"status"`
	AssigneeID  *primitive.ObjectID `bson:"assigneeId,omitempty" json:"assigneeId,omitempty"`
	AssignedBy  primitive.ObjectID  `bson:"assignedBy" json:"assignedBy"`
	DueDate     *time.Time          `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
