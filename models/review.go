// models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewAction is what a reviewer did to an approvable entity.
type ReviewAction string

const (
	ActionApprove        ReviewAction = "APPROVE"
	ActionReject         ReviewAction = "REJECT"
	ActionRequestChanges ReviewAction = "REQUEST_CHANGES"
	ActionSubmit         ReviewAction = "SUBMIT"
)

// ReviewRecord is one audit entry in an approvable's review history.
// The reviewer fields are a snapshot taken at decision time, not a
// reference, so the record stays meaningful if the account changes later.
type ReviewRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action       ReviewAction       `bson:"action" json:"action"`
	Comments     string             `bson:"comments,omitempty" json:"comments,omitempty"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
	ReviewerID   primitive.ObjectID `bson:"reviewerId" json:"reviewerId"`
	ReviewerName string             `bson:"reviewerName" json:"reviewerName"`
	ReviewerRole Role               `bson:"reviewerRole" json:"reviewerRole"`
}
