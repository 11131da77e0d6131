// models/weekly_update.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyUpdate is one status report for a project, keyed by ISO week so
// "this week's update" is unambiguous across year boundaries.
type WeeklyUpdate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"projectId" json:"projectId"`
	AuthorID  primitive.ObjectID `bson:"authorId" json:"authorId"`
	ISOWeek   int                `bson:"isoWeek" json:"isoWeek"`
	ISOYear   int                `bson:"isoYear" json:"isoYear"`
	Summary   string             `bson:"summary" json:"summary"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
