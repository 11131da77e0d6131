// models/audit_log.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DepartmentID primitive.ObjectID `bson:"departmentId,omitempty" json:"departmentId,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	UserName     string             `bson:"userName,omitempty" json:"userName,omitempty"`
	UserRole     Role               `bson:"userRole,omitempty" json:"userRole,omitempty"`
	Action       string             `bson:"action" json:"action"` // e.g. "transition_project", "apply_change_request"
	EntityType   string             `bson:"entityType" json:"entityType"`
	EntityID     primitive.ObjectID `bson:"entityId,omitempty" json:"entityId,omitempty"`
	Details      bson.M             `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
