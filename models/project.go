// models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus covers both the approval lifecycle and the operational
// states a project moves through after approval. The strings are part of
// the wire contract and must be emitted exactly as spelled here.
type ProjectStatus string

const (
	ProjectDraft            ProjectStatus = "DRAFT"
	ProjectPendingSubPMO    ProjectStatus = "PENDING_SUB_PMO"
	ProjectApprovedBySubPMO ProjectStatus = "APPROVED_BY_SUB_PMO"
	ProjectRejectedBySubPMO ProjectStatus = "REJECTED_BY_SUB_PMO"
	ProjectPendingMainPMO   ProjectStatus = "PENDING_MAIN_PMO"
	ProjectApproved         ProjectStatus = "APPROVED"
	ProjectRejected         ProjectStatus = "REJECTED"
	ProjectChangesRequested ProjectStatus = "CHANGES_REQUESTED"

	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectOnHold     ProjectStatus = "ON_HOLD"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
)

type Project struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Status        ProjectStatus      `bson:"status" json:"status"`
	DepartmentID  primitive.ObjectID `bson:"departmentId" json:"departmentId"`
	ManagerID     primitive.ObjectID `bson:"managerId" json:"managerId"`
	Budget        float64            `bson:"budget,omitempty" json:"budget,omitempty"`
	StartDate     *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate       *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	ReviewHistory []ReviewRecord     `bson:"reviewHistory" json:"reviewHistory"` // newest first
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
