// models/change_request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChangeRequestStatus deliberately overlaps ProjectStatus in spelling but
// is a distinct type; the workflow package owns the mapping between the
// two vocabularies.
type ChangeRequestStatus string

const (
	ChangeRequestDraft            ChangeRequestStatus = "DRAFT"
	ChangeRequestPendingSubPMO    ChangeRequestStatus = "PENDING_SUB_PMO"
	ChangeRequestApprovedBySubPMO ChangeRequestStatus = "APPROVED_BY_SUB_PMO"
	ChangeRequestRejectedBySubPMO ChangeRequestStatus = "REJECTED_BY_SUB_PMO"
	ChangeRequestPendingMainPMO   ChangeRequestStatus = "PENDING_MAIN_PMO"
	ChangeRequestApproved         ChangeRequestStatus = "APPROVED"
	ChangeRequestRejected         ChangeRequestStatus = "REJECTED"
	ChangeRequestChangesRequested ChangeRequestStatus = "CHANGES_REQUESTED"
	ChangeRequestWithdrawn        ChangeRequestStatus = "WITHDRAWN"
)

type ChangeRequestType string

const (
	ChangeTypeSchedule ChangeRequestType = "SCHEDULE"
	ChangeTypeBudget   ChangeRequestType = "BUDGET"
	ChangeTypeScope    ChangeRequestType = "SCOPE"
	ChangeTypeResource ChangeRequestType = "RESOURCE"
	ChangeTypeStatus   ChangeRequestType = "STATUS"
	ChangeTypeClosure  ChangeRequestType = "CLOSURE"
	ChangeTypeOther    ChangeRequestType = "OTHER"
)

type ChangeRequest struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID    primitive.ObjectID  `bson:"projectId" json:"projectId"`
	Type         ChangeRequestType   `bson:"type" json:"type"`
	Status       ChangeRequestStatus `bson:"status" json:"status"`
	Title        string              `bson:"title" json:"title"`
	Reason       string              `bson:"reason,omitempty" json:"reason,omitempty"`
	DepartmentID primitive.ObjectID  `bson:"departmentId" json:"departmentId"`
	RequestedBy  primitive.ObjectID  `bson:"requestedBy" json:"requestedBy"`

	// Type-specific payload; only the field matching Type is consulted.
	NewEndDate  *time.Time    `bson:"newEndDate,omitempty" json:"newEndDate,omitempty"`
	NewBudget   *float64      `bson:"newBudget,omitempty" json:"newBudget,omitempty"`
	NewStatus   ProjectStatus `bson:"newStatus,omitempty" json:"newStatus,omitempty"`
	ScopeDetail string        `bson:"scopeDetail,omitempty" json:"scopeDetail,omitempty"`

	Implemented   bool           `bson:"implemented" json:"implemented"`
	ImplementedAt *time.Time     `bson:"implementedAt,omitempty" json:"implementedAt,omitempty"`
	ReviewHistory []ReviewRecord `bson:"reviewHistory" json:"reviewHistory"` // newest first
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}
