// handlers/change_request_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LenoreWoW/Themis-sub003/models"
	"github.com/LenoreWoW/Themis-sub003/utils"
	"github.com/LenoreWoW/Themis-sub003/websocket"
	"github.com/LenoreWoW/Themis-sub003/workflow"
)

// ListChangeRequests returns change requests, optionally filtered by
// project, status or type.
func ListChangeRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	filter := bson.M{}
	query := r.URL.Query()
	if status := query.Get("status"); status != "" && status != "all" {
		filter["status"] = status
	}
	if crType := query.Get("type"); crType != "" && crType != "all" {
		filter["type"] = crType
	}
	if project := query.Get("projectId"); project != "" {
		projectID, err := primitive.ObjectIDFromHex(project)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid project id format")
			return
		}
		filter["projectId"] = projectID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := changeRequestCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("ListChangeRequests - Find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch change requests")
		return
	}
	defer cursor.Close(ctx)

	requests := []models.ChangeRequest{}
	if err = cursor.All(ctx, &requests); err != nil {
		log.Printf("ListChangeRequests - cursor.All failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode change requests")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"changeRequests": requests,
		"count":          len(requests),
	})
}

func GetChangeRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid change request id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var cr models.ChangeRequest
	if err := changeRequestCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&cr); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "change request not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cr)
}

type createChangeRequestRequest struct {
	ProjectID   string                   `json:"projectId"`
	Type        models.ChangeRequestType `json:"type"`
	Title       string                   `json:"title"`
	Reason      string                   `json:"reason"`
	NewEndDate  *time.Time               `json:"newEndDate,omitempty"`
	NewBudget   *float64                 `json:"newBudget,omitempty"`
	NewStatus   models.ProjectStatus     `json:"newStatus,omitempty"`
	ScopeDetail string                   `json:"scopeDetail,omitempty"`
}

// CreateChangeRequest opens a change request against an existing project.
// Unlike projects, change requests skip DRAFT and go straight into the
// Sub-PMO queue.
func CreateChangeRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if !workflow.CanCreate(actor.Role) {
		utils.RespondWithError(w, http.StatusForbidden, "role may not create change requests")
		return
	}

	var req createChangeRequestRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "title is required")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid project id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	var project models.Project
	if err := projectCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "project not found")
		return
	}

	now := time.Now()
	cr := models.ChangeRequest{
		ProjectID:     projectID,
		Type:          req.Type,
		Status:        models.ChangeRequestPendingSubPMO,
		Title:         req.Title,
		Reason:        req.Reason,
		DepartmentID:  project.DepartmentID,
		RequestedBy:   actor.ID,
		NewEndDate:    req.NewEndDate,
		NewBudget:     req.NewBudget,
		NewStatus:     req.NewStatus,
		ScopeDetail:   req.ScopeDetail,
		ReviewHistory: []models.ReviewRecord{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	res, err := changeRequestCollection.InsertOne(ctx, cr)
	if err != nil {
		log.Printf("CreateChangeRequest - insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create change request")
		return
	}
	cr.ID = res.InsertedID.(primitive.ObjectID)

	writeAudit(r, actor, "create_change_request", "change_request", cr.ID, bson.M{
		"projectId": projectID,
		"type":      cr.Type,
	})

	utils.RespondWithJSON(w, http.StatusCreated, cr)
}

// TransitionChangeRequest runs one approval action against a change
// request.
func TransitionChangeRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid change request id format")
		return
	}

	var req transitionRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	var cr models.ChangeRequest
	if err := changeRequestCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&cr); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "change request not found")
		return
	}
	oldStatus := cr.Status

	updated, err := workflow.TransitionChangeRequest(cr, workflow.TransitionRequest{
		Actor:          actor,
		Action:         req.Action,
		Comments:       req.Comments,
		SameDepartment: workflow.SameDepartment(actor, cr.DepartmentID),
		Now:            time.Now(),
	})
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	res, err := changeRequestCollection.ReplaceOne(ctx, bson.M{"_id": id, "status": oldStatus}, updated)
	if err != nil {
		log.Printf("TransitionChangeRequest - replace failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store transition")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "change request changed underneath this transition, retry")
		return
	}

	writeAudit(r, actor, "transition_change_request", "change_request", id, bson.M{
		"action": req.Action,
		"from":   oldStatus,
		"to":     updated.Status,
	})
	websocket.SendStatusChange(updated.DepartmentID, "change_request", id.Hex(), string(oldStatus), string(updated.Status), actor.ID.Hex(), actor.FullName())

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// WithdrawChangeRequest retires a pending change request.
func WithdrawChangeRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid change request id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	var cr models.ChangeRequest
	if err := changeRequestCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&cr); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "change request not found")
		return
	}
	oldStatus := cr.Status

	updated, err := workflow.WithdrawChangeRequest(cr, actor, time.Now())
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	res, err := changeRequestCollection.ReplaceOne(ctx, bson.M{"_id": id, "status": oldStatus}, updated)
	if err != nil {
		log.Printf("WithdrawChangeRequest - replace failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store withdrawal")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "change request changed underneath this withdrawal, retry")
		return
	}

	writeAudit(r, actor, "withdraw_change_request", "change_request", id, bson.M{"from": oldStatus})
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// ApplyChangeRequest carries an approved change request's effect onto its
// project. The change request and project are written back together; if
// the project write fails the change request is rolled back so the
// request can be re-applied.
func ApplyChangeRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if !workflow.CanApprove(actor.Role, false) {
		utils.RespondWithError(w, http.StatusForbidden, "role may not apply change requests")
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid change request id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var cr models.ChangeRequest
	if err := changeRequestCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&cr); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "change request not found")
		return
	}

	var project models.Project
	if err := projectCollection.FindOne(ctx, bson.M{"_id": cr.ProjectID}).Decode(&project); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "project not found")
		return
	}

	updatedCR, updatedProject, err := workflow.ApplyChangeRequest(cr, project, time.Now())
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	// Claim the request first: the implemented flag flips false→true
	// exactly once, so a concurrent apply loses this match.
	res, err := changeRequestCollection.ReplaceOne(ctx,
		bson.M{"_id": id, "implemented": false}, updatedCR)
	if err != nil {
		log.Printf("ApplyChangeRequest - change request replace failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store change request")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "change request already implemented")
		return
	}

	if _, err := projectCollection.ReplaceOne(ctx, bson.M{"_id": project.ID}, updatedProject); err != nil {
		// Roll the claim back so the apply can be retried.
		log.Printf("ApplyChangeRequest - project replace failed, rolling back: %v", err)
		if _, rbErr := changeRequestCollection.ReplaceOne(ctx, bson.M{"_id": id}, cr); rbErr != nil {
			log.Printf("ApplyChangeRequest - rollback failed: %v", rbErr)
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store project effect")
		return
	}

	writeAudit(r, actor, "apply_change_request", "change_request", id, bson.M{
		"projectId": project.ID,
		"type":      cr.Type,
	})
	websocket.SendChangeRequestApplied(updatedCR.DepartmentID, updatedCR, actor.ID.Hex(), actor.FullName())

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"changeRequest": updatedCR,
		"project":       updatedProject,
	})
}
