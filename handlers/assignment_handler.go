// handlers/assignment_handler.go
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
)

func ListAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	filter := bson.M{}
	query := r.URL.Query()
	if assignee := query.Get("assigneeId"); assignee != "" {
		assigneeID, err := primitive.ObjectIDFromHex(assignee)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid assignee id format")
			return
		}
		filter["assigneeId"] = assigneeID
	}
	if project := query.Get("projectId"); project != "" {
		projectID, err := primitive.ObjectIDFromHex(project)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid project id format")
			return
		}
		filter["projectId"] = projectID
	}
	if status := query.Get("status"); status != "" && status != "all" {
		filter["status"] = status
	}

	cursor, err := assignmentCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Printf("ListAssignments - Find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch assignments")
		return
	}
	defer cursor.Close(ctx)

	assignments := []models.Assignment{}
	if err = cursor.All(ctx, &assignments); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode assignments")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"assignments": assignments,
		"count":       len(assignments),
	})
}

type createAssignmentRequest struct {
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

func CreateAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req createAssignmentRequest
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

	now := time.Now()
	assignment := models.Assignment{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.AssignmentPending,
		AssignedBy:  actor.ID,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.AssigneeID != nil {
		assigneeID, err := primitive.ObjectIDFromHex(*req.AssigneeID)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid assignee id format")
			return
		}
		assignment.AssigneeID = &assigneeID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := assignmentCollection.InsertOne(ctx, assignment)
	if err != nil {
		log.Printf("CreateAssignment - insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}
	assignment.ID = res.InsertedID.(primitive.ObjectID)

	writeAudit(r, actor, "create_assignment", "assignment", assignment.ID, bson.M{"title": assignment.Title})
	utils.RespondWithJSON(w, http.StatusCreated, assignment)
}

type updateAssignmentStatusRequest struct {
	Status models.AssignmentStatus `json:"status"`
}

// UpdateAssignmentStatus moves an assignment along its simple lifecycle;
// only the assignee, the assigner, or an admin may do so.
func UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid assignment id format")
		return
	}

	var req updateAssignmentStatusRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Status {
	case models.AssignmentPending, models.AssignmentAccepted, models.AssignmentInProgress,
		models.AssignmentCompleted, models.AssignmentDeclined:
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "unknown assignment status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var assignment models.Assignment
	if err := assignmentCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "assignment not found")
		return
	}

	allowed := actor.Role == models.RoleAdmin || assignment.AssignedBy == actor.ID ||
		(assignment.AssigneeID != nil && *assignment.AssigneeID == actor.ID)
	if !allowed {
		utils.RespondWithError(w, http.StatusForbidden, "not your assignment")
		return
	}

	_, err = assignmentCollection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}})
	if err != nil {
		log.Printf("UpdateAssignmentStatus - update failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update assignment")
		return
	}

	writeAudit(r, actor, "update_assignment_status", "assignment", id, bson.M{
		"from": assignment.Status,
		"to":   req.Status,
	})
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
