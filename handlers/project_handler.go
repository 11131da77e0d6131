// handlers/project_handler.go
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

// ListProjects returns projects, optionally filtered by status, department
// or manager.
func ListProjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	filter := bson.M{}
	query := r.URL.Query()
	if status := query.Get("status"); status != "" && status != "all" {
		filter["status"] = status
	}
	if dept := query.Get("departmentId"); dept != "" {
		deptID, err := primitive.ObjectIDFromHex(dept)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid department id format")
			return
		}
		filter["departmentId"] = deptID
	}
	if manager := query.Get("managerId"); manager != "" {
		managerID, err := primitive.ObjectIDFromHex(manager)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid manager id format")
			return
		}
		filter["managerId"] = managerID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := projectCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("ListProjects - Find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch projects")
		return
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err = cursor.All(ctx, &projects); err != nil {
		log.Printf("ListProjects - cursor.All failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode projects")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"count":    len(projects),
	})
}

func GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid project id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var project models.Project
	if err := projectCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "project not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, project)
}

type createProjectRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DepartmentID string     `json:"departmentId"`
	Budget       float64    `json:"budget"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

// CreateProject opens a new project in DRAFT, owned by the caller.
func CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if !workflow.CanCreate(actor.Role) {
		utils.RespondWithError(w, http.StatusForbidden, "role may not create projects")
		return
	}

	var req createProjectRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "title is required")
		return
	}
	deptID, err := primitive.ObjectIDFromHex(req.DepartmentID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid department id format")
		return
	}

	now := time.Now()
	project := models.Project{
		Title:         req.Title,
		Description:   req.Description,
		Status:        models.ProjectDraft,
		DepartmentID:  deptID,
		ManagerID:     actor.ID,
		Budget:        req.Budget,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		ReviewHistory: []models.ReviewRecord{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := projectCollection.InsertOne(ctx, project)
	if err != nil {
		log.Printf("CreateProject - insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create project")
		return
	}
	project.ID = res.InsertedID.(primitive.ObjectID)

	writeAudit(r, actor, "create_project", "project", project.ID, bson.M{"title": project.Title})
	websocket.SendProjectCreated(project.DepartmentID, project, actor.ID.Hex(), actor.FullName())

	utils.RespondWithJSON(w, http.StatusCreated, project)
}

type updateProjectRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Budget      *float64   `json:"budget,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// UpdateProject edits descriptive fields. Status never changes here; that
// is the transition endpoint's job.
func UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid project id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	var project models.Project
	if err := projectCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "project not found")
		return
	}

	if !workflow.CanEdit(actor.Role, project.ManagerID == actor.ID) {
		utils.RespondWithError(w, http.StatusForbidden, "role may not edit this project")
		return
	}

	var req updateProjectRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		update["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Budget != nil {
		update["budget"] = *req.Budget
	}
	if req.StartDate != nil {
		update["startDate"] = *req.StartDate
	}
	if req.EndDate != nil {
		update["endDate"] = *req.EndDate
	}

	if _, err := projectCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update}); err != nil {
		log.Printf("UpdateProject - update failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update project")
		return
	}

	writeAudit(r, actor, "update_project", "project", id, bson.M{"changes": update})
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type transitionRequest struct {
	Action   models.ReviewAction `json:"action"`
	Comments string              `json:"comments"`
}

// TransitionProject runs one approval action against a project. The status
// change and its review record land in a single document replace, so they
// are stored together or not at all.
func TransitionProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid project id format")
		return
	}

	var req transitionRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	var project models.Project
	if err := projectCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "project not found")
		return
	}
	oldStatus := project.Status

	updated, err := workflow.TransitionProject(project, workflow.TransitionRequest{
		Actor:          actor,
		Action:         req.Action,
		Comments:       req.Comments,
		SameDepartment: workflow.SameDepartment(actor, project.DepartmentID),
		Now:            time.Now(),
	})
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	// Guard against a concurrent transition: replace only if the status we
	// computed from is still stored.
	res, err := projectCollection.ReplaceOne(ctx, bson.M{"_id": id, "status": oldStatus}, updated)
	if err != nil {
		log.Printf("TransitionProject - replace failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store transition")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "project changed underneath this transition, retry")
		return
	}

	writeAudit(r, actor, "transition_project", "project", id, bson.M{
		"action": req.Action,
		"from":   oldStatus,
		"to":     updated.Status,
	})
	websocket.SendStatusChange(updated.DepartmentID, "project", id.Hex(), string(oldStatus), string(updated.Status), actor.ID.Hex(), actor.FullName())

	utils.RespondWithJSON(w, http.StatusOK, updated)
}
