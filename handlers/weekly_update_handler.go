// handlers/weekly_update_handler.go
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

func ListWeeklyUpdates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	filter := bson.M{}
	if project := r.URL.Query().Get("projectId"); project != "" {
		projectID, err := primitive.ObjectIDFromHex(project)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid project id format")
			return
		}
		filter["projectId"] = projectID
	}

	cursor, err := weeklyUpdateCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Printf("ListWeeklyUpdates - Find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch weekly updates")
		return
	}
	defer cursor.Close(ctx)

	updates := []models.WeeklyUpdate{}
	if err = cursor.All(ctx, &updates); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode weekly updates")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"weeklyUpdates": updates,
		"count":         len(updates),
	})
}

type createWeeklyUpdateRequest struct {
	ProjectID string `json:"projectId"`
	Summary   string `json:"summary"`
}

// CreateWeeklyUpdate records this ISO week's status report for a project.
// The week key comes from the server clock, not the client.
func CreateWeeklyUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req createWeeklyUpdateRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Summary = strings.TrimSpace(req.Summary)
	if req.Summary == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "summary is required")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid project id format")
		return
	}

	now := time.Now()
	isoYear, isoWeek := now.ISOWeek()
	update := models.WeeklyUpdate{
		ProjectID: projectID,
		AuthorID:  actor.ID,
		ISOWeek:   isoWeek,
		ISOYear:   isoYear,
		Summary:   req.Summary,
		CreatedAt: now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := weeklyUpdateCollection.InsertOne(ctx, update)
	if err != nil {
		log.Printf("CreateWeeklyUpdate - insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create weekly update")
		return
	}
	update.ID = res.InsertedID.(primitive.ObjectID)

	utils.RespondWithJSON(w, http.StatusCreated, update)
}
