// handlers/meeting_handler.go
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

func ListMeetings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" && status != "all" {
		filter["status"] = status
	}

	cursor, err := meetingCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}}))
	if err != nil {
		log.Printf("ListMeetings - Find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch meetings")
		return
	}
	defer cursor.Close(ctx)

	meetings := []models.Meeting{}
	if err = cursor.All(ctx, &meetings); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode meetings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"meetings": meetings,
		"count":    len(meetings),
	})
}

type createMeetingRequest struct {
	Title       string    `json:"title"`
	AttendeeIDs []string  `json:"attendeeIds"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

func CreateMeeting(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req createMeetingRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !req.EndTime.After(req.StartTime) {
		utils.RespondWithError(w, http.StatusBadRequest, "end time must be after start time")
		return
	}

	attendees := make([]primitive.ObjectID, 0, len(req.AttendeeIDs))
	for _, raw := range req.AttendeeIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid attendee id format")
			return
		}
		attendees = append(attendees, id)
	}

	meeting := models.Meeting{
		Title:       req.Title,
		Status:      models.MeetingScheduled,
		OrganizerID: actor.ID,
		AttendeeIDs: attendees,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := meetingCollection.InsertOne(ctx, meeting)
	if err != nil {
		log.Printf("CreateMeeting - insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create meeting")
		return
	}
	meeting.ID = res.InsertedID.(primitive.ObjectID)

	utils.RespondWithJSON(w, http.StatusCreated, meeting)
}
