// handlers/department_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LenoreWoW/Themis-sub003/models"
	"github.com/LenoreWoW/Themis-sub003/utils"
)

func ListDepartments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := departmentCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		log.Printf("ListDepartments - Find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch departments")
		return
	}
	defer cursor.Close(ctx)

	departments := []models.Department{}
	if err = cursor.All(ctx, &departments); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode departments")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"departments": departments,
		"count":       len(departments),
	})
}

func GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid department id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var dept models.Department
	if err := departmentCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&dept); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "department not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dept)
}

type departmentRequest struct {
	Name string `json:"name"`
}

// CreateDepartment is admin only.
func CreateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if actor.Role != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "only admins may create departments")
		return
	}

	var req departmentRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "department name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dept := models.Department{Name: req.Name, CreatedAt: time.Now()}
	res, err := departmentCollection.InsertOne(ctx, dept)
	if err != nil {
		log.Printf("CreateDepartment - insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create department")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      res.InsertedID,
	})
}
