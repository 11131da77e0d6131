// handlers/user_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LenoreWoW/Themis-sub003/models"
	"github.com/LenoreWoW/Themis-sub003/utils"
)

// ListUsers returns the directory, optionally filtered by role or
// department.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	filter := bson.M{}
	query := r.URL.Query()
	if role := query.Get("role"); role != "" && role != "all" {
		filter["role"] = role
	}
	if dept := query.Get("departmentId"); dept != "" {
		deptID, err := primitive.ObjectIDFromHex(dept)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid department id format")
			return
		}
		filter["departmentId"] = deptID
	}

	opts := options.Find().SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}})
	cursor, err := userCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("ListUsers - Find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		log.Printf("ListUsers - cursor.All failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode users")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

// GetCurrentUser returns the authenticated account.
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, actor)
}

// GetUser returns one account by id.
func GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	Role         *models.Role `json:"role,omitempty"`
	DepartmentID *string      `json:"departmentId,omitempty"`
}

// UpdateUser changes an account's role or department. Admin only.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if actor.Role != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "only admins may update accounts")
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id format")
		return
	}

	var req updateUserRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := bson.M{}
	if req.Role != nil {
		update["role"] = *req.Role
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			update["departmentId"] = nil
		} else {
			deptID, err := primitive.ObjectIDFromHex(*req.DepartmentID)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "invalid department id format")
				return
			}
			update["departmentId"] = deptID
		}
	}
	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := userCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		log.Printf("UpdateUser - update failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}

	writeAudit(r, actor, "update_user", "user", id, bson.M{"changes": update})
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
