// handlers/helpers.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/models"
	"github.com/LenoreWoW/Themis-sub003/utils"
	"github.com/LenoreWoW/Themis-sub003/workflow"
)

// requireActor resolves the authenticated user from the request context and
// database. Writes the error response itself on failure.
func requireActor(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok || userIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return models.User{}, false
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id format")
		return models.User{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		log.Printf("requireActor: user %s not found: %v", userID.Hex(), err)
		utils.RespondWithError(w, http.StatusUnauthorized, "user not found")
		return models.User{}, false
	}
	return user, true
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)["id"])
}

// respondWorkflowError maps the workflow error taxonomy onto HTTP codes,
// keeping "you may not do this" distinct from "this is not a valid request
// right now".
func respondWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrAuthorizationDenied):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, workflow.ErrApplyConflict):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, workflow.ErrValidationFailed):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeAudit records one audit entry; failures are logged, never surfaced.
func writeAudit(r *http.Request, actor models.User, action, entityType string, entityID primitive.ObjectID, details bson.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := models.AuditLog{
		UserID:     actor.ID,
		UserName:   actor.FullName(),
		UserRole:   actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if actor.DepartmentID != nil {
		entry.DepartmentID = *actor.DepartmentID
	}

	if _, err := auditCollection.InsertOne(ctx, entry); err != nil {
		log.Printf("writeAudit: insert failed for %s %s: %v", action, entityID.Hex(), err)
	}
}
