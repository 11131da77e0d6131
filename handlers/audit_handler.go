// handlers/audit_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LenoreWoW/Themis-sub003/models"
	"github.com/LenoreWoW/Themis-sub003/utils"
	"github.com/LenoreWoW/Themis-sub003/websocket"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// InitAuditHandlers starts the websocket hub.
func InitAuditHandlers() {
	go websocket.GetHub().Run()
}

// ServeWS upgrades a connection for live updates. Auth rides in the token
// query parameter because browsers cannot set headers on websocket dials.
func ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ServeWS - upgrade failed: %v", err)
		return
	}
	log.Printf("ServeWS - user %s connected", claims.UserID)

	client := websocket.NewClient(conn, claims.DepartmentID, claims.UserID)
	websocket.GetHub().Register(client)
}

// ListAuditLogs returns recent audit entries, newest first.
func ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	filter := bson.M{}
	query := r.URL.Query()
	if entityType := query.Get("entityType"); entityType != "" && entityType != "all" {
		filter["entityType"] = entityType
	}
	if entity := query.Get("entityId"); entity != "" {
		entityID, err := primitive.ObjectIDFromHex(entity)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid entity id format")
			return
		}
		filter["entityId"] = entityID
	}

	limit := 100
	if raw := query.Get("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 && l <= 500 {
			limit = l
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := auditCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("ListAuditLogs - Find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch audit logs")
		return
	}
	defer cursor.Close(ctx)

	logs := []models.AuditLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode audit logs")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"auditLogs": logs,
		"count":     len(logs),
	})
}
