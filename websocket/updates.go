// websocket/updates.go
package websocket

import (
	"encoding/json"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/models"
)

// Update is the envelope pushed for every realtime event.
type Update struct {
	Type      string      `json:"type"` // PROJECT_CREATED, STATUS_CHANGE, CHANGE_REQUEST_APPLIED, NOTIFICATION
	EntityID  string      `json:"entityId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	UserID    string      `json:"userId,omitempty"`
	UserName  string      `json:"userName,omitempty"`
}

func broadcast(deptID, userID string, update Update) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Failed to marshal websocket update: %v", err)
		return
	}
	hub.broadcast <- BroadcastMessage{DeptID: deptID, UserID: userID, Message: data}
}

// SendProjectCreated announces a new project to its department.
func SendProjectCreated(deptID primitive.ObjectID, project interface{}, userID, userName string) {
	broadcast(deptID.Hex(), "", Update{
		Type:      "PROJECT_CREATED",
		Data:      project,
		Timestamp: time.Now(),
		UserID:    userID,
		UserName:  userName,
	})
}

// SendStatusChange announces an approval transition to the department.
func SendStatusChange(deptID primitive.ObjectID, entityType, entityID, oldStatus, newStatus, userID, userName string) {
	broadcast(deptID.Hex(), "", Update{
		Type:     "STATUS_CHANGE",
		EntityID: entityID,
		Data: map[string]interface{}{
			"entityType": entityType,
			"oldStatus":  oldStatus,
			"newStatus":  newStatus,
		},
		Timestamp: time.Now(),
		UserID:    userID,
		UserName:  userName,
	})
}

// SendChangeRequestApplied announces an implemented change request.
func SendChangeRequestApplied(deptID primitive.ObjectID, cr interface{}, userID, userName string) {
	broadcast(deptID.Hex(), "", Update{
		Type:      "CHANGE_REQUEST_APPLIED",
		Data:      cr,
		Timestamp: time.Now(),
		UserID:    userID,
		UserName:  userName,
	})
}

// SendNotification pushes a freshly appended notification to its
// recipient's open connections.
func SendNotification(n models.Notification) {
	broadcast("", n.UserID, Update{
		Type:      "NOTIFICATION",
		EntityID:  n.ID,
		Data:      n,
		Timestamp: n.CreatedAt,
	})
}
