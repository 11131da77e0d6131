// handlers/collections.go
package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/LenoreWoW/Themis-sub003/database"
	"github.com/LenoreWoW/Themis-sub003/notify"
)

var (
	userCollection          *mongo.Collection
	departmentCollection    *mongo.Collection
	projectCollection       *mongo.Collection
	changeRequestCollection *mongo.Collection
	assignmentCollection    *mongo.Collection
	meetingCollection       *mongo.Collection
	weeklyUpdateCollection  *mongo.Collection
	auditCollection         *mongo.Collection

	notifications *notify.Store
)

func InitCollections() {
	db := database.DB()
	userCollection = db.Collection("users")
	departmentCollection = db.Collection("departments")
	projectCollection = db.Collection("projects")
	changeRequestCollection = db.Collection("changeRequests")
	assignmentCollection = db.Collection("assignments")
	meetingCollection = db.Collection("meetings")
	weeklyUpdateCollection = db.Collection("weeklyUpdates")
	auditCollection = db.Collection("auditLogs")
}

// SetNotificationStore hands the handlers the store the rule engine writes
// to, so the read/dismiss endpoints and the engine share one log.
func SetNotificationStore(s *notify.Store) {
	notifications = s
}
