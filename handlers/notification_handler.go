// handlers/notification_handler.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/LenoreWoW/Themis-sub003/utils"
)

// ListNotifications returns the caller's notification log in insertion
// order, oldest first.
func ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	list := notifications.ForUser(userID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": list,
		"count":         len(list),
		"unread":        notifications.UnreadCount(userID),
	})
}

// MarkNotificationRead flips one notification to read. Safe to repeat.
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "notification id required")
		return
	}

	// Touch the caller's log so a restart-restored store can find the id.
	notifications.ForUser(userID)

	if !notifications.MarkRead(id) {
		utils.RespondWithError(w, http.StatusNotFound, "notification not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// MarkAllNotificationsRead flips the caller's whole log to read.
func MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	notifications.MarkAllRead(userID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
