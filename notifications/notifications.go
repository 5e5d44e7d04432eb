package notifications

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"wayfare/db"
	"wayfare/models"
	"wayfare/utils"
)

// GET /api/notifications
func GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"userId": userID}
	if r.URL.Query().Get("unread") == "true" {
		filter["read"] = false
	}

	items, err := utils.FindAndDecode[models.Notification](r.Context(), db.NotificationsCollection, filter)
	if err != nil {
		http.Error(w, "Error fetching notifications", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// PUT /api/notifications/:id/read
func MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"notificationId": ps.ByName("id"), "userId": userID}
	update := bson.M{"$set": bson.M{"read": true}}
	res, err := db.NotificationsCollection.UpdateOne(r.Context(), filter, update)
	if err != nil {
		http.Error(w, "Error updating notification", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Notification read"})
}
