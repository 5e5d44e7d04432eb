// Package servicelist is the marketplace catalog of bookable services;
// planner items reference a listing through their source id.
package servicelist

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"wayfare/db"
	"wayfare/models"
	"wayfare/utils"
)

// POST /api/services
func CreateService(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var svc models.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if svc.Name == "" || svc.Category == "" || svc.Price < 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	svc.ServiceID = utils.GenerateRandomString(13)
	svc.SupplierID = userID
	svc.Active = true
	svc.CreatedAt = time.Now()
	if svc.Currency == "" {
		svc.Currency = "USD"
	}

	if _, err := db.ServicesCollection.InsertOne(r.Context(), svc); err != nil {
		log.Println("CreateService insert error:", err)
		http.Error(w, "Error creating service", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, svc)
}

// GET /api/services?category=&location=
func GetServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{"active": true, "deleted": bson.M{"$ne": true}}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter["category"] = cat
	}
	if loc := r.URL.Query().Get("location"); loc != "" {
		filter["location"] = loc
	}

	services, err := utils.FindAndDecode[models.Service](r.Context(), db.ServicesCollection, filter)
	if err != nil {
		log.Println("GetServices find error:", err)
		http.Error(w, "Error fetching services", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, services)
}

// GET /api/services/:id
func GetService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var svc models.Service
	filter := bson.M{"serviceId": ps.ByName("id"), "deleted": bson.M{"$ne": true}}
	if err := db.ServicesCollection.FindOne(r.Context(), filter).Decode(&svc); err != nil {
		http.Error(w, "Service not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, svc)
}

// PUT /api/services/:id
func UpdateService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	serviceID := ps.ByName("id")
	var existing models.Service
	if err := db.ServicesCollection.FindOne(r.Context(), bson.M{"serviceId": serviceID}).Decode(&existing); err != nil {
		http.Error(w, "Service not found", http.StatusNotFound)
		return
	}
	if existing.SupplierID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var updated models.Service
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	update := bson.M{"$set": bson.M{
		"name":        updated.Name,
		"category":    updated.Category,
		"description": updated.Description,
		"price":       updated.Price,
		"currency":    updated.Currency,
		"location":    updated.Location,
		"active":      updated.Active,
	}}
	if _, err := db.ServicesCollection.UpdateOne(r.Context(), bson.M{"serviceId": serviceID}, update); err != nil {
		http.Error(w, "Error updating service", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Service updated"})
}

// DELETE /api/services/:id
func DeleteService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	serviceID := ps.ByName("id")
	var existing models.Service
	if err := db.ServicesCollection.FindOne(r.Context(), bson.M{"serviceId": serviceID}).Decode(&existing); err != nil {
		http.Error(w, "Service not found", http.StatusNotFound)
		return
	}
	if existing.SupplierID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	update := bson.M{"$set": bson.M{"deleted": true, "active": false}}
	if _, err := db.ServicesCollection.UpdateOne(r.Context(), bson.M{"serviceId": serviceID}, update); err != nil {
		http.Error(w, "Error deleting service", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Service deleted"})
}
