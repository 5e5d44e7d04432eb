package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"wayfare/models"
	"wayfare/utils"
)

// Handler exposes the planner store over REST. One store per signed-in
// user, resolved from the session registry on every request.
type Handler struct {
	Sessions *Sessions
}

func NewHandler(sessions *Sessions) *Handler {
	return &Handler{Sessions: sessions}
}

func (h *Handler) storeFor(w http.ResponseWriter, r *http.Request) *Store {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	return h.Sessions.StoreFor(r.Context(), userID)
}

// GET /api/planners
func (h *Handler) ListPlanners(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, store.Planners())
}

// POST /api/planners
// The confirmation gate is the client's explicit confirmed flag; declined
// creations are not errors, they simply produce no planner.
func (h *Handler) CreatePlanner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}

	var payload struct {
		models.PlannerCreateRequest
		Confirmed bool `json:"confirmed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Name == "" || payload.Destination == "" {
		http.Error(w, "Name and destination are required", http.StatusBadRequest)
		return
	}

	confirm := func(context.Context) (bool, error) { return payload.Confirmed, nil }
	id, err := store.Create(r.Context(), payload.PlannerCreateRequest, confirm)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if id == "" {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"created": false})
		return
	}
	p, _ := store.Get(id)
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// GET /api/planners/active
func (h *Handler) GetActivePlanner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}
	p, ok := store.Active()
	if !ok {
		http.Error(w, "No active planner", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// POST /api/planners/active
// Body carries the planner id; empty clears the selection. An unknown id
// is a no-op by design.
func (h *Handler) SetActivePlanner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}

	var payload struct {
		PlannerID string `json:"plannerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	store.SetActive(payload.PlannerID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"activeId": store.ActiveID()})
}

// GET /api/planners/all/:id
func (h *Handler) GetPlanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}
	p, ok := store.Lookup(r.Context(), ps.ByName("id"))
	if !ok {
		http.Error(w, "Planner not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// PATCH /api/planners/all/:id
func (h *Handler) UpdatePlanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}

	var patch models.PlannerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := store.Update(r.Context(), ps.ByName("id"), patch)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/planners/all/:id
func (h *Handler) DeletePlanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}
	if err := store.Delete(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Planner deleted"})
}

// GET /api/planners/all/:id/days
func (h *Handler) GetPlannerDays(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, store.Days(ps.ByName("id")))
}

// GET /api/planners/all/:id/summary
func (h *Handler) GetPlannerSummary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, store.Summary(ps.ByName("id")))
}

// GET /api/planners/all/:id/items?date=YYYY-MM-DD
func (h *Handler) GetPlannerItems(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}

	id := ps.ByName("id")
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			http.Error(w, "Invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, store.ItemsByDate(date, id))
		return
	}

	p, ok := store.Lookup(r.Context(), id)
	if !ok {
		http.Error(w, "Planner not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p.Items)
}

// GET /api/planners/all/:id/range
func (h *Handler) GetPlannerDateRange(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	store := h.storeFor(w, r)
	if store == nil {
		return
	}
	start, end := store.DateRange(ps.ByName("id"))
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"start":     start,
		"end":       end,
		"totalCost": store.TotalCost(ps.ByName("id")),
	})
}
