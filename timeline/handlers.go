package timeline

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/julienschmidt/httprouter"

	"wayfare/models"
	"wayfare/planner"
	"wayfare/utils"
)

type Handler struct {
	Sessions *planner.Sessions
}

func NewHandler(sessions *planner.Sessions) *Handler {
	return &Handler{Sessions: sessions}
}

func (h *Handler) managerFor(w http.ResponseWriter, r *http.Request) *Manager {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	return NewManager(h.Sessions.StoreFor(r.Context(), userID))
}

// POST /api/planners/all/:id/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	var req models.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	req.PlannerID = ps.ByName("id")

	item, err := m.AddToPlanner(r.Context(), req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, item)
}

// PATCH /api/planners/all/:id/items/:itemId
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	var patch models.PlannerItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := m.UpdatePlannerItem(r.Context(), ps.ByName("itemId"), patch, ps.ByName("id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "updated"})
}

// PATCH /api/planners/all/:id/items/:itemId/move
func (h *Handler) MoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	var payload struct {
		PlannedDate time.Time `json:"plannedDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := m.MovePlannerItem(r.Context(), ps.ByName("itemId"), payload.PlannedDate, ps.ByName("id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "moved"})
}

// DELETE /api/planners/all/:id/items/:itemId
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}
	if err := m.RemoveFromPlanner(r.Context(), ps.ByName("itemId"), ps.ByName("id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "removed"})
}

// POST /api/planners/all/:id/pay
func (h *Handler) PayItems(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	var payload struct {
		ItemIDs []string `json:"itemIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := m.PayForItems(r.Context(), payload.ItemIDs, ps.ByName("id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "paid"})
}

// POST /api/planners/migrate
func (h *Handler) MigrateFromCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	var mig models.CartMigration
	if err := json.NewDecoder(r.Body).Decode(&mig); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if mig.Name == "" || mig.Destination == "" {
		http.Error(w, "Name and destination are required", http.StatusBadRequest)
		return
	}

	plannerID, failed, err := m.MigrateFromCart(r.Context(), mig)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"plannerId":   plannerID,
		"failedItems": failed,
	})
}

// POST /api/planners/all/:id/share
func (h *Handler) SharePlanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	token, err := m.SharePlanner(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"token": token})
}

// POST /api/planners/join/:token
func (h *Handler) JoinSharedPlanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}
	if err := m.JoinSharedPlanner(r.Context(), ps.ByName("token")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "joined"})
}

// GET /api/planners/shared/:token/qr
func (h *Handler) ShareQRCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	base := os.Getenv("SHARE_BASE_URL")
	if base == "" {
		base = "https://wayfare.app"
	}
	png, err := ShareQR(ps.ByName("token"), base)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// GET /api/planners/all/:id/export/pdf
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	data, err := m.ExportPDF(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=itinerary.pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
