package cart

import (
	"encoding/json"
	"net/http"

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

// GET /api/planners/all/:id/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	plannerID := ps.ByName("id")
	p, err := m.resolve(r.Context(), plannerID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"cart":      p.Cart,
		"itemCount": m.ItemCount(r.Context(), plannerID),
	})
}

// POST /api/planners/all/:id/cart/items
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	var item models.PlannerCartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	added, err := m.AddToCart(r.Context(), item, ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, added)
}

// PATCH /api/planners/all/:id/cart/items/:itemId
// Body may carry a new quantity, a new payment option, or both.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	var payload struct {
		Quantity      *int    `json:"quantity,omitempty"`
		PaymentOption *string `json:"paymentOption,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.Quantity == nil && payload.PaymentOption == nil {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	plannerID, itemID := ps.ByName("id"), ps.ByName("itemId")
	if payload.Quantity != nil {
		if err := m.UpdateQuantity(r.Context(), itemID, *payload.Quantity, plannerID); err != nil {
			utils.RespondWithAppError(w, err)
			return
		}
	}
	if payload.PaymentOption != nil {
		if err := m.UpdatePaymentOption(r.Context(), itemID, *payload.PaymentOption, plannerID); err != nil {
			utils.RespondWithAppError(w, err)
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "updated"})
}

// DELETE /api/planners/all/:id/cart/items/:itemId
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}
	if err := m.RemoveFromCart(r.Context(), ps.ByName("itemId"), ps.ByName("id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "removed"})
}

// DELETE /api/planners/all/:id/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}
	if err := m.ClearCart(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "cleared"})
}

// POST /api/planners/quick
func (h *Handler) QuickPlanner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	m := h.managerFor(w, r)
	if m == nil {
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	// Body is optional for this convenience path.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	id, err := m.QuickPlanner(r.Context(), payload.Name)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"plannerId": id})
}

// POST /api/payments/installments
func (h *Handler) Installments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		Amount       float64 `json:"amount"`
		Installments int     `json:"installments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.Amount <= 0 || payload.Installments < 1 {
		http.Error(w, "Amount and installments must be positive", http.StatusBadRequest)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, CalculateInstallments(payload.Amount, payload.Installments))
}

// POST /api/payments/plan
func (h *Handler) PaymentPlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		Total        float64 `json:"total"`
		Installments int     `json:"installments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.Total <= 0 || payload.Installments < 1 {
		http.Error(w, "Total and installments must be positive", http.StatusBadRequest)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, CalculatePaymentPlan(payload.Total, payload.Installments))
}
