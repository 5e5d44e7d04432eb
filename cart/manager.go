package cart

import (
	"context"
	"fmt"
	"time"

	"wayfare/apperr"
	"wayfare/models"
	"wayfare/planner"
	"wayfare/utils"
)

// Manager layers cart semantics over the planner store. It never talks to
// the backend itself; every mutation goes through Store.Update, and the
// committed planner the store returns is the manager's read-after-write.
type Manager struct {
	store *planner.Store
}

func NewManager(store *planner.Store) *Manager {
	return &Manager{store: store}
}

// resolve picks the target planner: explicit id first, active otherwise.
// An explicit id that differs from the current selection switches the
// active pointer so follow-up mutations land on the same planner.
func (m *Manager) resolve(ctx context.Context, plannerID string) (models.Planner, error) {
	id := plannerID
	if id == "" {
		id = m.store.ActiveID()
	}
	if id == "" {
		return models.Planner{}, apperr.NotFound("no planner selected")
	}
	p, ok := m.store.Lookup(ctx, id)
	if !ok {
		return models.Planner{}, apperr.NotFound("planner not found")
	}
	if plannerID != "" && m.store.ActiveID() != plannerID {
		m.store.SetActive(plannerID)
	}
	return p, nil
}

func (m *Manager) writeCart(ctx context.Context, plannerID string, cart models.PlannerCart) (*models.Planner, error) {
	return m.store.Update(ctx, plannerID, models.PlannerPatch{Cart: &cart})
}

// AddToCart validates and appends a line item, assigning a fresh id and
// timestamp. Totals are recomputed by the store before the write lands.
func (m *Manager) AddToCart(ctx context.Context, item models.PlannerCartItem, plannerID string) (*models.PlannerCartItem, error) {
	if item.ItemType != models.ItemTypeProduct && item.ItemType != models.ItemTypeService {
		return nil, apperr.Validation("item type must be product or service")
	}
	if item.SourceID == "" || item.Name == "" {
		return nil, apperr.Validation("item source id and name are required")
	}
	if item.Quantity < 1 {
		return nil, apperr.Validation("quantity must be at least 1")
	}
	if item.Price < 0 {
		return nil, apperr.Validation("price cannot be negative")
	}
	if item.PaymentOption != models.PaymentCash && item.PaymentOption != models.PaymentInstallments {
		return nil, apperr.Validation("payment option must be cash or installments")
	}

	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return nil, err
	}

	item.ItemID = utils.GetUUID()
	item.AddedAt = time.Now()

	cart := p.Cart
	items := make([]models.PlannerCartItem, 0, len(cart.Items)+1)
	items = append(items, cart.Items...)
	items = append(items, item)
	cart.Items = items

	if _, err := m.writeCart(ctx, p.PlannerID, cart); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromCart filters the item out. Removing an item that is not in
// the cart is a no-op: no write, totals untouched.
func (m *Manager) RemoveFromCart(ctx context.Context, itemID, plannerID string) error {
	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return err
	}

	cart := p.Cart
	items := make([]models.PlannerCartItem, 0, len(cart.Items))
	found := false
	for _, it := range cart.Items {
		if it.ItemID == itemID {
			found = true
			continue
		}
		items = append(items, it)
	}
	if !found {
		return nil
	}
	cart.Items = items

	_, err = m.writeCart(ctx, p.PlannerID, cart)
	return err
}

// UpdateQuantity replaces the item's quantity; zero or negative behaves
// exactly like RemoveFromCart.
func (m *Manager) UpdateQuantity(ctx context.Context, itemID string, quantity int, plannerID string) error {
	if quantity <= 0 {
		return m.RemoveFromCart(ctx, itemID, plannerID)
	}

	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return err
	}

	cart := p.Cart
	items := make([]models.PlannerCartItem, len(cart.Items))
	copy(items, cart.Items)
	found := false
	for i := range items {
		if items[i].ItemID == itemID {
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return apperr.NotFound("cart item not found")
	}
	cart.Items = items

	_, err = m.writeCart(ctx, p.PlannerID, cart)
	return err
}

// UpdatePaymentOption switches a line between cash and installments.
func (m *Manager) UpdatePaymentOption(ctx context.Context, itemID, option, plannerID string) error {
	if option != models.PaymentCash && option != models.PaymentInstallments {
		return apperr.Validation("payment option must be cash or installments")
	}

	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return err
	}

	cart := p.Cart
	items := make([]models.PlannerCartItem, len(cart.Items))
	copy(items, cart.Items)
	found := false
	for i := range items {
		if items[i].ItemID == itemID {
			items[i].PaymentOption = option
			found = true
			break
		}
	}
	if !found {
		return apperr.NotFound("cart item not found")
	}
	cart.Items = items

	_, err = m.writeCart(ctx, p.PlannerID, cart)
	return err
}

// ClearCart empties the cart and zeroes every total.
func (m *Manager) ClearCart(ctx context.Context, plannerID string) error {
	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return err
	}

	cart := p.Cart
	cart.Items = []models.PlannerCartItem{}
	cart.Discount = 0

	_, err = m.writeCart(ctx, p.PlannerID, cart)
	return err
}

// QuickPlanner creates a minimally-filled planner for users with no trip
// yet, pre-confirmed and set active. Returns the new planner id.
func (m *Manager) QuickPlanner(ctx context.Context, name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("Trip %s", time.Now().Format("2006-01-02"))
	}
	req := models.PlannerCreateRequest{
		Name:        name,
		Destination: "Compra rápida",
		Travelers:   1,
	}
	return m.store.Create(ctx, req, nil)
}

// Total returns the cart total, zero when no planner resolves.
func (m *Manager) Total(ctx context.Context, plannerID string) float64 {
	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return 0
	}
	return p.Cart.Total
}

// ItemCount returns the sum of quantities, zero when no planner resolves.
func (m *Manager) ItemCount(ctx context.Context, plannerID string) int {
	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return 0
	}
	count := 0
	for _, it := range p.Cart.Items {
		count += it.Quantity
	}
	return count
}
