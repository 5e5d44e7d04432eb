// Package timeline places bookable items onto calendar dates within a
// planner and derives day-by-day views. Itinerary items and cart lines are
// separate collections: an item can be scheduled without being a purchase
// and vice versa.
package timeline

import (
	"context"
	"log"
	"time"

	"wayfare/apperr"
	"wayfare/globals"
	"wayfare/models"
	"wayfare/planner"
	"wayfare/utils"
)

type Manager struct {
	store *planner.Store
}

func NewManager(store *planner.Store) *Manager {
	return &Manager{store: store}
}

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
	return p, nil
}

func (m *Manager) writeItems(ctx context.Context, plannerID string, items []models.PlannerItem) (*models.Planner, error) {
	return m.store.Update(ctx, plannerID, models.PlannerPatch{Items: &items})
}

// AddToPlanner builds the full item record and persists it through the
// store. The secondary-currency price is derived from the configured
// exchange multiplier.
func (m *Manager) AddToPlanner(ctx context.Context, req models.ItemRequest) (*models.PlannerItem, error) {
	if req.ItemType != models.ItemTypeProduct && req.ItemType != models.ItemTypeService {
		return nil, apperr.Validation("item type must be product or service")
	}
	if req.SourceID == "" || req.Name == "" {
		return nil, apperr.Validation("item source id and name are required")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	if req.Price < 0 {
		return nil, apperr.Validation("price cannot be negative")
	}

	p, err := m.resolve(ctx, req.PlannerID)
	if err != nil {
		return nil, err
	}

	item := models.PlannerItem{
		ItemID:         utils.GetUUID(),
		ItemType:       req.ItemType,
		SourceID:       req.SourceID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		PriceSecondary: round2(req.Price * globals.FxRate),
		Quantity:       req.Quantity,
		PaymentOption:  models.PaymentCash,
		PlannedDate:    req.PlannedDate,
		PlannedTime:    req.PlannedTime,
		Priority:       req.Priority,
		Confirmed:      req.Confirmed,
		Paid:           req.Paid,
		Notes:          req.Notes,
		Image:          req.Image,
		Location:       req.Location,
		Duration:       req.Duration,
		AddedAt:        time.Now(),
	}

	items := make([]models.PlannerItem, 0, len(p.Items)+1)
	items = append(items, p.Items...)
	items = append(items, item)

	if _, err := m.writeItems(ctx, p.PlannerID, items); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromPlanner filters the item out; a missing item is a no-op.
func (m *Manager) RemoveFromPlanner(ctx context.Context, itemID, plannerID string) error {
	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return err
	}

	items := make([]models.PlannerItem, 0, len(p.Items))
	found := false
	for _, it := range p.Items {
		if it.ItemID == itemID {
			found = true
			continue
		}
		items = append(items, it)
	}
	if !found {
		return nil
	}

	_, err = m.writeItems(ctx, p.PlannerID, items)
	return err
}

// UpdatePlannerItem merges the non-nil patch fields into the matching item.
func (m *Manager) UpdatePlannerItem(ctx context.Context, itemID string, patch models.PlannerItemPatch, plannerID string) error {
	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return err
	}

	items := make([]models.PlannerItem, len(p.Items))
	copy(items, p.Items)
	idx := -1
	for i := range items {
		if items[i].ItemID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperr.NotFound("planner item not found")
	}
	items[idx] = applyItemPatch(items[idx], patch)

	_, err = m.writeItems(ctx, p.PlannerID, items)
	return err
}

// MovePlannerItem reschedules an item to a new calendar date.
func (m *Manager) MovePlannerItem(ctx context.Context, itemID string, newDate time.Time, plannerID string) error {
	return m.UpdatePlannerItem(ctx, itemID, models.PlannerItemPatch{PlannedDate: &newDate}, plannerID)
}

// PayForItems marks the given items paid. No gateway is involved; the
// wallet side settles separately.
func (m *Manager) PayForItems(ctx context.Context, itemIDs []string, plannerID string) error {
	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	items := make([]models.PlannerItem, len(p.Items))
	copy(items, p.Items)
	for i := range items {
		if wanted[items[i].ItemID] {
			items[i].Paid = true
		}
	}

	_, err = m.writeItems(ctx, p.PlannerID, items)
	return err
}

// MigrateFromCart creates a planner from a legacy cart and copies its
// lines over as itinerary items. Item migration is best effort: failures
// are counted and logged, not fatal, as long as the planner was created.
func (m *Manager) MigrateFromCart(ctx context.Context, mig models.CartMigration) (string, int, error) {
	req := models.PlannerCreateRequest{
		Name:        mig.Name,
		Destination: mig.Destination,
		Travelers:   1,
	}
	plannerID, err := m.store.Create(ctx, req, nil)
	if err != nil {
		return "", 0, err
	}

	failed := 0
	for _, it := range mig.Items {
		_, err := m.AddToPlanner(ctx, models.ItemRequest{
			PlannerID:   plannerID,
			ItemType:    it.ItemType,
			SourceID:    it.SourceID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
		if err != nil {
			log.Printf("MigrateFromCart: item %q not migrated: %v", it.Name, err)
			failed++
		}
	}
	return plannerID, failed, nil
}

// Days, ItemsByDate, Summary, TotalCost, and DateRange are the derived
// views; they delegate to the store's pure queries.

func (m *Manager) Days(plannerID string) []models.PlannerDay {
	return m.store.Days(plannerID)
}

func (m *Manager) ItemsByDate(date time.Time, plannerID string) []models.PlannerItem {
	return m.store.ItemsByDate(date, plannerID)
}

func (m *Manager) Summary(plannerID string) models.PlannerSummary {
	return m.store.Summary(plannerID)
}

func (m *Manager) TotalCost(plannerID string) float64 {
	return m.store.TotalCost(plannerID)
}

func (m *Manager) DateRange(plannerID string) (start, end *time.Time) {
	return m.store.DateRange(plannerID)
}

func applyItemPatch(it models.PlannerItem, patch models.PlannerItemPatch) models.PlannerItem {
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Price != nil {
		it.Price = *patch.Price
		it.PriceSecondary = round2(it.Price * globals.FxRate)
	}
	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.PaymentOption != nil {
		it.PaymentOption = *patch.PaymentOption
	}
	if patch.Category != nil {
		it.Category = *patch.Category
	}
	if patch.PlannedDate != nil {
		it.PlannedDate = patch.PlannedDate
	}
	if patch.PlannedTime != nil {
		it.PlannedTime = *patch.PlannedTime
	}
	if patch.Priority != nil {
		it.Priority = *patch.Priority
	}
	if patch.Confirmed != nil {
		it.Confirmed = *patch.Confirmed
	}
	if patch.Paid != nil {
		it.Paid = *patch.Paid
	}
	if patch.Notes != nil {
		it.Notes = *patch.Notes
	}
	if patch.Location != nil {
		it.Location = *patch.Location
	}
	if patch.Duration != nil {
		it.Duration = *patch.Duration
	}
	return it
}
