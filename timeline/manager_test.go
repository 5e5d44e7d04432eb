package timeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"wayfare/apperr"
	"wayfare/models"
	"wayfare/planner"
)

type memRepo struct {
	planners []models.Planner
}

func (m *memRepo) List(_ context.Context, userID string) ([]models.Planner, error) {
	out := []models.Planner{}
	for _, p := range m.planners {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) Insert(_ context.Context, p models.Planner) error {
	m.planners = append(m.planners, p)
	return nil
}

func (m *memRepo) Replace(_ context.Context, userID, plannerID string, p models.Planner) error {
	for i := range m.planners {
		if m.planners[i].PlannerID == plannerID && m.planners[i].UserID == userID {
			m.planners[i] = p
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memRepo) Delete(_ context.Context, userID, plannerID string) error {
	for i := range m.planners {
		if m.planners[i].PlannerID == plannerID && m.planners[i].UserID == userID {
			m.planners = append(m.planners[:i], m.planners[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func newTestManager(t *testing.T) (*Manager, *planner.Store, string) {
	t.Helper()
	store := planner.NewStore("u1", &memRepo{}, nil)
	id, err := store.Create(context.Background(), models.PlannerCreateRequest{
		Name:        "Kyoto in spring",
		Destination: "Kyoto",
	}, nil)
	if err != nil {
		t.Fatalf("create planner: %v", err)
	}
	return NewManager(store), store, id
}

func templeVisit(plannerID string, date *time.Time) models.ItemRequest {
	return models.ItemRequest{
		PlannerID:   plannerID,
		ItemType:    models.ItemTypeService,
		SourceID:    "svc-temple",
		Name:        "Temple visit",
		Price:       40,
		Quantity:    1,
		PlannedDate: date,
	}
}

func TestAddToPlannerDefaults(t *testing.T) {
	m, store, id := newTestManager(t)

	req := templeVisit(id, nil)
	req.Quantity = 0 // defaulted up, not rejected
	item, err := m.AddToPlanner(context.Background(), req)
	if err != nil {
		t.Fatalf("AddToPlanner: %v", err)
	}
	if item.ItemID == "" {
		t.Error("item has no id")
	}
	if item.Quantity != 1 {
		t.Errorf("quantity = %d, want defaulted to 1", item.Quantity)
	}
	if item.PaymentOption != models.PaymentCash {
		t.Errorf("paymentOption = %q, want cash", item.PaymentOption)
	}
	if item.PriceSecondary != 36 {
		t.Errorf("priceSecondary = %v, want 36 (40 at the configured rate)", item.PriceSecondary)
	}

	p, _ := store.Get(id)
	if len(p.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(p.Items))
	}
	if p.TotalEstimated != 40 {
		t.Errorf("totalEstimated = %v, want 40", p.TotalEstimated)
	}
}

func TestAddToPlannerValidation(t *testing.T) {
	m, _, id := newTestManager(t)
	ctx := context.Background()

	bad := templeVisit(id, nil)
	bad.ItemType = "coupon"
	if _, err := m.AddToPlanner(ctx, bad); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("bad type: kind = %v, want KindValidation", apperr.KindOf(err))
	}

	bad = templeVisit(id, nil)
	bad.SourceID = ""
	if _, err := m.AddToPlanner(ctx, bad); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("missing source: kind = %v, want KindValidation", apperr.KindOf(err))
	}

	bad = templeVisit(id, nil)
	bad.Price = -5
	if _, err := m.AddToPlanner(ctx, bad); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("negative price: kind = %v, want KindValidation", apperr.KindOf(err))
	}
}

func TestUndatedItemExcludedFromDaysButCosted(t *testing.T) {
	m, _, id := newTestManager(t)
	ctx := context.Background()

	day := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	if _, err := m.AddToPlanner(ctx, templeVisit(id, &day)); err != nil {
		t.Fatalf("dated add: %v", err)
	}
	undated := templeVisit(id, nil)
	undated.Name = "Souvenir budget"
	undated.Price = 60
	if _, err := m.AddToPlanner(ctx, undated); err != nil {
		t.Fatalf("undated add: %v", err)
	}

	days := m.Days(id)
	if len(days) != 1 {
		t.Fatalf("days = %d, want 1", len(days))
	}
	if len(days[0].Items) != 1 {
		t.Errorf("items on day = %d, want 1", len(days[0].Items))
	}
	if got := m.TotalCost(id); got != 100 {
		t.Errorf("totalCost = %v, want 100 (undated still counted)", got)
	}
	if s := m.Summary(id); s.DaysPlanned != 1 || s.ItemCount != 2 {
		t.Errorf("summary = %+v, want 1 day over 2 items", s)
	}
}

func TestMovePlannerItem(t *testing.T) {
	m, store, id := newTestManager(t)
	ctx := context.Background()

	day := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	item, err := m.AddToPlanner(ctx, templeVisit(id, &day))
	if err != nil {
		t.Fatalf("AddToPlanner: %v", err)
	}

	newDay := day.AddDate(0, 0, 3)
	if err := m.MovePlannerItem(ctx, item.ItemID, newDay, id); err != nil {
		t.Fatalf("MovePlannerItem: %v", err)
	}

	p, _ := store.Get(id)
	if got := p.Items[0].PlannedDate; got == nil || !got.Equal(newDay) {
		t.Errorf("plannedDate = %v, want %v", got, newDay)
	}
	days := m.Days(id)
	if len(days) != 1 || days[0].Date != "2026-04-05" {
		t.Errorf("days = %+v, want single bucket on 2026-04-05", days)
	}
}

func TestRemoveMissingItemIsNoOp(t *testing.T) {
	m, store, id := newTestManager(t)
	ctx := context.Background()

	if _, err := m.AddToPlanner(ctx, templeVisit(id, nil)); err != nil {
		t.Fatalf("AddToPlanner: %v", err)
	}
	if err := m.RemoveFromPlanner(ctx, "ghost-item", id); err != nil {
		t.Fatalf("RemoveFromPlanner: %v", err)
	}
	p, _ := store.Get(id)
	if len(p.Items) != 1 {
		t.Errorf("items = %d, want 1", len(p.Items))
	}
}

func TestUpdateItemPriceRefreshesSecondary(t *testing.T) {
	m, store, id := newTestManager(t)
	ctx := context.Background()

	item, err := m.AddToPlanner(ctx, templeVisit(id, nil))
	if err != nil {
		t.Fatalf("AddToPlanner: %v", err)
	}

	price := 100.0
	if err := m.UpdatePlannerItem(ctx, item.ItemID, models.PlannerItemPatch{Price: &price}, id); err != nil {
		t.Fatalf("UpdatePlannerItem: %v", err)
	}

	p, _ := store.Get(id)
	if p.Items[0].Price != 100 {
		t.Errorf("price = %v, want 100", p.Items[0].Price)
	}
	if p.Items[0].PriceSecondary != 90 {
		t.Errorf("priceSecondary = %v, want 90", p.Items[0].PriceSecondary)
	}
	if p.TotalEstimated != 100 {
		t.Errorf("totalEstimated = %v, want 100", p.TotalEstimated)
	}
}

func TestPayForItems(t *testing.T) {
	m, store, id := newTestManager(t)
	ctx := context.Background()

	a, _ := m.AddToPlanner(ctx, templeVisit(id, nil))
	b, _ := m.AddToPlanner(ctx, templeVisit(id, nil))

	if err := m.PayForItems(ctx, []string{a.ItemID}, id); err != nil {
		t.Fatalf("PayForItems: %v", err)
	}

	p, _ := store.Get(id)
	paid := map[string]bool{}
	for _, it := range p.Items {
		paid[it.ItemID] = it.Paid
	}
	if !paid[a.ItemID] {
		t.Error("paid item not marked")
	}
	if paid[b.ItemID] {
		t.Error("unpaid item marked")
	}
	if s := m.Summary(id); s.TotalPaid != 40 || s.PendingPayment != 40 {
		t.Errorf("summary = %+v, want 40 paid / 40 pending", s)
	}
}

func TestMigrateFromCart(t *testing.T) {
	store := planner.NewStore("u1", &memRepo{}, nil)
	m := NewManager(store)

	mig := models.CartMigration{
		Name:        "Rescued trip",
		Destination: "Oaxaca",
		Items: []models.PlannerCartItem{
			{ItemType: models.ItemTypeService, SourceID: "svc-1", Name: "City tour", Price: 45, Quantity: 2},
			{ItemType: "voucher", SourceID: "svc-2", Name: "Broken line", Price: 10, Quantity: 1},
			{ItemType: models.ItemTypeProduct, SourceID: "prd-1", Name: "Guidebook", Price: 15, Quantity: 1},
		},
	}

	id, failed, err := m.MigrateFromCart(context.Background(), mig)
	if err != nil {
		t.Fatalf("MigrateFromCart: %v", err)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}

	p, ok := store.Get(id)
	if !ok {
		t.Fatal("migrated planner not in store")
	}
	if p.Name != "Rescued trip" || p.Destination != "Oaxaca" {
		t.Errorf("planner = %q/%q, want migration header kept", p.Name, p.Destination)
	}
	if len(p.Items) != 2 {
		t.Errorf("items = %d, want 2 (bad line skipped)", len(p.Items))
	}
	if p.TotalEstimated != 105 {
		t.Errorf("totalEstimated = %v, want 105", p.TotalEstimated)
	}
}

func TestMigrateFromCartEmpty(t *testing.T) {
	store := planner.NewStore("u1", &memRepo{}, nil)
	m := NewManager(store)

	id, failed, err := m.MigrateFromCart(context.Background(), models.CartMigration{
		Name:        "Empty cart",
		Destination: "Nowhere yet",
	})
	if err != nil {
		t.Fatalf("MigrateFromCart: %v", err)
	}
	if failed != 0 {
		t.Errorf("failed = %d, want 0", failed)
	}
	if _, ok := store.Get(id); !ok {
		t.Error("planner not created for empty migration")
	}
}
