package planner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"wayfare/apperr"
	"wayfare/models"
)

type fakeRepo struct {
	mu       sync.Mutex
	planners []models.Planner

	failList    bool
	failInsert  bool
	failReplace bool

	inserts  int
	replaces int
	deletes  int
}

func (f *fakeRepo) List(_ context.Context, userID string) ([]models.Planner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errors.New("list failed")
	}
	out := []models.Planner{}
	for _, p := range f.planners {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Insert(_ context.Context, p models.Planner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert {
		return errors.New("insert failed")
	}
	f.inserts++
	f.planners = append(f.planners, p)
	return nil
}

func (f *fakeRepo) Replace(_ context.Context, userID, plannerID string, p models.Planner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReplace {
		return errors.New("replace failed")
	}
	f.replaces++
	for i := range f.planners {
		if f.planners[i].PlannerID == plannerID && f.planners[i].UserID == userID {
			f.planners[i] = p
			return nil
		}
	}
	f.planners = append(f.planners, p)
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, plannerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	for i := range f.planners {
		if f.planners[i].PlannerID == plannerID && f.planners[i].UserID == userID {
			f.planners = append(f.planners[:i], f.planners[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

type fakeSnapshots struct {
	mu    sync.Mutex
	saved map[string][]models.Planner
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{saved: make(map[string][]models.Planner)}
}

func (f *fakeSnapshots) Save(_ context.Context, userID string, planners []models.Planner) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[userID] = planners
}

func (f *fakeSnapshots) Load(_ context.Context, userID string) []models.Planner {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[userID]
}

func (f *fakeSnapshots) Drop(_ context.Context, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, userID)
}

func TestCreateSetsDefaultsAndBecomesActive(t *testing.T) {
	repo := &fakeRepo{}
	store := NewStore("u1", repo, nil)

	id, err := store.Create(context.Background(), models.PlannerCreateRequest{
		Name:        "Cancún getaway",
		Destination: "Cancún",
	}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("Create returned empty id")
	}

	p, ok := store.Get(id)
	if !ok {
		t.Fatal("created planner not found in store")
	}
	if p.Status != models.PlannerStatusDraft {
		t.Errorf("status = %q, want %q", p.Status, models.PlannerStatusDraft)
	}
	if p.Currency != "USD" {
		t.Errorf("currency = %q, want USD", p.Currency)
	}
	if p.Travelers != 1 {
		t.Errorf("travelers = %d, want 1", p.Travelers)
	}
	if store.ActiveID() != id {
		t.Errorf("active = %q, want %q", store.ActiveID(), id)
	}
	if repo.inserts != 1 {
		t.Errorf("inserts = %d, want 1", repo.inserts)
	}
}

func TestCreateDeclinedConfirmIsNoOp(t *testing.T) {
	repo := &fakeRepo{}
	store := NewStore("u1", repo, nil)

	declined := func(context.Context) (bool, error) { return false, nil }
	id, err := store.Create(context.Background(), models.PlannerCreateRequest{Name: "x"}, declined)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "" {
		t.Errorf("id = %q, want empty", id)
	}
	if repo.inserts != 0 {
		t.Errorf("inserts = %d, want 0", repo.inserts)
	}
	if len(store.Planners()) != 0 {
		t.Errorf("planners = %d, want 0", len(store.Planners()))
	}
}

func TestCreateConfirmError(t *testing.T) {
	repo := &fakeRepo{}
	store := NewStore("u1", repo, nil)

	failing := func(context.Context) (bool, error) { return false, errors.New("dialog broke") }
	if _, err := store.Create(context.Background(), models.PlannerCreateRequest{Name: "x"}, failing); err == nil {
		t.Fatal("expected error from failing confirm")
	}
	if repo.inserts != 0 {
		t.Errorf("inserts = %d, want 0", repo.inserts)
	}
}

func TestUpdateReturnsCommittedState(t *testing.T) {
	repo := &fakeRepo{}
	store := NewStore("u1", repo, nil)

	id, _ := store.Create(context.Background(), models.PlannerCreateRequest{Name: "Old name"}, nil)

	name := "New name"
	committed, err := store.Update(context.Background(), id, models.PlannerPatch{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if committed.Name != "New name" {
		t.Errorf("committed name = %q, want %q", committed.Name, "New name")
	}

	// The returned value must match what a follow-up read sees.
	p, _ := store.Get(id)
	if p.Name != committed.Name {
		t.Errorf("Get name = %q, committed = %q", p.Name, committed.Name)
	}
}

func TestUpdateUnknownPlanner(t *testing.T) {
	store := NewStore("u1", &fakeRepo{}, nil)

	name := "x"
	_, err := store.Update(context.Background(), "nope", models.PlannerPatch{Name: &name})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want KindNotFound", apperr.KindOf(err))
	}
}

func TestUpdateFailedPersistLeavesMemoryUntouched(t *testing.T) {
	repo := &fakeRepo{}
	store := NewStore("u1", repo, nil)
	id, _ := store.Create(context.Background(), models.PlannerCreateRequest{Name: "Keep me"}, nil)

	repo.failReplace = true
	name := "Lost write"
	if _, err := store.Update(context.Background(), id, models.PlannerPatch{Name: &name}); err == nil {
		t.Fatal("expected error when persist fails")
	}

	p, _ := store.Get(id)
	if p.Name != "Keep me" {
		t.Errorf("name after failed update = %q, want %q", p.Name, "Keep me")
	}
	if store.Err() == nil {
		t.Error("Err() = nil after failed update")
	}
}

func TestUpdateRecomputesCartTotals(t *testing.T) {
	repo := &fakeRepo{}
	store := NewStore("u1", repo, nil)
	id, _ := store.Create(context.Background(), models.PlannerCreateRequest{Name: "Cancún"}, nil)

	cart := models.PlannerCart{
		Items: []models.PlannerCartItem{
			{ItemID: "a", Price: 150, Quantity: 1},
			{ItemID: "b", Price: 25, Quantity: 2},
		},
		// Stale values the recompute must overwrite.
		Subtotal: 999, Taxes: 999, Total: 999,
	}
	committed, err := store.Update(context.Background(), id, models.PlannerPatch{Cart: &cart})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if committed.Cart.Subtotal != 200 {
		t.Errorf("subtotal = %v, want 200", committed.Cart.Subtotal)
	}
	if committed.Cart.Taxes != 32 {
		t.Errorf("taxes = %v, want 32", committed.Cart.Taxes)
	}
	if committed.Cart.Total != 232 {
		t.Errorf("total = %v, want 232", committed.Cart.Total)
	}
}

func TestSetActiveUnknownIDKeepsSelection(t *testing.T) {
	store := NewStore("u1", &fakeRepo{}, nil)
	id, _ := store.Create(context.Background(), models.PlannerCreateRequest{Name: "trip"}, nil)

	store.SetActive("does-not-exist")
	if store.ActiveID() != id {
		t.Errorf("active = %q, want %q", store.ActiveID(), id)
	}

	store.SetActive("")
	if store.ActiveID() != "" {
		t.Errorf("active = %q, want empty after clear", store.ActiveID())
	}
}

func TestDeleteClearsActivePointer(t *testing.T) {
	repo := &fakeRepo{}
	store := NewStore("u1", repo, nil)
	id, _ := store.Create(context.Background(), models.PlannerCreateRequest{Name: "trip"}, nil)

	if err := store.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.ActiveID() != "" {
		t.Errorf("active = %q, want empty", store.ActiveID())
	}
	if _, ok := store.Get(id); ok {
		t.Error("deleted planner still in store")
	}
	if repo.deletes != 1 {
		t.Errorf("deletes = %d, want 1", repo.deletes)
	}
}

func TestLoadFailureStillMarksInitialized(t *testing.T) {
	store := NewStore("u1", &fakeRepo{failList: true}, nil)

	if err := store.Load(context.Background()); err == nil {
		t.Fatal("expected Load error")
	}
	if !store.Initialized() {
		t.Error("store not initialized after failed load")
	}
	if got := store.Planners(); len(got) != 0 {
		t.Errorf("planners = %d, want 0", len(got))
	}
	if store.Err() == nil {
		t.Error("Err() = nil after failed load")
	}
}

func TestSubscriberSeesCommittedState(t *testing.T) {
	repo := &fakeRepo{}
	store := NewStore("u1", repo, nil)

	var events []Event
	store.Subscribe(func(ev Event) {
		// At notify time the mutation must already be readable.
		if _, ok := store.Get(ev.Planner.PlannerID); ev.Action != "deleted" && !ok {
			t.Errorf("event %q fired before state was readable", ev.Action)
		}
		events = append(events, ev)
	})

	id, _ := store.Create(context.Background(), models.PlannerCreateRequest{Name: "trip"}, nil)
	name := "renamed"
	store.Update(context.Background(), id, models.PlannerPatch{Name: &name})
	store.Delete(context.Background(), id)

	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	want := []string{"created", "updated", "deleted"}
	for i, ev := range events {
		if ev.Action != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, ev.Action, want[i])
		}
	}
}

func TestLookupAdoptsFromSnapshot(t *testing.T) {
	snap := newFakeSnapshots()
	snap.Save(context.Background(), "u1", []models.Planner{
		{PlannerID: "p1", UserID: "u1", Name: "cached trip"},
	})
	store := NewStore("u1", &fakeRepo{}, snap)

	p, ok := store.Lookup(context.Background(), "p1")
	if !ok {
		t.Fatal("Lookup missed snapshot planner")
	}
	if p.Name != "cached trip" {
		t.Errorf("name = %q, want %q", p.Name, "cached trip")
	}
	// Adopted into the in-memory list.
	if _, ok := store.Get("p1"); !ok {
		t.Error("snapshot planner not adopted into store")
	}
}

func TestLookupIgnoresForeignSnapshots(t *testing.T) {
	snap := newFakeSnapshots()
	snap.Save(context.Background(), "u1", []models.Planner{
		{PlannerID: "p1", UserID: "someone-else"},
	})
	store := NewStore("u1", &fakeRepo{}, snap)

	if _, ok := store.Lookup(context.Background(), "p1"); ok {
		t.Fatal("Lookup adopted a planner owned by another user")
	}
}
