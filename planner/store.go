package planner

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"wayfare/apperr"
	"wayfare/globals"
	"wayfare/models"
	"wayfare/utils"
)

// Event announces a committed mutation. Subscribers always see state that
// has already been persisted and merged (update-then-notify).
type Event struct {
	Action  string // created | updated | deleted
	Planner models.Planner
}

// Store is the authoritative planner list for one signed-in user. All
// durable changes to planners, items, and carts go through it. Mutations
// are serialized on the store mutex and committed to the repository before
// in-memory state changes, so every caller reads its own writes from the
// returned value.
type Store struct {
	userID string
	repo   Repository
	snap   SnapshotCache

	mu          sync.RWMutex
	planners    []models.Planner
	activeID    string
	initialized bool
	lastErr     error
	subs        []func(Event)
}

func NewStore(userID string, repo Repository, snap SnapshotCache) *Store {
	return &Store{userID: userID, repo: repo, snap: snap}
}

// Subscribe registers fn to run after every committed mutation.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify(ev Event) {
	for _, fn := range s.subs {
		fn(ev)
	}
}

// Load fetches all planners for the user. On failure the list stays empty
// and the error is recorded; either way the store is marked initialized so
// dependents can tell "still loading" from "loaded and empty".
func (s *Store) Load(ctx context.Context) error {
	planners, err := s.repo.List(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	if err != nil {
		log.Printf("planner load failed for user %s: %v", s.userID, err)
		s.planners = []models.Planner{}
		s.lastErr = apperr.Backend("could not load planners", err)
		return s.lastErr
	}
	s.planners = planners
	s.lastErr = nil
	return nil
}

func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Err returns the error recorded by the last failed operation, nil after
// a success.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Planners returns a copy of the in-memory list.
func (s *Store) Planners() []models.Planner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Planner, len(s.planners))
	copy(out, s.planners)
	return out
}

// Get returns the in-memory planner with the given id.
func (s *Store) Get(id string) (models.Planner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.planners {
		if p.PlannerID == id {
			return p, true
		}
	}
	return models.Planner{}, false
}

// Lookup resolves a planner by id, falling back to the snapshot cache when
// the in-memory list does not have it yet. A snapshot hit is adopted into
// the list so later mutations find it.
func (s *Store) Lookup(ctx context.Context, id string) (models.Planner, bool) {
	if p, ok := s.Get(id); ok {
		return p, true
	}
	if s.snap == nil {
		return models.Planner{}, false
	}
	for _, p := range s.snap.Load(ctx, s.userID) {
		if p.PlannerID == id && p.UserID == s.userID {
			s.mu.Lock()
			s.planners = append(s.planners, p)
			s.mu.Unlock()
			return p, true
		}
	}
	return models.Planner{}, false
}

// Active returns the currently selected planner.
func (s *Store) Active() (models.Planner, bool) {
	s.mu.RLock()
	id := s.activeID
	s.mu.RUnlock()
	if id == "" {
		return models.Planner{}, false
	}
	return s.Get(id)
}

func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// SetActive selects among already-loaded planners. An unknown id is a
// no-op; the empty id clears the selection.
func (s *Store) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.activeID = ""
		return
	}
	for _, p := range s.planners {
		if p.PlannerID == id {
			s.activeID = id
			return
		}
	}
}

// Create asks the confirmation gate first; a declined gate aborts with no
// side effects and no id. A nil confirm is treated as pre-confirmed. The
// new planner becomes active.
func (s *Store) Create(ctx context.Context, req models.PlannerCreateRequest, confirm func(context.Context) (bool, error)) (string, error) {
	if confirm != nil {
		ok, err := confirm(ctx)
		if err != nil {
			return "", apperr.Wrap(apperr.KindBackend, "confirmation failed", err)
		}
		if !ok {
			return "", nil
		}
	}

	now := time.Now()
	p := models.Planner{
		PlannerID:   utils.GenerateRandomString(13),
		UserID:      s.userID,
		Name:        req.Name,
		Destination: req.Destination,
		Description: req.Description,
		Status:      models.PlannerStatusDraft,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Currency:    req.Currency,
		Travelers:   req.Travelers,
		Budget:      req.Budget,
		Items:       []models.PlannerItem{},
		Cart:        models.PlannerCart{Items: []models.PlannerCartItem{}, UpdatedAt: now},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.Travelers < 1 {
		p.Travelers = 1
	}

	s.mu.Lock()
	if err := s.repo.Insert(ctx, p); err != nil {
		s.lastErr = apperr.Backend("could not create planner", err)
		s.mu.Unlock()
		return "", s.lastErr
	}
	s.planners = append(s.planners, p)
	s.activeID = p.PlannerID
	s.lastErr = nil
	s.saveSnapshotLocked(ctx)
	s.mu.Unlock()

	s.notify(Event{Action: "created", Planner: p})
	return p.PlannerID, nil
}

// Update applies a partial patch, recomputes totals, persists, and merges
// the committed copy back into the list. The committed planner is returned
// so callers read their own write without polling.
func (s *Store) Update(ctx context.Context, id string, patch models.PlannerPatch) (*models.Planner, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		idx = s.adoptFromSnapshotLocked(ctx, id)
	}
	if idx < 0 {
		s.lastErr = apperr.NotFound("planner not found")
		s.mu.Unlock()
		return nil, s.lastErr
	}

	updated := applyPatch(s.planners[idx], patch)
	recompute(&updated)
	updated.UpdatedAt = time.Now()

	if err := s.repo.Replace(ctx, s.userID, id, updated); err != nil {
		s.lastErr = apperr.Backend("could not update planner", err)
		s.mu.Unlock()
		return nil, s.lastErr
	}
	s.planners[idx] = updated
	s.lastErr = nil
	s.saveSnapshotLocked(ctx)
	s.mu.Unlock()

	s.notify(Event{Action: "updated", Planner: updated})
	out := updated
	return &out, nil
}

// Delete removes the planner durably and locally, clearing the active
// pointer when it pointed at the deleted planner.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.lastErr = apperr.NotFound("planner not found")
		s.mu.Unlock()
		return s.lastErr
	}
	removed := s.planners[idx]

	if err := s.repo.Delete(ctx, s.userID, id); err != nil {
		s.lastErr = apperr.Backend("could not delete planner", err)
		s.mu.Unlock()
		return s.lastErr
	}
	s.planners = append(s.planners[:idx], s.planners[idx+1:]...)
	if s.activeID == id {
		s.activeID = ""
	}
	s.lastErr = nil
	s.saveSnapshotLocked(ctx)
	s.mu.Unlock()

	s.notify(Event{Action: "deleted", Planner: removed})
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i, p := range s.planners {
		if p.PlannerID == id {
			return i
		}
	}
	return -1
}

func (s *Store) adoptFromSnapshotLocked(ctx context.Context, id string) int {
	if s.snap == nil {
		return -1
	}
	for _, p := range s.snap.Load(ctx, s.userID) {
		if p.PlannerID == id && p.UserID == s.userID {
			s.planners = append(s.planners, p)
			return len(s.planners) - 1
		}
	}
	return -1
}

func (s *Store) saveSnapshotLocked(ctx context.Context) {
	if s.snap == nil {
		return
	}
	out := make([]models.Planner, len(s.planners))
	copy(out, s.planners)
	s.snap.Save(ctx, s.userID, out)
}

// applyPatch returns a copy of p with the non-nil patch fields merged in.
// Item and cart slices are replaced wholesale, never mutated in place.
func applyPatch(p models.Planner, patch models.PlannerPatch) models.Planner {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Destination != nil {
		p.Destination = *patch.Destination
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.StartDate != nil {
		p.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = patch.EndDate
	}
	if patch.Currency != nil {
		p.Currency = *patch.Currency
	}
	if patch.Travelers != nil {
		p.Travelers = *patch.Travelers
	}
	if patch.Budget != nil {
		p.Budget = *patch.Budget
	}
	if patch.TotalEstimated != nil {
		p.TotalEstimated = *patch.TotalEstimated
	}
	if patch.Items != nil {
		items := make([]models.PlannerItem, len(*patch.Items))
		copy(items, *patch.Items)
		p.Items = items
	}
	if patch.Cart != nil {
		cart := *patch.Cart
		items := make([]models.PlannerCartItem, len(cart.Items))
		copy(items, cart.Items)
		cart.Items = items
		p.Cart = cart
	}
	return p
}

// recompute refreshes every derived total. Never persisted stale.
func recompute(p *models.Planner) {
	var subtotal float64
	for _, it := range p.Cart.Items {
		subtotal += it.Price * float64(it.Quantity)
	}
	p.Cart.Subtotal = round2(subtotal)
	p.Cart.Taxes = round2(subtotal * globals.TaxRate)
	p.Cart.Total = round2(p.Cart.Subtotal + p.Cart.Taxes - p.Cart.Discount)
	p.Cart.UpdatedAt = time.Now()

	var estimated float64
	for _, it := range p.Items {
		estimated += it.Price * float64(it.Quantity)
	}
	p.TotalEstimated = round2(estimated)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
