package planner

import (
	"context"
	"sync"
)

// Sessions hands out one Store per signed-in user. The store is created
// and loaded on first use and reused for the rest of the session.
type Sessions struct {
	repo Repository
	snap SnapshotCache

	mu     sync.Mutex
	stores map[string]*Store

	// onCommit, when set, is attached to every new store.
	onCommit func(userID string, ev Event)
}

func NewSessions(repo Repository, snap SnapshotCache) *Sessions {
	return &Sessions{
		repo:   repo,
		snap:   snap,
		stores: make(map[string]*Store),
	}
}

// OnCommit registers a hook run after every committed mutation on any
// user's store. Must be called before the first StoreFor.
func (m *Sessions) OnCommit(fn func(userID string, ev Event)) {
	m.onCommit = fn
}

// StoreFor returns the user's store, loading it on first access.
func (m *Sessions) StoreFor(ctx context.Context, userID string) *Store {
	m.mu.Lock()
	store, ok := m.stores[userID]
	if !ok {
		store = NewStore(userID, m.repo, m.snap)
		if m.onCommit != nil {
			uid := userID
			fn := m.onCommit
			store.Subscribe(func(ev Event) { fn(uid, ev) })
		}
		m.stores[userID] = store
	}
	m.mu.Unlock()

	if !store.Initialized() {
		store.Load(ctx)
	}
	return store
}

// Drop forgets a user's store, e.g. on logout.
func (m *Sessions) Drop(userID string) {
	m.mu.Lock()
	delete(m.stores, userID)
	m.mu.Unlock()
}
