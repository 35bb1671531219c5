// Package lifecycle tracks first_seen/last_seen/times_seen/resurfaced for
// each entity across scan runs, behind a Store interface so the default
// in-memory implementation can be swapped for a durable KV without
// touching callers.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/deplai/scanctl/core"
)

// Fields is the lifecycle state persisted per entity_id.
type Fields struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	TimesSeen  int
	Resurfaced bool
}

// Store is the externalizable lifecycle state interface. Update must be
// safe for concurrent calls with distinct entity IDs, and must serialize
// calls that share an entity ID.
type Store interface {
	Update(ctx context.Context, entityID string, now time.Time) (Fields, error)
}

// Apply mutates each entity's lifecycle fields in place via store.
func Apply(ctx context.Context, store Store, entities []core.FindingEntity, now time.Time) error {
	for i := range entities {
		fields, err := store.Update(ctx, entities[i].EntityID, now)
		if err != nil {
			return err
		}
		entities[i].FirstSeen = fields.FirstSeen
		entities[i].LastSeen = fields.LastSeen
		entities[i].TimesSeen = fields.TimesSeen
		entities[i].Resurfaced = fields.Resurfaced
	}
	return nil
}

// MemoryStore is the default in-memory Store: a map guarded by per-key
// locks so that updates for distinct entity IDs proceed concurrently while
// updates for the same ID serialize.
type MemoryStore struct {
	mu     sync.Mutex
	keyMus map[string]*sync.Mutex
	state  map[string]Fields
}

// NewMemoryStore builds an empty in-memory lifecycle store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keyMus: make(map[string]*sync.Mutex),
		state:  make(map[string]Fields),
	}
}

func (s *MemoryStore) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.keyMus[key]
	if !ok {
		m = &sync.Mutex{}
		s.keyMus[key] = m
	}
	return m
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, entityID string, now time.Time) (Fields, error) {
	keyLock := s.lockFor(entityID)
	keyLock.Lock()
	defer keyLock.Unlock()

	s.mu.Lock()
	prev, existed := s.state[entityID]
	s.mu.Unlock()

	var next Fields
	if !existed {
		next = Fields{FirstSeen: now, LastSeen: now, TimesSeen: 1, Resurfaced: false}
	} else {
		next = Fields{
			FirstSeen:  prev.FirstSeen,
			LastSeen:   now,
			TimesSeen:  prev.TimesSeen + 1,
			Resurfaced: now.After(prev.LastSeen),
		}
	}

	s.mu.Lock()
	s.state[entityID] = next
	s.mu.Unlock()

	return next, nil
}
