// Package memory holds in-process state implementations. The party registry
// lives here rather than in Redis or MySQL because a room's lifetime is
// exactly its leader's websocket connection, which is process-local.
package memory

import (
	"sync"
	"time"

	"homestream/internal/domain"
)

// PartyRegistry is a mutex-guarded map of active parties keyed by room code.
// It implements repository.PartyRegistry.
type PartyRegistry struct {
	mu      sync.RWMutex
	parties map[string]*domain.Party
}

func NewPartyRegistry() *PartyRegistry {
	return &PartyRegistry{parties: make(map[string]*domain.Party)}
}

func (r *PartyRegistry) FindByCode(code string) (*domain.Party, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	party, ok := r.parties[code]
	if !ok {
		return nil, false
	}
	copied := *party
	return &copied, true
}

// CreateIfAbsent performs the check-and-set under a single lock acquisition,
// which is what makes leadership-by-arrival safe: two simultaneous arrivals
// for a fresh code serialize here and only the first one creates.
func (r *PartyRegistry) CreateIfAbsent(candidate *domain.Party) (*domain.Party, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.parties[candidate.Code]; ok {
		copied := *existing
		return &copied, false
	}
	stored := *candidate
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.parties[candidate.Code] = &stored
	copied := stored
	return &copied, true
}

func (r *PartyRegistry) FindByLeaderConn(connID string) (*domain.Party, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, party := range r.parties {
		if party.LeaderConnID == connID {
			copied := *party
			return &copied, true
		}
	}
	return nil, false
}

func (r *PartyRegistry) Delete(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.parties, code)
}

func (r *PartyRegistry) List() []domain.Party {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parties := make([]domain.Party, 0, len(r.parties))
	for _, party := range r.parties {
		parties = append(parties, *party)
	}
	return parties
}
