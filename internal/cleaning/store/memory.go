package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AAnishRam/medical-data-processing/internal/cleaning/entity"
	"github.com/AAnishRam/medical-data-processing/internal/cleaning/usecase"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgerror"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionRecord
}

type sessionRecord struct {
	mu      sync.RWMutex
	session entity.Session
	sim     usecase.Simulation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*sessionRecord),
	}
}

func (s *InMemoryStore) CreateSession(ctx context.Context, session entity.Session, sim usecase.Simulation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return pkgerror.NewBusiness("session already exists", pkgerror.CodeConflict)
	}

	s.sessions[session.ID] = &sessionRecord{
		session: session,
		sim:     sim,
	}

	return nil
}

func (s *InMemoryStore) GetSession(ctx context.Context, sessionID string) (entity.Session, usecase.Simulation, error) {
	rec, err := s.get(sessionID)
	if err != nil {
		return entity.Session{}, nil, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return rec.session, rec.sim, nil
}

func (s *InMemoryStore) UpdateSession(ctx context.Context, sessionID string, fn func(session *entity.Session)) error {
	rec, err := s.get(sessionID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.session)

	return nil
}

func (s *InMemoryStore) DeleteSession(ctx context.Context, sessionID string) (entity.Session, usecase.Simulation, error) {
	s.mu.Lock()
	rec, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return entity.Session{}, nil, pkgerror.ErrNotFound
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return rec.session, rec.sim, nil
}

func (s *InMemoryStore) CountSessions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions), nil
}

// ListIdleSessions returns, oldest first, the sessions last seen before seenBefore.
func (s *InMemoryStore) ListIdleSessions(ctx context.Context, seenBefore time.Time) ([]string, error) {
	s.mu.RLock()
	records := make([]*sessionRecord, 0, len(s.sessions))
	for _, rec := range s.sessions {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	type idle struct {
		id       string
		lastSeen time.Time
	}
	var found []idle
	for _, rec := range records {
		rec.mu.RLock()
		if rec.session.LastSeenAt.Before(seenBefore) {
			found = append(found, idle{id: rec.session.ID, lastSeen: rec.session.LastSeenAt})
		}
		rec.mu.RUnlock()
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].lastSeen.Before(found[j].lastSeen)
	})

	ids := make([]string, 0, len(found))
	for _, f := range found {
		ids = append(ids, f.id)
	}

	return ids, nil
}

func (s *InMemoryStore) get(sessionID string) (*sessionRecord, error) {
	s.mu.RLock()
	rec, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}
