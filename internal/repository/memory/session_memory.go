package memory

import (
	"context"
	"sync"

	"docqa/internal/model"
	"docqa/internal/repository"
)

// sessionMemory implements repository.SessionRepository with a mutex-guarded
// map. Session state is transient: nothing survives a restart, and each
// entry is private to the session that created it.
type sessionMemory struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewSessionRepository returns an empty in-memory session repository.
func NewSessionRepository() repository.SessionRepository {
	return &sessionMemory{sessions: make(map[string]*model.Session)}
}

func (m *sessionMemory) Create(_ context.Context, s *model.Session) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *s
	m.sessions[s.ID] = &stored
	out := stored
	return &out, nil
}

func (m *sessionMemory) FindByID(_ context.Context, id string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Copy so callers cannot mutate stored state.
	out := *s
	return &out, nil
}

func (m *sessionMemory) SaveResult(_ context.Context, id string, res *model.AnswerResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.LastResult = res
	return nil
}

func (m *sessionMemory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}
