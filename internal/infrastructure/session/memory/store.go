package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

// Store keeps one workspace per session id for the lifetime of the process.
// Workspaces idle for longer than ttl are dropped on the next access.
type Store struct {
	mu         sync.RWMutex
	workspaces map[string]*domain.Workspace
	ttl        time.Duration
	now        func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		workspaces: make(map[string]*domain.Workspace),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *Store) GetOrCreate(_ context.Context, sessionID string) (*domain.Workspace, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get workspace", fmt.Errorf("session id is empty"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpiredLocked(now)

	ws, ok := s.workspaces[sessionID]
	if !ok {
		ws = domain.NewWorkspace(sessionID, now)
		s.workspaces[sessionID] = ws
	}
	ws.LastSeenAt = now
	return ws, nil
}

// Delete forgets the session's workspace.
func (s *Store) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workspaces[sessionID]; !ok {
		return domain.WrapError(domain.ErrSessionNotFound, "delete workspace", fmt.Errorf("session=%s", sessionID))
	}
	delete(s.workspaces, sessionID)
	return nil
}

func (s *Store) evictExpiredLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, ws := range s.workspaces {
		if s.expired(ws, now) {
			delete(s.workspaces, id)
		}
	}
}

func (s *Store) expired(ws *domain.Workspace, now time.Time) bool {
	return s.ttl > 0 && now.Sub(ws.LastSeenAt) > s.ttl
}
