package repositories

import (
	"context"
	"encoding/json"
	"sync"

	"healthybychoice/internal/quiz"
	"healthybychoice/pkg/utils"
)

// SessionStore persists quiz sessions. Writes are last-writer-wins.
type SessionStore interface {
	Load(ctx context.Context, id string) (*quiz.Session, error)
	Save(ctx context.Context, s *quiz.Session) error
	Clear(ctx context.Context, id string) error
}

// MemorySessionStore keeps sessions in process. Values are copied in and out
// so callers never share a session.
type MemorySessionStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{data: make(map[string][]byte)}
}

func (m *MemorySessionStore) Load(_ context.Context, id string) (*quiz.Session, error) {
	m.mu.RLock()
	raw, ok := m.data[id]
	m.mu.RUnlock()
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	return decodeSession(raw)
}

func (m *MemorySessionStore) Save(_ context.Context, s *quiz.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = raw
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func decodeSession(raw []byte) (*quiz.Session, error) {
	var s quiz.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if s.Answers == nil {
		s.Answers = quiz.Answers{}
	}
	return &s, nil
}
