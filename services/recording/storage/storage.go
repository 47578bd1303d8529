package storage

import (
	"context"
	"sync"
	"time"

	"github.com/vaultscribe/backend/pkg/gen"
	"github.com/vaultscribe/backend/services/recording/consts"
	"github.com/vaultscribe/backend/services/recording/entity"
)

// SessionStore is the keyed session state owned by the recording usecase.
// The in-memory implementation below is process-lifetime; a database-backed
// implementation can be substituted without touching the usecase.
type SessionStore interface {
	Create(ctx context.Context, req *entity.CreateSessionRequest) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, id string, mutate func(*entity.Session)) (*entity.Session, error)
	ListAll(ctx context.Context) ([]*entity.Session, error)
}

// TranscriptStore holds finalized transcript records. Put overwrites any
// prior record for the session; re-transcription is allowed.
type TranscriptStore interface {
	Put(ctx context.Context, record *entity.TranscriptRecord) error
	Get(ctx context.Context, sessionID string) (*entity.TranscriptRecord, error)
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
	order    []string
	ids      gen.IDGenerator
}

func NewSessionStore() SessionStore {
	return &sessionStore{
		sessions: make(map[string]*entity.Session),
		ids:      gen.SessionID(),
	}
}

func (s *sessionStore) Create(ctx context.Context, req *entity.CreateSessionRequest) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &entity.Session{
		ID:          s.ids.Next(),
		Status:      consts.StatusReady,
		MatterCode:  req.MatterCode,
		ClientCode:  req.ClientCode,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	s.sessions[session.ID] = session
	s.order = append(s.order, session.ID)

	return copySession(session), nil
}

func (s *sessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, entity.ErrSessionNotFound
	}
	return copySession(session), nil
}

func (s *sessionStore) Update(ctx context.Context, id string, mutate func(*entity.Session)) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, entity.ErrSessionNotFound
	}

	mutate(session)
	return copySession(session), nil
}

func (s *sessionStore) ListAll(ctx context.Context) ([]*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*entity.Session, 0, len(s.order))
	for _, id := range s.order {
		sessions = append(sessions, copySession(s.sessions[id]))
	}
	return sessions, nil
}

// copySession keeps callers from mutating shared state outside the lock.
func copySession(s *entity.Session) *entity.Session {
	c := *s
	return &c
}

type transcriptStore struct {
	mu      sync.RWMutex
	records map[string]*entity.TranscriptRecord
}

func NewTranscriptStore() TranscriptStore {
	return &transcriptStore{
		records: make(map[string]*entity.TranscriptRecord),
	}
}

func (s *transcriptStore) Put(ctx context.Context, record *entity.TranscriptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.SessionID] = record
	return nil
}

func (s *transcriptStore) Get(ctx context.Context, sessionID string) (*entity.TranscriptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[sessionID]
	if !exists {
		return nil, entity.ErrTranscriptNotFound
	}

	c := *record
	return &c, nil
}
