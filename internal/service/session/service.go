package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/reply-studio/backend/internal/model/transcript"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrGenerationInFlight = errors.New("a reply is already being generated for this session")
)

// Session is one anonymous conversation. It owns its transcript exclusively.
type Session struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"createdAt"`
	Transcript *transcript.Store `json:"-"`
}

// Service keeps sessions in memory; nothing survives a restart.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	inFlight map[string]struct{}
}

// NewService bootstraps an empty session registry.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]*Session),
		inFlight: make(map[string]struct{}),
	}
}

// CreateSession provisions a session with an empty transcript.
func (s *Service) CreateSession(_ context.Context) (*Session, error) {
	session := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Transcript: transcript.NewStore(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Transcript returns the transcript owned by the session.
func (s *Service) Transcript(ctx context.Context, sessionID string) (*transcript.Store, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Transcript, nil
}

// DeleteSession drops a session and its transcript.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	delete(s.inFlight, sessionID)
	return nil
}

// Begin marks a generation as running for the session. Callers must invoke
// the returned release func once the generation has finished.
func (s *Service) Begin(_ context.Context, sessionID string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, ErrSessionNotFound
	}
	if _, busy := s.inFlight[sessionID]; busy {
		return nil, ErrGenerationInFlight
	}
	s.inFlight[sessionID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.inFlight, sessionID)
			s.mu.Unlock()
		})
	}, nil
}
