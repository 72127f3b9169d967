package studio

import (
	"context"
	"time"

	"github.com/zhouzirui/reply-studio/backend/internal/model/style"
	"github.com/zhouzirui/reply-studio/backend/internal/service/reply"
	"github.com/zhouzirui/reply-studio/backend/internal/service/session"
)

// Service runs one reply turn against the right session transcript.
// It is the boundary that enforces one in-flight generation per session
// and applies the caller-side timeout.
type Service struct {
	sessions  *session.Service
	generator *reply.Generator
	timeout   time.Duration
}

// NewService wires sessions to a generator. A non-positive timeout disables it.
func NewService(sessions *session.Service, generator *reply.Generator, timeout time.Duration) *Service {
	return &Service{
		sessions:  sessions,
		generator: generator,
		timeout:   timeout,
	}
}

// Sessions exposes the session registry.
func (s *Service) Sessions() *session.Service {
	return s.sessions
}

// Turn is the outcome of a successful Reply.
type Turn struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Reply     string `json:"reply"`
	Exchanges int    `json:"exchanges"`
}

// Reply generates a reply for message in the given session.
// It fails with session.ErrGenerationInFlight if the session is already busy.
func (s *Service) Reply(ctx context.Context, sessionID, message string, params style.Parameters) (Turn, error) {
	release, err := s.sessions.Begin(ctx, sessionID)
	if err != nil {
		return Turn{}, err
	}
	defer release()

	store, err := s.sessions.Transcript(ctx, sessionID)
	if err != nil {
		return Turn{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(ctx, store, message, params)
	if err != nil {
		return Turn{}, err
	}

	return Turn{
		SessionID: sessionID,
		Message:   message,
		Reply:     text,
		Exchanges: store.Len(),
	}, nil
}

// Preview renders the prompt the next Reply would send for the session.
func (s *Service) Preview(ctx context.Context, sessionID, message string, params style.Parameters) (string, error) {
	store, err := s.sessions.Transcript(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return s.generator.Preview(store, message, params), nil
}

// Request is the raw input collected by a presentation surface.
type Request struct {
	Message    string `json:"message"`
	Emotion    string `json:"emotion"`
	Tone       string `json:"tone"`
	Suggestion string `json:"suggestion"`
}

// Params normalizes emotion and tone to their canonical spelling when known.
// Unknown values pass through unchanged.
func (r Request) Params() style.Parameters {
	emotion, _ := style.ParseEmotion(r.Emotion)
	tone, _ := style.ParseTone(r.Tone)
	return style.Parameters{
		Emotion:    emotion,
		Tone:       tone,
		Suggestion: r.Suggestion,
	}
}
