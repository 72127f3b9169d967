package transcript

import (
	"iter"
	"strings"
	"sync"
	"time"
)

// Store is the append-only exchange log of a single session.
// Entries are never modified or removed once appended.
type Store struct {
	mu        sync.RWMutex
	exchanges []Exchange
	now       func() time.Time
}

// NewStore returns an empty transcript.
func NewStore() *Store {
	return &Store{
		exchanges: make([]Exchange, 0, 16),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Append records a finished exchange at the end of the transcript.
func (s *Store) Append(incomingMessage, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exchanges = append(s.exchanges, Exchange{
		IncomingMessage: incomingMessage,
		Reply:           reply,
		CreatedAt:       s.now(),
	})
}

// Len reports how many exchanges are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exchanges)
}

// Exchanges returns a copy of the stored exchanges, oldest first.
func (s *Store) Exchanges() []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]Exchange, len(s.exchanges))
	copy(copied, s.exchanges)
	return copied
}

// RenderForPrompt formats the transcript as the history block of a prompt.
// An empty transcript renders as the empty string.
func (s *Store) RenderForPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.exchanges) == 0 {
		return ""
	}

	lines := make([]string, 0, len(s.exchanges)*2)
	for _, ex := range s.exchanges {
		lines = append(lines,
			ReceivedLabel+": "+ex.IncomingMessage,
			ResponseLabel+": "+ex.Reply,
		)
	}
	return strings.Join(lines, "\n")
}

// RenderForDisplay yields labeled segments, a received/response pair per exchange.
// The transcript is read when iteration starts, not when RenderForDisplay is called.
func (s *Store) RenderForDisplay() iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for _, ex := range s.Exchanges() {
			if !yield(Segment{Label: ReceivedLabel, Text: ex.IncomingMessage}) {
				return
			}
			if !yield(Segment{Label: ResponseLabel, Text: ex.Reply}) {
				return
			}
		}
	}
}
