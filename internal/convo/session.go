// Package convo drives the quoting conversation: per-session state plus the
// turn engine that moves sessions through it.
package convo

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/catalog"
)

// State names the conversation phases.
type State string

const (
	StateInitial           State = "INICIO"
	StateMultipleOptions   State = "MULTIPLAS_OPCOES"
	StateProductSelected   State = "PRODUTO_SELECIONADO"
	StateAwaitingDimension State = "DIMENSAO_SOLICITADA"
	StateQuoteDone         State = "ORCAMENTO_FINALIZADO"
)

// Conversation is the mutable state of one chat session. The engine holds mu
// for the whole turn; awaiting mirrors the dimension-pending state so it can
// be read without the lock.
type Conversation struct {
	mu       sync.Mutex
	state    State
	awaiting atomic.Bool

	candidates []catalog.Product
	selected   *catalog.Product
	quantity   int
	lastSeen   time.Time
}

func newConversation(now time.Time) *Conversation {
	c := &Conversation{lastSeen: now}
	c.reset()
	return c
}

func (c *Conversation) setState(s State) {
	c.state = s
	c.awaiting.Store(s == StateAwaitingDimension)
}

// reset returns the conversation to a fresh start. Callers hold mu.
func (c *Conversation) reset() {
	c.setState(StateInitial)
	c.candidates = nil
	c.selected = nil
	c.quantity = 1
}

// Store keeps all live conversations. With ttl zero sessions live for the
// process lifetime; with maxCount zero there is no session cap.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Conversation
	ttl      time.Duration
	maxCount int
	now      func() time.Time
}

// NewStore builds a session store with the given expiry policy.
func NewStore(ttl time.Duration, maxCount int) *Store {
	return &Store{
		sessions: make(map[string]*Conversation),
		ttl:      ttl,
		maxCount: maxCount,
		now:      time.Now,
	}
}

// Acquire returns the session's conversation, creating it if needed, and
// marks it as just used. Expired sessions are swept on every call.
func (s *Store) Acquire(sessionID string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	conv, ok := s.sessions[sessionID]
	if !ok {
		s.evictOldest()
		conv = newConversation(now)
		s.sessions[sessionID] = conv
	}
	conv.lastSeen = now
	return conv
}

// AwaitingDimension reports whether the session exists and is waiting for a
// dimension answer. Safe to call while the engine holds the conversation.
func (s *Store) AwaitingDimension(sessionID string) bool {
	s.mu.Lock()
	conv, ok := s.sessions[sessionID]
	s.mu.Unlock()
	return ok && conv.awaiting.Load()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweep(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, conv := range s.sessions {
		if now.Sub(conv.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// evictOldest drops least recently used sessions until there is room for one
// more. Callers hold mu.
func (s *Store) evictOldest() {
	if s.maxCount <= 0 {
		return
	}
	for len(s.sessions) >= s.maxCount {
		oldestID := ""
		var oldest time.Time
		for id, conv := range s.sessions {
			if oldestID == "" || conv.lastSeen.Before(oldest) {
				oldestID = id
				oldest = conv.lastSeen
			}
		}
		delete(s.sessions, oldestID)
	}
}
