// Package session keeps the process-local map from user identity to live
// model-session state. Nothing here is persisted: after a reset or restart
// the structured store is the sole source of truth for rebuilding context.
package session

import (
	"sync"

	"FouserBot/internal/llm"
)

// State tags where a conversation is in its lifecycle.
type State int

const (
	NoSession State = iota
	Bootstrapping
	Active
)

// Conversation is the ephemeral state for one user identity. Its embedded
// mutex serializes all message handling for that identity; callers must
// hold it while touching the exported fields.
type Conversation struct {
	sync.Mutex

	// ID correlates log lines for one model session.
	ID string
	// Handle is the opaque model-session handle, nil in NoSession.
	Handle llm.Session
	State  State
}

// Store maps user identities to their conversation entries.
type Store struct {
	mu    sync.Mutex
	conns map[int64]*Conversation
}

func NewStore() *Store {
	return &Store{conns: make(map[int64]*Conversation)}
}

// Get returns the conversation entry for userID, creating it on first use.
// The entry itself is stable; two concurrent callers get the same pointer
// and contend on its mutex.
func (s *Store) Get(userID int64) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conns[userID]
	if !ok {
		conv = &Conversation{}
		s.conns[userID] = conv
	}
	return conv
}

// Reset discards the model-session handle for userID only. Stored profile
// and plan data are untouched. A no-op for unknown identities.
func (s *Store) Reset(userID int64) {
	s.mu.Lock()
	conv, ok := s.conns[userID]
	s.mu.Unlock()
	if !ok {
		return
	}

	conv.Lock()
	conv.ID = ""
	conv.Handle = nil
	conv.State = NoSession
	conv.Unlock()
}
