package tutor

import (
	"sync"

	"github.com/emberlabs/go-ember/pkg/inference"
)

// DefaultSessionID is used when the caller does not supply one.
const DefaultSessionID = "default"

// Session holds one student's conversation state: the running chat
// history and the bounded reply history used for duplicate suppression.
// All methods are safe for concurrent use; turns for one session are
// serialized by the orchestrator via Lock.
type Session struct {
	// ID is the caller-supplied session identifier.
	ID string

	mu      sync.Mutex
	history []inference.Message
	replies *ReplyHistory
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		replies: NewReplyHistory(),
	}
}

// Lock serializes a full turn against concurrent turns on the same
// session, so interleaved requests cannot corrupt the history.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the turn lock.
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// AppendUser appends a user turn to the history.
// Callers must hold the session lock.
func (s *Session) AppendUser(message string) {
	s.history = append(s.history, inference.NewUserMessage(message))
}

// AppendAssistant appends an assistant turn to the history.
// Callers must hold the session lock.
func (s *Session) AppendAssistant(reply string) {
	s.history = append(s.history, inference.NewAssistantMessage(reply))
}

// History returns a copy of the chat history, oldest first.
// Callers must hold the session lock.
func (s *Session) History() []inference.Message {
	result := make([]inference.Message, len(s.history))
	copy(result, s.history)
	return result
}

// Replies returns the session's reply history.
func (s *Session) Replies() *ReplyHistory {
	return s.replies
}

// Store holds sessions keyed by identifier. Sessions live for the
// process lifetime; there is no eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it on first use.
// An empty id maps to DefaultSessionID.
func (st *Store) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		s = NewSession(id)
		st.sessions[id] = s
	}
	return s
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
