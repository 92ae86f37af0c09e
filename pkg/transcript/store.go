package transcript

import (
	"errors"
	"sync"
	"time"
)

var ErrTurnNotFound = errors.New("turn not found")

// Store is the ordered, append-only list of Turns for one tab.
// Only ResponseText, ResponseState and UpdatedAt may change after Append.
type Store struct {
	mu     sync.RWMutex
	turns  []*Turn
	lastID int64
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// NewStoreWithClock is used by tests that need stable ids.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// Append adds a pending Turn and returns a copy of it.
// Ids derive from the creation time in milliseconds and stay strictly increasing.
func (s *Store) Append(userText, placeholder string, kind Kind) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	t := &Turn{
		ID:            id,
		UserText:      userText,
		ResponseText:  placeholder,
		ResponseState: StatePending,
		Kind:          kind,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.turns = append(s.turns, t)
	return *t
}

// Update mutates the response of the Turn with the given id.
func (s *Store) Update(id int64, text string, state ResponseState) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return Turn{}, ErrTurnNotFound
	}
	t.ResponseText = text
	t.ResponseState = state
	t.UpdatedAt = s.now()
	return *t, nil
}

// AppendText extends the response of the Turn with the given id.
func (s *Store) AppendText(id int64, chunk string, state ResponseState) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return Turn{}, ErrTurnNotFound
	}
	t.ResponseText += chunk
	t.ResponseState = state
	t.UpdatedAt = s.now()
	return *t, nil
}

func (s *Store) find(id int64) *Turn {
	// the live turn is almost always the last one
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].ID == id {
			return s.turns[i]
		}
	}
	return nil
}

func (s *Store) Get(id int64) (Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.find(id)
	if t == nil {
		return Turn{}, false
	}
	return *t, true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Snapshot returns copies of all Turns in order.
func (s *Store) Snapshot() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Turn, len(s.turns))
	for i, t := range s.turns {
		out[i] = *t
	}
	return out
}

// Clear drops every Turn. Ids keep increasing across clears.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

// History reduces the settled Turns before excludeID to user/assistant pairs.
// Errored responses are left out so the provider never sees our own apologies.
func (s *Store) History(excludeID int64) []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Exchange
	for _, t := range s.turns {
		if t.ID == excludeID {
			continue
		}
		out = append(out, Exchange{Role: "user", Content: t.UserText})
		if t.ResponseState == StateComplete && t.ResponseText != "" {
			out = append(out, Exchange{Role: "assistant", Content: t.ResponseText})
		}
	}
	return out
}
