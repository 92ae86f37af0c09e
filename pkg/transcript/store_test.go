package transcript

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestAppendIdsAreMonotonic(t *testing.T) {
	s := NewStoreWithClock(fixedClock())

	a := s.Append("one", "Thinking...", KindChat)
	b := s.Append("two", "Thinking...", KindChat)
	c := s.Append("three", "Thinking...", KindChat)

	assert.Less(t, a.ID, b.ID)
	assert.Less(t, b.ID, c.ID)
	assert.Equal(t, StatePending, a.ResponseState)
	assert.Equal(t, "Thinking...", a.ResponseText)
}

func TestIdsSurviveClear(t *testing.T) {
	s := NewStoreWithClock(fixedClock())
	a := s.Append("one", "", KindChat)
	s.Clear()
	assert.Equal(t, 0, s.Len())

	b := s.Append("two", "", KindChat)
	assert.Greater(t, b.ID, a.ID)
}

func TestUpdateAndAppendText(t *testing.T) {
	s := NewStore()
	turn := s.Append("hi", "Thinking...", KindChat)

	_, err := s.Update(turn.ID, "", StateStreaming)
	require.NoError(t, err)
	_, err = s.AppendText(turn.ID, "Hel", StateStreaming)
	require.NoError(t, err)
	got, err := s.AppendText(turn.ID, "lo", StateComplete)
	require.NoError(t, err)

	assert.Equal(t, "Hello", got.ResponseText)
	assert.Equal(t, StateComplete, got.ResponseState)
	assert.Equal(t, "hi", got.UserText)

	_, err = s.Update(turn.ID+100, "x", StateComplete)
	assert.ErrorIs(t, err, ErrTurnNotFound)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	turn := s.Append("hi", "Thinking...", KindChat)

	snap := s.Snapshot()
	snap[0].ResponseText = "mutated"

	got, ok := s.Get(turn.ID)
	require.True(t, ok)
	assert.Equal(t, "Thinking...", got.ResponseText)
}

func TestHistory(t *testing.T) {
	s := NewStore()
	first := s.Append("what is go", "", KindChat)
	_, _ = s.Update(first.ID, "a language", StateComplete)
	failed := s.Append("and rust", "", KindChat)
	_, _ = s.Update(failed.ID, "Sorry...", StateErrored)
	current := s.Append("thanks", "Thinking...", KindChat)

	history := s.History(current.ID)

	assert.Equal(t, []Exchange{
		{Role: "user", Content: "what is go"},
		{Role: "assistant", Content: "a language"},
		{Role: "user", Content: "and rust"},
	}, history)
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		state    ResponseState
		terminal bool
	}{
		{StatePending, false},
		{StateStreaming, false},
		{StateComplete, true},
		{StateErrored, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.state.Terminal())
		})
	}
}
