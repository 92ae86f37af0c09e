package memory

import (
	"testing"
	"time"

	"ai-assistant-be/pkg/ai/session"

	"github.com/stretchr/testify/assert"
)

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	ctrl := session.NewController(session.DefaultConfig(), session.Deps{ID: "tab-1"})

	repo.Save(ctrl)
	got, ok := repo.Get("tab-1")
	assert.True(t, ok)
	assert.Same(t, ctrl, got)
	assert.Equal(t, 1, repo.Count())

	repo.Delete("tab-1")
	_, ok = repo.Get("tab-1")
	assert.False(t, ok)
}

func TestSessionRepositoryExpires(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	repo.Save(session.NewController(session.DefaultConfig(), session.Deps{ID: "tab-1"}))

	assert.Eventually(t, func() bool {
		_, ok := repo.Get("tab-1")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
