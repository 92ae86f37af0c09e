package memory

import (
	"time"

	"ai-assistant-be/pkg/ai/session"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps live session controllers. Sessions idle for ttl
// are evicted and closed.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	c.OnEvicted(func(_ string, v interface{}) {
		if ctrl, ok := v.(*session.Controller); ok {
			go ctrl.Close()
		}
	})
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(ctrl *session.Controller) {
	r.cache.Set(ctrl.ID(), ctrl, cache.DefaultExpiration)
}

// Get returns the session and extends its lifetime.
func (r *SessionRepository) Get(sessionID string) (*session.Controller, bool) {
	if x, found := r.cache.Get(sessionID); found {
		ctrl := x.(*session.Controller)
		r.cache.Set(sessionID, ctrl, cache.DefaultExpiration)
		return ctrl, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

// CloseAll stops every live session and empties the repository.
func (r *SessionRepository) CloseAll() {
	for _, item := range r.cache.Items() {
		if ctrl, ok := item.Object.(*session.Controller); ok {
			ctrl.Close()
		}
	}
	r.cache.Flush()
}
