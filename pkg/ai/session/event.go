package session

import (
	"time"

	"ai-assistant-be/pkg/ai/classifier"
	"ai-assistant-be/pkg/transcript"
)

type EventType string

const (
	EventTurn         EventType = "turn"
	EventNotice       EventType = "notice"
	EventMode         EventType = "mode"
	EventLoading      EventType = "loading"
	EventAuthRequired EventType = "auth_required"
	EventCleared      EventType = "cleared"
	EventScroll       EventType = "scroll"
)

// Event is a state change the UI layer should render.
type Event struct {
	Type      EventType        `json:"type"`
	SessionID string           `json:"session_id"`
	Turn      *transcript.Turn `json:"turn,omitempty"`
	Notice    string           `json:"notice,omitempty"`
	Mode      classifier.Mode  `json:"mode,omitempty"`
	Loading   bool             `json:"loading"`
	At        time.Time        `json:"at"`
}

// Observer receives events in order. Observe is called with the session
// lock held and must not block or call back into the Controller.
type Observer interface {
	Observe(ev Event)
}

type ObserverFunc func(ev Event)

func (f ObserverFunc) Observe(ev Event) { f(ev) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

// debouncer suppresses repeats that arrive within window of the last one.
type debouncer struct {
	window time.Duration
	last   time.Time
}

func (d *debouncer) allow(now time.Time) bool {
	if !d.last.IsZero() && now.Sub(d.last) < d.window {
		return false
	}
	d.last = now
	return true
}

func (d *debouncer) reset(now time.Time) {
	d.last = now
}

// Observers fans each event out to every observer in order.
type Observers []Observer

func (o Observers) Observe(ev Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(ev)
		}
	}
}
