package reveal

import (
	"sync/atomic"
)

// Ticket identifies one in-flight generation. It is valid while it is the
// issuer's current ticket and has not been cancelled.
type Ticket struct {
	id        uint64
	cancelled atomic.Bool
	issuer    *Issuer
}

func (t *Ticket) ID() uint64 {
	if t == nil {
		return 0
	}
	return t.id
}

func (t *Ticket) Valid() bool {
	if t == nil || t.cancelled.Load() {
		return false
	}
	return t.issuer.current.Load() == t
}

func (t *Ticket) Cancel() {
	if t != nil {
		t.cancelled.Store(true)
	}
}

// Issuer hands out tickets; issuing a new one invalidates the previous.
type Issuer struct {
	seq     atomic.Uint64
	current atomic.Pointer[Ticket]
}

func NewIssuer() *Issuer {
	return &Issuer{}
}

func (i *Issuer) Issue() *Ticket {
	t := &Ticket{id: i.seq.Add(1), issuer: i}
	if prev := i.current.Swap(t); prev != nil {
		prev.Cancel()
	}
	return t
}

// Invalidate cancels the current ticket without issuing a replacement.
func (i *Issuer) Invalidate() {
	if prev := i.current.Swap(nil); prev != nil {
		prev.Cancel()
	}
}
