package reveal

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	mu        sync.Mutex
	text      strings.Builder
	chunks    int
	done      chan bool
	stopAfter int
	onStop    func()
}

func newSink() *sink {
	return &sink{done: make(chan bool, 1)}
}

func (s *sink) chunk(c string) bool {
	s.mu.Lock()
	s.text.WriteString(c)
	s.chunks++
	n := s.chunks
	s.mu.Unlock()
	if s.stopAfter > 0 && n == s.stopAfter && s.onStop != nil {
		s.onStop()
	}
	return true
}

func (s *sink) finish(cancelled bool) { s.done <- cancelled }

func (s *sink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

func TestIssuerInvalidatesPrevious(t *testing.T) {
	i := NewIssuer()
	first := i.Issue()
	assert.True(t, first.Valid())

	second := i.Issue()
	assert.False(t, first.Valid())
	assert.True(t, second.Valid())
	assert.Greater(t, second.ID(), first.ID())

	second.Cancel()
	assert.False(t, second.Valid())

	third := i.Issue()
	i.Invalidate()
	assert.False(t, third.Valid())
	fourth := i.Issue()
	assert.True(t, fourth.Valid())
	assert.False(t, third.Valid())

	var nilTicket *Ticket
	assert.False(t, nilTicket.Valid())
}

func TestRevealCompletes(t *testing.T) {
	s := NewScheduler(time.Millisecond, 0)
	ticket := NewIssuer().Issue()
	out := newSink()

	s.Reveal(ticket, "Hello, 世界! 👋🏽", out.chunk, out.finish)

	select {
	case cancelled := <-out.done:
		assert.False(t, cancelled)
	case <-time.After(2 * time.Second):
		t.Fatal("reveal did not finish")
	}
	assert.Equal(t, "Hello, 世界! 👋🏽", out.String())
}

func TestRevealStopsOnCancel(t *testing.T) {
	s := NewScheduler(time.Millisecond, 0)
	ticket := NewIssuer().Issue()
	full := strings.Repeat("abcdefghij", 10)

	out := newSink()
	out.stopAfter = 5
	out.onStop = ticket.Cancel

	s.Reveal(ticket, full, out.chunk, out.finish)

	select {
	case cancelled := <-out.done:
		assert.True(t, cancelled)
	case <-time.After(2 * time.Second):
		t.Fatal("reveal did not stop")
	}
	got := out.String()
	assert.Equal(t, "abcde", got)
	assert.True(t, strings.HasPrefix(full, got))
}

func TestRevealStopsWhenSuperseded(t *testing.T) {
	s := NewScheduler(time.Millisecond, 0)
	issuer := NewIssuer()
	ticket := issuer.Issue()

	out := newSink()
	out.stopAfter = 3
	out.onStop = func() { issuer.Issue() }

	s.Reveal(ticket, "0123456789", out.chunk, out.finish)
	assert.True(t, <-out.done)
	assert.Equal(t, "012", out.String())
}

func TestCancelAll(t *testing.T) {
	s := NewScheduler(50*time.Millisecond, 0)
	ticket := NewIssuer().Issue()
	out := newSink()

	s.Reveal(ticket, strings.Repeat("x", 100), out.chunk, out.finish)
	s.CancelAll()
	s.Wait()

	assert.True(t, <-out.done)
	assert.Less(t, len(out.String()), 100)
}

func TestCountdown(t *testing.T) {
	s := NewScheduler(time.Millisecond, 0)
	issuer := NewIssuer()
	ticket := issuer.Issue()

	var frames []string
	ok := s.Countdown(context.Background(), ticket, []string{"3...", "2...", "1..."}, time.Millisecond, func(f string) bool {
		frames = append(frames, f)
		return true
	})
	require.True(t, ok)
	assert.Equal(t, []string{"3...", "2...", "1..."}, frames)

	frames = nil
	ok = s.Countdown(context.Background(), ticket, []string{"3...", "2...", "1..."}, time.Millisecond, func(f string) bool {
		frames = append(frames, f)
		issuer.Invalidate()
		return true
	})
	assert.False(t, ok)
	assert.Equal(t, []string{"3..."}, frames)
}

func TestChunks(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxSteps  int
		wantSteps int
	}{
		{"empty", "", 10, 0},
		{"short text one grapheme per step", "hello", 10, 5},
		{"combined emoji stays whole", "👋🏽👋🏽", 10, 2},
		{"long text is grouped", strings.Repeat("a", 1000), 100, 100},
		{"uneven grouping", strings.Repeat("a", 101), 50, 34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunks(tt.text, tt.maxSteps)
			assert.Len(t, chunks, tt.wantSteps)
			assert.Equal(t, tt.text, strings.Join(chunks, ""))
		})
	}
}
