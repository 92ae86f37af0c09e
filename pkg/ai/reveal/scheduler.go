package reveal

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rivo/uniseg"
)

const (
	DefaultInterval = 20 * time.Millisecond
	DefaultMaxSteps = 400
)

// Scheduler reveals text a few graphemes at a time on a fixed tick.
// Every step re-checks the ticket, so a stale generation stops writing
// as soon as it is superseded or cancelled.
type Scheduler struct {
	interval time.Duration
	maxSteps int

	mu     sync.Mutex
	seq    uint64
	active map[uint64]context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(interval time.Duration, maxSteps int) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Scheduler{
		interval: interval,
		maxSteps: maxSteps,
		active:   make(map[uint64]context.CancelFunc),
	}
}

// Reveal starts revealing text in the background and returns immediately.
// onChunk returns false to abort (for example when the write was rejected).
// onDone runs exactly once; cancelled is false only on a natural finish.
func (s *Scheduler) Reveal(t *Ticket, text string, onChunk func(chunk string) bool, onDone func(cancelled bool)) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.seq++
	key := s.seq
	s.active[key] = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.active, key)
			s.mu.Unlock()
			cancel()
		}()

		ok := s.run(ctx, t, Chunks(text, s.maxSteps), s.interval, onChunk)
		if onDone != nil {
			onDone(!ok)
		}
	}()
}

// Countdown shows each frame in turn, one interval apart, blocking the caller.
// It returns false if the ticket went stale or ctx ended before the last frame.
func (s *Scheduler) Countdown(ctx context.Context, t *Ticket, frames []string, interval time.Duration, apply func(frame string) bool) bool {
	if len(frames) == 0 {
		return t.Valid()
	}
	if !t.Valid() || !apply(frames[0]) {
		return false
	}
	return s.run(ctx, t, frames[1:], interval, apply)
}

func (s *Scheduler) run(ctx context.Context, t *Ticket, steps []string, interval time.Duration, apply func(string) bool) bool {
	if len(steps) == 0 {
		return t.Valid()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
		if !t.Valid() {
			return false
		}
		if !apply(step) {
			return false
		}
	}
	return true
}

// CancelAll stops every pending reveal at its next tick.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.active {
		cancel()
	}
}

// Wait blocks until every started reveal has called onDone.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Chunks splits text on grapheme boundaries into at most maxSteps pieces.
// Short texts reveal one grapheme per step; long texts use larger chunks.
func Chunks(text string, maxSteps int) []string {
	var clusters []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	if len(clusters) == 0 {
		return nil
	}

	size := 1
	if maxSteps > 0 && len(clusters) > maxSteps {
		size = (len(clusters) + maxSteps - 1) / maxSteps
	}

	chunks := make([]string, 0, (len(clusters)+size-1)/size)
	for i := 0; i < len(clusters); i += size {
		end := i + size
		if end > len(clusters) {
			end = len(clusters)
		}
		chunks = append(chunks, strings.Join(clusters[i:end], ""))
	}
	return chunks
}
