package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/ai/classifier"
	"ai-assistant-be/pkg/ai/pipeline"
	"ai-assistant-be/pkg/ai/reveal"
	"ai-assistant-be/pkg/extract"
	"ai-assistant-be/pkg/identity"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/transcript"

	"golang.org/x/time/rate"
)

type SubmitStatus string

const (
	SubmitAccepted     SubmitStatus = "accepted"
	SubmitIgnored      SubmitStatus = "ignored"
	SubmitAuthRequired SubmitStatus = "auth_required"
	SubmitRateLimited  SubmitStatus = "rate_limited"
)

type UploadStatus string

const (
	UploadAccepted     UploadStatus = "accepted"
	UploadIgnored      UploadStatus = "ignored"
	UploadRejected     UploadStatus = "rejected"
	UploadAuthRequired UploadStatus = "auth_required"
	UploadRateLimited  UploadStatus = "rate_limited"
)

type Config struct {
	NoticeDebounce time.Duration
	RevealInterval time.Duration
	RevealMaxSteps int
	RequestTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		NoticeDebounce: 5 * time.Second,
		RevealInterval: reveal.DefaultInterval,
		RevealMaxSteps: reveal.DefaultMaxSteps,
		RequestTimeout: 2 * time.Minute,
	}
}

// Pipelines are the response strategies a session dispatches to. News and
// Upload are optional.
type Pipelines struct {
	Chat       pipeline.Pipeline
	Brainstorm pipeline.Pipeline
	News       pipeline.Pipeline
	Upload     *pipeline.Upload
}

type Deps struct {
	ID         string
	// Owner is the user that created the session, empty for guests.
	Owner      string
	Pipelines  Pipelines
	Classifier *classifier.Classifier
	Identity   identity.Provider
	Limiter    *rate.Limiter
	Observer   Observer
	Logger     logger.ILogger
	Now        func() time.Time
}

// Controller owns one conversation: its transcript, mode and the single
// generation allowed to be in flight.
type Controller struct {
	id         string
	owner      string
	cfg        Config
	pipelines  Pipelines
	classifier *classifier.Classifier
	identity   identity.Provider
	limiter    *rate.Limiter
	observer   Observer
	logger     logger.ILogger
	now        func() time.Time

	store     *transcript.Store
	issuer    *reveal.Issuer
	scheduler *reveal.Scheduler
	wg        sync.WaitGroup

	// life is cancelled by Close only. Stop, Clear and toggles leave
	// requests running and rely on the ticket to discard their result.
	life     context.Context
	shutdown context.CancelFunc

	mu         sync.Mutex
	mode       classifier.Mode
	loading    bool
	inFlight   bool
	activeTurn int64
	notices    debouncer
}

func NewController(cfg Config, deps Deps) *Controller {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if deps.Identity == nil {
		deps.Identity = identity.GuestProvider{}
	}
	if deps.Classifier == nil {
		deps.Classifier = classifier.New(nil)
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}

	life, shutdown := context.WithCancel(context.Background())

	return &Controller{
		id:         deps.ID,
		owner:      deps.Owner,
		cfg:        cfg,
		pipelines:  deps.Pipelines,
		classifier: deps.Classifier,
		identity:   deps.Identity,
		limiter:    deps.Limiter,
		observer:   deps.Observer,
		logger:     deps.Logger,
		now:        deps.Now,
		store:      transcript.NewStoreWithClock(deps.Now),
		issuer:     reveal.NewIssuer(),
		scheduler:  reveal.NewScheduler(cfg.RevealInterval, cfg.RevealMaxSteps),
		mode:       classifier.ModeNormal,
		notices:    debouncer{window: cfg.NoticeDebounce},
		life:       life,
		shutdown:   shutdown,
	}
}

func (c *Controller) ID() string { return c.id }
func (c *Controller) Owner() string { return c.owner }

// Submit starts answering text. Blank input and input arriving while a
// generation is in flight are ignored without touching the transcript.
func (c *Controller) Submit(ctx context.Context, text string) SubmitStatus {
	if strings.TrimSpace(text) == "" {
		return SubmitIgnored
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return SubmitIgnored
	}
	if !c.authorizedLocked(ctx) {
		return SubmitAuthRequired
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.noticeLocked(constant.NoticeSlowDown)
		return SubmitRateLimited
	}

	prev := c.mode
	res := c.classifier.Classify(text, prev)
	// A mode toggled on by hand survives the first message of the fresh
	// transcript it created.
	if c.mode == classifier.ModeBrainstorm && !res.IsBrainstormIntent && c.store.Len() == 0 {
		res.Next = classifier.ModeBrainstorm
	}
	if res.Changed(c.mode) {
		c.setModeLocked(res.Next)
		if c.notices.allow(c.now()) {
			if res.Next == classifier.ModeBrainstorm {
				c.noticeLocked(constant.NoticeEnterBrainstorm)
			} else {
				c.noticeLocked(constant.NoticeExitBrainstorm)
			}
		}
	}

	p, kind, placeholder := c.route(res, prev)
	turn := c.store.Append(text, placeholder, kind)
	ticket := c.issuer.Issue()
	history := c.historyLocked(turn.ID)
	c.beginLocked(turn)

	c.logger.Info("SESSION", "Dispatching message", map[string]interface{}{
		"session_id": c.id,
		"turn_id":    turn.ID,
		"pipeline":   p.Name(),
		"mode":       string(c.mode),
	})

	runCtx, release := c.runContextLocked(ctx)
	c.wg.Add(1)
	go func() {
		defer release()
		c.generate(runCtx, ticket, turn.ID, p, pipeline.Input{Message: text, History: history}, nil)
	}()

	return SubmitAccepted
}

// route picks exactly one pipeline: news, then brainstorm, then chat.
// Brainstorm follows the mode the message arrived in, so the message that
// ends brainstorm mode is still answered by the brainstorm pipeline.
func (c *Controller) route(res classifier.Result, arrivedIn classifier.Mode) (pipeline.Pipeline, transcript.Kind, string) {
	switch {
	case res.IsNewsIntent && c.pipelines.News != nil:
		return c.pipelines.News, transcript.KindNews, constant.PlaceholderThinking
	case (arrivedIn == classifier.ModeBrainstorm || res.IsBrainstormIntent) && c.pipelines.Brainstorm != nil:
		return c.pipelines.Brainstorm, transcript.KindBrainstorm, constant.PlaceholderThinkingCreatively
	default:
		return c.pipelines.Chat, transcript.KindChat, constant.PlaceholderThinking
	}
}

// UploadFile extracts text from f in the background and, when there is
// some, answers it like a chat message under a synthetic user Turn.
// Extraction failures show one notice and add no Turn.
func (c *Controller) UploadFile(ctx context.Context, f *extract.File) UploadStatus {
	if f == nil || len(f.Data) == 0 {
		c.mu.Lock()
		c.noticeLocked(constant.NoticeNoFile)
		c.mu.Unlock()
		return UploadRejected
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight || c.pipelines.Upload == nil {
		return UploadIgnored
	}
	if !c.authorizedLocked(ctx) {
		return UploadAuthRequired
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.noticeLocked(constant.NoticeSlowDown)
		return UploadRateLimited
	}

	ticket := c.issuer.Issue()
	c.inFlight = true
	c.activeTurn = 0
	c.setLoadingLocked(true)

	runCtx, release := c.runContextLocked(ctx)
	c.wg.Add(1)
	go func() {
		defer release()
		c.upload(runCtx, ticket, *f)
	}()

	return UploadAccepted
}

func (c *Controller) upload(ctx context.Context, ticket *reveal.Ticket, f extract.File) {
	prepared, err := c.pipelines.Upload.Prepare(ctx, &f)

	c.mu.Lock()
	if !ticket.Valid() {
		c.mu.Unlock()
		c.wg.Done()
		return
	}
	if err != nil {
		c.noticeLocked(pipeline.NoticeFor(err))
		c.endLocked()
		c.mu.Unlock()
		c.wg.Done()
		return
	}

	turn := c.store.Append(prepared.UserText, prepared.Placeholder, prepared.Kind)
	in := prepared.Input
	in.History = c.historyLocked(turn.ID)
	c.beginLocked(turn)
	c.mu.Unlock()

	c.generate(ctx, ticket, turn.ID, c.pipelines.Chat, in, prepared.Compose)
}

// generate resolves the pipeline and hands a successful answer to the
// reveal scheduler. Every write is dropped once ticket is stale.
func (c *Controller) generate(ctx context.Context, ticket *reveal.Ticket, turnID int64, p pipeline.Pipeline, in pipeline.Input, compose func(string) string) {
	defer c.wg.Done()

	in.Progress = &turnProgress{c: c, ticket: ticket, turnID: turnID}
	out := p.Resolve(ctx, in)

	if out.Err != nil {
		details := map[string]interface{}{
			"session_id": c.id,
			"turn_id":    turnID,
			"pipeline":   p.Name(),
			"error":      out.Err.Error(),
		}
		switch {
		case !ticket.Valid():
			c.logger.Debug("SESSION", "Stale generation finished", details)
		case out.Failed:
			c.logger.Error("SESSION", "Generation failed", details)
		default:
			c.logger.Warn("SESSION", "Generation degraded", details)
		}
	}

	if out.Failed {
		c.finish(ticket, turnID, out.Text, transcript.StateErrored)
		return
	}

	text := out.Text
	if compose != nil {
		text = compose(text)
	}
	c.reveal(ticket, turnID, text)
}

func (c *Controller) reveal(ticket *reveal.Ticket, turnID int64, text string) {
	c.mu.Lock()
	if !ticket.Valid() {
		c.mu.Unlock()
		return
	}
	turn, err := c.store.Update(turnID, "", transcript.StateStreaming)
	if err != nil {
		c.mu.Unlock()
		return
	}
	c.emitTurnLocked(turn)
	c.mu.Unlock()

	c.scheduler.Reveal(ticket, text,
		func(chunk string) bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if !ticket.Valid() {
				return false
			}
			turn, err := c.store.AppendText(turnID, chunk, transcript.StateStreaming)
			if err != nil {
				return false
			}
			c.emitTurnLocked(turn)
			return true
		},
		func(cancelled bool) {
			if !cancelled {
				c.finish(ticket, turnID, text, transcript.StateComplete)
			}
		},
	)
}

func (c *Controller) finish(ticket *reveal.Ticket, turnID int64, text string, state transcript.ResponseState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !ticket.Valid() {
		return
	}
	if turn, err := c.store.Update(turnID, text, state); err == nil {
		c.emitTurnLocked(turn)
	}
	c.issuer.Invalidate()
	c.endLocked()
}

// Stop halts the in-flight generation. Revealed text stays; the Turn is
// completed with it, or with a stopped marker if nothing was revealed yet.
// An outstanding request is left to finish and its answer is dropped.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inFlight {
		c.setLoadingLocked(false)
		return false
	}
	c.cancelLocked()

	if turn, ok := c.store.Get(c.activeTurn); ok && !turn.ResponseState.Terminal() {
		text := turn.ResponseText
		if turn.ResponseState == transcript.StatePending || text == "" {
			text = constant.StoppedText
		}
		if updated, err := c.store.Update(turn.ID, text, transcript.StateComplete); err == nil {
			c.emitTurnLocked(updated)
		}
	}

	c.logger.Info("SESSION", "Generation stopped", map[string]interface{}{
		"session_id": c.id,
		"turn_id":    c.activeTurn,
	})
	c.endLocked()
	return true
}

// ToggleBrainstorm flips the mode by hand. Entering brainstorm starts a
// fresh transcript; leaving keeps it.
func (c *Controller) ToggleBrainstorm() classifier.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == classifier.ModeBrainstorm {
		c.setModeLocked(classifier.ModeNormal)
		c.noticeLocked(constant.NoticeBrainstormOff)
	} else {
		c.cancelLocked()
		c.endLocked()
		c.clearLocked()
		c.setModeLocked(classifier.ModeBrainstorm)
		c.noticeLocked(constant.NoticeBrainstormEnabled)
	}
	c.notices.reset(c.now())
	return c.mode
}

// Clear drops the transcript and any generation in flight. The mode is kept.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.endLocked()
	c.clearLocked()
}

// Close stops all work, aborts outstanding requests and waits for
// background goroutines to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelLocked()
	c.endLocked()
	c.mu.Unlock()
	c.shutdown()
	c.Wait()
}

// Wait blocks until no generation or reveal is running.
func (c *Controller) Wait() {
	c.wg.Wait()
	c.scheduler.Wait()
}

func (c *Controller) Transcript() []transcript.Turn {
	return c.store.Snapshot()
}

func (c *Controller) Mode() classifier.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) authorizedLocked(ctx context.Context) bool {
	if c.identity.CurrentUser(ctx).IsAuthenticated {
		return true
	}
	c.emitLocked(Event{Type: EventAuthRequired, Notice: constant.NoticeLoginRequired})
	return false
}

// runContextLocked detaches the request from the caller. It ends at the
// request timeout or on Close; the returned func releases it once the
// generation goroutine is done.
func (c *Controller) runContextLocked(ctx context.Context) (context.Context, func()) {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.RequestTimeout)
	unhook := context.AfterFunc(c.life, cancel)
	return runCtx, func() {
		unhook()
		cancel()
	}
}

func (c *Controller) historyLocked(excludeID int64) []llm.Message {
	exchanges := c.store.History(excludeID)
	history := make([]llm.Message, len(exchanges))
	for i, e := range exchanges {
		history[i] = llm.Message{Role: e.Role, Content: e.Content}
	}
	return history
}

func (c *Controller) beginLocked(turn transcript.Turn) {
	c.inFlight = true
	c.activeTurn = turn.ID
	c.emitTurnLocked(turn)
	c.emitLocked(Event{Type: EventScroll})
	c.setLoadingLocked(true)
}

func (c *Controller) endLocked() {
	c.inFlight = false
	c.activeTurn = 0
	c.setLoadingLocked(false)
}

func (c *Controller) cancelLocked() {
	c.issuer.Invalidate()
	c.scheduler.CancelAll()
}

func (c *Controller) clearLocked() {
	c.store.Clear()
	c.emitLocked(Event{Type: EventCleared})
}

func (c *Controller) setModeLocked(mode classifier.Mode) {
	c.mode = mode
	c.emitLocked(Event{Type: EventMode, Mode: mode})
}

func (c *Controller) setLoadingLocked(loading bool) {
	if c.loading == loading {
		return
	}
	c.loading = loading
	c.emitLocked(Event{Type: EventLoading, Loading: loading})
}

func (c *Controller) noticeLocked(text string) {
	c.emitLocked(Event{Type: EventNotice, Notice: text})
}

func (c *Controller) emitTurnLocked(turn transcript.Turn) {
	c.emitLocked(Event{Type: EventTurn, Turn: &turn})
}

func (c *Controller) emitLocked(ev Event) {
	ev.SessionID = c.id
	ev.At = c.now()
	if ev.Mode == "" {
		ev.Mode = c.mode
	}
	ev.Loading = c.loading
	c.observer.Observe(ev)
}

// turnProgress writes pipeline status lines onto the pending Turn.
type turnProgress struct {
	c      *Controller
	ticket *reveal.Ticket
	turnID int64
}

func (p *turnProgress) Status(text string) bool {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	if !p.ticket.Valid() {
		return false
	}
	turn, err := p.c.store.Update(p.turnID, text, transcript.StatePending)
	if err != nil {
		return false
	}
	p.c.emitTurnLocked(turn)
	return true
}

func (p *turnProgress) Countdown(ctx context.Context, frames []string, interval time.Duration) bool {
	return p.c.scheduler.Countdown(ctx, p.ticket, frames, interval, p.Status)
}
