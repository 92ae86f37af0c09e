package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/llm"
)

type ChatConfig struct {
	// OfflineFallback answers from the offline responder when the provider fails.
	OfflineFallback bool

	// CountdownFrom shows "Thinking N..." frames before the call. Zero disables it.
	CountdownFrom     int
	CountdownInterval time.Duration

	FailureText string
}

// DirectChat sends the message with history straight to the completion
// provider, falling back to the offline responder when enabled.
type DirectChat struct {
	llmProvider llm.LLMProvider
	offline     *OfflineResponder
	cfg         ChatConfig
	logger      logger.ILogger
}

var _ Pipeline = &DirectChat{}

func NewDirectChat(llmProvider llm.LLMProvider, offline *OfflineResponder, cfg ChatConfig, logger logger.ILogger) *DirectChat {
	if cfg.FailureText == "" {
		cfg.FailureText = constant.ChatFailureText
	}
	if cfg.CountdownInterval <= 0 {
		cfg.CountdownInterval = time.Second
	}
	return &DirectChat{
		llmProvider: llmProvider,
		offline:     offline,
		cfg:         cfg,
		logger:      logger,
	}
}

func (p *DirectChat) Name() string { return "chat" }

func (p *DirectChat) Resolve(ctx context.Context, in Input) (out Outcome) {
	ctx, span := startSpan(ctx, p.Name(), in)
	defer func() { endSpan(span, out) }()

	if p.cfg.CountdownFrom > 0 {
		frames := make([]string, 0, p.cfg.CountdownFrom)
		for i := p.cfg.CountdownFrom; i >= 1; i-- {
			frames = append(frames, fmt.Sprintf("Thinking %d...", i))
		}
		if !in.progress().Countdown(ctx, frames, p.cfg.CountdownInterval) {
			return Outcome{Failed: true, Err: ErrAbandoned}
		}
	}

	failureText := p.cfg.FailureText
	if in.FailureText != "" {
		failureText = in.FailureText
	}

	reply, err := p.llmProvider.Chat(ctx, llm.Compose(in.System, in.History, in.Message))
	if err == nil && strings.TrimSpace(reply) != "" {
		return Outcome{Text: reply}
	}
	if err == nil && in.EmptyReplyText != "" {
		return Outcome{Text: in.EmptyReplyText}
	}
	if err == nil {
		err = ErrEmptyReply
	}
	cause := &TransportError{Op: "chat completion", Err: err}
	p.logger.Warn("PIPELINE", "Chat provider failed", map[string]interface{}{
		"error": err.Error(),
	})

	errs := []error{cause}
	if p.cfg.OfflineFallback && !in.NoOffline && p.offline != nil {
		text, oerr := p.offline.Respond(in.Message)
		if oerr == nil {
			return Outcome{Text: text, Degraded: true, Err: cause}
		}
		errs = append(errs, oerr)
	}

	return Outcome{
		Text:   failureText,
		Failed: true,
		Err:    &ExhaustedFallbackError{Pipeline: p.Name(), Errs: errs},
	}
}
