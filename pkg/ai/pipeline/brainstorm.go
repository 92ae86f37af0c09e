package pipeline

import (
	"context"
	"strings"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/llm"
)

// Brainstorm frames the message with the ideation prompt. It has no
// offline tier: a failed call becomes the brainstorm failure text.
type Brainstorm struct {
	llmProvider llm.LLMProvider
	system      string
	temperature float64
	logger      logger.ILogger
}

var _ Pipeline = &Brainstorm{}

func NewBrainstorm(llmProvider llm.LLMProvider, logger logger.ILogger) *Brainstorm {
	return &Brainstorm{
		llmProvider: llmProvider,
		system:      constant.BrainstormSystemPrompt,
		temperature: 0.9,
		logger:      logger,
	}
}

func (p *Brainstorm) Name() string { return "brainstorm" }

func (p *Brainstorm) Resolve(ctx context.Context, in Input) (out Outcome) {
	ctx, span := startSpan(ctx, p.Name(), in)
	defer func() { endSpan(span, out) }()

	system := p.system
	if in.System != "" {
		system = in.System
	}

	reply, err := p.llmProvider.Chat(ctx, llm.Compose(system, in.History, in.Message), llm.WithTemperature(p.temperature))
	if err == nil && strings.TrimSpace(reply) != "" {
		return Outcome{Text: reply}
	}
	if err == nil {
		err = ErrEmptyReply
	}

	p.logger.Warn("PIPELINE", "Brainstorm provider failed", map[string]interface{}{
		"error": err.Error(),
	})
	return Outcome{
		Text:   constant.BrainstormFailureText,
		Failed: true,
		Err:    &TransportError{Op: "brainstorm completion", Err: err},
	}
}
