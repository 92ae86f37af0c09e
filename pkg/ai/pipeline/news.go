package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/ai/classifier"
	"ai-assistant-be/pkg/news"
)

const (
	newsCountdownFrom     = 3
	newsCountdownInterval = 600 * time.Millisecond
)

// News answers news-intent messages in two phases: a specific search for
// the user's query, then top headlines for the inferred category with a
// disclosure line.
type News struct {
	client   news.Client
	now      func() time.Time
	interval time.Duration
	logger   logger.ILogger
}

var _ Pipeline = &News{}

func NewNews(client news.Client, logger logger.ILogger) *News {
	return &News{
		client:   client,
		now:      time.Now,
		interval: newsCountdownInterval,
		logger:   logger,
	}
}

// WithClock replaces the clock used for query enrichment.
func (p *News) WithClock(now func() time.Time) *News {
	p.now = now
	return p
}

// WithCountdownInterval sets the delay between countdown frames.
func (p *News) WithCountdownInterval(d time.Duration) *News {
	p.interval = d
	return p
}

func (p *News) Name() string { return "news" }

func (p *News) Resolve(ctx context.Context, in Input) (out Outcome) {
	ctx, span := startSpan(ctx, p.Name(), in)
	defer func() { endSpan(span, out) }()

	progress := in.progress()

	frames := make([]string, 0, newsCountdownFrom)
	for i := newsCountdownFrom; i >= 1; i-- {
		frames = append(frames, fmt.Sprintf(constant.NewsCountdownFormat, i))
	}
	if !progress.Countdown(ctx, frames, p.interval) {
		return Outcome{Failed: true, Err: ErrAbandoned}
	}

	category := classifier.Category(in.Message)
	query := EnrichQuery(in.Message, p.now())

	var errs []error

	res, err := p.client.Search(ctx, category, query)
	switch {
	case err != nil:
		errs = append(errs, &TransportError{Op: "news search", Err: err})
	case res.Empty() || res.IsPlaceholder:
		errs = append(errs, errors.New("news search: no specific results"))
	default:
		progress.Status(constant.NewsFormatting)
		return Outcome{Text: news.Digest(category, res.Articles)}
	}

	p.logger.Info("PIPELINE", "Specific news search missed, trying headlines", map[string]interface{}{
		"category": category,
		"query":    query,
	})
	if !progress.Status(constant.NewsTryingFallback) {
		return Outcome{Failed: true, Err: ErrAbandoned}
	}

	res, err = p.client.Search(ctx, category, "")
	switch {
	case err != nil:
		errs = append(errs, &TransportError{Op: "news headlines", Err: err})
	case res.Empty():
		errs = append(errs, errors.New("news headlines: no results"))
	default:
		disclosure := fmt.Sprintf(constant.NewsDisclosure, in.Message, category)
		return Outcome{
			Text:     disclosure + "\n\n" + news.Digest(category, res.Articles),
			Degraded: true,
			Err:      errors.Join(errs...),
		}
	}

	return Outcome{
		Text:   constant.NewsUnavailableText,
		Failed: true,
		Err:    &ExhaustedFallbackError{Pipeline: p.Name(), Errs: errs},
	}
}

// EnrichQuery biases a search toward recent coverage.
func EnrichQuery(query string, now time.Time) string {
	enriched := strings.TrimSpace(query)
	lower := strings.ToLower(enriched)
	if !strings.Contains(lower, "today") && !strings.Contains(lower, "latest") {
		enriched += " today latest"
	}
	year := strconv.Itoa(now.Year())
	if !strings.Contains(enriched, year) {
		enriched += " " + year
	}
	return enriched
}
