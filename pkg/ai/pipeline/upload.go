package pipeline

import (
	"context"
	"errors"
	"strings"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/extract"
	"ai-assistant-be/pkg/transcript"

	"go.opentelemetry.io/otel/attribute"
)

// Prepared is an upload whose text has been extracted and framed for
// Direct Chat.
type Prepared struct {
	Category    extract.Category
	Kind        transcript.Kind
	UserText    string
	Placeholder string
	Banner      string

	Input Input
}

// Compose places the banner above the chat answer.
func (p *Prepared) Compose(answer string) string {
	if p.Banner == "" {
		return answer
	}
	return p.Banner + "\n\n" + answer
}

// Upload turns a file into a chat request. Extraction failures are
// reported as *UploadError and never reach the transcript.
type Upload struct {
	images   extract.ImageExtractor
	docs     extract.DocumentExtractor
	maxChars int
	logger   logger.ILogger
}

func NewUpload(images extract.ImageExtractor, docs extract.DocumentExtractor, logger logger.ILogger) *Upload {
	return &Upload{
		images:   images,
		docs:     docs,
		maxChars: constant.DocumentMaxChars,
		logger:   logger,
	}
}

func (u *Upload) Prepare(ctx context.Context, f *extract.File) (*Prepared, error) {
	if f == nil || len(f.Data) == 0 {
		return nil, &UploadError{
			Notice: constant.NoticeNoFile,
			Err:    &ValidationError{Field: "file", Reason: "missing"},
		}
	}

	category := extract.Categorize(*f)
	ctx, span := tracer.Start(ctx, "pipeline.upload")
	span.SetAttributes(
		attribute.String("upload.category", string(category)),
		attribute.Int("upload.size", len(f.Data)),
	)
	defer span.End()

	var (
		p   *Prepared
		err error
	)
	if category == extract.CategoryImage {
		p, err = u.prepareImage(ctx, *f)
	} else {
		p, err = u.prepareDocument(ctx, *f)
	}
	if err != nil {
		span.RecordError(err)
		u.logger.Warn("PIPELINE", "Upload extraction failed", map[string]interface{}{
			"file":     f.Name,
			"category": string(category),
			"error":    err.Error(),
		})
		return nil, err
	}
	return p, nil
}

func (u *Upload) prepareImage(ctx context.Context, f extract.File) (*Prepared, error) {
	img, err := u.images.ExtractImage(ctx, f)
	if err != nil {
		return nil, &UploadError{
			Category: extract.CategoryImage,
			Notice:   constant.NoticeImageFailed,
			Err:      &TransportError{Op: "extract image", Err: err},
		}
	}
	if img == nil || strings.TrimSpace(img.Text) == "" {
		return nil, &UploadError{
			Category: extract.CategoryImage,
			Notice:   constant.NoticeImageNoText,
			Err:      ErrExtractionEmpty,
		}
	}

	profile := ProfileFor(img.Subtype)
	return &Prepared{
		Category:    extract.CategoryImage,
		Kind:        transcript.KindImage,
		UserText:    constant.InjectedImageUserText,
		Placeholder: constant.PlaceholderAnalyzingImage,
		Banner:      profile.Banner(img),
		Input: Input{
			Message:     profile.Message(img),
			System:      profile.System,
			FailureText: constant.ImageFailureText,
			NoOffline:   true,
		},
	}, nil
}

func (u *Upload) prepareDocument(ctx context.Context, f extract.File) (*Prepared, error) {
	doc, err := u.docs.ExtractDocument(ctx, f)
	if err != nil {
		return nil, &UploadError{
			Category: extract.CategoryDocument,
			Notice:   constant.NoticeDocumentFailed,
			Err:      &TransportError{Op: "extract document", Err: err},
		}
	}
	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return nil, &UploadError{
			Category: extract.CategoryDocument,
			Notice:   constant.NoticeDocumentNoText,
			Err:      ErrExtractionEmpty,
		}
	}

	return &Prepared{
		Category:    extract.CategoryDocument,
		Kind:        transcript.KindDocument,
		UserText:    constant.InjectedDocumentUserText,
		Placeholder: constant.PlaceholderThinking,
		Input: Input{
			Message:        constant.DocumentSummaryPrompt + Truncate(doc.Text, u.maxChars),
			System:         constant.DocumentSummarySystemPrompt,
			FailureText:    constant.DocumentFailureText,
			EmptyReplyText: constant.DocumentEmptySummary,
			NoOffline:      true,
		},
	}, nil
}

// Truncate cuts text to max runes and marks the cut.
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + constant.DocumentTruncatedSuffix
}

// NoticeFor returns the user-facing notice for a Prepare error.
func NoticeFor(err error) string {
	var uerr *UploadError
	if errors.As(err, &uerr) && uerr.Notice != "" {
		return uerr.Notice
	}
	return constant.NoticeImageFailed
}
