package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// HTTPExtractor posts files as multipart forms to OCR and PDF text services.
type HTTPExtractor struct {
	ImageURL    string
	DocumentURL string
	Client      *http.Client
}

var (
	_ ImageExtractor    = &HTTPExtractor{}
	_ DocumentExtractor = &HTTPExtractor{}
)

func NewHTTPExtractor(imageURL, documentURL string) *HTTPExtractor {
	return &HTTPExtractor{
		ImageURL:    imageURL,
		DocumentURL: documentURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type extractionResponse struct {
	Success             bool         `json:"success"`
	Text                string       `json:"text"`
	Confidence          float64      `json:"confidence"`
	IsChildLetter       bool         `json:"isChildLetter"`
	IsTechnicalDocument bool         `json:"isTechnicalDocument"`
	IsHandwriting       bool         `json:"isHandwriting"`
	Corrections         []Correction `json:"corrections"`
	Error               string       `json:"error,omitempty"`
}

func (e *HTTPExtractor) ExtractImage(ctx context.Context, f File) (*ImageText, error) {
	res, err := e.post(ctx, e.ImageURL, "image", f)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return &ImageText{}, nil
	}

	subtype := SubtypePrinted
	switch {
	case res.IsChildLetter:
		subtype = SubtypeChildLetter
	case res.IsTechnicalDocument:
		subtype = SubtypeTechnicalDocument
	case res.IsHandwriting:
		subtype = SubtypeHandwriting
	}

	return &ImageText{
		Text:        res.Text,
		Confidence:  res.Confidence,
		Subtype:     subtype,
		Corrections: res.Corrections,
	}, nil
}

func (e *HTTPExtractor) ExtractDocument(ctx context.Context, f File) (*DocumentText, error) {
	res, err := e.post(ctx, e.DocumentURL, "pdf", f)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return &DocumentText{}, nil
	}
	return &DocumentText{Text: res.Text}, nil
}

func (e *HTTPExtractor) post(ctx context.Context, endpoint, field string, f File) (*extractionResponse, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("no %s extraction endpoint configured", field)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, f.Name)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var parsed extractionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &parsed, nil
}
