package extract

import (
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is an uploaded file as received from the client.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

type Category string

const (
	CategoryImage    Category = "image"
	CategoryDocument Category = "document"
)

// Categorize trusts the declared media type unless it is missing or generic,
// in which case the content is sniffed.
func Categorize(f File) Category {
	declared := strings.ToLower(strings.TrimSpace(f.MediaType))
	if declared == "" || declared == "application/octet-stream" {
		declared = mimetype.Detect(f.Data).String()
	}
	if strings.HasPrefix(declared, "image/") {
		return CategoryImage
	}
	return CategoryDocument
}

// Subtype is the kind of text an image appears to contain.
type Subtype string

const (
	SubtypeChildLetter       Subtype = "child_letter"
	SubtypeTechnicalDocument Subtype = "technical_document"
	SubtypeHandwriting       Subtype = "handwriting"
	SubtypePrinted           Subtype = "printed"
)

type Correction struct {
	Original   string `json:"original"`
	Correction string `json:"correction"`
}

type ImageText struct {
	Text        string
	Confidence  float64 // percent, 0-100
	Subtype     Subtype
	Corrections []Correction
}

type DocumentText struct {
	Text string
}

type ImageExtractor interface {
	ExtractImage(ctx context.Context, f File) (*ImageText, error)
}

type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, f File) (*DocumentText, error)
}
