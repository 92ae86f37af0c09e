package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/pkg/extract"
)

// Profile is the instruction set used to analyse one image subtype.
type Profile struct {
	Subtype  extract.Subtype
	System   string
	analysis string
}

var profiles = map[extract.Subtype]Profile{
	extract.SubtypeChildLetter: {
		Subtype:  extract.SubtypeChildLetter,
		System:   constant.ChildLetterSystemPrompt,
		analysis: constant.ChildLetterAnalysisPrompt,
	},
	extract.SubtypeTechnicalDocument: {
		Subtype:  extract.SubtypeTechnicalDocument,
		System:   constant.TechnicalSystemPrompt,
		analysis: constant.TechnicalAnalysisPrompt,
	},
	extract.SubtypeHandwriting: {
		Subtype:  extract.SubtypeHandwriting,
		System:   constant.HandwritingSystemPrompt,
		analysis: constant.HandwritingAnalysisPrompt,
	},
	extract.SubtypePrinted: {
		Subtype:  extract.SubtypePrinted,
		System:   constant.PrintedSystemPrompt,
		analysis: constant.PrintedAnalysisPrompt,
	},
}

// ProfileFor returns the profile for subtype, defaulting to printed text.
func ProfileFor(subtype extract.Subtype) Profile {
	if p, ok := profiles[subtype]; ok {
		return p
	}
	return profiles[extract.SubtypePrinted]
}

// Message renders the analysis request for the extracted text.
func (p Profile) Message(img *extract.ImageText) string {
	return fmt.Sprintf(p.analysis, img.Text, strconv.FormatFloat(img.Confidence, 'f', -1, 64))
}

// Banner is the note shown above the answer for this subtype. Printed
// text has none.
func (p Profile) Banner(img *extract.ImageText) string {
	var sb strings.Builder

	switch p.Subtype {
	case extract.SubtypeChildLetter:
		sb.WriteString(constant.ChildLetterBanner)
		if img.Confidence < constant.LowConfidenceThreshold {
			writeExtracted(&sb, img.Text)
		}
	case extract.SubtypeTechnicalDocument:
		fmt.Fprintf(&sb, constant.TechnicalBanner, img.Confidence)
		if len(img.Corrections) > 0 {
			sb.WriteString("\n>\n> **Corrections Applied:**")
			for _, c := range img.Corrections {
				fmt.Fprintf(&sb, "\n> - \"%s\" → \"%s\"", c.Original, c.Correction)
			}
		}
	case extract.SubtypeHandwriting:
		fmt.Fprintf(&sb, constant.HandwritingBanner, img.Confidence)
		if img.Confidence < constant.LowConfidenceThreshold {
			writeExtracted(&sb, img.Text)
		}
	}

	return sb.String()
}

func writeExtracted(sb *strings.Builder, text string) {
	sb.WriteString("\n\n**Extracted Text:**\n```\n")
	sb.WriteString(text)
	sb.WriteString("\n```")
}
