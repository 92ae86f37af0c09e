package classifier

import (
	"strings"
)

// Mode is the session-wide response style for a tab.
type Mode string

const (
	ModeNormal     Mode = "normal"
	ModeBrainstorm Mode = "brainstorm"
)

// brainstormTerms are matched case-insensitively as substrings.
var brainstormTerms = []string{
	"brainstorm",
	"creative ideas",
	"generate ideas",
	"think of",
	"generate options",
	"suggest alternatives",
}

// NewsDetector decides whether a message asks for current news.
type NewsDetector interface {
	IsNewsQuery(text string) bool
}

// Result is the classification of one message against the tab's current mode.
type Result struct {
	IsBrainstormIntent bool
	IsNewsIntent       bool
	Next               Mode // mode after applying the transition policy
}

// Changed reports whether classifying moved the tab to another mode.
func (r Result) Changed(current Mode) bool {
	return r.Next != current
}

type Classifier struct {
	news NewsDetector
}

// New builds a Classifier. A nil detector falls back to keyword matching.
func New(news NewsDetector) *Classifier {
	if news == nil {
		news = KeywordNewsDetector{}
	}
	return &Classifier{news: news}
}

// Classify is pure: the same text and mode always give the same Result.
//
// News intent is only considered outside brainstorm mode and only for messages
// that are not themselves brainstorm requests.
func (c *Classifier) Classify(text string, current Mode) Result {
	res := Result{
		IsBrainstormIntent: IsBrainstormIntent(text),
		Next:               current,
	}

	if current != ModeBrainstorm && !res.IsBrainstormIntent {
		res.IsNewsIntent = c.news.IsNewsQuery(text)
	}

	switch {
	case current == ModeBrainstorm && !res.IsBrainstormIntent:
		res.Next = ModeNormal
	case current != ModeBrainstorm && res.IsBrainstormIntent:
		res.Next = ModeBrainstorm
	}

	return res
}

func IsBrainstormIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range brainstormTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
