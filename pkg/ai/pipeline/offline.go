package pipeline

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

type offlineRule struct {
	terms   []string
	replies []string
}

var offlineRules = []offlineRule{
	{
		terms: []string{"hello", "hi", "hey", "good morning", "good evening"},
		replies: []string{
			"Hello! I'm running in offline mode right now, but I'm happy to help with what I can.",
			"Hi there! My connection to the assistant service is down at the moment. Ask me again in a little while for a full answer.",
		},
	},
	{
		terms: []string{"thanks", "thank you", "thx", "appreciate"},
		replies: []string{
			"You're welcome! I'm in offline mode, so let me know if you'd like to try again once I'm reconnected.",
			"Glad to help. Some answers may be limited until the assistant service is reachable again.",
		},
	},
	{
		terms: []string{"help", "how do i", "how to", "can you"},
		replies: []string{
			"I can't reach the assistant service right now, so I can't give a detailed answer. Please try your question again shortly.",
			"I'm in offline mode and can only give short replies. Try again in a moment for a full walkthrough.",
		},
	},
}

var offlineDefault = []string{
	"I'm currently in offline mode and couldn't reach the assistant service. Please try again in a moment.",
	"The assistant service is unavailable right now. Your message was received, so feel free to resend it shortly.",
	"I'm unable to generate a full answer while offline. Please try again soon.",
}

// OfflineResponder produces canned replies without any network call.
// The same message always yields the same reply.
type OfflineResponder struct{}

func NewOfflineResponder() *OfflineResponder {
	return &OfflineResponder{}
}

func (o *OfflineResponder) Respond(message string) (string, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(message)), " ")
	if normalized == "" {
		return "", &ValidationError{Field: "message", Reason: "empty"}
	}

	replies := offlineDefault
	for _, rule := range offlineRules {
		if matchesAny(normalized, rule.terms) {
			replies = rule.replies
			break
		}
	}
	return replies[xxhash.Sum64String(normalized)%uint64(len(replies))], nil
}

func matchesAny(normalized string, terms []string) bool {
	words := strings.Fields(strings.Trim(normalized, "!?.,"))
	for _, term := range terms {
		if strings.Contains(term, " ") {
			if strings.Contains(normalized, term) {
				return true
			}
			continue
		}
		for _, w := range words {
			if strings.Trim(w, "!?.,") == term {
				return true
			}
		}
	}
	return false
}
