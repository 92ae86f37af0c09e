package news

import (
	"fmt"
	"strings"
)

const digestLimit = 5

// Digest renders articles as markdown for the transcript.
func Digest(category string, articles []Article) string {
	var sb strings.Builder

	title := "Latest News"
	if category != "" {
		title = fmt.Sprintf("Latest %s News", strings.ToUpper(category[:1])+category[1:])
	}
	sb.WriteString("### " + title + "\n\n")

	n := len(articles)
	if n > digestLimit {
		n = digestLimit
	}
	for i, a := range articles[:n] {
		fmt.Fprintf(&sb, "%d. **%s**\n", i+1, a.Title)
		if a.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", a.Description)
		}

		var meta []string
		if a.Source != "" {
			meta = append(meta, "_"+a.Source+"_")
		}
		if !a.PublishedAt.IsZero() {
			meta = append(meta, a.PublishedAt.Format("Jan 2, 15:04"))
		}
		if a.URL != "" {
			meta = append(meta, fmt.Sprintf("[Read more](%s)", a.URL))
		}
		if len(meta) > 0 {
			fmt.Fprintf(&sb, "   %s\n", strings.Join(meta, " · "))
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
