package agent

import (
	"regexp"
	"strings"
	"time"
)

var (
	subjectPattern = regexp.MustCompile(`(?s)Subject:\s*(.+?)\n\nContent:`)
	contentPattern = regexp.MustCompile(`(?s)Content:\s*(.+)`)
	urlPattern     = regexp.MustCompile(`https://\S+`)
)

// Parsed is the structured form of an agent answer written as
// "Subject: ...\n\nContent: ..." with an optional link.
type Parsed struct {
	Time    string `json:"time"`
	Subject string `json:"subject"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// ParseResponse extracts subject, content and the first https link from
// text. Content falls back to the whole text.
func ParseResponse(text string, now time.Time) Parsed {
	p := Parsed{
		Time:    "Updated on: " + now.Format("2006-01-02 15:04:05"),
		Content: text,
	}
	if m := subjectPattern.FindStringSubmatch(text); m != nil {
		p.Subject = strings.TrimSpace(m[1])
	}
	if m := contentPattern.FindStringSubmatch(text); m != nil {
		p.Content = strings.TrimSpace(m[1])
	}
	p.URL = urlPattern.FindString(text)
	return p
}
