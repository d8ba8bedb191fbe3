package monitor

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

// Filter selects messages whose text contains the trigger keyword,
// case-insensitively. There is no tokenization or word-boundary rule: a
// keyword embedded inside a longer word still matches.
type Filter struct {
	keyword string
	strip   *regexp.Regexp
}

func NewFilter(keyword string) *Filter {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	return &Filter{
		keyword: keyword,
		strip:   regexp.MustCompile(`(?i)\s*` + regexp.QuoteMeta(keyword) + `\s*`),
	}
}

func (f *Filter) Keyword() string {
	return f.keyword
}

// Matches reports whether the message body contains the keyword. A message
// without a body never matches.
func (f *Filter) Matches(msg Message) bool {
	if msg.Text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(msg.Text), f.keyword)
}

// Clean removes every case-insensitive occurrence of the keyword together
// with its adjacent whitespace, replacing each with a single space, then
// collapses whitespace runs and trims. Two occurrences separated only by
// whitespace each consume their surrounding space, so "bugbot bugbot
// duplicate" cleans to "duplicate"; existing fixtures pin that behavior.
func (f *Filter) Clean(text string) string {
	cleaned := f.strip.ReplaceAllString(text, " ")
	cleaned = spaceRun.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
