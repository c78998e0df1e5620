package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// keywordThemeLimit is the number of keywords KeywordThemes returns.
const keywordThemeLimit = 5

var keywordPattern = regexp.MustCompile(`\b[a-z]{4,}\b`)

// keywordStopWords are frequent words in work notes that carry no theme.
var keywordStopWords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "were": {},
	"been": {}, "started": {}, "finished": {}, "fixed": {}, "implemented": {},
	"working": {}, "will": {}, "ould": {}, "hould": {}, "these": {}, "those": {},
}

// KeywordThemes extracts the most frequent keywords from free-text work notes.
// Words shorter than four letters and stop words are ignored.
func KeywordThemes(notes []string) []domain.LabelCount {
	if len(notes) == 0 {
		return []domain.LabelCount{}
	}

	text := strings.ToLower(strings.Join(notes, " "))
	counter := newLabelCounter()
	for _, word := range keywordPattern.FindAllString(text, -1) {
		if _, stop := keywordStopWords[word]; stop {
			continue
		}
		counter.add(word)
	}

	top := counter.ranked()
	if len(top) > keywordThemeLimit {
		top = top[:keywordThemeLimit]
	}
	return top
}
