package retriever

import (
	"strings"

	"github.com/mohammad-safakhou/learntabs/internal/tabs"
)

// boostRule adds Bonus when the lowercased URL matches any pattern.
type boostRule struct {
	Contains []string
	Suffix   []string
	Bonus    float64
}

func (r boostRule) matches(u string) bool {
	for _, p := range r.Contains {
		if strings.Contains(u, p) {
			return true
		}
	}
	for _, p := range r.Suffix {
		if strings.HasSuffix(u, p) {
			return true
		}
	}
	return false
}

// Rules for one style stack.
var boostRules = map[tabs.Style][]boostRule{
	tabs.StyleVideos: {
		{Contains: []string{"youtube.com/watch", "youtu.be/"}, Bonus: 5},
	},
	tabs.StyleResearch: {
		{Contains: []string{"arxiv.org", ".edu"}, Suffix: []string{".pdf"}, Bonus: 4},
		{Contains: []string{"github.com", "paper"}, Bonus: 1.5},
		{Contains: []string{"pubmed.ncbi.nlm.nih.gov"}, Bonus: 2.5},
	},
	tabs.StyleQuick: {
		{Contains: []string{"docs.", "developer.", "dev.", "readme"}, Bonus: 2.5},
		{Contains: []string{"medium.com", "dev.to"}, Bonus: 1.5},
	},
}

// Boost returns the style bonus for rawURL. Mix has no rules.
func Boost(style tabs.Style, rawURL string) float64 {
	u := strings.ToLower(rawURL)
	var bonus float64
	for _, r := range boostRules[style] {
		if r.matches(u) {
			bonus += r.Bonus
		}
	}
	return bonus
}
