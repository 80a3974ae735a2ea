// Package analytics extracts lightweight aggregate views (keyword
// frequencies) from stored comment text.
package analytics

import (
	"sort"
	"strings"
	"unicode"
)

// Keyword is one extracted term with its occurrence count.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// stopwords are dropped before counting. Mixed Chinese/English because the
// exports carry both.
var stopwords = map[string]struct{}{
	"的": {}, "了": {}, "是": {}, "我": {}, "你": {}, "他": {}, "她": {},
	"这个": {}, "那个": {}, "我们": {}, "你们": {}, "他们": {}, "什么": {},
	"一个": {}, "没有": {}, "就是": {}, "不是": {}, "还是": {}, "但是": {},
	"因为": {}, "所以": {}, "可以": {}, "自己": {}, "现在": {}, "真的": {},
	"不": {}, "在": {}, "有": {}, "和": {}, "都": {}, "也": {}, "很": {},
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"and": {}, "or": {}, "but": {}, "of": {}, "to": {}, "in": {}, "on": {},
	"it": {}, "this": {}, "that": {}, "for": {}, "with": {}, "not": {},
	"be": {}, "at": {}, "by": {}, "so": {}, "as": {}, "if": {},
}

const (
	minCJKLen   = 2
	maxCJKLen   = 6
	minLatinLen = 2
)

// TopKeywords tokenizes the texts and returns the n most frequent terms,
// count-descending with ties broken alphabetically. CJK text is segmented
// into overlapping 2-6 rune runs; latin/digit runs of at least 2 characters
// count whole.
func TopKeywords(texts []string, n int) []Keyword {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, token := range tokenize(text) {
			if _, skip := stopwords[token]; skip {
				continue
			}
			counts[token]++
		}
	}

	keywords := make([]Keyword, 0, len(counts))
	for word, count := range counts {
		keywords = append(keywords, Keyword{Word: word, Count: count})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Word < keywords[j].Word
	})

	if n > 0 && len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

// tokenize splits text into latin/digit words and CJK n-gram runs.
func tokenize(text string) []string {
	var tokens []string
	runes := []rune(strings.ToLower(text))

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.Is(unicode.Han, r):
			j := i
			for j < len(runes) && unicode.Is(unicode.Han, runes[j]) {
				j++
			}
			tokens = append(tokens, cjkGrams(runes[i:j])...)
			i = j
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j])) && !unicode.Is(unicode.Han, runes[j]) {
				j++
			}
			if j-i >= minLatinLen {
				tokens = append(tokens, string(runes[i:j]))
			}
			i = j
		default:
			i++
		}
	}
	return tokens
}

// cjkGrams emits every substring of 2-6 runes from a contiguous CJK run.
func cjkGrams(run []rune) []string {
	var grams []string
	for size := minCJKLen; size <= maxCJKLen; size++ {
		for start := 0; start+size <= len(run); start++ {
			grams = append(grams, string(run[start:start+size]))
		}
	}
	return grams
}
