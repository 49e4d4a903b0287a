package chunker

import (
	"strings"
	"unicode"
)

// EstimateTokens approximates a token count: about 1.33 tokens per
// space-delimited word, plus one per ideograph or kana since CJK text has no
// spaces to count.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	var cjk int
	var words int
	inWord := false
	for _, r := range text {
		switch {
		case isCJK(r):
			cjk++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}
	tokens := cjk + int(float64(words)*1.33)
	if tokens < 1 && strings.TrimSpace(text) != "" {
		tokens = 1
	}
	return tokens
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
