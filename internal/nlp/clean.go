// Package nlp implements Chinese-aware text cleaning, segmentation, and
// keyword extraction: clean/tokenize, TF-IDF + TextRank fusion, entity
// recognition, and PMI-based new-word discovery, per spec §4.4.
package nlp

import (
	"regexp"
	"strings"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	urlRe        = regexp.MustCompile(`https?://\S+`)
	mentionRe    = regexp.MustCompile(`@[\w\p{Han}]+`)
	htmlEntityRe = regexp.MustCompile(`&[a-zA-Z#0-9]+;`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// allowedPunctuation is the short whitelist of Chinese (and basic ASCII)
// punctuation Clean keeps alongside CJK ideographs, Latin letters and
// digits; every other rune becomes a space.
var allowedPunctuation = map[rune]bool{
	'，': true, '。': true, '！': true, '？': true, '、': true,
	'：': true, '“': true, '”': true, '（': true, '）': true,
	',': true, '.': true, '!': true, '?': true, '-': true,
}

// Clean strips HTML tags, URLs, @mentions and HTML entities, retains
// CJK ideographs/Latin/digits/a punctuation whitelist, and collapses
// whitespace.
func Clean(text string) string {
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = urlRe.ReplaceAllString(text, " ")
	text = mentionRe.ReplaceAllString(text, " ")
	text = htmlEntityRe.ReplaceAllString(text, " ")

	var b strings.Builder
	for _, r := range text {
		switch {
		case isHan(r), isLatinOrDigit(r), allowedPunctuation[r]:
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(b.String(), " "))
}

func isHan(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

func isLatinOrDigit(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
