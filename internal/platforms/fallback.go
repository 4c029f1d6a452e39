package platforms

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FallbackAnchorTitles extracts anchor titles as a degraded content
// stream when no SSR state blob is present: goquery tries each selector
// in turn, then every <a> element if none matched; if goquery cannot
// parse the page, an x/net/html tokenizer collects anchor text instead.
func FallbackAnchorTitles(rawHTML string, selectors []string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return decodeEntitiesFallback(rawHTML)
	}

	var titles []string
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				titles = append(titles, t)
			}
		})
		if len(titles) > 0 {
			return titles
		}
	}

	if len(titles) == 0 {
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				titles = append(titles, t)
			}
		})
	}

	return titles
}

// decodeEntitiesFallback is the lowest-level fallback: tokenize raw
// HTML with golang.org/x/net/html directly (distinct from goquery's
// selector-based parse) and collect text nodes inside anchor tags,
// used when goquery itself cannot parse the document at all.
func decodeEntitiesFallback(rawHTML string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))

	var titles []string
	inAnchor := false
	var current strings.Builder

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return titles
		case html.StartTagToken:
			if tok := tokenizer.Token(); tok.Data == "a" {
				inAnchor = true
				current.Reset()
			}
		case html.EndTagToken:
			if tok := tokenizer.Token(); tok.Data == "a" && inAnchor {
				inAnchor = false
				if t := strings.TrimSpace(current.String()); t != "" {
					titles = append(titles, t)
				}
			}
		case html.TextToken:
			if inAnchor {
				current.WriteString(tokenizer.Token().Data)
			}
		}
	}
}
