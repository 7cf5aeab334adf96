package scraper

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FirstNonEmpty returns the matches of the first selector that matches
// anything under sel, or an empty selection.
func FirstNonEmpty(sel *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, s := range selectors {
		if found := sel.Find(s); found.Length() > 0 {
			return found
		}
	}
	return sel.Slice(0, 0)
}

// FirstMatch is FirstNonEmpty narrowed to its first element.
func FirstMatch(sel *goquery.Selection, selectors ...string) *goquery.Selection {
	return FirstNonEmpty(sel, selectors...).First()
}

// Text returns the trimmed text content of sel.
func Text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// JoinedText returns every text fragment under sel, trimmed and joined with
// single spaces, so "<b>1.234</b><i>kr.</i>" reads "1.234 kr.". Script and
// style contents are skipped.
func JoinedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// LooksLikePlace reports whether text could be a town or region name:
// non-empty, no digits and shorter than 60 characters.
func LooksLikePlace(text string) bool {
	if text == "" || utf8.RuneCountInString(text) >= 60 {
		return false
	}
	return strings.IndexFunc(text, unicode.IsDigit) == -1
}
