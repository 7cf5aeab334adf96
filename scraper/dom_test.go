package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing html: %v", err)
	}
	return doc
}

func TestJoinedText(t *testing.T) {
	tests := []struct {
		html string
		want string
	}{
		{`<div>3.500<!-- --> kr.</div>`, "3.500 kr."},
		{`<div><span>1 250</span> <span>kr.</span></div>`, "1 250 kr."},
		{`<div><b>Pris</b><script>var x = 1;</script><style>.a{}</style><i>99</i></div>`, "Pris 99"},
		{`<div>   </div>`, ""},
	}
	for _, tt := range tests {
		doc := mustDoc(t, tt.html)
		if got := JoinedText(doc.Find("div").First()); got != tt.want {
			t.Errorf("JoinedText(%q) = %q; want %q", tt.html, got, tt.want)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	doc := mustDoc(t, `<ul><li class="b">1</li><li class="b">2</li><li class="c">3</li></ul>`)

	if got := FirstNonEmpty(doc.Selection, ".a", ".b", ".c").Length(); got != 2 {
		t.Errorf("FirstNonEmpty length = %d; want 2", got)
	}
	if got := FirstNonEmpty(doc.Selection, ".x", ".y").Length(); got != 0 {
		t.Errorf("FirstNonEmpty with no match length = %d; want 0", got)
	}
	if got := Text(FirstMatch(doc.Selection, ".a", ".b")); got != "1" {
		t.Errorf("FirstMatch text = %q; want %q", got, "1")
	}
}

func TestLooksLikePlace(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Aarhus C", true},
		{"København Ø", true},
		{"", false},
		{"8000 Aarhus C", false},
		{"2 dage", false},
		{strings.Repeat("a", 59), true},
		{strings.Repeat("a", 60), false},
	}
	for _, tt := range tests {
		if got := LooksLikePlace(tt.in); got != tt.want {
			t.Errorf("LooksLikePlace(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
