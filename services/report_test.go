package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexpolo1/newolddkprice/models"
)

func comparisonRows() []models.RowPair {
	left := []models.Listing{
		{Site: models.SiteDBA, Title: "iPhone 13 128GB", Price: "3.500 kr.", PriceValue: models.SomePrice(3500), URL: "https://www.dba.dk/a/1", Location: "Aarhus C"},
		{Site: models.SiteDBA, Title: "iPhone 13 mini", Price: "2.900 kr.", PriceValue: models.SomePrice(2900)},
	}
	right := []models.Listing{
		{Site: models.SitePriceRunner, Title: "Apple iPhone 13 128GB", Price: "4289.00 DKK", PriceValue: models.SomePrice(4289), URL: "https://www.pricerunner.dk/pl/1"},
	}
	return PairRows(left, right, 3)
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	NewReport(&buf).PrintTable(comparisonRows())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// title, header, rule, 3 rows
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "#   | DBA title") {
		t.Errorf("header: got %q", lines[1])
	}
	if !strings.Contains(lines[3], "iPhone 13 128GB") || !strings.Contains(lines[3], "4289.00 DKK") {
		t.Errorf("row 1: got %q", lines[3])
	}
	if strings.Contains(lines[4], "DKK") {
		t.Errorf("row 2 should have an empty right side: %q", lines[4])
	}
	if !strings.HasPrefix(lines[5], "3  ") {
		t.Errorf("row 3: got %q", lines[5])
	}
}

func TestPrintMarkdown(t *testing.T) {
	var buf bytes.Buffer
	NewReport(&buf).PrintMarkdown(comparisonRows())

	out := buf.String()
	wants := []string{
		"| DBA | PriceRunner |",
		"| [iPhone 13 128GB](https://www.dba.dk/a/1)<br>3.500 kr.<br>Aarhus C | [Apple iPhone 13 128GB](https://www.pricerunner.dk/pl/1)<br>4289.00 DKK |",
		"| iPhone 13 mini<br>2.900 kr. |  |",
		"|  |  |",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestPrintGrid(t *testing.T) {
	var buf bytes.Buffer
	NewReport(&buf).PrintGrid(comparisonRows())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	border := lines[0]
	if !strings.HasPrefix(border, "+-") || !strings.HasSuffix(border, "-+") {
		t.Fatalf("unexpected border %q", border)
	}
	for _, line := range lines {
		if len([]rune(line)) != len([]rune(border)) {
			t.Errorf("line width %d differs from border width %d: %q", len([]rune(line)), len([]rune(border)), line)
		}
	}
	if !strings.Contains(buf.String(), "| iPhone 13 128GB ") {
		t.Errorf("grid missing left title:\n%s", buf.String())
	}
}

func TestPrintTopAndSorted(t *testing.T) {
	listings := []models.Listing{
		{Title: "dyr", Price: "900 kr.", PriceValue: models.SomePrice(900)},
		{Title: "uden pris"},
		{Title: "billig", Price: "100 kr.", PriceValue: models.SomePrice(100)},
	}

	var buf bytes.Buffer
	r := NewReport(&buf)
	r.PrintTop(listings, 2)
	out := buf.String()
	if !strings.Contains(out, "Top 2 DBA results") || !strings.Contains(out, "- dyr") || strings.Contains(out, "billig") {
		t.Errorf("PrintTop output unexpected:\n%s", out)
	}

	buf.Reset()
	r.PrintSorted(listings, 10)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "DBA — top 3 by price:" {
		t.Errorf("header: got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "- billig") || !strings.HasPrefix(lines[3], "- uden pris") {
		t.Errorf("sorted order unexpected:\n%s", buf.String())
	}
}

func TestWrapWords(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  []string
	}{
		{"a bb ccc", 4, []string{"a bb", "ccc"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"  spaced   out  ", 20, []string{"spaced out"}},
		{"æøå æøå", 3, []string{"æøå", "æøå"}},
		{"", 5, nil},
	}
	for _, tt := range tests {
		got := wrapWords(tt.in, tt.width)
		if !equalStrings(got, tt.want) {
			t.Errorf("wrapWords(%q, %d) = %q; want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestShorten(t *testing.T) {
	if got := shorten("kort  titel", 60); got != "kort titel" {
		t.Errorf("shorten short: got %q", got)
	}
	long := strings.Repeat("ø", 70)
	got := shorten(long, 60)
	if len([]rune(got)) != 60 || !strings.HasSuffix(got, "...") {
		t.Errorf("shorten long: got %q (%d runes)", got, len([]rune(got)))
	}
}
