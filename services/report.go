package services

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/alexpolo1/newolddkprice/models"
)

const (
	gridLeftMax  = 60
	gridRightMax = 80
	gridURLMax   = 80
)

// Report renders listings and comparisons as plain text.
type Report struct {
	w     io.Writer
	left  models.Site
	right models.Site
}

// NewReport creates a Report comparing left (DBA) against right (PriceRunner).
func NewReport(w io.Writer) *Report {
	return &Report{w: w, left: models.SiteDBA, right: models.SitePriceRunner}
}

// PrintTop lists the first n listings with price, location and URL.
func (r *Report) PrintTop(listings []models.Listing, n int) {
	fmt.Fprintf(r.w, "Top %d %s results (title — price — location):\n\n", n, r.left.Label())
	for i, l := range listings {
		if i >= n {
			break
		}
		fmt.Fprintf(r.w, "- %s\n", l.Title)
		fmt.Fprintf(r.w, "  price: %s\n  location: %s\n  url: %s\n\n", l.Price, l.Location, l.URL)
	}
}

// PrintSorted prints up to n listings, cheapest first, one per line.
func (r *Report) PrintSorted(listings []models.Listing, n int) {
	sorted := SortByPrice(listings)
	if n > len(sorted) {
		n = len(sorted)
	}
	fmt.Fprintf(r.w, "%s — top %d by price:\n", r.left.Label(), n)
	for _, l := range sorted[:n] {
		fmt.Fprintf(r.w, "- %s — %s — %s — %s\n", l.Title, l.Price, l.Location, l.URL)
	}
}

// PrintTable prints a fixed-width comparison table.
func (r *Report) PrintTable(rows []models.RowPair) {
	widths := []int{3, 50, 12, 12, 50, 12}
	header := []string{
		"#",
		r.left.Label() + " title",
		r.left.Label() + " price",
		r.left.Label() + " loc",
		r.right.Label() + " title",
		"PR price",
	}
	const sep = " | "

	format := func(cells []string) string {
		padded := make([]string, len(cells))
		for i, c := range cells {
			padded[i] = padRight(c, widths[i])
		}
		return strings.Join(padded, sep)
	}

	total := 0
	for _, w := range widths {
		total += w
	}

	fmt.Fprintf(r.w, "\nComparison table (%s vs %s):\n", r.left.Label(), r.right.Label())
	fmt.Fprintln(r.w, format(header))
	fmt.Fprintln(r.w, strings.Repeat("-", total+len(sep)*(len(widths)-1)))
	for i, row := range rows {
		cells := []string{fmt.Sprint(i + 1), "", "", "", "", ""}
		if l := row.Left; l != nil {
			cells[1], cells[2], cells[3] = shorten(l.Title, 60), l.Price, l.Location
		}
		if rt := row.Right; rt != nil {
			cells[4], cells[5] = shorten(rt.Title, 60), rt.Price
		}
		fmt.Fprintln(r.w, format(cells))
	}
	fmt.Fprintln(r.w)
}

// PrintMarkdown prints a two-column markdown table with linked titles.
func (r *Report) PrintMarkdown(rows []models.RowPair) {
	fmt.Fprintf(r.w, "| %s | %s |\n", r.left.Label(), r.right.Label())
	fmt.Fprintln(r.w, "|-----|------------|")
	for _, row := range rows {
		fmt.Fprintf(r.w, "| %s | %s |\n", markdownCell(row.Left), markdownCell(row.Right))
	}
	fmt.Fprintln(r.w)
}

func markdownCell(l *models.Listing) string {
	if l == nil {
		return ""
	}
	title := shorten(l.Title, 80)
	if l.URL != "" {
		title = fmt.Sprintf("[%s](%s)", title, l.URL)
	}

	var parts []string
	for _, p := range []string{title, l.Price, l.Location} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "<br>")
}

// PrintGrid prints a two-column ASCII grid with word-wrapped cells.
func (r *Report) PrintGrid(rows []models.RowPair) {
	leftCol := make([][]string, len(rows))
	rightCol := make([][]string, len(rows))
	for i, row := range rows {
		leftCol[i] = wrapBlock(gridCellLines(row.Left), gridLeftMax)
		rightCol[i] = wrapBlock(gridCellLines(row.Right), gridRightMax)
	}

	leftW := columnWidth(leftCol, gridLeftMax)
	rightW := columnWidth(rightCol, gridRightMax)
	hor := "+" + strings.Repeat("-", leftW+2) + "+" + strings.Repeat("-", rightW+2) + "+"

	for i := range rows {
		lblock, rblock := leftCol[i], rightCol[i]
		lines := len(lblock)
		if len(rblock) > lines {
			lines = len(rblock)
		}
		fmt.Fprintln(r.w, hor)
		for j := 0; j < lines; j++ {
			var lline, rline string
			if j < len(lblock) {
				lline = lblock[j]
			}
			if j < len(rblock) {
				rline = rblock[j]
			}
			fmt.Fprintf(r.w, "| %s | %s |\n", padRight(lline, leftW), padRight(rline, rightW))
		}
	}
	fmt.Fprintln(r.w, hor)
	fmt.Fprintln(r.w)
}

func gridCellLines(l *models.Listing) []string {
	if l == nil {
		return []string{""}
	}
	lines := []string{l.Title, l.Price}
	if l.Location != "" {
		lines = append(lines, l.Location)
	}
	if u := l.URL; u != "" {
		if utf8.RuneCountInString(u) > gridURLMax {
			u = string([]rune(u)[:gridURLMax-3]) + "..."
		}
		lines = append(lines, u)
	}
	return lines
}

// columnWidth is the widest wrapped line, capped at limit. With no lines at
// all it falls back to 10.
func columnWidth(blocks [][]string, limit int) int {
	width, seen := 0, false
	for _, block := range blocks {
		for _, line := range block {
			seen = true
			if n := utf8.RuneCountInString(line); n > width {
				width = n
			}
		}
	}
	if !seen {
		width = 10
	}
	if width > limit {
		width = limit
	}
	return width
}

func wrapBlock(block []string, width int) []string {
	var out []string
	for _, line := range block {
		if line == "" {
			out = append(out, "")
			continue
		}
		wrapped := wrapWords(line, width)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		out = append(out, wrapped...)
	}
	return out
}

// wrapWords greedily packs whitespace-separated words into lines of at most
// width runes, splitting words that are longer than a whole line.
func wrapWords(s string, width int) []string {
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > 0 {
			sep := 0
			if len(cur) > 0 {
				sep = 1
			}
			if len(cur)+sep+len(w) <= width {
				if sep == 1 {
					cur = append(cur, ' ')
				}
				cur = append(cur, w...)
				w = nil
				continue
			}
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
				continue
			}
			cur = append(cur, w[:width]...)
			w = w[width:]
			lines = append(lines, string(cur))
			cur = nil
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// shorten collapses whitespace and cuts s to n runes with a trailing "...".
func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
