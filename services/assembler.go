package services

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/alexpolo1/newolddkprice/models"
	"github.com/alexpolo1/newolddkprice/utils"
)

// Assembler turns the raw strings picked out by a site adapter into
// Listings with normalized prices and absolute URLs.
type Assembler struct {
	logger  *utils.Logger
	baseURL *url.URL
}

// NewAssembler creates an Assembler that resolves relative links against
// baseURL. An unparsable baseURL leaves links as they are.
func NewAssembler(baseURL string, logger *utils.Logger) *Assembler {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" {
		base = nil
	}
	return &Assembler{logger: logger, baseURL: base}
}

// Assemble converts raw listings one by one. A listing whose price cannot be
// parsed is kept with an absent PriceValue.
func (a *Assembler) Assemble(raw []models.RawListing) []models.Listing {
	result := make([]models.Listing, 0, len(raw))
	unpriced := 0

	for _, r := range raw {
		l := a.AssembleOne(r)
		if !l.PriceValue.Valid {
			unpriced++
			a.logger.Debug("[assembler] No parseable price for %q (raw %q)", l.Title, r.RawPrice)
		}
		result = append(result, l)
	}

	a.logger.Debug("[assembler] Assembled %d listings (%d without price)", len(result), unpriced)
	return result
}

// AssembleOne builds a single Listing from its raw strings.
func (a *Assembler) AssembleOne(r models.RawListing) models.Listing {
	display := strings.TrimSpace(r.RawPrice)

	price := models.NoPrice()
	if v, ok := NormalizePrice(display); ok {
		price = models.SomePrice(v)
	}

	return models.Listing{
		Site:       r.Site,
		Title:      normaliseText(r.Title),
		Price:      display,
		PriceValue: price,
		URL:        a.resolve(r.Href),
		Location:   normaliseText(r.Location),
	}
}

func (a *Assembler) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if a.baseURL == nil {
		return ref.String()
	}
	return a.baseURL.ResolveReference(ref).String()
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
