// Package pricerunner scrapes pricerunner.dk search results, reading the
// product JSON embedded in the page and falling back to product cards.
package pricerunner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alexpolo1/newolddkprice/config"
	"github.com/alexpolo1/newolddkprice/models"
	"github.com/alexpolo1/newolddkprice/scraper"
	"github.com/alexpolo1/newolddkprice/services"
	"github.com/alexpolo1/newolddkprice/utils"
)

const (
	site        = models.SitePriceRunner
	productsKey = "products"
)

var (
	cardSelectors  = []string{".product", ".product-item", ".search-result"}
	titleSelectors = []string{".product-title", "h3", ".title"}
	priceSelectors = []string{".price", ".product-price"}
)

// product is the subset of an embedded search result we read.
type product struct {
	Name        json.RawMessage `json:"name"`
	URL         json.RawMessage `json:"url"`
	LowestPrice json.RawMessage `json:"lowestPrice"`
}

type lowestPrice struct {
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
}

// Scraper fetches and parses PriceRunner search pages.
type Scraper struct {
	cfg       *config.Config
	logger    *utils.Logger
	source    scraper.Source
	assembler *services.Assembler
}

// New creates a PriceRunner Scraper reading pages from source.
func New(cfg *config.Config, logger *utils.Logger, source scraper.Source) *Scraper {
	return &Scraper{
		cfg:       cfg,
		logger:    logger,
		source:    source,
		assembler: services.NewAssembler(cfg.PriceRunnerBaseURL, logger),
	}
}

// SearchURL returns the results page address for query.
func (s *Scraper) SearchURL(query string) string {
	return s.cfg.PriceRunnerBaseURL + "/results?q=" + url.QueryEscape(query)
}

// Search fetches the results page for query and returns up to limit listings.
func (s *Scraper) Search(ctx context.Context, query string, limit int) ([]models.Listing, error) {
	pageURL := s.SearchURL(query)
	s.logger.Info("[pricerunner] Searching %q — %s", query, pageURL)

	body, err := s.source.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("pricerunner search: %w", err)
	}

	raw, err := s.parse(body, limit)
	if err != nil {
		return nil, fmt.Errorf("pricerunner parse: %w", err)
	}

	listings := s.assembler.Assemble(raw)
	s.logger.Info("[pricerunner] Found %d products", len(listings))
	return listings, nil
}

func (s *Scraper) parse(body string, limit int) ([]models.RawListing, error) {
	arr, ok := services.ExtractJSONArray(body, productsKey)
	if !ok {
		s.logger.Debug("[pricerunner] No embedded %q array, falling back to product cards", productsKey)
		return ParseCards(body, limit)
	}

	raw, err := ParseProducts(arr, limit)
	if err != nil {
		s.logger.Warn("[pricerunner] Embedded product data unreadable: %v", err)
		return nil, nil
	}
	return raw, nil
}

// ParseProducts decodes an embedded products array. Elements that are not
// objects are skipped; a name or url of another JSON type is kept as text.
func ParseProducts(arr string, limit int) ([]models.RawListing, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(arr), &elems); err != nil {
		return nil, err
	}

	var raw []models.RawListing
	for _, elem := range elems {
		if len(raw) >= limit {
			break
		}
		var p product
		if err := json.Unmarshal(elem, &p); err != nil {
			continue
		}
		raw = append(raw, models.RawListing{
			Site:     site,
			Title:    scalarText(p.Name),
			RawPrice: displayPrice(p.LowestPrice),
			Href:     scalarText(p.URL),
		})
	}
	return raw, nil
}

// scalarText reads a JSON string as its value and any other non-null value
// as its literal text.
func scalarText(data json.RawMessage) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ""
	}
	if data[0] == '"' {
		var s string
		if json.Unmarshal(data, &s) == nil {
			return s
		}
		return ""
	}
	return string(data)
}

// displayPrice renders lowestPrice as "<amount> <currency>". A missing,
// empty or zero amount gives "".
func displayPrice(data json.RawMessage) string {
	var lp lowestPrice
	if len(data) == 0 || json.Unmarshal(data, &lp) != nil {
		return ""
	}

	amount := amountText(lp.Amount)
	if amount == "" {
		return ""
	}
	return strings.TrimSpace(amount + " " + lp.Currency)
}

func amountText(data json.RawMessage) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ""
	}

	if data[0] == '"' {
		var s string
		if json.Unmarshal(data, &s) != nil {
			return ""
		}
		return s
	}

	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil || n == 0 {
		return ""
	}
	return string(data)
}

// ParseCards reads product cards from the page markup.
func ParseCards(body string, limit int) ([]models.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var raw []models.RawListing
	doc.Find(strings.Join(cardSelectors, ", ")).EachWithBreak(func(i int, el *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		r := models.RawListing{Site: site}
		r.Title = scraper.Text(el.Find(strings.Join(titleSelectors, ", ")).First())
		r.RawPrice = scraper.JoinedText(el.Find(strings.Join(priceSelectors, ", ")).First())
		r.Href, _ = el.Find("a[href]").First().Attr("href")
		raw = append(raw, r)
		return true
	})
	return raw, nil
}
