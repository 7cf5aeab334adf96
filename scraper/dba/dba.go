// Package dba scrapes dba.dk classified-ad search results.
package dba

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alexpolo1/newolddkprice/config"
	"github.com/alexpolo1/newolddkprice/models"
	"github.com/alexpolo1/newolddkprice/scraper"
	"github.com/alexpolo1/newolddkprice/services"
	"github.com/alexpolo1/newolddkprice/utils"
)

const site = models.SiteDBA

var (
	// candidate listing containers, first selector with matches wins
	resultSelectors = []string{"article", ".cAdList__item", ".dba-result"}
	linkSelectors   = []string{"h2 a", "a.sf-search-ad-link", "a"}
	locationBlocks  = []string{".text-xs.s-text-subtle", ".cAdList__location"}
	locationClasses = []string{"cAdList__location", "ad-location", "dba-location", "location", "by", "region"}
)

// Scraper fetches and parses DBA search pages.
type Scraper struct {
	cfg       *config.Config
	logger    *utils.Logger
	sources   map[config.Engine]scraper.Source
	assembler *services.Assembler
}

// New creates a DBA Scraper. fetcher serves the requests engine and renderer
// the browser engine.
func New(cfg *config.Config, logger *utils.Logger, fetcher, renderer scraper.Source) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		sources: map[config.Engine]scraper.Source{
			config.EngineRequests: fetcher,
			config.EngineBrowser:  renderer,
		},
		assembler: services.NewAssembler(cfg.DBABaseURL, logger),
	}
}

// SearchURL returns the search page address for the given engine. The
// rendered site still answers on the legacy search path.
func (s *Scraper) SearchURL(query string, engine config.Engine) string {
	q := url.QueryEscape(query)
	if engine == config.EngineBrowser {
		return s.cfg.DBABaseURL + "/soeg/?soegeord=" + q
	}
	return s.cfg.DBABaseURL + "/recommerce/forsale/search?q=" + q
}

// Search fetches the search page for query and returns up to limit listings.
func (s *Scraper) Search(ctx context.Context, query string, engine config.Engine, limit int) ([]models.Listing, error) {
	src, ok := s.sources[engine]
	if !ok || src == nil {
		return nil, fmt.Errorf("dba: no page source for engine %q", engine)
	}

	pageURL := s.SearchURL(query, engine)
	s.logger.Info("[dba] Searching %q via %s — %s", query, engine, pageURL)

	body, err := src.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("dba search: %w", err)
	}

	raw, err := ParseSearchPage(body, limit)
	if err != nil {
		return nil, fmt.Errorf("dba parse: %w", err)
	}

	listings := s.assembler.Assemble(raw)
	s.logger.Info("[dba] Found %d listings", len(listings))
	return listings, nil
}

// ParseSearchPage extracts up to limit raw listings from a DBA search page.
func ParseSearchPage(body string, limit int) ([]models.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var raw []models.RawListing
	scraper.FirstNonEmpty(doc.Selection, resultSelectors...).EachWithBreak(func(i int, el *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		raw = append(raw, parseListing(el))
		return true
	})
	return raw, nil
}

func parseListing(el *goquery.Selection) models.RawListing {
	r := models.RawListing{Site: site}

	if a := scraper.FirstMatch(el, linkSelectors...); a.Length() > 0 {
		r.Title = scraper.Text(a)
		r.Href, _ = a.Attr("href")
	}

	el.Find("span, div, p").EachWithBreak(func(_ int, tag *goquery.Selection) bool {
		txt := scraper.JoinedText(tag)
		if txt == "" {
			return true
		}
		if p := services.ExtractPriceString(txt); p != "" {
			r.RawPrice = p
			return false
		}
		return true
	})

	r.Location = findLocation(el)
	return r
}

// findLocation tries the known location blocks first, then class-name
// guesses, then any short digit-free text.
func findLocation(el *goquery.Selection) string {
	if block := scraper.FirstMatch(el, locationBlocks...); block.Length() > 0 {
		if loc := scraper.Text(block.Find("span").First()); loc != "" {
			return loc
		}
	}

	for _, cls := range locationClasses {
		if loc := scraper.Text(el.Find("." + cls).First()); loc != "" {
			return loc
		}
	}

	var loc string
	el.Find("small, span, p").EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if txt := scraper.Text(node); scraper.LooksLikePlace(txt) {
			loc = txt
			return false
		}
		return true
	})
	return loc
}
