package services

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/alexpolo1/newolddkprice/models"
	"github.com/alexpolo1/newolddkprice/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes price statistics over the listings that have a price.
func (s *InsightService) Generate(site models.Site, listings []models.Listing) models.PriceSummary {
	summary := models.PriceSummary{Site: site, Listings: len(listings)}

	var total float64
	for i := range listings {
		l := listings[i]
		if !l.PriceValue.Valid {
			continue
		}
		p := l.PriceValue.Amount
		if summary.PricedCount == 0 || p < summary.MinPrice {
			summary.MinPrice = p
			summary.Cheapest = &l
		}
		if summary.PricedCount == 0 || p > summary.MaxPrice {
			summary.MaxPrice = p
		}
		total += p
		summary.PricedCount++
	}

	if summary.PricedCount > 0 {
		summary.AveragePrice = round2(total / float64(summary.PricedCount))
		summary.MinPrice = round2(summary.MinPrice)
		summary.MaxPrice = round2(summary.MaxPrice)
	}

	s.logger.Debug("[insights] %s: %d listings, %d priced", site, summary.Listings, summary.PricedCount)
	return summary
}

// Print writes one block per summary.
func (s *InsightService) Print(w io.Writer, summaries ...models.PriceSummary) {
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\nPrice summary\n%s\n", thin)
	for _, r := range summaries {
		fmt.Fprintf(w, "  %-12s listings: %d | priced: %d\n", r.Site.Label(), r.Listings, r.PricedCount)
		if r.PricedCount == 0 {
			fmt.Fprintf(w, "  %-12s no price data available\n", "")
			continue
		}
		fmt.Fprintf(w, "  %-12s min: %s | avg: %s | max: %s\n", "",
			formatKr(r.MinPrice), formatKr(r.AveragePrice), formatKr(r.MaxPrice))
		if r.Cheapest != nil {
			fmt.Fprintf(w, "  %-12s cheapest: %s (%s)\n", "", shorten(r.Cheapest.Title, 40), r.Cheapest.Price)
		}
	}
	fmt.Fprintln(w)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func formatKr(f float64) string {
	return fmt.Sprintf("%.2f kr.", f)
}
