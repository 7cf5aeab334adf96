package services

import (
	"sort"

	"github.com/alexpolo1/newolddkprice/models"
)

// FilterByRange keeps listings whose price lies within [minPrice, maxPrice]. An absent
// bound is unbounded. Once either bound is present, listings without a price
// are dropped. The input slice is not modified.
func FilterByRange(listings []models.Listing, minPrice, maxPrice models.Price) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	if !minPrice.Valid && !maxPrice.Valid {
		return append(out, listings...)
	}

	for _, l := range listings {
		p := l.PriceValue
		if !p.Valid {
			continue
		}
		if minPrice.Valid && p.Amount < minPrice.Amount {
			continue
		}
		if maxPrice.Valid && p.Amount > maxPrice.Amount {
			continue
		}
		out = append(out, l)
	}
	return out
}

// SortByPrice returns a copy of listings sorted ascending by price. Listings
// without a price go last; equal prices keep their original order.
func SortByPrice(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, len(listings))
	copy(out, listings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PriceValue.Less(out[j].PriceValue)
	})
	return out
}

// PairRows lines up left and right by index into n rows. Rows past the end
// of either list have a nil side.
func PairRows(left, right []models.Listing, n int) []models.RowPair {
	if n <= 0 {
		return nil
	}
	rows := make([]models.RowPair, n)
	for i := 0; i < n; i++ {
		if i < len(left) {
			l := left[i]
			rows[i].Left = &l
		}
		if i < len(right) {
			r := right[i]
			rows[i].Right = &r
		}
	}
	return rows
}
